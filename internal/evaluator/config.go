package evaluator

import (
	"fmt"
	"math"
)

// Config holds the tolerance bands applied when a question does not declare
// its own.
type Config struct {
	// PctTolerance is the allowed deviation per proportion-chart segment.
	PctTolerance float64

	// PointTolerance is the allowed deviation per point-graph value.
	PointTolerance float64
}

// DefaultConfig returns the standard bands.
func DefaultConfig() Config {
	return Config{
		PctTolerance:   2,
		PointTolerance: 1,
	}
}

// Validate rejects negative or non-finite bands.
func (c Config) Validate() error {
	if !band(c.PctTolerance) {
		return fmt.Errorf("pct tolerance must be a non-negative number, got %v", c.PctTolerance)
	}
	if !band(c.PointTolerance) {
		return fmt.Errorf("point tolerance must be a non-negative number, got %v", c.PointTolerance)
	}
	return nil
}

func band(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
