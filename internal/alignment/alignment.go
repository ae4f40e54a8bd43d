// Package alignment re-expresses a trait profile in terms of a smaller
// external framework.
package alignment

import (
	"math"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/weights"
)

// Alignment is one external category with its blended percentage.
type Alignment struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Pct   int    `json:"pct"`
}

// Map computes, for every target in table order, the weighted mean of its
// source traits' percentages. Sources absent from the profile do not
// contribute; a target with no contributing weight scores 0.
func Map(profile ipsative.Profile, table catalog.AlignmentTable) []Alignment {
	value := func(id string) (float64, bool) {
		e, ok := profile.Lookup(id)
		if !ok {
			return 0, false
		}
		return float64(e.Pct), true
	}

	out := make([]Alignment, 0, len(table))
	for _, target := range table {
		out = append(out, Alignment{
			ID:    target.ID,
			Label: target.Label,
			Pct:   int(math.Round(weights.Mean(target.Sources, value))),
		})
	}
	return out
}
