package engine

import (
	"fmt"
	"os"
	"strconv"

	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/rolling"
)

// Config holds engine settings.
type Config struct {
	Evaluator evaluator.Config
	Rolling   rolling.Options

	// ContradictionSten overrides the policy's threshold when positive.
	ContradictionSten int

	// PolicyPath names a JSON policy file replacing the built-in catalogs
	// and tables. Empty uses catalog.DefaultPolicy.
	PolicyPath string

	// Workers bounds ScoreBatch concurrency.
	Workers int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		Evaluator: evaluator.DefaultConfig(),
		Rolling:   rolling.DefaultOptions(),
		Workers:   4,
	}
}

// ConfigFromEnv builds a Config from SCOREKIT_* variables, falling back to
// defaults for unset values.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SCOREKIT_ASSESSMENT_KIND"); v != "" {
		cfg.Rolling.Kind = v
	}
	if err := envInt("SCOREKIT_MAX_ATTEMPTS", &cfg.Rolling.MaxAttempts); err != nil {
		return Config{}, err
	}
	if err := envFloat("SCOREKIT_PIE_TOLERANCE", &cfg.Evaluator.PctTolerance); err != nil {
		return Config{}, err
	}
	if err := envFloat("SCOREKIT_POINT_TOLERANCE", &cfg.Evaluator.PointTolerance); err != nil {
		return Config{}, err
	}
	if err := envInt("SCOREKIT_CONTRADICTION_STEN", &cfg.ContradictionSten); err != nil {
		return Config{}, err
	}
	if err := envInt("SCOREKIT_WORKERS", &cfg.Workers); err != nil {
		return Config{}, err
	}
	cfg.PolicyPath = os.Getenv("SCOREKIT_POLICY")

	return cfg, cfg.Validate()
}

// Validate checks ranges.
func (c Config) Validate() error {
	if err := c.Evaluator.Validate(); err != nil {
		return err
	}
	if c.Rolling.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.Rolling.MaxAttempts)
	}
	if c.ContradictionSten < 0 || c.ContradictionSten > 10 {
		return fmt.Errorf("contradiction sten must be between 1 and 10, got %d", c.ContradictionSten)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func envFloat(name string, dst *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}
