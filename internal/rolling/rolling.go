// Package rolling blends unit-scored competency breakdowns across the most
// recent attempts of one assessment kind.
package rolling

import (
	"sort"
	"time"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/units"
)

// DefaultKind is the assessment kind aggregated when none is given.
const DefaultKind = "nlng_sjq"

// DefaultMaxAttempts bounds the history window.
const DefaultMaxAttempts = 10

// Attempt is one submitted assessment. Attempts are never mutated.
type Attempt struct {
	ID        string         `json:"id"`
	Kind      string         `json:"assessment_kind"`
	Answers   map[string]any `json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
}

// Options selects the history window. The zero value is the standard window:
// an empty Kind means DefaultKind and a MaxAttempts below 1 means
// DefaultMaxAttempts. There is no empty window; callers wanting none should
// not call Breakdown.
type Options struct {
	Kind        string
	MaxAttempts int
}

// DefaultOptions returns the standard window.
func DefaultOptions() Options {
	return Options{Kind: DefaultKind, MaxAttempts: DefaultMaxAttempts}
}

// Result is a blended breakdown.
type Result struct {
	AttemptsUsed int           `json:"attempts_used"`
	Breakdown    []units.Score `json:"breakdown"`
	Unmapped     []string      `json:"unmapped,omitempty"`
}

// Breakdown keeps attempts of opts.Kind, takes the opts.MaxAttempts most
// recent by CreatedAt and scores each against bank. Attempts with nothing
// rateable are skipped and not counted. Earned and total units are summed
// across attempts before percentages are taken, so an attempt weighs in by
// how many responses it rated. Zero fields of opts take their defaults.
func Breakdown(attempts []Attempt, bank *question.Bank, cat catalog.Catalog, opts Options) Result {
	if opts.Kind == "" {
		opts.Kind = DefaultKind
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	recent := Recent(attempts, opts.Kind, opts.MaxAttempts)

	total := units.NewTally(cat)
	used := 0
	for _, a := range recent {
		if len(a.Answers) == 0 {
			continue
		}
		t := units.AttemptBreakdown(bank, a.Answers, cat)
		if !t.HasAny() {
			continue
		}
		used++
		total.Merge(t)
	}

	return Result{
		AttemptsUsed: used,
		Breakdown:    total.Breakdown(),
		Unmapped:     total.Unmapped(),
	}
}

// Recent returns up to limit attempts of kind, newest first. The input is
// left untouched.
func Recent(attempts []Attempt, kind string, limit int) []Attempt {
	var out []Attempt
	for _, a := range attempts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
