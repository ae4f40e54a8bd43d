// Package consistency measures how stable a candidate's forced-choice
// scoring was per trait and flags trait pairs that are both scored high
// despite being in tension.
package consistency

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/question"
)

// MinObservations is the fewest scored triplets a trait needs before its
// consistency is defined.
const MinObservations = 2

// Trait is the consistency of one trait.
type Trait struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Observations int     `json:"observations"`
	StdDev       float64 `json:"std_dev"`
	Index        int     `json:"index"`
}

// Contradiction is a flagged pair of high-scoring, opposed traits.
type Contradiction struct {
	A      ipsative.Entry `json:"a"`
	B      ipsative.Entry `json:"b"`
	Reason string         `json:"reason,omitempty"`
}

// Report is the full consistency analysis of a session.
type Report struct {
	Overall        int             `json:"overall"`
	PerCompetency  []Trait         `json:"per_competency"`
	Contradictions []Contradiction `json:"contradictions"`
}

// Compute analyses a session. Observations come only from triplets whose
// answer scores; each scored triplet contributes one observation (the points
// it gave) to every trait among its options. Traits with fewer than
// MinObservations are left out. Overall is the observation-weighted mean
// index, or 100 when no trait qualifies.
func Compute(triplets []*question.Triplet, answers map[string]any, profile ipsative.Profile, policy catalog.Policy) Report {
	observed := make(map[string][]float64)
	for _, t := range triplets {
		if t == nil {
			continue
		}
		points := ipsative.ScoreTriplet(t, answers[t.ID])
		if points == nil {
			continue
		}
		for comp, p := range points {
			observed[comp] = append(observed[comp], float64(p))
		}
	}

	r := Report{Overall: 100}
	weighted, n := 0, 0
	for _, id := range order(observed, profile, policy.Traits) {
		values := observed[id]
		if len(values) < MinObservations {
			continue
		}
		sd, err := stats.StandardDeviationPopulation(values)
		if err != nil {
			continue
		}
		tr := Trait{
			ID:           id,
			Label:        label(id, profile, policy.Traits),
			Observations: len(values),
			StdDev:       sd,
			Index:        Index(sd),
		}
		r.PerCompetency = append(r.PerCompetency, tr)
		weighted += tr.Index * tr.Observations
		n += tr.Observations
	}
	if n > 0 {
		r.Overall = int(math.Round(float64(weighted) / float64(n)))
	}

	r.Contradictions = Contradictions(profile, policy.Contradictions, policy.ContradictionSten)
	return r
}

// Index maps a standard deviation on the 0..2 point scale to 0..100.
func Index(sd float64) int {
	if math.IsNaN(sd) {
		return 0
	}
	return int(math.Round(100 * math.Max(0, 1-sd)))
}

// Contradictions returns the pairs whose traits both reach minSten in
// profile. Pairs naming a trait the profile lacks are skipped.
func Contradictions(profile ipsative.Profile, pairs []catalog.ContradictionPair, minSten int) []Contradiction {
	var out []Contradiction
	for _, pair := range pairs {
		a, ok := profile.Lookup(pair.A)
		if !ok {
			continue
		}
		b, ok := profile.Lookup(pair.B)
		if !ok {
			continue
		}
		if a.Sten >= minSten && b.Sten >= minSten {
			out = append(out, Contradiction{A: a, B: b, Reason: pair.Reason})
		}
	}
	return out
}

// order lists observed traits in profile order, then any others by id.
func order(observed map[string][]float64, profile ipsative.Profile, traits catalog.Traits) []string {
	var ids []string
	seen := make(map[string]bool, len(observed))
	for _, group := range [][]ipsative.Entry{profile.Entries, profile.Extras} {
		for _, e := range group {
			if _, ok := observed[e.ID]; ok && !seen[e.ID] {
				ids = append(ids, e.ID)
				seen[e.ID] = true
			}
		}
	}
	for _, c := range append(traits.Primary.Items(), traits.Extras.Items()...) {
		if _, ok := observed[c.ID]; ok && !seen[c.ID] {
			ids = append(ids, c.ID)
			seen[c.ID] = true
		}
	}

	var rest []string
	for id := range observed {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func label(id string, profile ipsative.Profile, traits catalog.Traits) string {
	if e, ok := profile.Lookup(id); ok {
		return e.Label
	}
	if c, ok := traits.Lookup(id); ok {
		return c.Label
	}
	return id
}
