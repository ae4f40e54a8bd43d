// Package units scores 4-point effectiveness ratings with distance-based
// partial credit and attributes the credit to competencies.
package units

import (
	"math"

	"github.com/talentprep/scorekit/internal/equality"
	"github.com/talentprep/scorekit/internal/question"
)

// MaxUnits is the credit for a rating that matches its key. On a 4-point
// scale the largest possible distance is also 3.
const MaxUnits = 3.0

// ResponseUnits returns clamp(3 - |actual - expected|, 0, 3). Either side
// failing numeric coercion scores 0.
func ResponseUnits(expected, actual any) float64 {
	e, ok := equality.Number(expected)
	if !ok {
		return 0
	}
	a, ok := equality.Number(actual)
	if !ok {
		return 0
	}
	return clamp(MaxUnits-math.Abs(a-e), 0, MaxUnits)
}

// Units is an earned/possible pair.
type Units struct {
	Earned float64 `json:"earned"`
	Total  float64 `json:"total"`
}

// Pct returns the rounded percentage, or 0 when nothing was possible.
func (u Units) Pct() int {
	return Pct(u.Earned, u.Total)
}

// QuestionUnits scores every response of q. Total is always
// len(Responses)*MaxUnits; unrated responses earn nothing.
func QuestionUnits(q *question.RatedResponseSet, answer any) Units {
	if q == nil {
		return Units{}
	}
	ratings := ratingsOf(answer)
	u := Units{Total: float64(len(q.Responses)) * MaxUnits}
	for _, r := range q.Responses {
		u.Earned += ResponseUnits(q.Expected(r.ID), ratings[r.ID])
	}
	return u
}

// QuestionPct is the share of responses rated exactly as keyed, rounded.
func QuestionPct(q *question.RatedResponseSet, answer any) int {
	if q == nil || len(q.Responses) == 0 {
		return 0
	}
	ratings := ratingsOf(answer)
	exact := 0
	for _, r := range q.Responses {
		want, ok := q.Correct[r.ID]
		if !ok {
			continue
		}
		if got, ok := equality.Number(ratings[r.ID]); ok && got == want {
			exact++
		}
	}
	return Pct(float64(exact), float64(len(q.Responses)))
}

// RatingLabel names a rating: 1-2 "Less Effective", 3-4 "More Effective",
// anything else "--".
func RatingLabel(v any) string {
	r, ok := equality.Number(v)
	if !ok {
		return "--"
	}
	switch r {
	case 1, 2:
		return "Less Effective"
	case 3, 4:
		return "More Effective"
	}
	return "--"
}

// Pct returns round(100*earned/total), or 0 when total is not positive.
func Pct(earned, total float64) int {
	if total <= 0 || math.IsNaN(earned) {
		return 0
	}
	return int(math.Round(100 * earned / total))
}

func ratingsOf(answer any) map[string]any {
	m, _ := equality.Canonicalize(answer).(map[string]any)
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
