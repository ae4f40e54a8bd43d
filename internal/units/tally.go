package units

import (
	"sort"
	"strings"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/weights"
)

// Score is one competency's line in a breakdown.
type Score struct {
	catalog.Competency
	Earned float64 `json:"earned"`
	Total  float64 `json:"total"`
	Pct    int     `json:"pct"`
}

// ResponseWeights returns the normalized competency attribution for one
// response. Declared pairs with a usable weight are resolved through cat and
// scaled to sum to 1; when none survive, the question's own competency gets
// weight 1. Non-empty ids that cat does not know fall back to its default
// entry and are returned in unmapped.
func ResponseWeights(q *question.RatedResponseSet, r question.Response, cat catalog.Catalog) (ws []weights.Weighted, unmapped []string) {
	resolve := func(id string) string {
		c, ok := cat.Resolve(id)
		if !ok && strings.TrimSpace(id) != "" {
			unmapped = append(unmapped, id)
		}
		return c.ID
	}

	var declared []weights.Weighted
	for _, w := range r.Competencies {
		declared = append(declared, weights.Weighted{ID: w.ID, Weight: w.Weight})
	}
	ws = weights.Normalize(declared)
	if len(ws) == 0 {
		return []weights.Weighted{{ID: resolve(q.Competency), Weight: 1}}, unmapped
	}
	for i := range ws {
		ws[i].ID = resolve(ws[i].ID)
	}
	return ws, unmapped
}

// Tally accumulates weighted units per competency of a catalog.
type Tally struct {
	cat      catalog.Catalog
	earned   map[string]float64
	total    map[string]float64
	unmapped map[string]bool
}

// NewTally starts an empty tally over cat.
func NewTally(cat catalog.Catalog) *Tally {
	return &Tally{
		cat:      cat,
		earned:   make(map[string]float64),
		total:    make(map[string]float64),
		unmapped: make(map[string]bool),
	}
}

// AddQuestion scores every response of q against answer and distributes the
// units across each response's competencies. It reports whether q had any
// response to rate.
func (t *Tally) AddQuestion(q *question.RatedResponseSet, answer any) bool {
	if q == nil || len(q.Responses) == 0 {
		return false
	}
	ratings := ratingsOf(answer)
	for _, r := range q.Responses {
		u := ResponseUnits(q.Expected(r.ID), ratings[r.ID])
		ws, unmapped := ResponseWeights(q, r, t.cat)
		for _, id := range unmapped {
			t.unmapped[id] = true
		}
		for _, w := range ws {
			t.earned[w.ID] += u * w.Weight
			t.total[w.ID] += MaxUnits * w.Weight
		}
	}
	return true
}

// Merge adds another tally's sums into t.
func (t *Tally) Merge(o *Tally) {
	if o == nil {
		return
	}
	for id, v := range o.earned {
		t.earned[id] += v
	}
	for id, v := range o.total {
		t.total[id] += v
	}
	for id := range o.unmapped {
		t.unmapped[id] = true
	}
}

// HasAny reports whether any competency has a positive total.
func (t *Tally) HasAny() bool {
	for _, v := range t.total {
		if v > 0 {
			return true
		}
	}
	return false
}

// Breakdown returns one Score per catalog entry, in catalog order.
func (t *Tally) Breakdown() []Score {
	items := t.cat.Items()
	out := make([]Score, 0, len(items))
	for _, c := range items {
		e, tot := t.earned[c.ID], t.total[c.ID]
		out = append(out, Score{Competency: c, Earned: e, Total: tot, Pct: Pct(e, tot)})
	}
	return out
}

// Unmapped returns the distinct rejected competency ids, sorted.
func (t *Tally) Unmapped() []string {
	if len(t.unmapped) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.unmapped))
	for id := range t.unmapped {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AttemptBreakdown scores one stored attempt: every answered question id is
// joined against bank and rated-response sets are tallied. Ids the bank does
// not know, and questions of other kinds, are skipped.
func AttemptBreakdown(bank *question.Bank, answers map[string]any, cat catalog.Catalog) *Tally {
	t := NewTally(cat)
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q, ok := bank.Get(id)
		if !ok {
			continue
		}
		if rs, ok := q.(*question.RatedResponseSet); ok {
			t.AddQuestion(rs, answers[id])
		}
	}
	return t
}
