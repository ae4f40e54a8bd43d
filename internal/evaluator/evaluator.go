// Package evaluator produces a correctness verdict for one question and one
// raw answer. Answers are plain decoded JSON; malformed input is never an
// error, it simply fails.
package evaluator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/talentprep/scorekit/internal/equality"
	"github.com/talentprep/scorekit/internal/question"
)

// Evaluator checks answers using a fixed Config.
type Evaluator struct {
	cfg Config
}

// New returns an Evaluator. Invalid bands are replaced by the defaults.
func New(cfg Config) *Evaluator {
	def := DefaultConfig()
	if !band(cfg.PctTolerance) {
		cfg.PctTolerance = def.PctTolerance
	}
	if !band(cfg.PointTolerance) {
		cfg.PointTolerance = def.PointTolerance
	}
	return &Evaluator{cfg: cfg}
}

var std = New(DefaultConfig())

// Evaluate checks answer against q with the default bands.
func Evaluate(q question.Question, answer any) bool {
	return std.Evaluate(q, answer)
}

// Evaluate reports whether answer is a correct response to q. Unanswered
// input is always false. Ipsative triplets have no correct answer and are
// always false; they are scored by the ipsative package.
func (e *Evaluator) Evaluate(q question.Question, answer any) bool {
	if q == nil || !IsAnswered(q, answer) {
		return false
	}

	switch v := q.(type) {
	case *question.ClassificationTable:
		if _, ok := asMap(answer); !ok || len(v.Correct) == 0 {
			return false
		}
		return equality.Equal(answer, v.Correct)
	case *question.ProportionChart:
		return e.proportion(v, answer)
	case *question.AllocationChart:
		return allocation(v, answer)
	case *question.TabbedEvaluation:
		return tabbed(v, answer)
	case *question.PointGraph:
		return e.pointGraph(v, answer)
	case *question.Ranking:
		if len(v.Correct) == 0 {
			return false
		}
		return equality.Equal(answer, v.Correct)
	case *question.RatedResponseSet:
		return ratedSet(v, answer)
	case *question.SimpleChoice:
		return simpleChoice(v, answer)
	case *question.Triplet:
		return false
	}
	return false
}

func (e *Evaluator) proportion(q *question.ProportionChart, answer any) bool {
	got, ok := asMap(answer)
	if !ok || len(q.Correct) == 0 {
		return false
	}
	tol := e.cfg.PctTolerance
	if q.PctTolerance != nil {
		tol = *q.PctTolerance
	}
	for segment, want := range q.Correct {
		if !equality.WithinTolerance(got[segment], want, tol) {
			return false
		}
	}
	return true
}

func allocation(q *question.AllocationChart, answer any) bool {
	got, ok := asMap(answer)
	if !ok {
		return false
	}
	if q.Single != nil {
		return barWithin(*q.Single, got, q.Tolerance, question.BarTolerance{})
	}
	if len(q.Bars) == 0 {
		return false
	}
	for id, bar := range q.Bars {
		gotBar, ok := asMap(got[id])
		if !ok {
			return false
		}
		if !barWithin(bar, gotBar, q.Tolerance, q.BarTolerance[id]) {
			return false
		}
	}
	return true
}

// barWithin checks every present field of want. Bands resolve per field:
// the bar's own band, then the chart band, then exact.
func barWithin(want question.Bar, got map[string]any, chart, own question.BarTolerance) bool {
	if want.Total == nil && want.SplitPct == nil {
		return false
	}
	if want.Total != nil && !equality.WithinTolerance(got["total"], *want.Total, pick(own.Total, chart.Total)) {
		return false
	}
	if want.SplitPct != nil && !equality.WithinTolerance(got["split_pct"], *want.SplitPct, pick(own.SplitPct, chart.SplitPct)) {
		return false
	}
	return true
}

func pick(bands ...*float64) float64 {
	for _, b := range bands {
		if b != nil {
			return *b
		}
	}
	return 0
}

func tabbed(q *question.TabbedEvaluation, answer any) bool {
	got, ok := asMap(answer)
	if !ok {
		return false
	}
	keys := q.Tabs
	if len(keys) == 0 {
		for k := range q.Correct {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		want := strings.TrimSpace(q.Correct[k])
		if want == "" {
			return false
		}
		s, _ := got[k].(string)
		if strings.TrimSpace(s) != want {
			return false
		}
	}
	return true
}

func (e *Evaluator) pointGraph(q *question.PointGraph, answer any) bool {
	values, ok := pointValues(answer)
	if !ok || len(q.Correct) == 0 || len(values) != len(q.Correct) {
		return false
	}
	tol := e.cfg.PointTolerance
	if q.ValueTolerance != nil {
		tol = *q.ValueTolerance
	}
	for i, want := range q.Correct {
		if !equality.WithinTolerance(values[i], want, tol) {
			return false
		}
	}
	return true
}

func ratedSet(q *question.RatedResponseSet, answer any) bool {
	got, ok := asMap(answer)
	if !ok || len(q.Responses) == 0 {
		return false
	}
	for _, r := range q.Responses {
		actual, ok := equality.Number(got[r.ID])
		if !ok {
			return false
		}
		want, ok := q.Correct[r.ID]
		if !ok || actual != want {
			return false
		}
	}
	return true
}

func simpleChoice(q *question.SimpleChoice, answer any) bool {
	if q.Correct == nil {
		return false
	}
	switch equality.Canonicalize(q.Correct).(type) {
	case map[string]any, []any:
		return equality.Equal(answer, q.Correct)
	}
	return scalarEqual(answer, q.Correct)
}

// scalarEqual compares strings with strings, booleans with booleans and
// numbers by value. Mixed kinds never match.
func scalarEqual(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	if isStringish(a) || isStringish(b) {
		return false
	}
	x, ok := equality.Number(a)
	if !ok {
		return false
	}
	y, ok := equality.Number(b)
	return ok && x == y
}

func isStringish(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return false
}

// IsAnswered reports whether answer counts as a response to q. nil, blank
// strings and empty containers never do. Rated-response sets need every
// response rated, tabbed evaluations need every tab filled and point graphs
// need a value per axis label.
func IsAnswered(q question.Question, answer any) bool {
	if absent(answer) {
		return false
	}

	switch v := q.(type) {
	case *question.RatedResponseSet:
		got, ok := asMap(answer)
		if !ok {
			return false
		}
		for _, r := range v.Responses {
			if got[r.ID] == nil {
				return false
			}
		}
		return true
	case *question.TabbedEvaluation:
		got, ok := asMap(answer)
		if !ok {
			return false
		}
		for _, tab := range v.Tabs {
			s, _ := got[tab].(string)
			if strings.TrimSpace(s) == "" {
				return false
			}
		}
		return true
	case *question.PointGraph:
		values, ok := pointValues(answer)
		if !ok || len(values) == 0 {
			return false
		}
		return len(v.Labels) == 0 || len(values) == len(v.Labels)
	}
	return true
}

func absent(v any) bool {
	switch t := equality.Canonicalize(v).(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// asMap accepts any string-keyed map the canonicalizer understands.
func asMap(v any) (map[string]any, bool) {
	m, ok := equality.Canonicalize(v).(map[string]any)
	return m, ok
}

// pointValues accepts a plain list or a {"values": [...]} wrapper.
func pointValues(v any) ([]any, bool) {
	switch t := equality.Canonicalize(v).(type) {
	case []any:
		return t, true
	case map[string]any:
		values, ok := t["values"].([]any)
		return values, ok
	}
	return nil, false
}

// DecodeAnswer parses a raw JSON answer, keeping numbers as json.Number so
// integers and decimals round-trip exactly.
func DecodeAnswer(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
