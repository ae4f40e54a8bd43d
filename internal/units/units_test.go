package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/weights"
)

func TestResponseUnits(t *testing.T) {
	tests := []struct {
		expected, actual any
		want             float64
	}{
		{4, 1, 0},
		{4, 3, 2},
		{2, 2, 3},
		{1, 4, 0},
		{3.0, "2", 2},
		{4, nil, 0},
		{nil, 4, 0},
		{4, "", 0},
		{4, "high", 0},
		{4, true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResponseUnits(tt.expected, tt.actual), "ResponseUnits(%v, %v)", tt.expected, tt.actual)
	}
}

func scenario() *question.RatedResponseSet {
	return &question.RatedResponseSet{
		Base: question.Base{ID: "sj1", Competency: "safety"},
		Responses: []question.Response{
			{ID: "r1", Competencies: []weights.Weighted{{ID: "people", Weight: 0.6}, {ID: "quality", Weight: 0.4}}},
			{ID: "r2"},
		},
		Correct: map[string]float64{"r1": 4, "r2": 1},
	}
}

func TestQuestionUnits(t *testing.T) {
	q := scenario()

	u := QuestionUnits(q, map[string]any{"r1": 3.0, "r2": 1.0})
	assert.Equal(t, Units{Earned: 5, Total: 6}, u)
	assert.Equal(t, 83, u.Pct())

	u = QuestionUnits(q, nil)
	assert.Equal(t, Units{Earned: 0, Total: 6}, u)

	assert.Equal(t, Units{}, QuestionUnits(nil, nil))
}

func TestQuestionPct(t *testing.T) {
	q := scenario()
	assert.Equal(t, 50, QuestionPct(q, map[string]any{"r1": 4, "r2": 2}))
	assert.Equal(t, 100, QuestionPct(q, map[string]any{"r1": "4", "r2": 1}))
	assert.Equal(t, 0, QuestionPct(&question.RatedResponseSet{}, nil))
}

func TestRatingLabel(t *testing.T) {
	assert.Equal(t, "Less Effective", RatingLabel(1))
	assert.Equal(t, "Less Effective", RatingLabel("2"))
	assert.Equal(t, "More Effective", RatingLabel(3.0))
	assert.Equal(t, "More Effective", RatingLabel(4))
	assert.Equal(t, "--", RatingLabel(5))
	assert.Equal(t, "--", RatingLabel(2.5))
	assert.Equal(t, "--", RatingLabel(nil))
}

func TestPct_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0, Pct(0, 0))
	assert.Equal(t, 0, Pct(5, 0))
	assert.Equal(t, 0, Pct(5, -1))
	assert.Equal(t, 67, Pct(2, 3))
}

func TestResponseWeights(t *testing.T) {
	cat := catalog.SJQCompetencies()
	q := scenario()

	ws, unmapped := ResponseWeights(q, q.Responses[0], cat)
	require.Len(t, ws, 2)
	assert.Equal(t, "people", ws[0].ID)
	assert.InDelta(t, 0.6, ws[0].Weight, 1e-12)
	assert.Equal(t, "quality", ws[1].ID)
	assert.Empty(t, unmapped)

	ws, _ = ResponseWeights(q, q.Responses[1], cat)
	assert.Equal(t, []weights.Weighted{{ID: "safety", Weight: 1}}, ws)
}

func TestResponseWeights_FallbackAndDiagnostics(t *testing.T) {
	cat := catalog.SJQCompetencies()
	q := &question.RatedResponseSet{Base: question.Base{Competency: "Leadership"}}

	r := question.Response{ID: "r", Competencies: []weights.Weighted{
		{ID: " SAFETY ", Weight: 2},
		{ID: "ethics", Weight: 2},
		{ID: "ignored", Weight: 0},
	}}
	ws, unmapped := ResponseWeights(q, r, cat)
	require.Len(t, ws, 2)
	assert.Equal(t, "safety", ws[0].ID)
	assert.Equal(t, catalog.SJQFallbackID, ws[1].ID)
	assert.InDelta(t, 0.5, ws[1].Weight, 1e-12)
	assert.Equal(t, []string{"ethics"}, unmapped)

	ws, unmapped = ResponseWeights(q, question.Response{ID: "r"}, cat)
	assert.Equal(t, []weights.Weighted{{ID: catalog.SJQFallbackID, Weight: 1}}, ws)
	assert.Equal(t, []string{"Leadership"}, unmapped)
}

func TestTally_WeightedConservation(t *testing.T) {
	q := &question.RatedResponseSet{
		Responses: []question.Response{
			{ID: "r1", Competencies: []weights.Weighted{{ID: "people", Weight: 0.6}, {ID: "quality", Weight: 0.4}}},
		},
		Correct: map[string]float64{"r1": 4},
	}

	for _, rating := range []float64{1, 2, 3, 4} {
		tally := NewTally(catalog.SJQCompetencies())
		require.True(t, tally.AddQuestion(q, map[string]any{"r1": rating}))

		u := ResponseUnits(4.0, rating)
		var earned, total float64
		for _, s := range tally.Breakdown() {
			earned += s.Earned
			total += s.Total
		}
		assert.InDelta(t, 3.0, total, 1e-12, "rating %v", rating)
		assert.InDelta(t, u, earned, 1e-12, "rating %v", rating)
	}
}

func TestTally_Breakdown(t *testing.T) {
	tally := NewTally(catalog.SJQCompetencies())
	tally.AddQuestion(scenario(), map[string]any{"r1": 4, "r2": 2})

	b := tally.Breakdown()
	require.Len(t, b, 6)
	assert.Equal(t, "safety", b[0].ID)
	assert.Equal(t, "Safety", b[0].Label)
	assert.NotEmpty(t, b[0].Tip)

	byID := map[string]Score{}
	for _, s := range b {
		byID[s.ID] = s
	}
	assert.InDelta(t, 2.0, byID["safety"].Earned, 1e-12)
	assert.InDelta(t, 3.0, byID["safety"].Total, 1e-12)
	assert.Equal(t, 67, byID["safety"].Pct)
	assert.InDelta(t, 1.8, byID["people"].Earned, 1e-12)
	assert.InDelta(t, 1.8, byID["people"].Total, 1e-12)
	assert.Equal(t, 100, byID["people"].Pct)
	assert.Equal(t, 0, byID["innovation"].Pct)
	assert.True(t, tally.HasAny())
	assert.Nil(t, tally.Unmapped())
}

func TestTally_Merge(t *testing.T) {
	a := NewTally(catalog.SJQCompetencies())
	a.AddQuestion(scenario(), map[string]any{"r1": 4, "r2": 1})
	b := NewTally(catalog.SJQCompetencies())
	b.AddQuestion(&question.RatedResponseSet{
		Base:      question.Base{Competency: "unknown"},
		Responses: []question.Response{{ID: "x"}},
		Correct:   map[string]float64{"x": 4},
	}, map[string]any{"x": 1})

	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, []string{"unknown"}, a.Unmapped())

	for _, s := range a.Breakdown() {
		if s.ID == catalog.SJQFallbackID {
			assert.Equal(t, 0.0, s.Earned)
			assert.Equal(t, 3.0, s.Total)
		}
	}
}

func TestTally_Empty(t *testing.T) {
	tally := NewTally(catalog.SJQCompetencies())
	assert.False(t, tally.AddQuestion(&question.RatedResponseSet{}, nil))
	assert.False(t, tally.HasAny())
	for _, s := range tally.Breakdown() {
		assert.Equal(t, 0, s.Pct)
	}
}

func TestAttemptBreakdown(t *testing.T) {
	bank := question.NewBank([]question.Question{
		scenario(),
		&question.SimpleChoice{Base: question.Base{ID: "m1"}, Correct: "A"},
	})

	tally := AttemptBreakdown(bank, map[string]any{
		"sj1":     map[string]any{"r1": 4, "r2": 1},
		"m1":      "A",
		"missing": map[string]any{"r1": 4},
	}, catalog.SJQCompetencies())
	assert.True(t, tally.HasAny())

	empty := AttemptBreakdown(bank, map[string]any{"m1": "A"}, catalog.SJQCompetencies())
	assert.False(t, empty.HasAny())
}

func TestResponseWeights_MixedCaseCatalog(t *testing.T) {
	cat := catalog.New([]catalog.Competency{{ID: "Safety", Label: "Safety"}, {ID: "Other", Label: "Other"}}, "Other")
	q := &question.RatedResponseSet{Base: question.Base{ID: "q"}}
	r := question.Response{ID: "r", Competencies: []weights.Weighted{{ID: "safety", Weight: 1}}}

	ws, unmapped := ResponseWeights(q, r, cat)
	assert.Equal(t, []weights.Weighted{{ID: "Safety", Weight: 1}}, ws)
	assert.Empty(t, unmapped)
}
