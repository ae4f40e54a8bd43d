package report

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/talentprep/scorekit/internal/alignment"
	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/consistency"
	"github.com/talentprep/scorekit/internal/evaluator"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/narrative"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/rolling"
	"github.com/talentprep/scorekit/internal/units"
)

var (
	lead    = ipsative.Entry{ID: catalog.LeadingDeciding, Label: "Leading & Deciding", Earned: 4, Max: 4, Pct: 100, Sten: 10}
	support = ipsative.Entry{ID: catalog.SupportingCooperating, Label: "Supporting & Cooperating", Earned: 2, Max: 4, Pct: 50, Sten: 6}
)

func TestProfile(t *testing.T) {
	out := ansi.Strip(Profile(ipsative.Profile{
		AnsweredCount: 2,
		TotalTriplets: 3,
		Entries:       []ipsative.Entry{lead, support},
		Top:           []ipsative.Entry{lead},
		Bottom:        []ipsative.Entry{support},
	}))

	assert.Contains(t, out, "2 of 3 triplets answered")
	assert.Contains(t, out, "Leading & Deciding")
	assert.Contains(t, out, "100%  sten 10")
	assert.Contains(t, out, "Strongest\n  Leading & Deciding")
	assert.NotContains(t, out, "Additional traits")
}

func TestConsistency(t *testing.T) {
	clean := ansi.Strip(Consistency(consistency.Report{Overall: 100}))
	assert.Contains(t, clean, "Overall")
	assert.Contains(t, clean, "No contradictions flagged.")

	flagged := ansi.Strip(Consistency(consistency.Report{
		Overall:        72,
		PerCompetency:  []consistency.Trait{{Label: "Leading & Deciding", Observations: 3, StdDev: 0.47, Index: 53}},
		Contradictions: []consistency.Contradiction{{A: lead, B: support, Reason: "tension"}},
	}))
	assert.Contains(t, flagged, "sd 0.47 over 3")
	assert.Contains(t, flagged, "! Leading & Deciding (sten 10) and Supporting & Cooperating (sten 6): tension")
}

func TestAlignmentAndBreakdown(t *testing.T) {
	out := ansi.Strip(Alignment([]alignment.Alignment{{ID: "care", Label: "Care", Pct: 64}}))
	assert.Contains(t, out, "Care")
	assert.Contains(t, out, "64%")

	out = ansi.Strip(Breakdown(rolling.Result{
		AttemptsUsed: 1,
		Breakdown: []units.Score{
			{Competency: catalog.Competency{ID: "people", Label: "People"}, Earned: 4.5, Total: 6, Pct: 75},
		},
	}))
	assert.Contains(t, out, "1 attempt used")
	assert.Contains(t, out, "4.5/6 units")
}

func TestResults(t *testing.T) {
	out := ansi.Strip(Results([]evaluator.Result{
		{QuestionID: "mc", Kind: question.KindSimpleChoice, Answered: true, Correct: true},
		{QuestionID: "rank", Kind: question.KindRanking, Answered: true},
		{QuestionID: "pie", Kind: question.KindProportionChart},
	}, evaluator.Summary{Total: 3, Answered: 2, Correct: 1, Pct: 33}))

	for _, want := range []string{"Question", "correct", "incorrect", "unanswered", "1/3 correct (33%), 2 answered"} {
		assert.Contains(t, out, want)
	}
}

func TestAttempts(t *testing.T) {
	assert.Contains(t, ansi.Strip(Attempts(nil)), "No attempts recorded.")

	out := ansi.Strip(Attempts([]rolling.Attempt{{
		ID:        "a1",
		Kind:      rolling.DefaultKind,
		CreatedAt: time.Now(),
		Answers:   map[string]any{"q1": 1, "q2": 2},
	}}))
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, rolling.DefaultKind)
}

func TestNarrativeAndTips(t *testing.T) {
	out := ansi.Strip(Narrative(narrative.Narrative{
		Summary:   "Decisive and steady.",
		Strengths: []string{"Takes charge"},
		Model:     "mock",
	}))
	assert.Contains(t, out, "Decisive and steady.")
	assert.Contains(t, out, "• Takes charge")
	assert.NotContains(t, out, "Caveats")
	assert.Contains(t, out, "Generated by mock")

	assert.Contains(t, ansi.Strip(Tips(nil)), "nothing was rated")
	out = ansi.Strip(Tips([]narrative.Tip{{Competency: "People", Tip: "Ask before acting."}}))
	assert.Contains(t, out, "People")
	assert.Contains(t, out, "Ask before acting.")
}
