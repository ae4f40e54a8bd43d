package consistency

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/question"
)

func triplet(id string, comps ...string) *question.Triplet {
	t := &question.Triplet{Base: question.Base{ID: id}}
	for i, c := range comps {
		t.Options = append(t.Options, question.TripletOption{ID: id + string(rune('a'+i)), Competency: c})
	}
	return t
}

func TestIndex(t *testing.T) {
	tests := []struct {
		sd   float64
		want int
	}{
		{0, 100},
		{0.5, 50},
		{1, 0},
		{1.4, 0},
		{0.4714, 53},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := Index(tc.sd); got != tc.want {
			t.Errorf("Index(%v) = %d, want %d", tc.sd, got, tc.want)
		}
	}
}

func TestCompute(t *testing.T) {
	ld, sc, ai := catalog.LeadingDeciding, catalog.SupportingCooperating, catalog.AnalyzingInterpreting
	triplets := []*question.Triplet{
		triplet("t1", ld, sc, ai),
		triplet("t2", ld, sc, ai),
		triplet("t3", ld, catalog.AdaptingCoping, catalog.OrganizingExecuting),
	}
	answers := map[string]any{
		// ld first twice, sc second then third, ai third then second.
		"t1": []any{"t1a", "t1b", "t1c"},
		"t2": []any{"t2a", "t2c", "t2b"},
		// incomplete: not an observation for anyone.
		"t3": []any{"t3a"},
	}
	policy := catalog.DefaultPolicy()
	profile := ipsative.BuildProfile(triplets, answers, policy.Traits)

	got := Compute(triplets, answers, profile, policy)

	want := []Trait{
		{ID: ld, Label: "Leading & Deciding", Observations: 2, StdDev: 0, Index: 100},
		{ID: sc, Label: "Supporting & Cooperating", Observations: 2, StdDev: 0.5, Index: 50},
		{ID: ai, Label: "Analyzing & Interpreting", Observations: 2, StdDev: 0.5, Index: 50},
	}
	if diff := cmp.Diff(want, got.PerCompetency, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("PerCompetency mismatch (-want +got):\n%s", diff)
	}
	if got.Overall != 67 {
		t.Errorf("Overall = %d, want 67", got.Overall)
	}
}

func TestCompute_NoQualifyingTrait(t *testing.T) {
	triplets := []*question.Triplet{triplet("t1", "x", "y", "z")}
	answers := map[string]any{"t1": []any{"t1a", "t1b", "t1c"}}
	policy := catalog.DefaultPolicy()
	profile := ipsative.BuildProfile(triplets, answers, policy.Traits)

	got := Compute(triplets, answers, profile, policy)
	if got.Overall != 100 {
		t.Errorf("Overall = %d, want 100", got.Overall)
	}
	if len(got.PerCompetency) != 0 {
		t.Errorf("PerCompetency = %+v, want none", got.PerCompetency)
	}
}

func TestCompute_UnknownTraitOrderedLast(t *testing.T) {
	triplets := []*question.Triplet{
		triplet("t1", "zeta", catalog.LeadingDeciding, "alpha"),
		triplet("t2", "zeta", catalog.LeadingDeciding, "alpha"),
	}
	answers := map[string]any{
		"t1": []any{"t1a", "t1b", "t1c"},
		"t2": []any{"t2a", "t2b", "t2c"},
	}
	policy := catalog.DefaultPolicy()
	profile := ipsative.BuildProfile(triplets, answers, policy.Traits)

	got := Compute(triplets, answers, profile, policy)
	var ids []string
	for _, tr := range got.PerCompetency {
		ids = append(ids, tr.ID)
	}
	if diff := cmp.Diff([]string{catalog.LeadingDeciding, "alpha", "zeta"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got.PerCompetency[2].Label != "zeta" {
		t.Errorf("unknown trait label = %q, want its id", got.PerCompetency[2].Label)
	}
}

func TestContradictions(t *testing.T) {
	profile := ipsative.Profile{
		Entries: []ipsative.Entry{
			{ID: catalog.LeadingDeciding, Label: "Leading & Deciding", Sten: 8},
			{ID: catalog.SupportingCooperating, Label: "Supporting & Cooperating", Sten: 7},
			{ID: catalog.CreatingConceptualizing, Label: "Creating & Conceptualizing", Sten: 9},
			{ID: catalog.OrganizingExecuting, Label: "Organizing & Executing", Sten: 6},
			{ID: catalog.EnterprisingPerforming, Label: "Enterprising & Performing", Sten: 10},
		},
	}

	got := Contradictions(profile, catalog.DefaultContradictions(), catalog.DefaultContradictionSten)
	if len(got) != 2 {
		t.Fatalf("got %d contradictions, want 2: %+v", len(got), got)
	}
	if got[0].A.ID != catalog.LeadingDeciding || got[0].B.ID != catalog.SupportingCooperating {
		t.Errorf("first pair = %s/%s", got[0].A.ID, got[0].B.ID)
	}
	if got[1].A.ID != catalog.EnterprisingPerforming || got[1].B.ID != catalog.SupportingCooperating {
		t.Errorf("second pair = %s/%s", got[1].A.ID, got[1].B.ID)
	}
	if got[0].Reason == "" {
		t.Error("reason not carried over")
	}

	stricter := Contradictions(profile, catalog.DefaultContradictions(), 8)
	if len(stricter) != 0 {
		t.Errorf("threshold 8 flagged %+v", stricter)
	}

	custom := []catalog.ContradictionPair{{A: catalog.CreatingConceptualizing, B: catalog.EnterprisingPerforming}}
	if got := Contradictions(profile, custom, 7); len(got) != 1 {
		t.Errorf("custom pair not flagged: %+v", got)
	}

	missing := []catalog.ContradictionPair{{A: catalog.LeadingDeciding, B: "nope"}}
	if got := Contradictions(profile, missing, 1); len(got) != 0 {
		t.Errorf("pair with unknown trait flagged: %+v", got)
	}
}
