package catalog

import "github.com/talentprep/scorekit/internal/weights"

// Great Eight trait ids.
const (
	LeadingDeciding         = "leading_deciding"
	SupportingCooperating   = "supporting_cooperating"
	InteractingPresenting   = "interacting_presenting"
	AnalyzingInterpreting   = "analyzing_interpreting"
	CreatingConceptualizing = "creating_conceptualizing"
	OrganizingExecuting     = "organizing_executing"
	AdaptingCoping          = "adapting_coping"
	EnterprisingPerforming  = "enterprising_performing"

	IntegrityEthics = "integrity_ethics"
)

// SJQFallbackID is where unknown situational-judgement competencies land.
const SJQFallbackID = "delivery"

// DefaultContradictionSten is the sten both traits of a pair must reach
// before the pair is flagged.
const DefaultContradictionSten = 7

// GreatEight returns the primary behavioral trait catalog.
func GreatEight() Catalog {
	return New([]Competency{
		{ID: LeadingDeciding, Label: "Leading & Deciding"},
		{ID: SupportingCooperating, Label: "Supporting & Cooperating"},
		{ID: InteractingPresenting, Label: "Interacting & Presenting"},
		{ID: AnalyzingInterpreting, Label: "Analyzing & Interpreting"},
		{ID: CreatingConceptualizing, Label: "Creating & Conceptualizing"},
		{ID: OrganizingExecuting, Label: "Organizing & Executing"},
		{ID: AdaptingCoping, Label: "Adapting & Coping"},
		{ID: EnterprisingPerforming, Label: "Enterprising & Performing"},
	}, "")
}

// ExtraTraits returns traits reported only when a session exercises them.
func ExtraTraits() Catalog {
	return New([]Competency{
		{ID: IntegrityEthics, Label: "Integrity & Ethics"},
	}, "")
}

// DefaultTraits bundles GreatEight and ExtraTraits.
func DefaultTraits() Traits {
	return Traits{Primary: GreatEight(), Extras: ExtraTraits()}
}

// SJQCompetencies returns the situational-judgement competency catalog.
func SJQCompetencies() Catalog {
	return New([]Competency{
		{
			ID:    "safety",
			Label: "Safety",
			Tip:   "Prioritize risk control: stop unsafe work, follow critical controls, and escalate hazards immediately.",
		},
		{
			ID:    "integrity",
			Label: "Integrity",
			Tip:   "Be transparent under pressure: avoid conflicts of interest, handle data ethically, and report issues early.",
		},
		{
			ID:    "quality",
			Label: "Quality",
			Tip:   "Protect standards: follow checks/SOPs and fix errors before release even when deadlines are tight.",
		},
		{
			ID:    "people",
			Label: "People",
			Tip:   "Communicate respectfully: listen, clarify, and address issues directly without blame or public confrontation.",
		},
		{
			ID:    "innovation",
			Label: "Innovation",
			Tip:   "Improve with evidence: propose small pilots, measure impact, and get buy-in before scaling changes.",
		},
		{
			ID:    SJQFallbackID,
			Label: "Delivery",
			Tip:   "Manage priorities early: negotiate scope/timeline, surface blockers, and confirm alignment with stakeholders.",
		},
	}, SJQFallbackID)
}

// DefaultContradictions returns trait pairs that are conceptually in tension.
// The list is a plausibility heuristic, not a validated psychometric finding.
func DefaultContradictions() []ContradictionPair {
	return []ContradictionPair{
		{A: LeadingDeciding, B: SupportingCooperating, Reason: "directing others vs. accommodating them"},
		{A: CreatingConceptualizing, B: OrganizingExecuting, Reason: "novelty seeking vs. following procedure"},
		{A: EnterprisingPerforming, B: SupportingCooperating, Reason: "competitive drive vs. putting the team first"},
		{A: AdaptingCoping, B: OrganizingExecuting, Reason: "improvising vs. sticking to the plan"},
	}
}

// DefaultAlignment maps traits onto the organisation's four core values.
func DefaultAlignment() AlignmentTable {
	return AlignmentTable{
		{
			ID:    "integrity",
			Label: "Integrity",
			Sources: []weights.Weighted{
				{ID: IntegrityEthics, Weight: 1.0},
				{ID: OrganizingExecuting, Weight: 0.3},
				{ID: AdaptingCoping, Weight: 0.2},
			},
		},
		{
			ID:    "care",
			Label: "Care",
			Sources: []weights.Weighted{
				{ID: SupportingCooperating, Weight: 1.0},
				{ID: AdaptingCoping, Weight: 0.5},
				{ID: InteractingPresenting, Weight: 0.3},
			},
		},
		{
			ID:    "teamwork",
			Label: "Teamwork",
			Sources: []weights.Weighted{
				{ID: InteractingPresenting, Weight: 0.8},
				{ID: SupportingCooperating, Weight: 0.6},
				{ID: LeadingDeciding, Weight: 0.4},
			},
		},
		{
			ID:    "excellence",
			Label: "Excellence",
			Sources: []weights.Weighted{
				{ID: EnterprisingPerforming, Weight: 0.8},
				{ID: OrganizingExecuting, Weight: 0.7},
				{ID: AnalyzingInterpreting, Weight: 0.6},
				{ID: CreatingConceptualizing, Weight: 0.5},
			},
		},
	}
}
