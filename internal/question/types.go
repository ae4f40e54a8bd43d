package question

import "github.com/talentprep/scorekit/internal/weights"

// Kind identifies a question variant.
type Kind string

const (
	KindClassificationTable Kind = "classification_table"
	KindProportionChart     Kind = "proportion_chart"
	KindAllocationChart     Kind = "allocation_chart"
	KindTabbedEvaluation    Kind = "tabbed_evaluation"
	KindPointGraph          Kind = "point_graph"
	KindRanking             Kind = "ranking"
	KindSimpleChoice        Kind = "simple_choice"
	KindIpsativeTriplet     Kind = "ipsative_triplet"
	KindRatedResponseSet    Kind = "rated_response_set"
)

// Question is implemented by every variant. The evaluator switches on the
// concrete type, so each variant carries only the fields legal for it.
type Question interface {
	QuestionID() string
	Kind() Kind
	Info() Base
}

// Base holds the fields shared by all variants.
type Base struct {
	ID         string
	Competency string // declared competency, used as an attribution fallback

	// Descriptive fields, used only for content de-duplication.
	Subtest string
	Section string
	Context string
	Prompt  string
	Choices []string
}

func (b Base) QuestionID() string { return b.ID }
func (b Base) Info() Base         { return b }

// ClassificationTable asks the candidate to place each row in a category.
// Correct maps row id to category id and is compared structurally.
type ClassificationTable struct {
	Base
	Correct map[string]any
}

func (*ClassificationTable) Kind() Kind { return KindClassificationTable }

// ProportionChart asks for a percentage per segment (a resizable pie).
type ProportionChart struct {
	Base
	Correct map[string]float64
	// PctTolerance overrides the evaluator's default band when set.
	PctTolerance *float64
}

func (*ProportionChart) Kind() Kind { return KindProportionChart }

// Bar is one two-level allocation: a total and the percentage split of it.
// Nil fields are not checked.
type Bar struct {
	Total    *float64
	SplitPct *float64
}

// BarTolerance holds per-field bands. Nil fields fall back to the next level.
type BarTolerance struct {
	Total    *float64
	SplitPct *float64
}

// AllocationChart asks for one or more stacked bars. Exactly one of Single
// and Bars is set.
type AllocationChart struct {
	Base
	Single *Bar
	Bars   map[string]Bar

	Tolerance    BarTolerance
	BarTolerance map[string]BarTolerance
}

func (*AllocationChart) Kind() Kind { return KindAllocationChart }

// TabbedEvaluation asks for one judgement label per tab.
type TabbedEvaluation struct {
	Base
	Tabs    []string
	Correct map[string]string
}

func (*TabbedEvaluation) Kind() Kind { return KindTabbedEvaluation }

// PointGraph asks for one value per x-axis label.
type PointGraph struct {
	Base
	Labels  []string
	Correct []float64
	// ValueTolerance overrides the evaluator's default band when set.
	ValueTolerance *float64
}

func (*PointGraph) Kind() Kind { return KindPointGraph }

// Ranking asks for an ordering of option ids.
type Ranking struct {
	Base
	Correct []string
}

func (*Ranking) Kind() Kind { return KindRanking }

// SimpleChoice is a discrete-choice question. Correct is a scalar or a
// structured value; nil means the question has no answer key.
type SimpleChoice struct {
	Base
	Correct any
}

func (*SimpleChoice) Kind() Kind { return KindSimpleChoice }

// TripletOption is one statement of a forced-choice block.
type TripletOption struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Competency string `json:"competency"`
	Reverse    bool   `json:"reverse,omitempty"`
}

// Triplet is a forced-choice block of exactly three statements.
type Triplet struct {
	Base
	Options []TripletOption
}

func (*Triplet) Kind() Kind { return KindIpsativeTriplet }

// Response is one rateable course of action within a scenario.
type Response struct {
	ID           string
	Text         string
	Competencies []weights.Weighted
}

// RatedResponseSet is a situational-judgement scenario whose responses are
// each rated on a 4-point effectiveness scale.
type RatedResponseSet struct {
	Base
	Responses []Response
	// Correct maps response id to the keyed rating.
	Correct map[string]float64
}

func (*RatedResponseSet) Kind() Kind { return KindRatedResponseSet }

// Expected returns the keyed rating for a response, or nil when unkeyed.
func (q *RatedResponseSet) Expected(responseID string) any {
	v, ok := q.Correct[responseID]
	if !ok {
		return nil
	}
	return v
}
