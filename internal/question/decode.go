package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/talentprep/scorekit/internal/weights"
)

// kindAliases maps bank "type" values, including the widget names used by
// older banks, onto variants. Unlisted types decode as simple choice.
var kindAliases = map[string]Kind{
	"classification_table":          KindClassificationTable,
	"interactive_drag_table":        KindClassificationTable,
	"proportion_chart":              KindProportionChart,
	"interactive_pie_chart":         KindProportionChart,
	"allocation_chart":              KindAllocationChart,
	"interactive_stacked_bar":       KindAllocationChart,
	"tabbed_evaluation":             KindTabbedEvaluation,
	"interactive_tabbed_evaluation": KindTabbedEvaluation,
	"point_graph":                   KindPointGraph,
	"interactive_point_graph":       KindPointGraph,
	"ranking":                       KindRanking,
	"ipsative_triplet":              KindIpsativeTriplet,
	"ipsative":                      KindIpsativeTriplet,
	"rated_response_set":            KindRatedResponseSet,
}

// SubtestSituationalJudgement marks rated-response scenarios in older banks
// that do not set a type.
const SubtestSituationalJudgement = "situational_judgement"

type entryDocument struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Subtest    string `json:"subtest"`
	Section    string `json:"section"`
	Context    string `json:"context"`
	Question   string `json:"question"`
	Competency string `json:"competency"`

	CorrectAnswer    json.RawMessage `json:"correct_answer"`
	CorrectAnswerAlt json.RawMessage `json:"correctAnswer"`
	Tolerance        json.RawMessage `json:"tolerance"`

	Responses  []responseDocument `json:"responses"`
	Options    json.RawMessage    `json:"options"`
	WidgetData widgetDocument     `json:"widget_data"`
}

type responseDocument struct {
	ID           string             `json:"id"`
	Text         string             `json:"text"`
	Competencies []weights.Weighted `json:"competencies"`
}

type widgetDocument struct {
	Tabs        []tabDocument `json:"tabs"`
	XAxisLabels []string      `json:"x_axis_labels"`
}

type tabDocument struct {
	ID string `json:"id"`
}

type optionDocument struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Competency string `json:"competency"`
	Keying     string `json:"keying"`
	Polarity   string `json:"polarity"`
	Reverse    bool   `json:"reverse"`
	Reversed   bool   `json:"reversed"`
	Invert     bool   `json:"invert"`
	Inverted   bool   `json:"inverted"`
}

type toleranceDocument struct {
	Pct      *float64                     `json:"pct"`
	Total    *float64                     `json:"total"`
	SplitPct *float64                     `json:"split_pct"`
	Value    *float64                     `json:"value"`
	Point    *float64                     `json:"point"`
	Y        *float64                     `json:"y"`
	Bars     map[string]barToleranceEntry `json:"bars"`
}

type barToleranceEntry struct {
	Total    *float64 `json:"total"`
	SplitPct *float64 `json:"split_pct"`
}

type barDocument struct {
	Total    *float64 `json:"total"`
	SplitPct *float64 `json:"split_pct"`
}

// reverseKeyings are the keying/polarity values that mark a reverse-keyed
// statement.
var reverseKeyings = map[string]bool{
	"negative": true,
	"neg":      true,
	"reverse":  true,
	"reversed": true,
	"invert":   true,
	"inverted": true,
}

// KindOf resolves the variant for a bank type and subtest.
func KindOf(typ, subtest string) Kind {
	if subtest == SubtestSituationalJudgement {
		return KindRatedResponseSet
	}
	if k, ok := kindAliases[strings.TrimSpace(typ)]; ok {
		return k
	}
	return KindSimpleChoice
}

// Decode converts one raw bank entry into its variant.
func Decode(raw []byte) (Question, error) {
	var doc entryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return doc.toQuestion()
}

func (d entryDocument) toQuestion() (Question, error) {
	base := Base{
		ID:         d.ID,
		Competency: d.Competency,
		Subtest:    d.Subtest,
		Section:    d.Section,
		Context:    d.Context,
		Prompt:     d.Question,
	}

	correct := d.CorrectAnswer
	if isAbsent(correct) {
		correct = d.CorrectAnswerAlt
	}

	var tol toleranceDocument
	if !isAbsent(d.Tolerance) {
		if err := json.Unmarshal(d.Tolerance, &tol); err != nil {
			return nil, fmt.Errorf("question %s: decode tolerance: %w", d.ID, err)
		}
	}

	kind := KindOf(d.Type, d.Subtest)
	if kind != KindIpsativeTriplet {
		// Plain string options belong to discrete-choice prompts.
		var choices []string
		if json.Unmarshal(d.Options, &choices) == nil {
			base.Choices = choices
		}
	}

	switch kind {
	case KindClassificationTable:
		q := &ClassificationTable{Base: base, Correct: map[string]any{}}
		if err := unmarshalOptional(correct, &q.Correct); err != nil {
			return nil, fmt.Errorf("question %s: %w", d.ID, err)
		}
		return q, nil

	case KindProportionChart:
		q := &ProportionChart{Base: base, Correct: map[string]float64{}, PctTolerance: tol.Pct}
		if err := unmarshalOptional(correct, &q.Correct); err != nil {
			return nil, fmt.Errorf("question %s: %w", d.ID, err)
		}
		return q, nil

	case KindAllocationChart:
		return decodeAllocation(base, correct, tol)

	case KindTabbedEvaluation:
		return decodeTabbed(base, correct, d.WidgetData)

	case KindPointGraph:
		return decodePointGraph(base, correct, tol, d.WidgetData)

	case KindRanking:
		q := &Ranking{Base: base}
		if err := unmarshalOptional(correct, &q.Correct); err != nil {
			return nil, fmt.Errorf("question %s: %w", d.ID, err)
		}
		return q, nil

	case KindIpsativeTriplet:
		return decodeTriplet(base, d.Options)

	case KindRatedResponseSet:
		q := &RatedResponseSet{Base: base, Correct: map[string]float64{}}
		if err := unmarshalOptional(correct, &q.Correct); err != nil {
			return nil, fmt.Errorf("question %s: %w", d.ID, err)
		}
		for _, r := range d.Responses {
			q.Responses = append(q.Responses, Response{ID: r.ID, Text: r.Text, Competencies: r.Competencies})
		}
		return q, nil

	default:
		q := &SimpleChoice{Base: base}
		if !isAbsent(correct) {
			dec := json.NewDecoder(bytes.NewReader(correct))
			dec.UseNumber()
			if err := dec.Decode(&q.Correct); err != nil {
				return nil, fmt.Errorf("question %s: decode correct answer: %w", d.ID, err)
			}
		}
		return q, nil
	}
}

func decodeAllocation(base Base, correct json.RawMessage, tol toleranceDocument) (Question, error) {
	q := &AllocationChart{
		Base:      base,
		Tolerance: BarTolerance{Total: tol.Total, SplitPct: tol.SplitPct},
	}
	if len(tol.Bars) > 0 {
		q.BarTolerance = make(map[string]BarTolerance, len(tol.Bars))
		for id, bt := range tol.Bars {
			q.BarTolerance[id] = BarTolerance{Total: bt.Total, SplitPct: bt.SplitPct}
		}
	}

	var fields map[string]json.RawMessage
	if err := unmarshalOptional(correct, &fields); err != nil {
		return nil, fmt.Errorf("question %s: %w", base.ID, err)
	}

	// A flat object with numeric total/split_pct is a single bar; anything
	// else is keyed by bar id.
	var flat barDocument
	if json.Unmarshal(correct, &flat) == nil && (flat.Total != nil || flat.SplitPct != nil) {
		q.Single = &Bar{Total: flat.Total, SplitPct: flat.SplitPct}
		return q, nil
	}

	q.Bars = make(map[string]Bar, len(fields))
	for id, rawBar := range fields {
		var bar barDocument
		if err := json.Unmarshal(rawBar, &bar); err != nil {
			return nil, fmt.Errorf("question %s: decode bar %s: %w", base.ID, id, err)
		}
		q.Bars[id] = Bar{Total: bar.Total, SplitPct: bar.SplitPct}
	}
	return q, nil
}

func decodeTabbed(base Base, correct json.RawMessage, widget widgetDocument) (Question, error) {
	q := &TabbedEvaluation{Base: base, Correct: map[string]string{}}
	for _, tab := range widget.Tabs {
		if tab.ID != "" {
			q.Tabs = append(q.Tabs, tab.ID)
		}
	}

	var wrapped struct {
		Answers map[string]string `json:"answers"`
	}
	if !isAbsent(correct) && json.Unmarshal(correct, &wrapped) == nil && wrapped.Answers != nil {
		q.Correct = wrapped.Answers
		return q, nil
	}
	if err := unmarshalOptional(correct, &q.Correct); err != nil {
		return nil, fmt.Errorf("question %s: %w", base.ID, err)
	}
	return q, nil
}

func decodePointGraph(base Base, correct json.RawMessage, tol toleranceDocument, widget widgetDocument) (Question, error) {
	q := &PointGraph{Base: base, Labels: widget.XAxisLabels}
	switch {
	case tol.Value != nil:
		q.ValueTolerance = tol.Value
	case tol.Point != nil:
		q.ValueTolerance = tol.Point
	case tol.Y != nil:
		q.ValueTolerance = tol.Y
	}

	if isAbsent(correct) {
		return q, nil
	}

	var values []float64
	if json.Unmarshal(correct, &values) == nil {
		q.Correct = values
		return q, nil
	}

	var wrapped struct {
		Values []float64 `json:"values"`
	}
	if json.Unmarshal(correct, &wrapped) == nil && wrapped.Values != nil {
		q.Correct = wrapped.Values
		return q, nil
	}

	var byLabel map[string]float64
	if err := json.Unmarshal(correct, &byLabel); err != nil {
		return nil, fmt.Errorf("question %s: decode point values: %w", base.ID, err)
	}
	q.Correct = orderByLabels(byLabel, q.Labels)
	return q, nil
}

// orderByLabels lays out values in axis order when every label is keyed,
// otherwise in sorted key order.
func orderByLabels(byLabel map[string]float64, labels []string) []float64 {
	complete := len(labels) > 0
	for _, l := range labels {
		if _, ok := byLabel[l]; !ok {
			complete = false
			break
		}
	}

	keys := labels
	if !complete {
		keys = make([]string, 0, len(byLabel))
		for k := range byLabel {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = byLabel[k]
	}
	return out
}

func decodeTriplet(base Base, rawOptions json.RawMessage) (Question, error) {
	var docs []optionDocument
	if err := unmarshalOptional(rawOptions, &docs); err != nil {
		return nil, fmt.Errorf("question %s: decode options: %w", base.ID, err)
	}
	q := &Triplet{Base: base}
	for _, o := range docs {
		q.Options = append(q.Options, TripletOption{
			ID:         strings.TrimSpace(o.ID),
			Text:       o.Text,
			Competency: strings.TrimSpace(o.Competency),
			Reverse:    o.reverseKeyed(),
		})
	}
	return q, nil
}

func (o optionDocument) reverseKeyed() bool {
	keying := o.Keying
	if keying == "" {
		keying = o.Polarity
	}
	if reverseKeyings[strings.ToLower(strings.TrimSpace(keying))] {
		return true
	}
	return o.Reverse || o.Reversed || o.Invert || o.Inverted
}

func unmarshalOptional(raw json.RawMessage, dst any) error {
	if isAbsent(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode correct answer: %w", err)
	}
	return nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
