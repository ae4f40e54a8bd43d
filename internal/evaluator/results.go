package evaluator

import (
	"math"

	"github.com/talentprep/scorekit/internal/question"
)

// Result is the verdict for one question of an attempt.
type Result struct {
	QuestionID string        `json:"question_id"`
	Kind       question.Kind `json:"kind"`
	Index      int           `json:"index"`
	Answer     any           `json:"answer,omitempty"`
	Answered   bool          `json:"answered"`
	Correct    bool          `json:"correct"`
}

// Summary totals a result list.
type Summary struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	// Pct is the share of all questions answered correctly, rounded.
	Pct int `json:"pct"`
}

// BuildResults evaluates questions[i] against answers[i]. Missing answers
// count as unanswered.
func (e *Evaluator) BuildResults(questions []question.Question, answers []any) []Result {
	results := make([]Result, 0, len(questions))
	for i, q := range questions {
		if q == nil {
			continue
		}
		var answer any
		if i < len(answers) {
			answer = answers[i]
		}
		results = append(results, Result{
			QuestionID: q.QuestionID(),
			Kind:       q.Kind(),
			Index:      i,
			Answer:     answer,
			Answered:   IsAnswered(q, answer),
			Correct:    e.Evaluate(q, answer),
		})
	}
	return results
}

// BuildResults runs BuildResults with the default bands.
func BuildResults(questions []question.Question, answers []any) []Result {
	return std.BuildResults(questions, answers)
}

// Summarize counts answered and correct results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Answered {
			s.Answered++
		}
		if r.Correct {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Pct = int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
	}
	return s
}
