package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/talentprep/scorekit/internal/equality"
	"github.com/talentprep/scorekit/internal/schema"
)

// ErrInvalidBank is returned when a question bank fails validation.
var ErrInvalidBank = errors.New("invalid question bank")

// BankSchema is the JSON Schema every bank document must satisfy.
const BankSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "type": {"type": "string"},
      "subtest": {"type": "string"},
      "competency": {"type": "string"},
      "tolerance": {
        "type": "object",
        "properties": {
          "pct": {"type": "number", "minimum": 0},
          "total": {"type": "number", "minimum": 0},
          "split_pct": {"type": "number", "minimum": 0},
          "value": {"type": "number", "minimum": 0},
          "point": {"type": "number", "minimum": 0},
          "y": {"type": "number", "minimum": 0},
          "bars": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "properties": {
                "total": {"type": "number", "minimum": 0},
                "split_pct": {"type": "number", "minimum": 0}
              }
            }
          }
        }
      },
      "responses": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id"],
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "competencies": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["id"],
                "properties": {
                  "id": {"type": "string"},
                  "weight": {"type": "number"}
                }
              }
            }
          }
        }
      }
    },
    "if": {
      "properties": {"type": {"enum": ["ipsative", "ipsative_triplet"]}},
      "required": ["type"]
    },
    "then": {
      "required": ["options"],
      "properties": {
        "options": {
          "type": "array",
          "minItems": 3,
          "maxItems": 3,
          "items": {
            "type": "object",
            "required": ["id", "competency"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "competency": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`

// Bank is an immutable, id-indexed set of questions.
type Bank struct {
	questions []Question
	byID      map[string]Question
}

// NewBank indexes questions by id. Later duplicates of an id replace earlier
// ones in the index but all questions are kept in order.
func NewBank(questions []Question) *Bank {
	b := &Bank{
		questions: append([]Question(nil), questions...),
		byID:      make(map[string]Question, len(questions)),
	}
	for _, q := range questions {
		b.byID[q.QuestionID()] = q
	}
	return b
}

// Get returns the question with the given id.
func (b *Bank) Get(id string) (Question, bool) {
	if b == nil {
		return nil, false
	}
	q, ok := b.byID[id]
	return q, ok
}

// Questions returns every question in bank order.
func (b *Bank) Questions() []Question {
	if b == nil {
		return nil
	}
	return append([]Question(nil), b.questions...)
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.questions)
}

// Triplets returns the forced-choice blocks in bank order.
func (b *Bank) Triplets() []*Triplet {
	var out []*Triplet
	for _, q := range b.Questions() {
		if t, ok := q.(*Triplet); ok {
			out = append(out, t)
		}
	}
	return out
}

// ParseBank validates raw against BankSchema and decodes every entry.
func ParseBank(raw []byte) (*Bank, error) {
	if _, err := schema.Validate("question-bank", []byte(BankSchema), raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	questions := make([]Question, 0, len(entries))
	for i, entry := range entries {
		q, err := Decode(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidBank, i, err)
		}
		questions = append(questions, q)
	}
	return NewBank(questions), nil
}

// LoadBankFile reads and parses a bank file.
func LoadBankFile(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return ParseBank(raw)
}

// Signature identifies a question by content rather than id: two questions
// with the same prompt, context, options and key are duplicates.
func Signature(q Question) string {
	info := q.Info()
	options := make([]string, len(info.Choices))
	for i, c := range info.Choices {
		options[i] = normalizeText(c)
	}
	if t, ok := q.(*Triplet); ok {
		for _, o := range t.Options {
			options = append(options, normalizeText(o.Text))
		}
	}

	return strings.Join([]string{
		normalizeText(info.Subtest),
		normalizeText(info.Section),
		normalizeText(info.Context),
		normalizeText(info.Prompt),
		strings.Join(options, "||"),
		equality.Serialize(answerKey(q)),
	}, "###")
}

// Dedupe drops every question whose Signature was already seen, keeping the
// first occurrence.
func Dedupe(questions []Question) []Question {
	seen := make(map[string]bool, len(questions))
	var unique []Question
	for _, q := range questions {
		sig := Signature(q)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		unique = append(unique, q)
	}
	return unique
}

// Duplicates groups the ids of questions sharing a Signature. Only groups
// with more than one id are returned, in first-seen order.
func Duplicates(questions []Question) [][]string {
	groups := make(map[string][]string)
	var order []string
	for _, q := range questions {
		sig := Signature(q)
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], q.QuestionID())
	}

	var out [][]string
	for _, sig := range order {
		if len(groups[sig]) > 1 {
			out = append(out, groups[sig])
		}
	}
	return out
}

func answerKey(q Question) any {
	switch v := q.(type) {
	case *ClassificationTable:
		return v.Correct
	case *ProportionChart:
		return v.Correct
	case *TabbedEvaluation:
		return v.Correct
	case *PointGraph:
		return v.Correct
	case *Ranking:
		return v.Correct
	case *RatedResponseSet:
		return v.Correct
	case *SimpleChoice:
		return v.Correct
	case *AllocationChart:
		if v.Single != nil {
			return barKey(*v.Single)
		}
		out := make(map[string]any, len(v.Bars))
		for id, bar := range v.Bars {
			out[id] = barKey(bar)
		}
		return out
	}
	return nil
}

func barKey(b Bar) map[string]any {
	out := map[string]any{}
	if b.Total != nil {
		out["total"] = *b.Total
	}
	if b.SplitPct != nil {
		out["split_pct"] = *b.SplitPct
	}
	return out
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
