package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/talentprep/scorekit/internal/schema"
	"github.com/talentprep/scorekit/internal/weights"
)

// ErrInvalidPolicy is returned when a policy document fails validation.
var ErrInvalidPolicy = errors.New("invalid scoring policy")

// ContradictionPair names two traits that are conceptually in tension.
type ContradictionPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Reason string `json:"reason,omitempty"`
}

// AlignmentTarget is one category of an external framework, fed by a
// weighted set of source traits.
type AlignmentTarget struct {
	ID      string             `json:"id"`
	Label   string             `json:"label"`
	Sources []weights.Weighted `json:"sources"`
}

// AlignmentTable is the ordered list of external categories.
type AlignmentTable []AlignmentTarget

// Policy is the configuration data injected into the scoring engine: the
// catalogs plus every lookup table a program may want to swap.
type Policy struct {
	Traits            Traits
	SJQ               Catalog
	Contradictions    []ContradictionPair
	ContradictionSten int
	Alignment         AlignmentTable
}

// DefaultPolicy returns the built-in catalogs and tables.
func DefaultPolicy() Policy {
	return Policy{
		Traits:            DefaultTraits(),
		SJQ:               SJQCompetencies(),
		Contradictions:    DefaultContradictions(),
		ContradictionSten: DefaultContradictionSten,
		Alignment:         DefaultAlignment(),
	}
}

// policyDocument is the JSON shape of a policy file. Every section is
// optional; omitted sections keep their defaults.
type policyDocument struct {
	Primary           *catalogDocument    `json:"primary"`
	Extras            *catalogDocument    `json:"extras"`
	SJQ               *catalogDocument    `json:"sjq"`
	Contradictions    []ContradictionPair `json:"contradictions"`
	ContradictionSten *int                `json:"contradiction_sten"`
	Alignment         AlignmentTable      `json:"alignment"`
}

type catalogDocument struct {
	Items    []Competency `json:"items"`
	Fallback string       `json:"fallback"`
}

const policySchema = `{
  "type": "object",
  "additionalProperties": false,
  "$defs": {
    "catalog": {
      "type": "object",
      "required": ["items"],
      "properties": {
        "fallback": {"type": "string"},
        "items": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "required": ["id", "label"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "label": {"type": "string", "minLength": 1},
              "tip": {"type": "string"}
            }
          }
        }
      }
    }
  },
  "properties": {
    "primary": {"$ref": "#/$defs/catalog"},
    "extras": {"$ref": "#/$defs/catalog"},
    "sjq": {"$ref": "#/$defs/catalog"},
    "contradiction_sten": {"type": "integer", "minimum": 1, "maximum": 10},
    "contradictions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["a", "b"],
        "properties": {
          "a": {"type": "string", "minLength": 1},
          "b": {"type": "string", "minLength": 1},
          "reason": {"type": "string"}
        }
      }
    },
    "alignment": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "label", "sources"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "sources": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "weight"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "weight": {"type": "number", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

// ParsePolicy validates raw against the policy schema and overlays it on
// DefaultPolicy.
func ParsePolicy(raw []byte) (Policy, error) {
	if _, err := schema.Validate("scoring-policy", []byte(policySchema), raw); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	var doc policyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	p := DefaultPolicy()
	if doc.Primary != nil {
		p.Traits.Primary = New(doc.Primary.Items, doc.Primary.Fallback)
	}
	if doc.Extras != nil {
		p.Traits.Extras = New(doc.Extras.Items, doc.Extras.Fallback)
	}
	if doc.SJQ != nil {
		p.SJQ = New(doc.SJQ.Items, doc.SJQ.Fallback)
	}
	if doc.Contradictions != nil {
		p.Contradictions = doc.Contradictions
	}
	if doc.ContradictionSten != nil {
		p.ContradictionSten = *doc.ContradictionSten
	}
	if doc.Alignment != nil {
		p.Alignment = doc.Alignment
	}
	return p, nil
}

// LoadPolicyFile reads and parses a policy file.
func LoadPolicyFile(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(raw)
}
