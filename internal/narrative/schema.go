package narrative

import "github.com/talentprep/scorekit/internal/llm"

// ProfileSchema is the reply shape for a profile narrative.
var ProfileSchema = &llm.Schema{
	Name:        "profile-narrative",
	Description: "Plain-language reading of a behavioral trait profile",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "3-4 sentence overview of the candidate's working style",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 strengths tied to the top traits (5-12 words each)",
			},
			"development": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 development areas tied to the bottom traits (5-12 words each)",
			},
			"caveats": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Notes about low consistency or contradictory answers, empty if none",
			},
		},
		"required":             []any{"summary", "strengths", "development", "caveats"},
		"additionalProperties": false,
	},
}

// CoachingSchema is the reply shape for situational-judgement coaching.
var CoachingSchema = &llm.Schema{
	Name:        "sjq-coaching",
	Description: "Targeted coaching tips for the weakest situational-judgement competencies",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"competency": map[string]any{"type": "string"},
						"tip":        map[string]any{"type": "string", "description": "One actionable sentence"},
					},
					"required":             []any{"competency", "tip"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"tips"},
		"additionalProperties": false,
	},
}
