package llm

import (
	"encoding/json"

	"github.com/talentprep/scorekit/internal/schema"
)

// checkSchema validates raw against s. A nil schema accepts anything.
func checkSchema(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	if _, err := schema.Validate("llm-"+s.Name, s.Definition, raw); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

// finish validates content and assembles the Response. A reply cut off at
// the token limit is reported as ErrMaxTokensExceeded when a schema was
// requested, since truncated JSON never validates.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil && stop == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := checkSchema(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly alias to a provider model ID. Unknown names
// pass through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
