// Package schema validates JSON documents against JSON Schema definitions,
// caching compiled schemas by name.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// cache holds compiled schemas keyed by name.
var cache sync.Map // map[string]*jsonschema.Schema

// Validate parses raw as JSON and validates it against definition, which may
// be a map, a struct, or raw JSON bytes. The compiled schema is cached under
// name, so a name must always refer to the same definition.
// It returns the parsed document on success.
func Validate(name string, definition any, raw []byte) (any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compile(name, definition)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return doc, nil
}

func compile(name string, definition any) (*jsonschema.Schema, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var defBytes []byte
	switch d := definition.(type) {
	case []byte:
		defBytes = d
	case json.RawMessage:
		defBytes = d
	default:
		b, err := json.Marshal(definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema definition: %w", err)
		}
		defBytes = b
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	cache.Store(name, compiled)
	return compiled, nil
}
