package rolling

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ErrInvalidHistory is returned when an attempt history document is
// malformed.
var ErrInvalidHistory = errors.New("invalid attempt history")

// ParseAttempts reads a JSON array of attempt records. Both
// "assessment_kind" and the older "assessment_type" name the kind;
// created_at must be RFC 3339. Records without an answers object are kept
// with no answers.
func ParseAttempts(raw []byte) ([]Attempt, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidHistory)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidHistory)
	}

	var attempts []Attempt
	var err error
	doc.ForEach(func(_, rec gjson.Result) bool {
		var a Attempt
		a, err = parseAttempt(rec)
		if err != nil {
			err = fmt.Errorf("%w: record %d: %v", ErrInvalidHistory, len(attempts), err)
			return false
		}
		attempts = append(attempts, a)
		return true
	})
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func parseAttempt(rec gjson.Result) (Attempt, error) {
	if !rec.IsObject() {
		return Attempt{}, errors.New("not an object")
	}

	a := Attempt{
		ID:   rec.Get("id").String(),
		Kind: rec.Get("assessment_kind").String(),
	}
	if a.Kind == "" {
		a.Kind = rec.Get("assessment_type").String()
	}

	if ts := rec.Get("created_at"); ts.Exists() {
		t, err := time.Parse(time.RFC3339, ts.String())
		if err != nil {
			return Attempt{}, fmt.Errorf("created_at: %w", err)
		}
		a.CreatedAt = t
	}

	if answers := rec.Get("answers"); answers.IsObject() {
		dec := json.NewDecoder(bytes.NewReader([]byte(answers.Raw)))
		dec.UseNumber()
		if err := dec.Decode(&a.Answers); err != nil {
			return Attempt{}, fmt.Errorf("answers: %w", err)
		}
	}
	return a, nil
}
