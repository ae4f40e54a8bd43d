package equality

import (
	"encoding/json"
	"math"
	"sort"
)

// Canonicalize returns a copy of v in canonical form: map keys are visited in
// sorted order, slices keep their order, and every numeric type is widened to
// float64. Values decoded from JSON, plain Go maps keyed by string, and nested
// combinations of both are supported. The input is never mutated.
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(x)) encodes the same as
// Canonicalize(x).
func Canonicalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(t))
		for _, k := range keys {
			out[k] = Canonicalize(t[k])
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case map[string]float64:
		out := make(map[string]any, len(t))
		for k, f := range t {
			out[k] = f
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Canonicalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out
	case string, bool:
		return t
	}

	if f, ok := numeric(v); ok {
		return f
	}
	return v
}

// Serialize encodes the canonical form of v as JSON. encoding/json writes map
// keys in sorted order, so two structurally identical values serialize to the
// same string regardless of insertion order. Values that cannot be encoded
// (channels, funcs, NaN) yield the empty string.
func Serialize(v any) string {
	b, err := json.Marshal(Canonicalize(v))
	if err != nil {
		return ""
	}
	return string(b)
}

// Equal reports whether a and b are structurally identical once canonicalized.
// Unencodable input is never equal to anything.
func Equal(a, b any) bool {
	left := Serialize(a)
	if left == "" {
		return false
	}
	return left == Serialize(b)
}

// numeric widens Go numeric kinds and json.Number to float64.
func numeric(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
