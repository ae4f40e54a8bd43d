package equality

import (
	"math"
	"strconv"
	"strings"
)

// Number coerces v to a finite float64. Numeric kinds, json.Number and
// non-empty numeric strings are accepted. nil, booleans, empty strings,
// containers, NaN and infinities are not.
func Number(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	}

	f, ok := numeric(v)
	if !ok || !finite(f) {
		return 0, false
	}
	return f, true
}

// WithinTolerance reports whether |actual - expected| <= tol. It fails closed:
// if either side does not coerce to a finite number the result is false.
func WithinTolerance(actual, expected any, tol float64) bool {
	a, ok := Number(actual)
	if !ok {
		return false
	}
	e, ok := Number(expected)
	if !ok {
		return false
	}
	if tol < 0 || math.IsNaN(tol) {
		tol = 0
	}
	return math.Abs(a-e) <= tol
}
