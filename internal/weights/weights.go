// Package weights holds the single weighting formula shared by unit
// attribution and alignment mapping.
package weights

import "math"

// Weighted pairs an identifier with a relative weight.
type Weighted struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Normalize drops entries with a non-finite or non-positive weight and scales
// the rest so they sum to 1. Entries sharing an ID are kept separate; callers
// that need merging should do it before or after. Returns nil when nothing
// survives.
func Normalize(items []Weighted) []Weighted {
	var kept []Weighted
	sum := 0.0
	for _, w := range items {
		if !usable(w.Weight) {
			continue
		}
		kept = append(kept, w)
		sum += w.Weight
	}
	if len(kept) == 0 || sum <= 0 {
		return nil
	}
	out := make([]Weighted, len(kept))
	for i, w := range kept {
		out[i] = Weighted{ID: w.ID, Weight: w.Weight / sum}
	}
	return out
}

// Mean returns Σ(value·weight) / Σ(weight) over entries with a usable weight
// and a known value. It returns 0 when no weight contributes.
func Mean(items []Weighted, value func(id string) (float64, bool)) float64 {
	num, den := 0.0, 0.0
	for _, w := range items {
		if !usable(w.Weight) {
			continue
		}
		v, ok := value(w.ID)
		if !ok {
			continue
		}
		num += v * w.Weight
		den += w.Weight
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func usable(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}
