// Package ipsative scores forced-choice triplets and builds a trait profile
// from a session of them.
package ipsative

import (
	"strings"

	"github.com/talentprep/scorekit/internal/equality"
	"github.com/talentprep/scorekit/internal/question"
)

// Points awarded by rank position before reverse keying.
var rankPoints = [3]int{2, 1, 0}

// MaxPoints is the most one option can earn.
const MaxPoints = 2

// NormalizeAnswer extracts a ranking of three option ids from a stored
// answer. It accepts a list of exactly three non-blank ids, or an object
// holding such a list under "ranking", "order" or "ranks".
func NormalizeAnswer(v any) ([]string, bool) {
	switch t := equality.Canonicalize(v).(type) {
	case []any:
		if len(t) != 3 {
			return nil, false
		}
		ids := make([]string, 0, 3)
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s == "" {
				return nil, false
			}
			ids = append(ids, s)
		}
		return ids, true
	case map[string]any:
		for _, key := range []string{"ranking", "order", "ranks"} {
			if list, ok := t[key].([]any); ok {
				return NormalizeAnswer(list)
			}
		}
	}
	return nil, false
}

// ScoreTriplet converts a ranking into points per competency. It returns nil
// unless the answer is a permutation of exactly the triplet's three option
// ids. Rank 1 earns 2, rank 2 earns 1, rank 3 earns 0; a reverse-keyed
// option earns 2 minus that.
func ScoreTriplet(t *question.Triplet, answer any) map[string]int {
	if t == nil || len(t.Options) != 3 {
		return nil
	}
	ranked, ok := NormalizeAnswer(answer)
	if !ok {
		return nil
	}

	byID := make(map[string]question.TripletOption, 3)
	for _, o := range t.Options {
		if o.ID == "" {
			return nil
		}
		byID[o.ID] = o
	}
	if len(byID) != 3 {
		return nil
	}

	seen := make(map[string]bool, 3)
	for _, id := range ranked {
		if _, ok := byID[id]; !ok || seen[id] {
			return nil
		}
		seen[id] = true
	}

	points := make(map[string]int, 3)
	for pos, id := range ranked {
		o := byID[id]
		if o.Competency == "" {
			continue
		}
		p := rankPoints[pos]
		if o.Reverse {
			p = MaxPoints - p
		}
		points[o.Competency] += p
	}
	return points
}
