package ipsative

import (
	"sort"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/question"
	"github.com/talentprep/scorekit/internal/units"
)

// Entry is one trait row of a profile.
type Entry struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Earned int    `json:"earned"`
	Max    int    `json:"max"`
	Pct    int    `json:"pct"`
	Sten   int    `json:"sten"`
}

// Profile is the result of scoring a forced-choice session.
type Profile struct {
	AnsweredCount int     `json:"answered_count"`
	TotalTriplets int     `json:"total_triplets"`
	Entries       []Entry `json:"profile"`
	Extras        []Entry `json:"extras"`
	Top           []Entry `json:"top"`
	Bottom        []Entry `json:"bottom"`

	// Unmapped lists option competencies found in neither catalog.
	Unmapped []string `json:"unmapped,omitempty"`
}

// Lookup finds a trait among the primary entries, then the extras.
func (p Profile) Lookup(id string) (Entry, bool) {
	for _, e := range p.Entries {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range p.Extras {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Sten bins a percentage into 1..10.
func Sten(pct int) int {
	return min(10, max(1, pct/10+1))
}

// BuildProfile scores every triplet against answers (keyed by triplet id).
// Every option of every triplet counts toward its trait's Max, answered or
// not; only complete rankings add to Earned and AnsweredCount. All primary
// traits are reported; extras only when some option references them.
func BuildProfile(triplets []*question.Triplet, answers map[string]any, traits catalog.Traits) Profile {
	occurrences := make(map[string]int)
	unmapped := make(map[string]bool)
	for _, t := range triplets {
		if t == nil {
			continue
		}
		for _, o := range t.Options {
			if o.Competency == "" {
				continue
			}
			occurrences[o.Competency]++
			if _, ok := traits.Lookup(o.Competency); !ok {
				unmapped[o.Competency] = true
			}
		}
	}

	earned := make(map[string]int)
	p := Profile{TotalTriplets: len(triplets)}
	for _, t := range triplets {
		if t == nil {
			continue
		}
		scored := ScoreTriplet(t, answers[t.ID])
		if scored == nil {
			continue
		}
		p.AnsweredCount++
		for comp, pts := range scored {
			earned[comp] += pts
		}
	}

	row := func(c catalog.Competency) Entry {
		e := Entry{
			ID:     c.ID,
			Label:  c.Label,
			Earned: earned[c.ID],
			Max:    occurrences[c.ID] * MaxPoints,
		}
		e.Pct = units.Pct(float64(e.Earned), float64(e.Max))
		e.Sten = Sten(e.Pct)
		return e
	}

	for _, c := range traits.Primary.Items() {
		p.Entries = append(p.Entries, row(c))
	}
	for _, c := range traits.Extras.Items() {
		if occurrences[c.ID] > 0 {
			p.Extras = append(p.Extras, row(c))
		}
	}

	p.Top = rank(p.Entries, true)
	p.Bottom = rank(p.Entries, false)

	for id := range unmapped {
		p.Unmapped = append(p.Unmapped, id)
	}
	sort.Strings(p.Unmapped)
	return p
}

// rank returns the three highest (or lowest) entries by sten, then pct, with
// ties broken by label ascending in both directions.
func rank(entries []Entry, highest bool) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Sten != b.Sten {
			return (a.Sten > b.Sten) == highest
		}
		if a.Pct != b.Pct {
			return (a.Pct > b.Pct) == highest
		}
		return a.Label < b.Label
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	return sorted
}
