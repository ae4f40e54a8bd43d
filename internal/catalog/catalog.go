package catalog

import "strings"

// Competency is a scored trait or behavioral competency.
type Competency struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Tip   string `json:"tip,omitempty"`
}

// Catalog is an ordered, immutable set of competencies with an optional
// fallback entry used when an id cannot be resolved.
type Catalog struct {
	items    []Competency
	index    map[string]int
	fallback int
}

// New builds a Catalog. fallbackID names the entry unknown ids resolve to;
// when it is empty or not in items, the last entry wins.
func New(items []Competency, fallbackID string) Catalog {
	c := Catalog{
		items:    append([]Competency(nil), items...),
		index:    make(map[string]int, len(items)),
		fallback: len(items) - 1,
	}
	for i, item := range c.items {
		c.index[key(item.ID)] = i
	}
	if i, ok := c.index[key(fallbackID)]; ok {
		c.fallback = i
	}
	return c
}

// Items returns the catalog entries in order.
func (c Catalog) Items() []Competency {
	return append([]Competency(nil), c.items...)
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.items)
}

// Lookup returns the entry with this id, ignoring case and surrounding space.
// The entry keeps its id as written.
func (c Catalog) Lookup(id string) (Competency, bool) {
	i, ok := c.index[key(id)]
	if !ok {
		return Competency{}, false
	}
	return c.items[i], true
}

// Fallback returns the entry unknown ids resolve to. It is the zero value for
// an empty catalog.
func (c Catalog) Fallback() Competency {
	if c.fallback < 0 || c.fallback >= len(c.items) {
		return Competency{}
	}
	return c.items[c.fallback]
}

// Resolve maps a free-form id (trimmed, case-folded) onto the catalog. Unknown
// or empty ids resolve to the fallback entry and report false.
func (c Catalog) Resolve(id string) (Competency, bool) {
	if comp, ok := c.Lookup(id); ok {
		return comp, true
	}
	return c.Fallback(), false
}

func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Traits groups the primary trait catalog, which is always reported in full,
// with an extras catalog whose entries are reported only when exercised.
type Traits struct {
	Primary Catalog
	Extras  Catalog
}

// Lookup finds id in the primary catalog, then in extras.
func (t Traits) Lookup(id string) (Competency, bool) {
	if c, ok := t.Primary.Lookup(id); ok {
		return c, true
	}
	return t.Extras.Lookup(id)
}
