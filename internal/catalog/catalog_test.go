package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownAndUnknown(t *testing.T) {
	c := SJQCompetencies()

	got, ok := c.Resolve("  Safety ")
	assert.True(t, ok)
	assert.Equal(t, "safety", got.ID)

	got, ok = c.Resolve("leadership")
	assert.False(t, ok)
	assert.Equal(t, SJQFallbackID, got.ID)

	got, ok = c.Resolve("")
	assert.False(t, ok)
	assert.Equal(t, SJQFallbackID, got.ID)
}

func TestNew_IndexIgnoresCase(t *testing.T) {
	c := New([]Competency{{ID: "Safety", Label: "Safety"}, {ID: " Other", Label: "Other"}}, "OTHER")

	got, ok := c.Resolve("safety")
	assert.True(t, ok)
	assert.Equal(t, "Safety", got.ID, "entries keep their ids as written")

	_, ok = c.Lookup("SAFETY")
	assert.True(t, ok)
	assert.Equal(t, " Other", c.Fallback().ID)
}

func TestParsePolicy_MixedCaseSJQIds(t *testing.T) {
	p, err := ParsePolicy([]byte(`{"sjq": {"items": [{"id": "Safety", "label": "Safety"}, {"id": "Other", "label": "Other"}], "fallback": "other"}}`))
	require.NoError(t, err)

	got, ok := p.SJQ.Resolve("safety")
	assert.True(t, ok)
	assert.Equal(t, "Safety", got.ID)
	assert.Equal(t, "Other", p.SJQ.Fallback().ID)
}

func TestNew_FallbackDefaultsToLastEntry(t *testing.T) {
	c := New([]Competency{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}, "missing")
	assert.Equal(t, "b", c.Fallback().ID)

	c = New([]Competency{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}, "a")
	assert.Equal(t, "a", c.Fallback().ID)
}

func TestEmptyCatalog(t *testing.T) {
	c := New(nil, "")
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Competency{}, c.Fallback())
	_, ok := c.Resolve("x")
	assert.False(t, ok)
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := GreatEight()
	items := c.Items()
	items[0].Label = "changed"
	first, _ := c.Lookup(LeadingDeciding)
	assert.Equal(t, "Leading & Deciding", first.Label)
}

func TestTraitsLookup(t *testing.T) {
	tr := DefaultTraits()
	_, ok := tr.Lookup(LeadingDeciding)
	assert.True(t, ok)
	_, ok = tr.Lookup(IntegrityEthics)
	assert.True(t, ok)
	_, ok = tr.Lookup("nope")
	assert.False(t, ok)
}

func TestDefaultAlignment_SourcesAreKnownTraits(t *testing.T) {
	tr := DefaultTraits()
	for _, target := range DefaultAlignment() {
		for _, src := range target.Sources {
			_, ok := tr.Lookup(src.ID)
			assert.True(t, ok, "target %s references unknown trait %s", target.ID, src.ID)
		}
	}
}

func TestParsePolicy_Overlay(t *testing.T) {
	raw := []byte(`{
		"contradiction_sten": 8,
		"contradictions": [{"a": "leading_deciding", "b": "adapting_coping"}],
		"sjq": {"items": [{"id": "safety", "label": "Safety"}, {"id": "other", "label": "Other"}], "fallback": "other"}
	}`)
	p, err := ParsePolicy(raw)
	require.NoError(t, err)

	assert.Equal(t, 8, p.ContradictionSten)
	require.Len(t, p.Contradictions, 1)
	assert.Equal(t, "adapting_coping", p.Contradictions[0].B)
	assert.Equal(t, "other", p.SJQ.Fallback().ID)

	// Untouched sections keep their defaults.
	assert.Equal(t, 8, p.Traits.Primary.Len())
	assert.Len(t, p.Alignment, len(DefaultAlignment()))
}

func TestParsePolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"sten out of range", `{"contradiction_sten": 11}`},
		{"unknown section", `{"weights": {}}`},
		{"pair missing side", `{"contradictions": [{"a": "x"}]}`},
		{"negative weight", `{"alignment": [{"id": "t", "label": "T", "sources": [{"id": "x", "weight": -1}]}]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPolicy))
		})
	}
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contradiction_sten": 9}`), 0o644))

	p, err := LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9, p.ContradictionSten)

	_, err = LoadPolicyFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
