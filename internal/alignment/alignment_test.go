package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentprep/scorekit/internal/catalog"
	"github.com/talentprep/scorekit/internal/ipsative"
	"github.com/talentprep/scorekit/internal/weights"
)

func profile() ipsative.Profile {
	return ipsative.Profile{
		Entries: []ipsative.Entry{
			{ID: catalog.SupportingCooperating, Pct: 80},
			{ID: catalog.AdaptingCoping, Pct: 40},
			{ID: catalog.InteractingPresenting, Pct: 50},
			{ID: catalog.OrganizingExecuting, Pct: 60},
		},
		Extras: []ipsative.Entry{
			{ID: catalog.IntegrityEthics, Pct: 90},
		},
	}
}

func TestMap_WeightedMean(t *testing.T) {
	table := catalog.AlignmentTable{
		{ID: "care", Label: "Care", Sources: []weights.Weighted{
			{ID: catalog.SupportingCooperating, Weight: 1.0},
			{ID: catalog.AdaptingCoping, Weight: 0.5},
			{ID: catalog.InteractingPresenting, Weight: 0.3},
		}},
	}

	got := Map(profile(), table)
	require.Len(t, got, 1)
	// (80*1 + 40*0.5 + 50*0.3) / 1.8 = 115/1.8 = 63.9
	assert.Equal(t, Alignment{ID: "care", Label: "Care", Pct: 64}, got[0])
}

func TestMap_ExtrasAndMissingSources(t *testing.T) {
	table := catalog.AlignmentTable{
		{ID: "integrity", Label: "Integrity", Sources: []weights.Weighted{
			{ID: catalog.IntegrityEthics, Weight: 1.0},
			{ID: catalog.OrganizingExecuting, Weight: 0.5},
			{ID: "not_in_profile", Weight: 5},
		}},
	}

	got := Map(profile(), table)
	// (90 + 30) / 1.5
	assert.Equal(t, 80, got[0].Pct)
}

func TestMap_ZeroWeight(t *testing.T) {
	table := catalog.AlignmentTable{
		{ID: "none", Label: "None"},
		{ID: "zero", Label: "Zero", Sources: []weights.Weighted{{ID: catalog.SupportingCooperating, Weight: 0}}},
		{ID: "absent", Label: "Absent", Sources: []weights.Weighted{{ID: "ghost", Weight: 1}}},
	}

	got := Map(profile(), table)
	require.Len(t, got, 3)
	for _, a := range got {
		assert.Equal(t, 0, a.Pct, a.ID)
	}
}

func TestMap_DefaultTableOrder(t *testing.T) {
	got := Map(profile(), catalog.DefaultAlignment())
	require.Len(t, got, 4)
	assert.Equal(t, []string{"integrity", "care", "teamwork", "excellence"},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}
