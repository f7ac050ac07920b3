package builder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/internal/suitability"
	"github.com/riverscapes/brat/pkg/types"
)

func newTestProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.Create(filepath.Join(t.TempDir(), "test.gpkg"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 5, Name: "Middle Rockies"}))
	require.NoError(t, p.InsertWatershed(types.Watershed{WatershedID: "101", Name: "W", EcoregionID: 5}))
	require.NoError(t, p.InsertReach(types.Reach{
		ReachID: 1, WatershedID: "101", ReachCode: types.ReachPerennial, LengthM: 420,
	}))
	return p
}

func TestWriteSuitabilityAggregates(t *testing.T) {
	p := newTestProject(t)

	vegTypes := []types.VegetationType{
		{VegetationID: 1284, Epoch: types.EpochExisting, DefaultSuitability: 2},
		{VegetationID: 2001, Epoch: types.EpochExisting, DefaultSuitability: 0},
		{VegetationID: 9101, Epoch: types.EpochHistoric, DefaultSuitability: 4},
	}
	resolver, err := suitability.NewResolver(vegTypes, nil)
	require.NoError(t, err)

	cfg := types.Config{
		ProjectPath:       "unused",
		StreamsideBufferM: 30,
		RiparianBufferM:   100,
	}

	rows := []types.ReachVegetation{
		{ReachID: 1, VegetationID: 1284, BufferM: 30, AreaSqM: 300, CellCount: 3},
		{ReachID: 1, VegetationID: 2001, BufferM: 30, AreaSqM: 100, CellCount: 1},
		{ReachID: 1, VegetationID: 9101, BufferM: 30, AreaSqM: 400, CellCount: 4},
		{ReachID: 1, VegetationID: 1284, BufferM: 100, AreaSqM: 900, CellCount: 9},
	}

	require.NoError(t, writeSuitabilityAggregates(p, resolver, 1, 5, rows, cfg))

	r, err := p.GetReach(1)
	require.NoError(t, err)

	// Streamside existing: (2*300 + 0*100) / 400 = 1.5.
	require.NotNil(t, r.VegSuit30EX)
	assert.InDelta(t, 1.5, *r.VegSuit30EX, 1e-9)

	// Streamside historic sees only the historic class.
	require.NotNil(t, r.VegSuit30HPE)
	assert.InDelta(t, 4.0, *r.VegSuit30HPE, 1e-9)

	// Riparian existing: only class 1284.
	require.NotNil(t, r.VegSuit100EX)
	assert.InDelta(t, 2.0, *r.VegSuit100EX, 1e-9)

	// No historic rows in the riparian buffer: left null.
	assert.Nil(t, r.VegSuit100HPE)
}
