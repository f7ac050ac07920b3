package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverscapes/brat/pkg/types"
)

func newProject(t *testing.T) *Project {
	t.Helper()
	p, err := Create(filepath.Join(t.TempDir(), "test.gpkg"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func fp(v float64) *float64 { return &v }

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.gpkg")

	p, err := Create(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, path, p.Path())
}

func TestCreate_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.gpkg")

	p, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 1, Name: "First"}))
	require.NoError(t, p.Close())

	// A second create starts from scratch.
	p, err = Create(path)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 1, Name: "Second"}))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gpkg"))
	require.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	p := newProject(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	// Operations after close fail with the lifecycle error.
	_, err := p.CountReaches()
	assert.ErrorIs(t, err, types.ErrProjectClosed)
	err = p.InsertEcoregion(types.Ecoregion{EcoregionID: 1})
	assert.ErrorIs(t, err, types.ErrProjectClosed)
}

func TestSeed_CapacityRanges(t *testing.T) {
	p := newProject(t)

	ranges, err := p.CapacityRanges()
	require.NoError(t, err)
	require.Len(t, ranges, 5)

	assert.Equal(t, types.CapacityNone, ranges[0].Class)
	assert.Equal(t, 0.0, ranges[0].Min)
	assert.Equal(t, 0.0, ranges[0].Max)
	assert.Equal(t, types.CapacityPervasive, ranges[4].Class)
	assert.Equal(t, 40.0, ranges[4].Max)

	// Contiguous bands: each max is the next min.
	for i := 1; i < len(ranges)-1; i++ {
		assert.Equal(t, ranges[i].Max, ranges[i+1].Min)
	}
}

func TestSeed_HydroParams(t *testing.T) {
	p := newProject(t)

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 1, Name: "Test"}))
	require.NoError(t, p.InsertWatershed(types.Watershed{WatershedID: "101", Name: "W", EcoregionID: 1}))

	// The three required parameters are pre-seeded and settable by name.
	for _, name := range []string{types.ParamQLow, types.ParamQ2, types.ParamDAExp} {
		require.NoError(t, p.SetWatershedParam("101", name, 1))
	}
	require.ErrorIs(t, p.SetWatershedParam("101", "Q100", 1), types.ErrNotFound)

	values, err := p.WatershedParams("101")
	require.NoError(t, err)
	require.Len(t, values, 3)

	// The discharge coefficients convert cfs to cms; the exponent is
	// dimensionless.
	assert.InDelta(t, 0.028316846592, values[types.ParamQLow].Conversion, 1e-15)
	assert.InDelta(t, 0.028316846592, values[types.ParamQ2].Conversion, 1e-15)
	assert.Equal(t, 1.0, values[types.ParamDAExp].Conversion)
}

func TestWatersheds_RoundTrip(t *testing.T) {
	p := newProject(t)

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 5, Name: "Middle Rockies"}))
	w := types.Watershed{
		WatershedID: "17060304",
		Name:        "Asotin Creek",
		AreaSqKm:    2300,
		EcoregionID: 5,
		States:      []string{"WA", "ID"},
		MaxDrainage: 100,
	}
	require.NoError(t, p.InsertWatershed(w))

	got, err := p.GetWatershed("17060304")
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = p.GetWatershed("00000000")
	assert.ErrorIs(t, err, types.ErrUnknownWatershed)

	list, err := p.ListWatersheds()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSchema_RejectsOutOfRangeValues(t *testing.T) {
	p := newProject(t)

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 1, Name: "Test"}))
	require.NoError(t, p.InsertWatershed(types.Watershed{WatershedID: "101", Name: "W", EcoregionID: 1}))
	require.NoError(t, p.InsertReach(types.Reach{
		ReachID: 1, WatershedID: "101", ReachCode: types.ReachPerennial, LengthM: 100,
	}))

	// Validation catches the range before SQL does.
	err := p.UpdateVegSuitability(1, fp(4.5), nil, nil, nil)
	assert.ErrorIs(t, err, types.ErrSuitabilityRange)

	// The constraint backs the same range at write time for paths that
	// bypass validation.
	outputs := []RunOutputs{{ReachID: 1, VegCapacityEX: fp(-1)}}
	assert.Error(t, p.UpdateRunOutputs(outputs))
}

func TestSchema_ForeignKeysEnforced(t *testing.T) {
	p := newProject(t)

	// A reach referencing a missing watershed must be rejected.
	err := p.InsertReach(types.Reach{
		ReachID: 1, WatershedID: "nope", ReachCode: types.ReachPerennial, LengthM: 100,
	})
	assert.Error(t, err)
}
