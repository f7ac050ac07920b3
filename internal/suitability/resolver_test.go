package suitability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverscapes/brat/pkg/types"
)

func testVegTypes() []types.VegetationType {
	return []types.VegetationType{
		{VegetationID: 1284, Epoch: types.EpochExisting, Name: "Willow Shrubland", DefaultSuitability: 2},
		{VegetationID: 2001, Epoch: types.EpochExisting, Name: "Bare Ground", DefaultSuitability: 0},
		{VegetationID: 9101, Epoch: types.EpochHistoric, Name: "Riparian Forest", DefaultSuitability: 4},
	}
}

func TestResolver_OverridePrecedence(t *testing.T) {
	r, err := NewResolver(testVegTypes(), []types.VegetationOverride{
		{EcoregionID: 5, VegetationID: 1284, OverrideSuitability: 4},
	})
	require.NoError(t, err)

	// In the override's ecoregion the override wins.
	s, err := r.Resolve(1284, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, s)

	// Elsewhere the class default applies.
	s, err = r.Resolve(1284, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, s)
}

func TestResolver_UnknownVegetation(t *testing.T) {
	r, err := NewResolver(testVegTypes(), nil)
	require.NoError(t, err)

	_, err = r.Resolve(7777, 5)
	assert.ErrorIs(t, err, types.ErrUnknownVegetation)

	_, err = r.Epoch(7777)
	assert.ErrorIs(t, err, types.ErrUnknownVegetation)
}

func TestNewResolver_RejectsBadData(t *testing.T) {
	_, err := NewResolver([]types.VegetationType{
		{VegetationID: 1, Epoch: types.EpochExisting, DefaultSuitability: 5},
	}, nil)
	assert.ErrorIs(t, err, types.ErrSuitabilityRange)

	_, err = NewResolver(testVegTypes(), []types.VegetationOverride{
		{EcoregionID: 5, VegetationID: 1284, OverrideSuitability: -1},
	})
	assert.ErrorIs(t, err, types.ErrSuitabilityRange)

	// An override for a class absent from the reference data is a
	// configuration error, not a silent no-op.
	_, err = NewResolver(testVegTypes(), []types.VegetationOverride{
		{EcoregionID: 5, VegetationID: 4242, OverrideSuitability: 3},
	})
	assert.ErrorIs(t, err, types.ErrUnknownVegetation)
}

func TestResolver_WeightedSuitability(t *testing.T) {
	r, err := NewResolver(testVegTypes(), []types.VegetationOverride{
		{EcoregionID: 5, VegetationID: 1284, OverrideSuitability: 4},
	})
	require.NoError(t, err)

	rows := []types.ReachVegetation{
		{ReachID: 1, VegetationID: 1284, BufferM: 30, AreaSqM: 300, CellCount: 3},
		{ReachID: 1, VegetationID: 2001, BufferM: 30, AreaSqM: 100, CellCount: 1},
		{ReachID: 1, VegetationID: 9101, BufferM: 30, AreaSqM: 500, CellCount: 5},
	}

	// Existing epoch: (2*300 + 0*100) / 400 = 1.5; the historic row is
	// ignored.
	v, ok, err := r.WeightedSuitability(rows, 6, types.EpochExisting)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	// Same rows under the override ecoregion: (4*300 + 0*100) / 400 = 3.
	v, ok, err = r.WeightedSuitability(rows, 5, types.EpochExisting)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	// Historic epoch sees only the historic row.
	v, ok, err = r.WeightedSuitability(rows, 6, types.EpochHistoric)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-9)

	// No contributing rows.
	_, ok, err = r.WeightedSuitability(nil, 6, types.EpochExisting)
	require.NoError(t, err)
	assert.False(t, ok)
}
