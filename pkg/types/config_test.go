package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ProjectPath:       "project.gpkg",
		StreamsideBufferM: DefaultStreamsideBufferM,
		RiparianBufferM:   DefaultRiparianBufferM,
	}
	require.NoError(t, valid.Validate())

	c := valid
	c.ProjectPath = ""
	assert.ErrorIs(t, c.Validate(), ErrProjectPathEmpty)

	c = valid
	c.StreamsideBufferM = 0
	assert.ErrorIs(t, c.Validate(), ErrBufferInvalid)

	c = valid
	c.RiparianBufferM = -100
	assert.ErrorIs(t, c.Validate(), ErrBufferInvalid)

	c = valid
	c.RiparianBufferM = c.StreamsideBufferM
	assert.ErrorIs(t, c.Validate(), ErrBufferOrder)

	c = valid
	c.Workers = -1
	assert.ErrorIs(t, c.Validate(), ErrWorkersInvalid)

	c = valid
	c.Workers = 8
	assert.NoError(t, c.Validate())
}

func TestVegetationType_Validate(t *testing.T) {
	vt := VegetationType{VegetationID: 1284, Epoch: EpochExisting, DefaultSuitability: 2}
	assert.NoError(t, vt.Validate())

	vt.DefaultSuitability = 5
	assert.ErrorIs(t, vt.Validate(), ErrSuitabilityRange)

	vt.DefaultSuitability = -1
	assert.ErrorIs(t, vt.Validate(), ErrSuitabilityRange)
}

func TestReachVegetation_Validate(t *testing.T) {
	rv := ReachVegetation{ReachID: 1, VegetationID: 1284, BufferM: 30, AreaSqM: 900, CellCount: 1}
	assert.NoError(t, rv.Validate())

	for _, bad := range []ReachVegetation{
		{ReachID: 1, VegetationID: 1, BufferM: 0, AreaSqM: 900, CellCount: 1},
		{ReachID: 1, VegetationID: 1, BufferM: 30, AreaSqM: 0, CellCount: 1},
		{ReachID: 1, VegetationID: 1, BufferM: 30, AreaSqM: 900, CellCount: 0},
	} {
		assert.ErrorIs(t, bad.Validate(), ErrEmptyArea)
	}
}

func TestWatershed_Validate(t *testing.T) {
	w := Watershed{WatershedID: "17060304", AreaSqKm: 2300, MaxDrainage: 100}
	assert.NoError(t, w.Validate())

	w.WatershedID = ""
	assert.ErrorIs(t, w.Validate(), ErrInvalidID)

	w = Watershed{WatershedID: "x", MaxDrainage: -1}
	assert.ErrorIs(t, w.Validate(), ErrNegativeValue)
}
