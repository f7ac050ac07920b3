package hydrology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/pkg/types"
)

const cfsToCms = 0.028316846592

func testWatershed() types.Watershed {
	return types.Watershed{WatershedID: "17060304", AreaSqKm: 2000}
}

func fullParams() map[string]project.ParamValue {
	return map[string]project.ParamValue{
		types.ParamQLow:  {Name: types.ParamQLow, Value: 10, Conversion: cfsToCms},
		types.ParamQ2:    {Name: types.ParamQ2, Value: 400, Conversion: cfsToCms},
		types.ParamDAExp: {Name: types.ParamDAExp, Value: 0.9, Conversion: 1},
	}
}

func TestResolve_AppliesConversion(t *testing.T) {
	p, err := Resolve(testWatershed(), fullParams())
	require.NoError(t, err)

	assert.InDelta(t, 10*cfsToCms, p.QLow, 1e-12)
	assert.InDelta(t, 400*cfsToCms, p.Q2, 1e-12)
	assert.InDelta(t, 0.9, p.DAExp, 1e-12)
	assert.Equal(t, "17060304", p.WatershedID)
	assert.Equal(t, 2000.0, p.AreaSqKm)
}

func TestResolve_MissingParam(t *testing.T) {
	for _, name := range []string{types.ParamQLow, types.ParamQ2, types.ParamDAExp} {
		values := fullParams()
		delete(values, name)

		_, err := Resolve(testWatershed(), values)
		require.ErrorIs(t, err, types.ErrMissingHydroParam)
		assert.Contains(t, err.Error(), name)
		assert.Contains(t, err.Error(), "17060304")
	}
}

func TestResolve_NegativeDischarge(t *testing.T) {
	values := fullParams()
	values[types.ParamQ2] = project.ParamValue{Name: types.ParamQ2, Value: -1, Conversion: cfsToCms}

	_, err := Resolve(testWatershed(), values)
	assert.ErrorIs(t, err, types.ErrNegativeValue)
}

func TestReachDischarge_Scaling(t *testing.T) {
	p := Params{WatershedID: "x", AreaSqKm: 100, QLow: 2, Q2: 8, DAExp: 1}

	// A reach draining a quarter of the watershed carries a quarter of
	// the discharge under a linear exponent.
	d, err := p.ReachDischarge(25, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.QLow, 1e-9)
	assert.InDelta(t, 2.0, d.Q2, 1e-9)

	// SP = rho * g * Q * S.
	assert.InDelta(t, 1000*9.80665*0.5*0.01, d.SPLow, 1e-6)
	assert.InDelta(t, 1000*9.80665*2.0*0.01, d.SP2, 1e-6)
}

func TestReachDischarge_ZeroWatershedArea(t *testing.T) {
	p := Params{WatershedID: "x", QLow: 2, Q2: 8, DAExp: 0.9}

	// No watershed area to scale against: discharges pass through.
	d, err := p.ReachDischarge(25, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.QLow)
	assert.Equal(t, 8.0, d.Q2)
	assert.Equal(t, 0.0, d.SP2)
}

func TestReachDischarge_RejectsNegativeInputs(t *testing.T) {
	p := Params{WatershedID: "x", AreaSqKm: 100, QLow: 2, Q2: 8, DAExp: 1}

	_, err := p.ReachDischarge(-1, 0.01)
	assert.ErrorIs(t, err, types.ErrNegativeValue)

	_, err = p.ReachDischarge(25, -0.01)
	assert.ErrorIs(t, err, types.ErrNegativeValue)
}
