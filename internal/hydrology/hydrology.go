// Package hydrology resolves watershed regression parameters into the
// per-reach discharge and stream power inputs the capacity model consumes.
// Parameter values are stored in data units and converted to equation
// units by each parameter's fixed conversion factor. A missing parameter
// is a configuration error: the affected watershed's run cannot proceed
// and is reported, never silently defaulted.
package hydrology

import (
	"fmt"
	"math"

	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/pkg/types"
)

// gravity times water density, for stream power in watts:
// SP = rho * g * Q * S with rho*g = 1000 * 9.80665.
const rhoG = 1000 * 9.80665

// Params holds a watershed's resolved hydrology inputs in equation units.
type Params struct {
	WatershedID string
	AreaSqKm    float64
	QLow        float64 // baseflow discharge coefficient, cms
	Q2          float64 // 2-year peak discharge coefficient, cms
	DAExp       float64 // drainage-area scaling exponent
}

// Resolve converts a watershed's stored parameter values to equation units
// and checks the required set. Each missing parameter is reported by name.
func Resolve(w types.Watershed, values map[string]project.ParamValue) (Params, error) {
	p := Params{WatershedID: w.WatershedID, AreaSqKm: w.AreaSqKm}

	for _, req := range []struct {
		name string
		dst  *float64
	}{
		{types.ParamQLow, &p.QLow},
		{types.ParamQ2, &p.Q2},
		{types.ParamDAExp, &p.DAExp},
	} {
		pv, ok := values[req.name]
		if !ok {
			return Params{}, fmt.Errorf("watershed %s parameter %q: %w", w.WatershedID, req.name, types.ErrMissingHydroParam)
		}
		*req.dst = pv.Value * pv.Conversion
	}

	if p.QLow < 0 || p.Q2 < 0 {
		return Params{}, fmt.Errorf("watershed %s: discharge coefficients: %w", w.WatershedID, types.ErrNegativeValue)
	}
	return p, nil
}

// Discharge holds one reach's discharge and stream power values.
type Discharge struct {
	QLow  float64 // cms
	Q2    float64 // cms
	SPLow float64 // watts
	SP2   float64 // watts
}

// ReachDischarge scales the watershed discharges to one reach by the ratio
// of the reach's drainage area to the watershed area, raised to the
// scaling exponent, and derives stream power from the reach slope.
func (p Params) ReachDischarge(drainageSqKm, slope float64) (Discharge, error) {
	if drainageSqKm < 0 {
		return Discharge{}, fmt.Errorf("drainage area: %w", types.ErrNegativeValue)
	}
	if slope < 0 {
		return Discharge{}, fmt.Errorf("slope: %w", types.ErrNegativeValue)
	}

	scale := 1.0
	if p.AreaSqKm > 0 {
		scale = math.Pow(drainageSqKm/p.AreaSqKm, p.DAExp)
	}

	d := Discharge{
		QLow: p.QLow * scale,
		Q2:   p.Q2 * scale,
	}
	d.SPLow = rhoG * d.QLow * slope
	d.SP2 = rhoG * d.Q2 * slope
	return d, nil
}
