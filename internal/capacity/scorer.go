// Package capacity implements the dam-capacity model: a pluggable
// deterministic scoring function over vegetation suitability and
// hydrology, bucketing against the capacity class ranges, and the
// risk/limitation/opportunity classification written back to each reach.
package capacity

import (
	"math"

	"github.com/riverscapes/brat/internal/hydrology"
)

// Inputs carries one reach/epoch's scoring inputs: the area-weighted
// vegetation suitability per buffer and the resolved hydrology.
type Inputs struct {
	StreamsideSuit float64 // 0-4, streamside buffer
	RiparianSuit   float64 // 0-4, riparian buffer
	Slope          float64 // m/m
	DrainageSqKm   float64
	Discharge      hydrology.Discharge
}

// Scorer turns scoring inputs into a vegetation capacity score and a
// continuous dam-capacity estimate. Implementations must be pure and
// deterministic: identical inputs must reproduce identical outputs
// bit-for-bit, because reruns with unchanged parameters are expected to
// overwrite previous results with the same values.
type Scorer interface {
	// VegCapacity combines the per-buffer suitability into one 0-4 score.
	VegCapacity(in Inputs) float64

	// DamCapacity estimates dams/km, non-negative, from the vegetation
	// capacity and hydrology. A zero vegetation capacity must yield zero.
	DamCapacity(vegCapacity float64, in Inputs) float64
}

// DefaultScorer is the built-in scoring function. The combination rules
// are implementation-defined behind the Scorer contract; any inference
// system honoring the same ranges can replace it.
type DefaultScorer struct {
	// MaxDensity caps the estimate (dams/km). Defaults to the top of the
	// Pervasive class when zero.
	MaxDensity float64

	// SlopeLimit is the channel slope above which dam building is
	// considered infeasible. Defaults to 0.23 when zero.
	SlopeLimit float64

	// StreamPowerCrit is the peak stream power (watts) at which hydraulic
	// attenuation halves the estimate. Defaults to 2000 when zero.
	StreamPowerCrit float64
}

func (s DefaultScorer) maxDensity() float64 {
	if s.MaxDensity > 0 {
		return s.MaxDensity
	}
	return 40
}

func (s DefaultScorer) slopeLimit() float64 {
	if s.SlopeLimit > 0 {
		return s.SlopeLimit
	}
	return 0.23
}

func (s DefaultScorer) streamPowerCrit() float64 {
	if s.StreamPowerCrit > 0 {
		return s.StreamPowerCrit
	}
	return 2000
}

// VegCapacity weights the streamside buffer over the riparian buffer,
// clamped to [0,4]. Dam material is harvested mostly from the banks.
func (s DefaultScorer) VegCapacity(in Inputs) float64 {
	v := 0.6*in.StreamsideSuit + 0.4*in.RiparianSuit
	return clamp(v, 0, 4)
}

// DamCapacity scales the vegetation capacity to a density and attenuates
// it by peak stream power and slope. Zero vegetation means zero capacity
// regardless of hydrology.
func (s DefaultScorer) DamCapacity(vegCapacity float64, in Inputs) float64 {
	if vegCapacity <= 0 {
		return 0
	}
	if in.Slope >= s.slopeLimit() {
		return 0
	}

	base := vegCapacity / 4 * s.maxDensity()

	// Hydraulic attenuation: quadratic falloff around the critical peak
	// stream power.
	spc := s.streamPowerCrit()
	attenuation := 1 / (1 + math.Pow(in.Discharge.SP2/spc, 2))

	return clamp(base*attenuation, 0, s.maxDensity())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
