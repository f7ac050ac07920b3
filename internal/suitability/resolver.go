// Package suitability resolves the effective dam-building suitability of a
// vegetation class within an ecoregion: the ecoregion-specific override
// when one exists, otherwise the vegetation type's global default. The
// resolver is a pure lookup built once per run from the project's
// reference tables and immutable afterwards.
package suitability

import (
	"fmt"

	"github.com/riverscapes/brat/pkg/types"
)

// overrideKey identifies one (ecoregion, vegetation type) pair.
type overrideKey struct {
	ecoregionID  int
	vegetationID int
}

// Resolver answers effective-suitability lookups.
type Resolver struct {
	defaults  map[int]int // vegetation ID -> default suitability
	epochs    map[int]types.Epoch
	overrides map[overrideKey]int
}

// NewResolver builds a resolver from vegetation reference data. Every
// default and override is validated against the 0-4 range; an out-of-range
// value is a configuration error and fails construction.
func NewResolver(vegTypes []types.VegetationType, overrides []types.VegetationOverride) (*Resolver, error) {
	r := &Resolver{
		defaults:  make(map[int]int, len(vegTypes)),
		epochs:    make(map[int]types.Epoch, len(vegTypes)),
		overrides: make(map[overrideKey]int, len(overrides)),
	}

	for _, vt := range vegTypes {
		if err := vt.Validate(); err != nil {
			return nil, fmt.Errorf("vegetation type %d: %w", vt.VegetationID, err)
		}
		r.defaults[vt.VegetationID] = vt.DefaultSuitability
		r.epochs[vt.VegetationID] = vt.Epoch
	}
	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("override (%d, %d): %w", o.EcoregionID, o.VegetationID, err)
		}
		if _, ok := r.defaults[o.VegetationID]; !ok {
			return nil, fmt.Errorf("override (%d, %d): %w", o.EcoregionID, o.VegetationID, types.ErrUnknownVegetation)
		}
		r.overrides[overrideKey{o.EcoregionID, o.VegetationID}] = o.OverrideSuitability
	}

	return r, nil
}

// Resolve returns the effective suitability for a vegetation class in an
// ecoregion: the override when present, else the class default.
func (r *Resolver) Resolve(vegetationID, ecoregionID int) (int, error) {
	if s, ok := r.overrides[overrideKey{ecoregionID, vegetationID}]; ok {
		return s, nil
	}
	s, ok := r.defaults[vegetationID]
	if !ok {
		return 0, fmt.Errorf("vegetation type %d: %w", vegetationID, types.ErrUnknownVegetation)
	}
	return s, nil
}

// Epoch returns the epoch a vegetation class belongs to.
func (r *Resolver) Epoch(vegetationID int) (types.Epoch, error) {
	e, ok := r.epochs[vegetationID]
	if !ok {
		return 0, fmt.Errorf("vegetation type %d: %w", vegetationID, types.ErrUnknownVegetation)
	}
	return e, nil
}

// WeightedSuitability computes the area-weighted mean suitability of a set
// of aggregated vegetation rows for one epoch, resolved against the given
// ecoregion. Rows belonging to other epochs are ignored. Returns false
// when no row contributed.
func (r *Resolver) WeightedSuitability(rows []types.ReachVegetation, ecoregionID int, epoch types.Epoch) (float64, bool, error) {
	var weighted, area float64
	for _, rv := range rows {
		e, err := r.Epoch(rv.VegetationID)
		if err != nil {
			return 0, false, err
		}
		if e != epoch {
			continue
		}
		s, err := r.Resolve(rv.VegetationID, ecoregionID)
		if err != nil {
			return 0, false, err
		}
		weighted += float64(s) * rv.AreaSqM
		area += rv.AreaSqM
	}
	if area == 0 {
		return 0, false, nil
	}
	return weighted / area, true, nil
}
