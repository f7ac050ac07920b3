package types

// VegetationType is static reference data describing one raster class:
// its epoch, display name, default dam-building suitability, and land-use
// classification. Maintainer-editable; loaded once per run.
type VegetationType struct {
	VegetationID       int     `json:"vegetation_id"`
	Epoch              Epoch   `json:"epoch"`
	Name               string  `json:"name"`
	DefaultSuitability int     `json:"default_suitability"`
	LandUseGroup       string  `json:"landuse_group,omitempty"`
	LandUseIntensity   float64 `json:"landuse_intensity"`
}

// Validate checks the 0-4 suitability range enforced by the schema.
func (v VegetationType) Validate() error {
	if v.DefaultSuitability < 0 || v.DefaultSuitability > 4 {
		return ErrSuitabilityRange
	}
	return nil
}

// VegetationOverride corrects a vegetation type's default suitability
// within a single ecoregion.
type VegetationOverride struct {
	EcoregionID         int `json:"ecoregion_id"`
	VegetationID        int `json:"vegetation_id"`
	OverrideSuitability int `json:"override_suitability"`
}

// Validate checks the 0-4 override range. An out-of-range override is a
// configuration error and must be rejected before it is accepted into the
// project database.
func (o VegetationOverride) Validate() error {
	if o.OverrideSuitability < 0 || o.OverrideSuitability > 4 {
		return ErrSuitabilityRange
	}
	return nil
}

// ReachVegetation is one aggregated intersection between a reach buffer and
// a vegetation raster class: total area (sq m) and contributing cell count.
// Rows with zero intersection are omitted, never stored as zero.
type ReachVegetation struct {
	ReachID      int     `json:"reach_id"`
	VegetationID int     `json:"vegetation_id"`
	BufferM      float64 `json:"buffer_m"`
	AreaSqM      float64 `json:"area_sqm"`
	CellCount    int     `json:"cell_count"`
}

// Validate enforces the positive-area invariant.
func (rv ReachVegetation) Validate() error {
	if rv.BufferM <= 0 || rv.AreaSqM <= 0 || rv.CellCount <= 0 {
		return ErrEmptyArea
	}
	return nil
}
