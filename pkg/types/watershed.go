package types

// Watershed is the planning unit a run operates over, identified by its
// hydrologic unit code. Created once by the build step; immutable afterwards
// except for metadata.
type Watershed struct {
	WatershedID  string   `json:"watershed_id"` // HUC code
	Name         string   `json:"name"`
	AreaSqKm     float64  `json:"area_sqkm"`
	EcoregionID  int      `json:"ecoregion_id"`
	States       []string `json:"states,omitempty"`
	QLowEquation string   `json:"qlow_equation,omitempty"`
	Q2Equation   string   `json:"q2_equation,omitempty"`

	// MaxDrainage is the drainage area (sq km) above which a channel is
	// considered too large for beaver to dam. Zero means no threshold.
	MaxDrainage float64 `json:"max_drainage"`
}

// Validate checks the watershed's schema invariants.
func (w Watershed) Validate() error {
	if w.WatershedID == "" {
		return ErrInvalidID
	}
	if w.AreaSqKm < 0 || w.MaxDrainage < 0 {
		return ErrNegativeValue
	}
	return nil
}

// Ecoregion is static reference data grouping watersheds for vegetation
// suitability overrides.
type Ecoregion struct {
	EcoregionID int    `json:"ecoregion_id"`
	Name        string `json:"name"`
}
