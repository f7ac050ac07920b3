package types

// Reach is one segmented stream section. The build step creates it with
// geometry and raw geophysical attributes only; the run step populates and
// overwrites the capacity, risk, limitation, and opportunity outputs in
// place on every run. Nullable attributes are pointers: a nil required
// input means the reach is skipped, never computed from a fabricated
// default.
type Reach struct {
	ReachID     int       `json:"reach_id"`
	WatershedID string    `json:"watershed_id"`
	ReachCode   ReachCode `json:"reach_code"`
	StreamName  string    `json:"stream_name,omitempty"`
	IsPerennial bool      `json:"is_perennial"`
	Centerline  []Point   `json:"centerline,omitempty"`

	// Geophysical attributes from the build step.
	LengthM      float64  `json:"length_m"`                // strictly positive
	Slope        *float64 `json:"slope,omitempty"`         // m/m
	DrainageSqKm *float64 `json:"drainage_sqkm,omitempty"` // contributing area

	// Area-weighted vegetation suitability aggregates, 0-4, by buffer and
	// epoch. Populated by the build step from the vegetation overlay.
	VegSuit30EX   *float64 `json:"veg_suit_30_ex,omitempty"`
	VegSuit100EX  *float64 `json:"veg_suit_100_ex,omitempty"`
	VegSuit30HPE  *float64 `json:"veg_suit_30_hpe,omitempty"`
	VegSuit100HPE *float64 `json:"veg_suit_100_hpe,omitempty"`

	// Proximity to infrastructure (metres, non-negative; nil when the layer
	// carries no feature within the search radius).
	RoadDistM  *float64 `json:"road_dist_m,omitempty"`
	RailDistM  *float64 `json:"rail_dist_m,omitempty"`
	CanalDistM *float64 `json:"canal_dist_m,omitempty"`

	// Land-use percentage breakdown within the riparian buffer, 0-100.
	HighLandUsePct float64 `json:"high_landuse_pct"`
	ModLandUsePct  float64 `json:"mod_landuse_pct"`
	LowLandUsePct  float64 `json:"low_landuse_pct"`

	// Hydrology outputs (run step), non-negative.
	QLow  *float64 `json:"qlow,omitempty"`   // baseflow discharge, cms
	Q2    *float64 `json:"q2,omitempty"`     // 2-year peak discharge, cms
	SPLow *float64 `json:"sp_low,omitempty"` // baseflow stream power, watts
	SP2   *float64 `json:"sp2,omitempty"`    // peak stream power, watts

	// Capacity model outputs (run step). Overwritten on every run.
	VegCapacityEX  *float64 `json:"veg_capacity_ex,omitempty"`  // oVC existing, 0-4
	VegCapacityHPE *float64 `json:"veg_capacity_hpe,omitempty"` // oVC historic, 0-4
	CapacityEX     *float64 `json:"capacity_ex,omitempty"`      // oCC existing, dams/km
	CapacityHPE    *float64 `json:"capacity_hpe,omitempty"`     // oCC historic, dams/km

	CapacityClassEX  *CapacityClass `json:"capacity_class_ex,omitempty"`
	CapacityClassHPE *CapacityClass `json:"capacity_class_hpe,omitempty"`
	RiskID           *Risk          `json:"risk_id,omitempty"`
	LimitationID     *Limitation    `json:"limitation_id,omitempty"`
	OpportunityID    *Opportunity   `json:"opportunity_id,omitempty"`
}

// Validate enforces the reach invariants mirrored by the schema check
// constraints: strictly positive length, non-negative areas and distances,
// and every suitability-derived field within [0,4].
func (r Reach) Validate() error {
	if r.LengthM <= 0 {
		return ErrLengthNotPositive
	}
	if r.DrainageSqKm != nil && *r.DrainageSqKm < 0 {
		return ErrNegativeValue
	}
	for _, d := range []*float64{r.RoadDistM, r.RailDistM, r.CanalDistM, r.QLow, r.Q2, r.SPLow, r.SP2, r.CapacityEX, r.CapacityHPE} {
		if d != nil && *d < 0 {
			return ErrNegativeValue
		}
	}
	for _, s := range []*float64{r.VegSuit30EX, r.VegSuit100EX, r.VegSuit30HPE, r.VegSuit100HPE, r.VegCapacityEX, r.VegCapacityHPE} {
		if s != nil && (*s < 0 || *s > 4) {
			return ErrSuitabilityRange
		}
	}
	return nil
}

// HasCapacityInputs reports whether every attribute the capacity model
// requires is present for the given epoch.
func (r Reach) HasCapacityInputs(epoch Epoch) bool {
	if r.DrainageSqKm == nil || r.Slope == nil {
		return false
	}
	switch epoch {
	case EpochExisting:
		return r.VegSuit30EX != nil && r.VegSuit100EX != nil
	case EpochHistoric:
		return r.VegSuit30HPE != nil && r.VegSuit100HPE != nil
	default:
		return false
	}
}

// MinInfrastructureDist returns the smallest non-nil proximity distance and
// whether any proximity layer intersected the reach at all.
func (r Reach) MinInfrastructureDist() (float64, bool) {
	min, ok := 0.0, false
	for _, d := range []*float64{r.RoadDistM, r.RailDistM, r.CanalDistM} {
		if d == nil {
			continue
		}
		if !ok || *d < min {
			min, ok = *d, true
		}
	}
	return min, ok
}
