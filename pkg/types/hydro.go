package types

// HydroParam defines a named regression parameter: the units its values are
// recorded in, the units the discharge equations expect, and the fixed
// factor converting between them.
type HydroParam struct {
	ParamID       int     `json:"param_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	DataUnits     string  `json:"data_units"`
	EquationUnits string  `json:"equation_units"`
	Conversion    float64 `json:"conversion"`
}

// WatershedHydroParam is a watershed's value for one hydrology parameter,
// in the parameter's data units.
type WatershedHydroParam struct {
	WatershedID string  `json:"watershed_id"`
	ParamID     int     `json:"param_id"`
	Value       float64 `json:"value"`
}

// Required hydrology parameter names. A watershed missing any of these
// cannot have its capacity computed; the condition is reported as a
// configuration error, never silently defaulted.
const (
	ParamQLow  = "QLow"  // baseflow discharge coefficient
	ParamQ2    = "Q2"    // 2-year peak discharge coefficient
	ParamDAExp = "DAExp" // drainage-area scaling exponent
)
