// This file implements the hydrology parameter accessors.
package project

import (
	"fmt"

	"github.com/riverscapes/brat/pkg/types"
)

// ParamValue is a watershed parameter joined with its definition's
// conversion factor.
type ParamValue struct {
	Name       string
	Value      float64
	Conversion float64
}

// SetWatershedParam stores a watershed's value for a named parameter,
// creating or replacing the row. The parameter must already be defined in
// HydroParams.
func (p *Project) SetWatershedParam(watershedID, name string, value float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	var paramID int
	if err := p.db.QueryRow("SELECT ParamID FROM HydroParams WHERE Name = ?", name).Scan(&paramID); err != nil {
		return fmt.Errorf("hydro parameter %q: %w", name, types.ErrNotFound)
	}

	_, err := p.db.Exec(
		"INSERT OR REPLACE INTO WatershedHydroParams (WatershedID, ParamID, Value) VALUES (?, ?, ?)",
		watershedID, paramID, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s for watershed %s: %w", name, watershedID, err)
	}
	return nil
}

// WatershedParams returns a watershed's parameter values keyed by name,
// joined with their conversion factors. The hydrology resolver applies the
// conversions; this accessor returns values in data units.
func (p *Project) WatershedParams(watershedID string) (map[string]ParamValue, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		`SELECT hp.Name, whp.Value, hp.Conversion
         FROM WatershedHydroParams whp
         INNER JOIN HydroParams hp ON hp.ParamID = whp.ParamID
         WHERE whp.WatershedID = ?`,
		watershedID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying params for watershed %s: %w", watershedID, err)
	}
	defer rows.Close()

	out := make(map[string]ParamValue)
	for rows.Next() {
		var pv ParamValue
		if err := rows.Scan(&pv.Name, &pv.Value, &pv.Conversion); err != nil {
			return nil, fmt.Errorf("scanning watershed param: %w", err)
		}
		out[pv.Name] = pv
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watershed params: %w", err)
	}
	return out, nil
}
