// This file implements the vegetation reference and aggregate accessors:
// vegetation types, ecoregion overrides, and per-reach buffer aggregates.
package project

import (
	"fmt"

	"github.com/riverscapes/brat/pkg/types"
)

// InsertVegetationType adds one vegetation class. The 0-4 default
// suitability range is validated here and enforced again by the schema.
func (p *Project) InsertVegetationType(vt types.VegetationType) error {
	if err := vt.Validate(); err != nil {
		return fmt.Errorf("vegetation type %d: %w", vt.VegetationID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	_, err := p.db.Exec(
		`INSERT INTO VegetationTypes (VegetationID, EpochID, Name, DefaultSuitability, LandUseGroup, LandUseIntensity)
         VALUES (?, ?, ?, ?, ?, ?)`,
		vt.VegetationID, int(vt.Epoch), vt.Name, vt.DefaultSuitability, vt.LandUseGroup, vt.LandUseIntensity,
	)
	if err != nil {
		return fmt.Errorf("inserting vegetation type %d: %w", vt.VegetationID, err)
	}
	return nil
}

// InsertVegetationOverride adds one (ecoregion, vegetation type) suitability
// correction. An out-of-range override fails validation before it is
// accepted.
func (p *Project) InsertVegetationOverride(o types.VegetationOverride) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("override (%d, %d): %w", o.EcoregionID, o.VegetationID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	_, err := p.db.Exec(
		"INSERT INTO VegetationOverrides (EcoregionID, VegetationID, OverrideSuitability) VALUES (?, ?, ?)",
		o.EcoregionID, o.VegetationID, o.OverrideSuitability,
	)
	if err != nil {
		return fmt.Errorf("inserting override (%d, %d): %w", o.EcoregionID, o.VegetationID, err)
	}
	return nil
}

// ListVegetationTypes returns every vegetation class, ordered by ID.
func (p *Project) ListVegetationTypes() ([]types.VegetationType, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		"SELECT VegetationID, EpochID, Name, DefaultSuitability, LandUseGroup, LandUseIntensity FROM VegetationTypes ORDER BY VegetationID",
	)
	if err != nil {
		return nil, fmt.Errorf("querying vegetation types: %w", err)
	}
	defer rows.Close()

	var out []types.VegetationType
	for rows.Next() {
		var vt types.VegetationType
		var epoch int
		if err := rows.Scan(&vt.VegetationID, &epoch, &vt.Name, &vt.DefaultSuitability, &vt.LandUseGroup, &vt.LandUseIntensity); err != nil {
			return nil, fmt.Errorf("scanning vegetation type: %w", err)
		}
		vt.Epoch = types.Epoch(epoch)
		out = append(out, vt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vegetation types: %w", err)
	}
	return out, nil
}

// ListVegetationOverrides returns every override row.
func (p *Project) ListVegetationOverrides() ([]types.VegetationOverride, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		"SELECT EcoregionID, VegetationID, OverrideSuitability FROM VegetationOverrides",
	)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	var out []types.VegetationOverride
	for rows.Next() {
		var o types.VegetationOverride
		if err := rows.Scan(&o.EcoregionID, &o.VegetationID, &o.OverrideSuitability); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overrides: %w", err)
	}
	return out, nil
}

// ReplaceReachVegetation replaces a reach's aggregate rows inside one
// transaction. Every row must carry a positive area and cell count; rows
// with zero intersection are simply absent.
func (p *Project) ReplaceReachVegetation(reachID int, rows []types.ReachVegetation) error {
	for _, rv := range rows {
		if err := rv.Validate(); err != nil {
			return fmt.Errorf("reach %d vegetation %d: %w", reachID, rv.VegetationID, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reach vegetation transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ReachVegetation WHERE ReachID = ?", reachID); err != nil {
		return fmt.Errorf("clearing reach %d vegetation: %w", reachID, err)
	}
	for _, rv := range rows {
		if _, err := tx.Exec(
			"INSERT INTO ReachVegetation (ReachID, VegetationID, Buffer, Area, CellCount) VALUES (?, ?, ?, ?, ?)",
			reachID, rv.VegetationID, rv.BufferM, rv.AreaSqM, rv.CellCount,
		); err != nil {
			return fmt.Errorf("inserting reach %d vegetation %d: %w", reachID, rv.VegetationID, err)
		}
	}

	return tx.Commit()
}

// ListAllReachVegetation returns every aggregate row grouped by reach.
// The run step loads this once; the rows are read-only for the duration.
func (p *Project) ListAllReachVegetation() (map[int][]types.ReachVegetation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		"SELECT ReachID, VegetationID, Buffer, Area, CellCount FROM ReachVegetation ORDER BY ReachID, Buffer, VegetationID",
	)
	if err != nil {
		return nil, fmt.Errorf("querying reach vegetation: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]types.ReachVegetation)
	for rows.Next() {
		var rv types.ReachVegetation
		if err := rows.Scan(&rv.ReachID, &rv.VegetationID, &rv.BufferM, &rv.AreaSqM, &rv.CellCount); err != nil {
			return nil, fmt.Errorf("scanning reach vegetation: %w", err)
		}
		out[rv.ReachID] = append(out[rv.ReachID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reach vegetation: %w", err)
	}
	return out, nil
}

// ListReachVegetation returns a reach's aggregate rows.
func (p *Project) ListReachVegetation(reachID int) ([]types.ReachVegetation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		"SELECT ReachID, VegetationID, Buffer, Area, CellCount FROM ReachVegetation WHERE ReachID = ? ORDER BY Buffer, VegetationID",
		reachID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reach %d vegetation: %w", reachID, err)
	}
	defer rows.Close()

	var out []types.ReachVegetation
	for rows.Next() {
		var rv types.ReachVegetation
		if err := rows.Scan(&rv.ReachID, &rv.VegetationID, &rv.BufferM, &rv.AreaSqM, &rv.CellCount); err != nil {
			return nil, fmt.Errorf("scanning reach vegetation: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reach vegetation: %w", err)
	}
	return out, nil
}
