// This file implements the watershed and ecoregion accessors.
package project

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/riverscapes/brat/pkg/types"
)

// InsertEcoregion adds one ecoregion reference row.
func (p *Project) InsertEcoregion(e types.Ecoregion) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	_, err := p.db.Exec(
		"INSERT INTO Ecoregions (EcoregionID, Name) VALUES (?, ?)",
		e.EcoregionID, e.Name,
	)
	if err != nil {
		return fmt.Errorf("inserting ecoregion %d: %w", e.EcoregionID, err)
	}
	return nil
}

// InsertWatershed adds one watershed. The watershed is immutable after the
// build step except for metadata.
func (p *Project) InsertWatershed(w types.Watershed) error {
	if err := w.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	_, err := p.db.Exec(
		`INSERT INTO Watersheds (WatershedID, Name, AreaSqKm, EcoregionID, States, QLow, Q2, MaxDrainage)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.WatershedID, w.Name, w.AreaSqKm, w.EcoregionID,
		strings.Join(w.States, ","), w.QLowEquation, w.Q2Equation, w.MaxDrainage,
	)
	if err != nil {
		return fmt.Errorf("inserting watershed %s: %w", w.WatershedID, err)
	}
	return nil
}

// GetWatershed retrieves a watershed by HUC code.
func (p *Project) GetWatershed(id string) (types.Watershed, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return types.Watershed{}, err
	}

	row := p.db.QueryRow(
		"SELECT WatershedID, Name, AreaSqKm, EcoregionID, States, QLow, Q2, MaxDrainage FROM Watersheds WHERE WatershedID = ?",
		id,
	)
	w, err := hydrateWatershed(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Watershed{}, fmt.Errorf("watershed %s: %w", id, types.ErrUnknownWatershed)
		}
		return types.Watershed{}, fmt.Errorf("getting watershed %s: %w", id, err)
	}
	return w, nil
}

// ListWatersheds returns every watershed in the project, ordered by ID.
func (p *Project) ListWatersheds() ([]types.Watershed, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(
		"SELECT WatershedID, Name, AreaSqKm, EcoregionID, States, QLow, Q2, MaxDrainage FROM Watersheds ORDER BY WatershedID",
	)
	if err != nil {
		return nil, fmt.Errorf("querying watersheds: %w", err)
	}
	defer rows.Close()

	var out []types.Watershed
	for rows.Next() {
		w, err := hydrateWatershed(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning watershed: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watersheds: %w", err)
	}
	return out, nil
}

// scanner abstracts sql.Row and sql.Rows for the hydrate helpers.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateWatershed(s scanner) (types.Watershed, error) {
	var w types.Watershed
	var states sql.NullString
	var qlow, q2 sql.NullString
	if err := s.Scan(&w.WatershedID, &w.Name, &w.AreaSqKm, &w.EcoregionID, &states, &qlow, &q2, &w.MaxDrainage); err != nil {
		return types.Watershed{}, err
	}
	if states.Valid && states.String != "" {
		w.States = strings.Split(states.String, ",")
	}
	w.QLowEquation = qlow.String
	w.Q2Equation = q2.String
	return w, nil
}
