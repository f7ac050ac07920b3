// This file implements the reach accessor: creation during the build step,
// retrieval for the run step, and the replace-in-place output update each
// run performs.
package project

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/riverscapes/brat/pkg/types"
)

const reachColumns = `ReachID, WatershedID, ReachCode, StreamName, IsPeren, Geometry,
    iGeo_Len, iGeo_Slope, iGeo_DA,
    iVeg_30EX, iVeg100EX, iVeg_30HPE, iVeg100HPE,
    iPC_RoadX, iPC_RailX, iPC_CanalX,
    iPC_HighLU, iPC_ModLU, iPC_LowLU,
    iHyd_QLow, iHyd_Q2, iHyd_SPLow, iHyd_SP2,
    oVC_EX, oVC_HPE, oCC_EX, oCC_HPE,
    CapacityID_EX, CapacityID_HPE, RiskID, LimitationID, OpportunityID`

// InsertReach adds one reach with its build-step attributes. Run outputs
// are left null until the first run.
func (p *Project) InsertReach(r types.Reach) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("reach %d: %w", r.ReachID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	geom, err := marshalCenterline(r.Centerline)
	if err != nil {
		return fmt.Errorf("reach %d geometry: %w", r.ReachID, err)
	}

	_, err = p.db.Exec(
		`INSERT INTO Reaches (ReachID, WatershedID, ReachCode, StreamName, IsPeren, Geometry,
            iGeo_Len, iGeo_Slope, iGeo_DA,
            iVeg_30EX, iVeg100EX, iVeg_30HPE, iVeg100HPE,
            iPC_RoadX, iPC_RailX, iPC_CanalX,
            iPC_HighLU, iPC_ModLU, iPC_LowLU)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ReachID, r.WatershedID, int(r.ReachCode), r.StreamName, r.IsPerennial, geom,
		r.LengthM, nullFloat(r.Slope), nullFloat(r.DrainageSqKm),
		nullFloat(r.VegSuit30EX), nullFloat(r.VegSuit100EX), nullFloat(r.VegSuit30HPE), nullFloat(r.VegSuit100HPE),
		nullFloat(r.RoadDistM), nullFloat(r.RailDistM), nullFloat(r.CanalDistM),
		r.HighLandUsePct, r.ModLandUsePct, r.LowLandUsePct,
	)
	if err != nil {
		return fmt.Errorf("inserting reach %d: %w", r.ReachID, err)
	}
	return nil
}

// UpdateVegSuitability writes the build step's area-weighted suitability
// aggregates for one reach.
func (p *Project) UpdateVegSuitability(reachID int, s30ex, s100ex, s30hpe, s100hpe *float64) error {
	for _, v := range []*float64{s30ex, s100ex, s30hpe, s100hpe} {
		if v != nil && (*v < 0 || *v > 4) {
			return fmt.Errorf("reach %d: %w", reachID, types.ErrSuitabilityRange)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	res, err := p.db.Exec(
		"UPDATE Reaches SET iVeg_30EX = ?, iVeg100EX = ?, iVeg_30HPE = ?, iVeg100HPE = ? WHERE ReachID = ?",
		nullFloat(s30ex), nullFloat(s100ex), nullFloat(s30hpe), nullFloat(s100hpe), reachID,
	)
	if err != nil {
		return fmt.Errorf("updating reach %d suitability: %w", reachID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reach %d: %w", reachID, types.ErrNotFound)
	}
	return nil
}

// GetReach retrieves one reach by ID.
func (p *Project) GetReach(id int) (types.Reach, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return types.Reach{}, err
	}

	row := p.db.QueryRow("SELECT "+reachColumns+" FROM Reaches WHERE ReachID = ?", id)
	r, err := hydrateReach(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Reach{}, fmt.Errorf("reach %d: %w", id, types.ErrNotFound)
		}
		return types.Reach{}, fmt.Errorf("getting reach %d: %w", id, err)
	}
	return r, nil
}

// ListReaches returns every reach, ordered by ID so runs visit reaches in a
// stable order.
func (p *Project) ListReaches() ([]types.Reach, error) {
	return p.listReaches("SELECT " + reachColumns + " FROM Reaches ORDER BY ReachID")
}

// ListWatershedReaches returns the reaches of one watershed, ordered by ID.
func (p *Project) ListWatershedReaches(watershedID string) ([]types.Reach, error) {
	return p.listReaches(
		"SELECT "+reachColumns+" FROM Reaches WHERE WatershedID = ? ORDER BY ReachID",
		watershedID,
	)
}

func (p *Project) listReaches(query string, args ...any) ([]types.Reach, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reaches: %w", err)
	}
	defer rows.Close()

	var out []types.Reach
	for rows.Next() {
		r, err := hydrateReach(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reach: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reaches: %w", err)
	}
	return out, nil
}

// RunOutputs carries the run step's results for one reach. Nil fields are
// written as NULL: a skipped reach has its outputs cleared, never left
// stale from a previous run.
type RunOutputs struct {
	ReachID          int
	QLow, Q2         *float64
	SPLow, SP2       *float64
	VegCapacityEX    *float64
	VegCapacityHPE   *float64
	CapacityEX       *float64
	CapacityHPE      *float64
	CapacityClassEX  *types.CapacityClass
	CapacityClassHPE *types.CapacityClass
	Risk             *types.Risk
	Limitation       *types.Limitation
	Opportunity      *types.Opportunity
}

// UpdateRunOutputs overwrites the output columns for a batch of reaches in
// one transaction. Previous results are fully replaced, never merged.
func (p *Project) UpdateRunOutputs(outputs []RunOutputs) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning run output transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`UPDATE Reaches SET
            iHyd_QLow = ?, iHyd_Q2 = ?, iHyd_SPLow = ?, iHyd_SP2 = ?,
            oVC_EX = ?, oVC_HPE = ?, oCC_EX = ?, oCC_HPE = ?,
            CapacityID_EX = ?, CapacityID_HPE = ?,
            RiskID = ?, LimitationID = ?, OpportunityID = ?
         WHERE ReachID = ?`,
	)
	if err != nil {
		return fmt.Errorf("preparing run output update: %w", err)
	}
	defer stmt.Close()

	for _, o := range outputs {
		if _, err := stmt.Exec(
			nullFloat(o.QLow), nullFloat(o.Q2), nullFloat(o.SPLow), nullFloat(o.SP2),
			nullFloat(o.VegCapacityEX), nullFloat(o.VegCapacityHPE),
			nullFloat(o.CapacityEX), nullFloat(o.CapacityHPE),
			nullInt(o.CapacityClassEX), nullInt(o.CapacityClassHPE),
			nullInt(o.Risk), nullInt(o.Limitation), nullInt(o.Opportunity),
			o.ReachID,
		); err != nil {
			return fmt.Errorf("updating reach %d outputs: %w", o.ReachID, err)
		}
	}

	return tx.Commit()
}

// CountReaches returns the number of reaches in the project.
func (p *Project) CountReaches() (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return 0, err
	}

	var n int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM Reaches").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reaches: %w", err)
	}
	return n, nil
}

func marshalCenterline(pts []types.Point) (any, error) {
	if len(pts) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(pts)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func hydrateReach(s scanner) (types.Reach, error) {
	var r types.Reach
	var streamName, geom sql.NullString
	var code int
	var slope, da sql.NullFloat64
	var v30ex, v100ex, v30hpe, v100hpe sql.NullFloat64
	var road, rail, canal sql.NullFloat64
	var qlow, q2, splow, sp2 sql.NullFloat64
	var ovcEx, ovcHpe, occEx, occHpe sql.NullFloat64
	var capEx, capHpe, risk, lim, opp sql.NullInt64

	if err := s.Scan(
		&r.ReachID, &r.WatershedID, &code, &streamName, &r.IsPerennial, &geom,
		&r.LengthM, &slope, &da,
		&v30ex, &v100ex, &v30hpe, &v100hpe,
		&road, &rail, &canal,
		&r.HighLandUsePct, &r.ModLandUsePct, &r.LowLandUsePct,
		&qlow, &q2, &splow, &sp2,
		&ovcEx, &ovcHpe, &occEx, &occHpe,
		&capEx, &capHpe, &risk, &lim, &opp,
	); err != nil {
		return types.Reach{}, err
	}

	r.ReachCode = types.ReachCode(code)
	r.StreamName = streamName.String
	if geom.Valid && geom.String != "" {
		if err := json.Unmarshal([]byte(geom.String), &r.Centerline); err != nil {
			return types.Reach{}, fmt.Errorf("parsing reach %d geometry: %w", r.ReachID, err)
		}
	}

	r.Slope = floatPtr(slope)
	r.DrainageSqKm = floatPtr(da)
	r.VegSuit30EX = floatPtr(v30ex)
	r.VegSuit100EX = floatPtr(v100ex)
	r.VegSuit30HPE = floatPtr(v30hpe)
	r.VegSuit100HPE = floatPtr(v100hpe)
	r.RoadDistM = floatPtr(road)
	r.RailDistM = floatPtr(rail)
	r.CanalDistM = floatPtr(canal)
	r.QLow = floatPtr(qlow)
	r.Q2 = floatPtr(q2)
	r.SPLow = floatPtr(splow)
	r.SP2 = floatPtr(sp2)
	r.VegCapacityEX = floatPtr(ovcEx)
	r.VegCapacityHPE = floatPtr(ovcHpe)
	r.CapacityEX = floatPtr(occEx)
	r.CapacityHPE = floatPtr(occHpe)

	if capEx.Valid {
		c := types.CapacityClass(capEx.Int64)
		r.CapacityClassEX = &c
	}
	if capHpe.Valid {
		c := types.CapacityClass(capHpe.Int64)
		r.CapacityClassHPE = &c
	}
	if risk.Valid {
		v := types.Risk(risk.Int64)
		r.RiskID = &v
	}
	if lim.Valid {
		v := types.Limitation(lim.Int64)
		r.LimitationID = &v
	}
	if opp.Valid {
		v := types.Opportunity(opp.Int64)
		r.OpportunityID = &v
	}
	return r, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// nullInt converts a typed enum pointer to a driver value.
func nullInt[T ~int](v *T) any {
	if v == nil {
		return nil
	}
	return int(*v)
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
