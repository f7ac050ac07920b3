// This file seeds the closed lookup tables on project creation: capacity
// class ranges, risk, limitation, and opportunity categories, reach codes,
// epochs, and the hydrology parameter definitions with their unit
// conversions.
package project

import (
	"fmt"

	"github.com/riverscapes/brat/pkg/types"
)

// capacityRange describes one dams/km bucket.
type capacityRange struct {
	id       types.CapacityClass
	name     string
	min, max float64
}

// damCapacities defines the capacity classes and their continuous ranges.
// Bucketing is min-exclusive, max-inclusive, except None which is exactly
// zero.
var damCapacities = []capacityRange{
	{types.CapacityNone, "None", 0, 0},
	{types.CapacityRare, "Rare", 0, 1},
	{types.CapacityOccasional, "Occasional", 1, 5},
	{types.CapacityFrequent, "Frequent", 5, 15},
	{types.CapacityPervasive, "Pervasive", 15, 40},
}

var damRisks = []struct {
	id   types.Risk
	name string
}{
	{types.RiskNegligible, "Negligible Risk"},
	{types.RiskMinor, "Minor Risk"},
	{types.RiskConsiderable, "Considerable Risk"},
	{types.RiskMajor, "Major Risk"},
}

var damLimitations = []struct {
	id   types.Limitation
	name string
}{
	{types.LimitationDamBuildingPossible, "Dam Building Possible"},
	{types.LimitationVegetation, "Naturally Vegetation Limited"},
	{types.LimitationStreamPower, "Stream Power Limited"},
	{types.LimitationMajorRiver, "Major River"},
	{types.LimitationAnthropogenic, "Anthropogenically Limited"},
}

var damOpportunities = []struct {
	id   types.Opportunity
	name string
}{
	{types.OpportunityEasiest, "Easiest - Low-Hanging Fruit"},
	{types.OpportunityStraightforward, "Straight Forward - Quick Return"},
	{types.OpportunityStrategic, "Strategic - Long-Term Investment"},
	{types.OpportunityNA, "NA"},
}

var reachCodes = []struct {
	code    types.ReachCode
	name    string
	display string
}{
	{types.ReachPerennial, "StreamRiver", "Perennial"},
	{types.ReachIntermittent, "StreamRiver", "Intermittent"},
	{types.ReachEphemeral, "StreamRiver", "Ephemeral"},
	{types.ReachCanal, "CanalDitch", "Canal"},
}

var epochs = []struct {
	id   types.Epoch
	name string
}{
	{types.EpochExisting, "Existing"},
	{types.EpochHistoric, "Historic"},
}

// hydroParamSeed defines the named regression parameters and the factor
// converting recorded values to equation units.
var hydroParamSeed = []types.HydroParam{
	{ParamID: 1, Name: types.ParamQLow, Description: "baseflow discharge coefficient", DataUnits: "cfs", EquationUnits: "cms", Conversion: 0.028316846592},
	{ParamID: 2, Name: types.ParamQ2, Description: "2-year peak discharge coefficient", DataUnits: "cfs", EquationUnits: "cms", Conversion: 0.028316846592},
	{ParamID: 3, Name: types.ParamDAExp, Description: "drainage-area scaling exponent", DataUnits: "dimensionless", EquationUnits: "dimensionless", Conversion: 1},
}

// seed populates every closed lookup table inside one transaction.
func (p *Project) seed() error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range epochs {
		if _, err := tx.Exec("INSERT INTO Epochs (EpochID, Name) VALUES (?, ?)", int(e.id), e.name); err != nil {
			return fmt.Errorf("seeding epoch %s: %w", e.name, err)
		}
	}
	for _, c := range damCapacities {
		if _, err := tx.Exec(
			"INSERT INTO DamCapacities (CapacityID, Name, MinCapacity, MaxCapacity) VALUES (?, ?, ?, ?)",
			int(c.id), c.name, c.min, c.max,
		); err != nil {
			return fmt.Errorf("seeding capacity class %s: %w", c.name, err)
		}
	}
	for _, r := range damRisks {
		if _, err := tx.Exec("INSERT INTO DamRisks (RiskID, Name) VALUES (?, ?)", int(r.id), r.name); err != nil {
			return fmt.Errorf("seeding risk %s: %w", r.name, err)
		}
	}
	for _, l := range damLimitations {
		if _, err := tx.Exec("INSERT INTO DamLimitations (LimitationID, Name) VALUES (?, ?)", int(l.id), l.name); err != nil {
			return fmt.Errorf("seeding limitation %s: %w", l.name, err)
		}
	}
	for _, o := range damOpportunities {
		if _, err := tx.Exec("INSERT INTO DamOpportunities (OpportunityID, Name) VALUES (?, ?)", int(o.id), o.name); err != nil {
			return fmt.Errorf("seeding opportunity %s: %w", o.name, err)
		}
	}
	for _, rc := range reachCodes {
		if _, err := tx.Exec(
			"INSERT INTO ReachCodes (ReachCode, Name, DisplayName) VALUES (?, ?, ?)",
			int(rc.code), rc.name, rc.display,
		); err != nil {
			return fmt.Errorf("seeding reach code %d: %w", rc.code, err)
		}
	}
	for _, hp := range hydroParamSeed {
		if _, err := tx.Exec(
			"INSERT INTO HydroParams (ParamID, Name, Description, DataUnits, EquationUnits, Conversion) VALUES (?, ?, ?, ?, ?, ?)",
			hp.ParamID, hp.Name, hp.Description, hp.DataUnits, hp.EquationUnits, hp.Conversion,
		); err != nil {
			return fmt.Errorf("seeding hydro param %s: %w", hp.Name, err)
		}
	}

	return tx.Commit()
}

// CapacityRanges returns the seeded capacity class buckets in range order.
func (p *Project) CapacityRanges() ([]types.CapacityRange, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return nil, err
	}

	rows, err := p.db.Query("SELECT CapacityID, Name, MinCapacity, MaxCapacity FROM DamCapacities ORDER BY MinCapacity, MaxCapacity")
	if err != nil {
		return nil, fmt.Errorf("querying capacity classes: %w", err)
	}
	defer rows.Close()

	var out []types.CapacityRange
	for rows.Next() {
		var cr types.CapacityRange
		var id int
		if err := rows.Scan(&id, &cr.Name, &cr.Min, &cr.Max); err != nil {
			return nil, fmt.Errorf("scanning capacity class: %w", err)
		}
		cr.Class = types.CapacityClass(id)
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating capacity classes: %w", err)
	}
	return out, nil
}
