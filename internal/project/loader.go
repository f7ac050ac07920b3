// This file implements the build step's input import: JSONL files for
// reference data and reaches, loaded transactionally so a failed import
// leaves the project database empty rather than half-populated.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riverscapes/brat/pkg/types"
)

// ReachInput is one reach record from the build inputs: the reach's
// geophysical attributes plus the buffered footprint polygons the
// vegetation overlay intersects with the rasters.
type ReachInput struct {
	types.Reach
	StreamsideBuffer types.Ring `json:"streamside_buffer,omitempty"`
	RiparianBuffer   types.Ring `json:"riparian_buffer,omitempty"`
}

// WatershedParamInput is one watershed hydrology parameter value.
type WatershedParamInput struct {
	WatershedID string  `json:"watershed_id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
}

// BuildInputs aggregates everything the build step imports.
type BuildInputs struct {
	Ecoregions      []types.Ecoregion
	Watersheds      []types.Watershed
	VegetationTypes []types.VegetationType
	Overrides       []types.VegetationOverride
	WatershedParams []WatershedParamInput
	Reaches         []ReachInput
}

// Input file names expected in the build input directory. Ecoregions,
// watersheds, vegetation types, and reaches are required; overrides and
// watershed parameters may be absent.
const (
	FileEcoregions      = "ecoregions.jsonl"
	FileWatersheds      = "watersheds.jsonl"
	FileVegetationTypes = "vegetation_types.jsonl"
	FileOverrides       = "vegetation_overrides.jsonl"
	FileWatershedParams = "watershed_hydro_params.jsonl"
	FileReaches         = "reaches.jsonl"
)

// ReadBuildInputs reads and decodes the build input directory. Decoding is
// strict: any malformed line or record fails the read with its source
// location.
func ReadBuildInputs(dir string) (*BuildInputs, error) {
	in := &BuildInputs{}

	if err := decodeJSONLFile(filepath.Join(dir, FileEcoregions), true, &in.Ecoregions); err != nil {
		return nil, err
	}
	if err := decodeJSONLFile(filepath.Join(dir, FileWatersheds), true, &in.Watersheds); err != nil {
		return nil, err
	}
	if err := decodeJSONLFile(filepath.Join(dir, FileVegetationTypes), true, &in.VegetationTypes); err != nil {
		return nil, err
	}
	if err := decodeJSONLFile(filepath.Join(dir, FileOverrides), false, &in.Overrides); err != nil {
		return nil, err
	}
	if err := decodeJSONLFile(filepath.Join(dir, FileWatershedParams), false, &in.WatershedParams); err != nil {
		return nil, err
	}
	if err := decodeJSONLFile(filepath.Join(dir, FileReaches), true, &in.Reaches); err != nil {
		return nil, err
	}

	return in, nil
}

// decodeJSONLFile reads a JSONL file into *[]T. A missing optional file
// yields an empty slice.
func decodeJSONLFile[T any](path string, required bool, out *[]T) error {
	if _, err := os.Stat(path); err != nil {
		if required {
			return fmt.Errorf("required input %s: %w", path, err)
		}
		return nil
	}

	records, err := readJSONL(path)
	if err != nil {
		return err
	}

	result := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec.data, &v); err != nil {
			return fmt.Errorf("%s:%d: %w", path, rec.line, err)
		}
		result = append(result, v)
	}
	*out = result
	return nil
}

// ImportBuildInputs loads the decoded inputs into the project database in
// one transaction. Validation runs before any SQL so a bad record is
// reported by identity, and the schema constraints back the same ranges at
// write time.
func (p *Project) ImportBuildInputs(in *BuildInputs) error {
	for _, vt := range in.VegetationTypes {
		if err := vt.Validate(); err != nil {
			return fmt.Errorf("vegetation type %d: %w", vt.VegetationID, err)
		}
	}
	for _, o := range in.Overrides {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("override (%d, %d): %w", o.EcoregionID, o.VegetationID, err)
		}
	}
	for _, w := range in.Watersheds {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("watershed %s: %w", w.WatershedID, err)
		}
	}
	for _, r := range in.Reaches {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reach %d: %w", r.ReachID, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range in.Ecoregions {
		if _, err := tx.Exec("INSERT INTO Ecoregions (EcoregionID, Name) VALUES (?, ?)", e.EcoregionID, e.Name); err != nil {
			return fmt.Errorf("importing ecoregion %d: %w", e.EcoregionID, err)
		}
	}
	for _, w := range in.Watersheds {
		if _, err := tx.Exec(
			`INSERT INTO Watersheds (WatershedID, Name, AreaSqKm, EcoregionID, States, QLow, Q2, MaxDrainage)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			w.WatershedID, w.Name, w.AreaSqKm, w.EcoregionID,
			strings.Join(w.States, ","), w.QLowEquation, w.Q2Equation, w.MaxDrainage,
		); err != nil {
			return fmt.Errorf("importing watershed %s: %w", w.WatershedID, err)
		}
	}
	for _, vt := range in.VegetationTypes {
		if _, err := tx.Exec(
			`INSERT INTO VegetationTypes (VegetationID, EpochID, Name, DefaultSuitability, LandUseGroup, LandUseIntensity)
             VALUES (?, ?, ?, ?, ?, ?)`,
			vt.VegetationID, int(vt.Epoch), vt.Name, vt.DefaultSuitability, vt.LandUseGroup, vt.LandUseIntensity,
		); err != nil {
			return fmt.Errorf("importing vegetation type %d: %w", vt.VegetationID, err)
		}
	}
	for _, o := range in.Overrides {
		if _, err := tx.Exec(
			"INSERT INTO VegetationOverrides (EcoregionID, VegetationID, OverrideSuitability) VALUES (?, ?, ?)",
			o.EcoregionID, o.VegetationID, o.OverrideSuitability,
		); err != nil {
			return fmt.Errorf("importing override (%d, %d): %w", o.EcoregionID, o.VegetationID, err)
		}
	}
	for _, wp := range in.WatershedParams {
		var paramID int
		if err := tx.QueryRow("SELECT ParamID FROM HydroParams WHERE Name = ?", wp.Name).Scan(&paramID); err != nil {
			return fmt.Errorf("importing param %q for watershed %s: %w", wp.Name, wp.WatershedID, types.ErrNotFound)
		}
		if _, err := tx.Exec(
			"INSERT INTO WatershedHydroParams (WatershedID, ParamID, Value) VALUES (?, ?, ?)",
			wp.WatershedID, paramID, wp.Value,
		); err != nil {
			return fmt.Errorf("importing param %q for watershed %s: %w", wp.Name, wp.WatershedID, err)
		}
	}
	for _, r := range in.Reaches {
		geom, err := marshalCenterline(r.Centerline)
		if err != nil {
			return fmt.Errorf("importing reach %d geometry: %w", r.ReachID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO Reaches (ReachID, WatershedID, ReachCode, StreamName, IsPeren, Geometry,
                iGeo_Len, iGeo_Slope, iGeo_DA,
                iPC_RoadX, iPC_RailX, iPC_CanalX,
                iPC_HighLU, iPC_ModLU, iPC_LowLU)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ReachID, r.WatershedID, int(r.ReachCode), r.StreamName, r.IsPerennial, geom,
			r.LengthM, nullFloat(r.Slope), nullFloat(r.DrainageSqKm),
			nullFloat(r.RoadDistM), nullFloat(r.RailDistM), nullFloat(r.CanalDistM),
			r.HighLandUsePct, r.ModLandUsePct, r.LowLandUsePct,
		); err != nil {
			return fmt.Errorf("importing reach %d: %w", r.ReachID, err)
		}
	}

	return tx.Commit()
}
