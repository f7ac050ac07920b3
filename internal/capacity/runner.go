// This file orchestrates the run step: load the parameter tables once,
// compute every reach's capacity in parallel, and overwrite the output
// columns in place. Each reach's computation depends only on its own
// attributes and the shared read-only parameter tables, so reaches fan out
// over a bounded worker pool with no ordering dependency.
package capacity

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/alitto/pond/v2"

	"github.com/riverscapes/brat/internal/hydrology"
	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/internal/suitability"
	"github.com/riverscapes/brat/pkg/types"
)

// Runner executes the capacity model over a project.
type Runner struct {
	Log     *slog.Logger
	Scorer  Scorer
	Workers int
}

// Summary reports what a run did. Skipped reaches had a required attribute
// missing and their outputs were left null; failed watersheds had a
// configuration error and their reaches were not touched.
type Summary struct {
	RunID            string
	Processed        int
	Skipped          int
	SkippedReaches   []int
	FailedWatersheds []string
}

// reachResult is one reach's computed outputs.
type reachResult struct {
	outputs project.RunOutputs
	skipped bool
}

// Run executes the capacity model against the current parameter tables.
// Rerunning with unchanged inputs reproduces identical outputs; previous
// results are fully overwritten, never merged. Cancellation takes effect
// between reaches; no partial reach state is written.
func (r *Runner) Run(ctx context.Context, p *project.Project, cfg types.Config) (Summary, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	scorer := r.Scorer
	if scorer == nil {
		scorer = DefaultScorer{}
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	vegTypes, err := p.ListVegetationTypes()
	if err != nil {
		return Summary{}, fmt.Errorf("loading vegetation types: %w", err)
	}
	overrides, err := p.ListVegetationOverrides()
	if err != nil {
		return Summary{}, fmt.Errorf("loading vegetation overrides: %w", err)
	}
	resolver, err := suitability.NewResolver(vegTypes, overrides)
	if err != nil {
		return Summary{}, fmt.Errorf("building suitability resolver: %w", err)
	}

	ranges, err := p.CapacityRanges()
	if err != nil {
		return Summary{}, fmt.Errorf("loading capacity classes: %w", err)
	}

	watersheds, err := p.ListWatersheds()
	if err != nil {
		return Summary{}, fmt.Errorf("loading watersheds: %w", err)
	}

	// Resolve hydrology per watershed up front: a missing parameter is a
	// configuration error that aborts that watershed's run immediately,
	// while the remaining watersheds still run.
	wshedByID := make(map[string]types.Watershed, len(watersheds))
	hydroByID := make(map[string]hydrology.Params, len(watersheds))
	var failed []string
	var configErrs []error
	for _, w := range watersheds {
		wshedByID[w.WatershedID] = w
		values, err := p.WatershedParams(w.WatershedID)
		if err != nil {
			return Summary{}, fmt.Errorf("loading params for watershed %s: %w", w.WatershedID, err)
		}
		hp, err := hydrology.Resolve(w, values)
		if err != nil {
			log.Error("watershed configuration error", "watershed", w.WatershedID, "err", err)
			failed = append(failed, w.WatershedID)
			configErrs = append(configErrs, err)
			continue
		}
		hydroByID[w.WatershedID] = hp
	}

	vegRows, err := p.ListAllReachVegetation()
	if err != nil {
		return Summary{}, fmt.Errorf("loading reach vegetation: %w", err)
	}
	// Aggregate rows are keyed by the build-time buffer widths. A width
	// edited after build would filter every reach to empty and score the
	// whole project as bare ground; that is a configuration error, not data.
	if err := checkBufferWidths(vegRows, cfg); err != nil {
		return Summary{}, err
	}

	reaches, err := p.ListReaches()
	if err != nil {
		return Summary{}, fmt.Errorf("loading reaches: %w", err)
	}

	runID, err := p.StartRun(paramsDigest(vegTypes, overrides, hydroByID))
	if err != nil {
		return Summary{}, fmt.Errorf("recording run: %w", err)
	}

	pool := pond.NewResultPool[reachResult](workers)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)

	var submitted []types.Reach
	for _, reach := range reaches {
		hp, ok := hydroByID[reach.WatershedID]
		if !ok {
			// Watershed failed configuration; reach is untouched.
			continue
		}
		reach := reach
		wshed := wshedByID[reach.WatershedID]
		rows := vegRows[reach.ReachID]
		submitted = append(submitted, reach)
		group.SubmitErr(func() (reachResult, error) {
			return computeReach(reach, wshed, hp, rows, resolver, ranges, scorer, cfg), nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("run cancelled: %w", err)
	}

	summary := Summary{RunID: runID, FailedWatersheds: failed}
	outputs := make([]project.RunOutputs, 0, len(results))
	for i, res := range results {
		if res.skipped {
			summary.Skipped++
			summary.SkippedReaches = append(summary.SkippedReaches, submitted[i].ReachID)
			log.Warn("reach skipped: missing required attribute", "reach", submitted[i].ReachID)
		} else {
			summary.Processed++
		}
		outputs = append(outputs, res.outputs)
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].ReachID < outputs[j].ReachID })

	if err := p.UpdateRunOutputs(outputs); err != nil {
		return summary, fmt.Errorf("writing run outputs: %w", err)
	}
	if err := p.FinishRun(runID, summary.Processed, summary.Skipped); err != nil {
		return summary, fmt.Errorf("finalizing run: %w", err)
	}

	log.Info("run complete",
		"run_id", runID,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed_watersheds", len(failed),
	)

	if len(configErrs) > 0 {
		return summary, errors.Join(configErrs...)
	}
	return summary, nil
}

// computeReach is the pure per-reach computation: no side effects, no
// shared mutable state, fully determined by the reach attributes and the
// loaded parameter tables.
func computeReach(
	reach types.Reach,
	wshed types.Watershed,
	hp hydrology.Params,
	rows []types.ReachVegetation,
	resolver *suitability.Resolver,
	ranges []types.CapacityRange,
	scorer Scorer,
	cfg types.Config,
) reachResult {
	out := project.RunOutputs{ReachID: reach.ReachID}

	// Required geophysical attributes. A missing one leaves the outputs
	// null rather than computing from a fabricated default.
	if reach.DrainageSqKm == nil || reach.Slope == nil {
		return reachResult{outputs: out, skipped: true}
	}

	discharge, err := hp.ReachDischarge(*reach.DrainageSqKm, *reach.Slope)
	if err != nil {
		return reachResult{outputs: out, skipped: true}
	}
	out.QLow = &discharge.QLow
	out.Q2 = &discharge.Q2
	out.SPLow = &discharge.SPLow
	out.SP2 = &discharge.SP2

	// Area-weighted suitability per buffer and epoch, resolved against the
	// current suitability tables so parameter tweaks take effect without a
	// rebuild. A buffer with no vegetation rows means no vegetation, which
	// scores zero; it is data, not an error.
	suit := func(buffer float64, epoch types.Epoch) (float64, bool) {
		var filtered []types.ReachVegetation
		for _, rv := range rows {
			if rv.BufferM == buffer {
				filtered = append(filtered, rv)
			}
		}
		s, ok, err := resolver.WeightedSuitability(filtered, wshed.EcoregionID, epoch)
		if err != nil {
			return 0, false
		}
		if !ok {
			return 0, true
		}
		return s, true
	}

	s30ex, ok1 := suit(cfg.StreamsideBufferM, types.EpochExisting)
	s100ex, ok2 := suit(cfg.RiparianBufferM, types.EpochExisting)
	s30hpe, ok3 := suit(cfg.StreamsideBufferM, types.EpochHistoric)
	s100hpe, ok4 := suit(cfg.RiparianBufferM, types.EpochHistoric)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return reachResult{outputs: project.RunOutputs{ReachID: reach.ReachID}, skipped: true}
	}

	exIn := Inputs{
		StreamsideSuit: s30ex,
		RiparianSuit:   s100ex,
		Slope:          *reach.Slope,
		DrainageSqKm:   *reach.DrainageSqKm,
		Discharge:      discharge,
	}
	hpeIn := exIn
	hpeIn.StreamsideSuit = s30hpe
	hpeIn.RiparianSuit = s100hpe

	vegEX := scorer.VegCapacity(exIn)
	vegHPE := scorer.VegCapacity(hpeIn)
	ccEX := scorer.DamCapacity(vegEX, exIn)
	ccHPE := scorer.DamCapacity(vegHPE, hpeIn)

	out.VegCapacityEX = &vegEX
	out.VegCapacityHPE = &vegHPE
	out.CapacityEX = &ccEX
	out.CapacityHPE = &ccHPE

	classEX := ClassifyCapacity(ccEX, ranges)
	classHPE := ClassifyCapacity(ccHPE, ranges)
	out.CapacityClassEX = &classEX
	out.CapacityClassHPE = &classHPE

	infraDist, hasInfra := reach.MinInfrastructureDist()
	risk := ClassifyRisk(ccEX, infraDist, hasInfra)
	limitation := ClassifyLimitation(reach, wshed.MaxDrainage, vegEX, ccEX)
	opportunity := ClassifyOpportunity(ccEX, ccHPE, risk)
	out.Risk = &risk
	out.Limitation = &limitation
	out.Opportunity = &opportunity

	return reachResult{outputs: out}
}

// checkBufferWidths verifies that every stored aggregate buffer width is
// one of the configured widths. Stored widths come only from the build
// step, so a width the configuration no longer names means the widths were
// changed after build and the aggregates no longer apply.
func checkBufferWidths(vegRows map[int][]types.ReachVegetation, cfg types.Config) error {
	for _, rows := range vegRows {
		for _, rv := range rows {
			if rv.BufferM != cfg.StreamsideBufferM && rv.BufferM != cfg.RiparianBufferM {
				return fmt.Errorf(
					"vegetation aggregates use a %g m buffer, configured widths are %g/%g m (rebuild or restore the build widths): %w",
					rv.BufferM, cfg.StreamsideBufferM, cfg.RiparianBufferM, types.ErrBufferMismatch,
				)
			}
		}
	}
	return nil
}

// paramsDigest fingerprints the parameter tables a run depends on, for the
// run audit record.
func paramsDigest(
	vegTypes []types.VegetationType,
	overrides []types.VegetationOverride,
	hydro map[string]hydrology.Params,
) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(vegTypes)
	_ = enc.Encode(overrides)

	ids := make([]string, 0, len(hydro))
	for id := range hydro {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		_ = enc.Encode(hydro[id])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
