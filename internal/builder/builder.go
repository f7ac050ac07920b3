// Package builder implements the build step: create a fresh project
// database, import the reach and reference inputs, overlay every reach's
// buffers on the vegetation rasters, and persist the aggregates. Build is
// the slow, infrequent half of the workflow; the run step never repeats
// any of this geoprocessing.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"

	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/internal/suitability"
	"github.com/riverscapes/brat/internal/vegetation"
	"github.com/riverscapes/brat/pkg/types"
)

// Options configures one build.
type Options struct {
	// ProjectPath is where the project database is created. An existing
	// file is replaced.
	ProjectPath string

	// InputDir holds the JSONL input files.
	InputDir string

	// GridDefPath, ExistingRasterPath, HistoricRasterPath locate the grid
	// definition and the two epoch rasters.
	GridDefPath        string
	ExistingRasterPath string
	HistoricRasterPath string

	Config   types.Config
	Log      *slog.Logger
	Progress bool
}

// Stats reports what a build produced.
type Stats struct {
	Watersheds      int
	Reaches         int
	VegetationRows  int
	ReachesNoBuffer int
}

// Build runs the build step end to end and leaves the project open for
// the caller to close.
func Build(ctx context.Context, opts Options) (*project.Project, Stats, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	tt := mmio.NewTimer()

	in, err := project.ReadBuildInputs(opts.InputDir)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading build inputs: %w", err)
	}
	log.Info("build inputs read",
		"watersheds", len(in.Watersheds),
		"reaches", len(in.Reaches),
		"vegetation_types", len(in.VegetationTypes),
	)

	gd, err := vegetation.LoadDefinition(opts.GridDefPath)
	if err != nil {
		return nil, Stats{}, err
	}
	existing, err := vegetation.LoadRaster(gd, opts.ExistingRasterPath, types.EpochExisting)
	if err != nil {
		return nil, Stats{}, err
	}
	historic, err := vegetation.LoadRaster(gd, opts.HistoricRasterPath, types.EpochHistoric)
	if err != nil {
		return nil, Stats{}, err
	}
	tt.Lap("rasters loaded")

	p, err := project.Create(opts.ProjectPath)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("creating project %s: %w", opts.ProjectPath, err)
	}
	if err := p.ImportBuildInputs(in); err != nil {
		p.Close()
		return nil, Stats{}, fmt.Errorf("importing inputs: %w", err)
	}
	tt.Lap("inputs imported")

	resolver, err := suitability.NewResolver(in.VegetationTypes, in.Overrides)
	if err != nil {
		p.Close()
		return nil, Stats{}, fmt.Errorf("building suitability resolver: %w", err)
	}

	wshedByID := make(map[string]types.Watershed, len(in.Watersheds))
	for _, w := range in.Watersheds {
		wshedByID[w.WatershedID] = w
	}

	var bar *uiprogress.Bar
	if opts.Progress && len(in.Reaches) > 0 {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(in.Reaches)).AppendCompleted()
		defer uiprogress.Stop()
	}

	stats := Stats{Watersheds: len(in.Watersheds), Reaches: len(in.Reaches)}
	rasters := []*vegetation.Raster{existing, historic}

	for _, reach := range in.Reaches {
		if err := ctx.Err(); err != nil {
			p.Close()
			return nil, Stats{}, fmt.Errorf("build cancelled: %w", err)
		}
		if bar != nil {
			bar.Incr()
		}

		if len(reach.StreamsideBuffer) < 3 || len(reach.RiparianBuffer) < 3 {
			stats.ReachesNoBuffer++
			log.Warn("reach has no buffer polygons, vegetation overlay skipped", "reach", reach.ReachID)
			continue
		}

		buffers := vegetation.BufferSet{
			Streamside:      reach.StreamsideBuffer,
			StreamsideWidth: opts.Config.StreamsideBufferM,
			Riparian:        reach.RiparianBuffer,
			RiparianWidth:   opts.Config.RiparianBufferM,
		}
		rows, err := vegetation.AggregateReach(reach.ReachID, buffers, rasters)
		if err != nil {
			p.Close()
			return nil, Stats{}, fmt.Errorf("aggregating reach %d: %w", reach.ReachID, err)
		}
		if err := p.ReplaceReachVegetation(reach.ReachID, rows); err != nil {
			p.Close()
			return nil, Stats{}, err
		}
		stats.VegetationRows += len(rows)

		wshed := wshedByID[reach.WatershedID]
		if err := writeSuitabilityAggregates(p, resolver, reach.ReachID, wshed.EcoregionID, rows, opts.Config); err != nil {
			p.Close()
			return nil, Stats{}, err
		}
	}
	tt.Lap("vegetation overlay complete")

	log.Info("build complete",
		"project", filepath.Base(opts.ProjectPath),
		"reaches", stats.Reaches,
		"vegetation_rows", stats.VegetationRows,
		"reaches_without_buffers", stats.ReachesNoBuffer,
	)
	return p, stats, nil
}

// writeSuitabilityAggregates stores the area-weighted suitability per
// buffer and epoch on the reach. A buffer with no vegetation rows leaves
// the aggregate null.
func writeSuitabilityAggregates(
	p *project.Project,
	resolver *suitability.Resolver,
	reachID, ecoregionID int,
	rows []types.ReachVegetation,
	cfg types.Config,
) error {
	suit := func(buffer float64, epoch types.Epoch) (*float64, error) {
		var filtered []types.ReachVegetation
		for _, rv := range rows {
			if rv.BufferM == buffer {
				filtered = append(filtered, rv)
			}
		}
		s, ok, err := resolver.WeightedSuitability(filtered, ecoregionID, epoch)
		if err != nil {
			return nil, fmt.Errorf("reach %d suitability: %w", reachID, err)
		}
		if !ok {
			return nil, nil
		}
		return &s, nil
	}

	s30ex, err := suit(cfg.StreamsideBufferM, types.EpochExisting)
	if err != nil {
		return err
	}
	s100ex, err := suit(cfg.RiparianBufferM, types.EpochExisting)
	if err != nil {
		return err
	}
	s30hpe, err := suit(cfg.StreamsideBufferM, types.EpochHistoric)
	if err != nil {
		return err
	}
	s100hpe, err := suit(cfg.RiparianBufferM, types.EpochHistoric)
	if err != nil {
		return err
	}

	return p.UpdateVegSuitability(reachID, s30ex, s100ex, s30hpe, s100hpe)
}
