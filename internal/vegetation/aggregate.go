// Package vegetation overlays reach buffer polygons on classified
// vegetation rasters and tabulates the intersected area per vegetation
// class. Rasters are read through goHydro grid definitions; tabulation is
// cell-centroid-in-polygon with frequencies converted to areas by the grid
// cell resolution.
package vegetation

import (
	"fmt"
	"sort"

	"github.com/maseology/goHydro/grid"
	"github.com/maseology/mmio"

	"github.com/riverscapes/brat/pkg/types"
)

// Cell is one raster cell: its centroid and vegetation class.
type Cell struct {
	X, Y  float64
	Class int
}

// Raster is one epoch's classified vegetation grid, held as centroid
// samples so tabulation is independent of the on-disk format.
type Raster struct {
	Epoch types.Epoch

	cells    map[int]Cell
	cellArea float64
}

// NewRaster builds a raster from in-memory cells.
func NewRaster(epoch types.Epoch, cells map[int]Cell, cellArea float64) *Raster {
	return &Raster{Epoch: epoch, cells: cells, cellArea: cellArea}
}

// LoadDefinition reads a grid definition file shared by the epoch rasters.
func LoadDefinition(gdefPath string) (*grid.Definition, error) {
	if _, ok := mmio.FileExists(gdefPath); !ok {
		return nil, fmt.Errorf("grid definition not found: %s", gdefPath)
	}
	gd, err := grid.ReadGDEF(gdefPath, false)
	if err != nil {
		return nil, fmt.Errorf("reading grid definition %s: %w", gdefPath, err)
	}
	return gd, nil
}

// LoadRaster reads a classified integer raster against a grid definition.
// Nodata cells (negative class) are dropped.
func LoadRaster(gd *grid.Definition, path string, epoch types.Epoch) (*Raster, error) {
	if _, ok := mmio.FileExists(path); !ok {
		return nil, fmt.Errorf("vegetation raster not found: %s", path)
	}

	var g grid.Indx
	g.LoadGDef(gd)
	g.NewShort(path, true)

	cells := make(map[int]Cell, len(g.Values()))
	for cid, class := range g.Values() {
		if class < 0 {
			continue
		}
		xy := gd.Coord[cid]
		cells[cid] = Cell{X: xy.X, Y: xy.Y, Class: class}
	}

	return &Raster{Epoch: epoch, cells: cells, cellArea: gd.CellArea()}, nil
}

// Tabulate counts raster cells per vegetation class whose centroids fall
// inside the ring.
func (r *Raster) Tabulate(ring types.Ring) map[int]int {
	freq := make(map[int]int)
	if len(ring) < 3 {
		return freq
	}

	minX, minY, maxX, maxY := ring.Bounds()
	for _, c := range r.cells {
		if c.X < minX || c.X > maxX || c.Y < minY || c.Y > maxY {
			continue
		}
		if ring.Contains(types.Point{X: c.X, Y: c.Y}) {
			freq[c.Class]++
		}
	}
	return freq
}

// CellArea returns the raster's cell area in square metres.
func (r *Raster) CellArea() float64 {
	return r.cellArea
}

// BufferSet pairs a reach's buffer polygons with their widths.
type BufferSet struct {
	Streamside      types.Ring
	StreamsideWidth float64
	Riparian        types.Ring
	RiparianWidth   float64
}

// AggregateReach overlays both buffers on every supplied raster and
// returns the per (vegetation class, buffer) area rows for one reach.
// Combinations with zero intersection are omitted, not emitted as zero.
func AggregateReach(reachID int, buffers BufferSet, rasters []*Raster) ([]types.ReachVegetation, error) {
	if buffers.StreamsideWidth <= 0 || buffers.RiparianWidth <= 0 {
		return nil, fmt.Errorf("reach %d: buffer widths: %w", reachID, types.ErrNegativeValue)
	}

	type bufferRing struct {
		ring  types.Ring
		width float64
	}
	set := []bufferRing{
		{buffers.Streamside, buffers.StreamsideWidth},
		{buffers.Riparian, buffers.RiparianWidth},
	}

	// Merge by (class, buffer): the epoch rasters carry disjoint class ID
	// spaces, but the primary key must hold even when they overlap.
	type key struct {
		class  int
		buffer float64
	}
	counts := make(map[key]int)
	areas := make(map[key]float64)
	for _, b := range set {
		for _, raster := range rasters {
			for class, count := range raster.Tabulate(b.ring) {
				if count <= 0 {
					continue
				}
				k := key{class, b.width}
				counts[k] += count
				areas[k] += float64(count) * raster.CellArea()
			}
		}
	}

	out := make([]types.ReachVegetation, 0, len(counts))
	for k, count := range counts {
		rv := types.ReachVegetation{
			ReachID:      reachID,
			VegetationID: k.class,
			BufferM:      k.buffer,
			AreaSqM:      areas[k],
			CellCount:    count,
		}
		if err := rv.Validate(); err != nil {
			return nil, fmt.Errorf("reach %d class %d: %w", reachID, k.class, err)
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BufferM != out[j].BufferM {
			return out[i].BufferM < out[j].BufferM
		}
		return out[i].VegetationID < out[j].VegetationID
	})
	return out, nil
}
