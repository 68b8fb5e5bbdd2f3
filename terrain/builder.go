package terrain

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// BuildSpec carries the raster construction knobs. Zero values degrade to
// usable defaults rather than erroring.
type BuildSpec struct {
	TargetCellSize int // requested cell size in meters (approximate, see resolution clamp)
	MinResolution  int
	MaxResolution  int
	SourceOverride *geom.Point // world-space injection point; nil selects automatically
	Verbose        bool
}

func (bs *BuildSpec) applyDefaults() {
	if bs.TargetCellSize <= 0 {
		bs.TargetCellSize = 1
	}
	if bs.MinResolution < 2 {
		bs.MinResolution = 2
	}
	if bs.MaxResolution < bs.MinResolution {
		bs.MaxResolution = bs.MinResolution
	}
}

/*
	BuildRaster converts a heightfield and a set of building footprints into
	the immutable simulation raster:

	1) Resolution per axis is round(extent/cellSize)+1 clamped to
	   [MinResolution, MaxResolution], so huge areas never explode the grid
	   and tiny areas never collapse it.
	2) Terrain is bilinearly resampled at every cell center, then baseline
	   shifted so the lowest open cell sits at elevation zero.
	3) Building polygons mark a cell as obstacle when the cell center lies
	   inside the footprint (outer ring point-in-polygon), restricted to the
	   footprint's bounding box in cell coordinates. An rtree over footprint
	   bounds drops polygons that do not intersect the raster extent at all,
	   which matters when a city-wide footprint set feeds a small flood area.
	4) The source cell is resolved: an explicit override maps to the nearest
	   open cell via ring search; otherwise the open cell whose elevation is
	   closest to the midpoint of the open min/max elevation is chosen, ties
	   broken toward the raster center.
*/
func BuildRaster(hf *Heightfield, buildings []geom.Polygon, bs BuildSpec) (r *Raster) {
	bs.applyDefaults()
	var (
		width  = clampResolution(hf.XMax-hf.XMin, bs.TargetCellSize, bs.MinResolution, bs.MaxResolution)
		height = clampResolution(hf.ZMax-hf.ZMin, bs.TargetCellSize, bs.MinResolution, bs.MaxResolution)
	)
	r = &Raster{
		Width:    width,
		Height:   height,
		XMin:     hf.XMin,
		XMax:     hf.XMax,
		ZMin:     hf.ZMin,
		ZMax:     hf.ZMax,
		Dx:       (hf.XMax - hf.XMin) / float64(width-1),
		Dz:       (hf.ZMax - hf.ZMin) / float64(height-1),
		Terrain:  make([]float64, width*height),
		Obstacle: make([]byte, width*height),
	}
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			x, z := r.CellCenter(i, j)
			r.Terrain[r.Index(i, j)] = hf.Bilinear(x, z)
		}
	}
	marked := r.rasterizeBuildings(buildings)
	r.shiftToDatum()
	r.resolveSource(bs.SourceOverride)
	if bs.Verbose {
		fmt.Printf("Built raster %dx%d, cell %4.2fx%4.2f m\n", width, height, r.Dx, r.Dz)
		fmt.Printf("Marked %d obstacle cells from %d footprints, datum shift %6.2f m\n",
			marked, len(buildings), r.Datum)
		si, sj := r.SourceIndex%r.Width, r.SourceIndex/r.Width
		fmt.Printf("Source cell (%d,%d), elevation %6.2f m\n", si, sj, r.Terrain[r.SourceIndex])
	}
	return
}

func clampResolution(extent float64, cellSize, minRes, maxRes int) (n int) {
	n = int(math.Round(extent/float64(cellSize))) + 1
	if n < minRes {
		n = minRes
	}
	if n > maxRes {
		n = maxRes
	}
	return
}

func (r *Raster) rasterizeBuildings(buildings []geom.Polygon) (marked int) {
	if len(buildings) == 0 {
		return
	}
	tree := rtree.NewTree(25, 50)
	for _, b := range buildings {
		tree.Insert(b)
	}
	domain := &geom.Bounds{
		Min: geom.Point{X: r.XMin, Y: r.ZMin},
		Max: geom.Point{X: r.XMax, Y: r.ZMax},
	}
	for _, item := range tree.SearchIntersect(domain) {
		poly := item.(geom.Polygon)
		marked += r.markFootprint(poly)
	}
	return
}

func (r *Raster) markFootprint(poly geom.Polygon) (marked int) {
	var (
		pb = poly.Bounds()
		i0 = int(math.Ceil((pb.Min.X - r.XMin) / r.Dx))
		i1 = int(math.Floor((pb.Max.X - r.XMin) / r.Dx))
		j0 = int(math.Ceil((pb.Min.Y - r.ZMin) / r.Dz))
		j1 = int(math.Floor((pb.Max.Y - r.ZMin) / r.Dz))
	)
	i0, i1 = max(i0, 0), min(i1, r.Width-1)
	j0, j1 = max(j0, 0), min(j1, r.Height-1)
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			x, z := r.CellCenter(i, j)
			if (geom.Point{X: x, Y: z}).Within(poly) != geom.Outside {
				idx := r.Index(i, j)
				if r.Obstacle[idx] == 0 {
					r.Obstacle[idx] = 1
					marked++
				}
			}
		}
	}
	return
}

// shiftToDatum rebases terrain so the minimum open-cell elevation is zero,
// falling back to the global minimum when every cell is an obstacle.
func (r *Raster) shiftToDatum() {
	var (
		minElev = math.MaxFloat64
		anyOpen bool
	)
	for idx, elev := range r.Terrain {
		if r.Obstacle[idx] != 0 {
			continue
		}
		anyOpen = true
		if elev < minElev {
			minElev = elev
		}
	}
	if !anyOpen {
		for _, elev := range r.Terrain {
			if elev < minElev {
				minElev = elev
			}
		}
	}
	r.Datum = minElev
	for idx := range r.Terrain {
		r.Terrain[idx] -= minElev
	}
}

func (r *Raster) resolveSource(override *geom.Point) {
	if override != nil {
		i, j := r.CellAt(override.X, override.Y)
		idx := r.Index(i, j)
		r.SourceIndex = r.NearestOpenCell(idx, max(r.Width, r.Height))
		r.forceSourceOpen()
		return
	}
	var (
		minElev = math.MaxFloat64
		maxElev = -math.MaxFloat64
		anyOpen bool
	)
	for idx, elev := range r.Terrain {
		if r.Obstacle[idx] != 0 {
			continue
		}
		anyOpen = true
		minElev = math.Min(minElev, elev)
		maxElev = math.Max(maxElev, elev)
	}
	if !anyOpen {
		r.SourceIndex = r.Index(r.Width/2, r.Height/2)
		r.forceSourceOpen()
		return
	}
	var (
		target   = 0.5 * (minElev + maxElev)
		ci, cj   = r.Width / 2, r.Height / 2
		best     = -1
		bestDiff = math.MaxFloat64
		bestDist = math.MaxFloat64
		tieEps   = 1.e-9
	)
	for idx, elev := range r.Terrain {
		if r.Obstacle[idx] != 0 {
			continue
		}
		var (
			diff   = math.Abs(elev - target)
			di, dj = idx%r.Width-ci, idx/r.Width-cj
			dist   = float64(di*di + dj*dj)
		)
		if diff < bestDiff-tieEps || (math.Abs(diff-bestDiff) <= tieEps && dist < bestDist) {
			best = idx
			bestDiff = diff
			bestDist = dist
		}
	}
	r.SourceIndex = best
}

// forceSourceOpen clears the obstacle bit at the resolved source cell when
// the ring search found nothing open, so a fully obstructed raster still
// carries one usable cell instead of failing downstream.
func (r *Raster) forceSourceOpen() {
	r.Obstacle[r.SourceIndex] = 0
}
