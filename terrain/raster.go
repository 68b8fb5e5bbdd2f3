package terrain

import (
	"math"
)

/*
	A Raster is the fixed simulation grid derived from a Heightfield and a set
	of building footprints. It is immutable once built: the solver and the
	source model hold a shared reference and never write through it.

	Cells are node registered on the world extent: cell (i,j) is centered at
	(XMin + i*Dx, ZMin + j*Dz), so cell (Width-1, Height-1) lies exactly at
	(XMax, ZMax). Terrain elevations are baseline shifted so the lowest open
	cell maps to zero; Datum records the shift so world elevations can be
	recovered.
*/
type Raster struct {
	Width, Height          int
	XMin, XMax, ZMin, ZMax float64
	Dx, Dz                 float64
	Terrain                []float64
	Obstacle               []byte
	SourceIndex            int
	Datum                  float64
}

func (r *Raster) Index(i, j int) int {
	return j*r.Width + i
}

func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && i < r.Width && j >= 0 && j < r.Height
}

func (r *Raster) IsOpen(idx int) bool {
	return r.Obstacle[idx] == 0
}

func (r *Raster) CellArea() float64 {
	return r.Dx * r.Dz
}

// CellCenter returns the world position of cell (i,j).
func (r *Raster) CellCenter(i, j int) (x, z float64) {
	x = r.XMin + float64(i)*r.Dx
	z = r.ZMin + float64(j)*r.Dz
	return
}

// CellAt maps world coordinates to the nearest cell, clamped to the grid, so
// out-of-range queries resolve to the closest edge cell instead of failing.
func (r *Raster) CellAt(x, z float64) (i, j int) {
	i = int(math.Round((x - r.XMin) / r.Dx))
	j = int(math.Round((z - r.ZMin) / r.Dz))
	if i < 0 {
		i = 0
	}
	if i > r.Width-1 {
		i = r.Width - 1
	}
	if j < 0 {
		j = 0
	}
	if j > r.Height-1 {
		j = r.Height - 1
	}
	return
}

/*
	NearestOpenCell searches outward from a starting cell in expanding square
	rings (chessboard radius) and returns the index of the first open cell
	found, preferring the ring candidate with the smallest Euclidean distance
	to the start. If no open cell exists within maxRadius rings the original
	index is returned unchanged so callers degrade gracefully on fully
	obstructed rasters.
*/
func (r *Raster) NearestOpenCell(startIdx, maxRadius int) (idx int) {
	idx = startIdx
	if r.IsOpen(startIdx) {
		return
	}
	var (
		si = startIdx % r.Width
		sj = startIdx / r.Width
	)
	for ring := 1; ring <= maxRadius; ring++ {
		var (
			best     = -1
			bestDist = math.MaxFloat64
		)
		for dj := -ring; dj <= ring; dj++ {
			for di := -ring; di <= ring; di++ {
				if di > -ring && di < ring && dj > -ring && dj < ring {
					continue // interior of the ring was covered by smaller rings
				}
				i, j := si+di, sj+dj
				if !r.InBounds(i, j) {
					continue
				}
				cand := r.Index(i, j)
				if !r.IsOpen(cand) {
					continue
				}
				d := float64(di*di + dj*dj)
				if d < bestDist {
					bestDist = d
					best = cand
				}
			}
		}
		if best >= 0 {
			idx = best
			return
		}
	}
	return
}
