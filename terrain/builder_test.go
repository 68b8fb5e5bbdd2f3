package terrain

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
)

func TestBilinear(t *testing.T) {
	hf := NewHeightfield(2, 2, 0, 10, 0, 10, []float64{0, 10, 20, 30})
	assert.True(t, near(hf.Bilinear(0, 0), 0))
	assert.True(t, near(hf.Bilinear(10, 0), 10))
	assert.True(t, near(hf.Bilinear(0, 10), 20))
	assert.True(t, near(hf.Bilinear(10, 10), 30))
	assert.True(t, near(hf.Bilinear(5, 5), 15))
	// Out of range queries clamp to the edge
	assert.True(t, near(hf.Bilinear(-5, 5), 10))
	assert.True(t, near(hf.Bilinear(15, 15), 30))
}

func TestResolutionClamp(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 100, 0, 100, 0)
	r := BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 16, MaxResolution: 256})
	assert.Equal(t, 101, r.Width)
	assert.Equal(t, 101, r.Height)
	assert.True(t, near(r.Dx, 1.0))
	assert.True(t, near(r.Dz, 1.0))

	r = BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 16, MaxResolution: 64})
	assert.Equal(t, 64, r.Width)

	hf = UniformHeightfield(2, 2, 0, 4, 0, 4, 0)
	r = BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 16, MaxResolution: 256})
	assert.Equal(t, 16, r.Width)
}

func TestDatumShift(t *testing.T) {
	// Terrain between 50 and 60 m rebases to [0,10]
	hf := NewHeightfield(2, 2, 0, 10, 0, 10, []float64{50, 60, 50, 60})
	r := BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	assert.True(t, near(r.Datum, 50))
	var minElev, maxElev = math.MaxFloat64, -math.MaxFloat64
	for _, e := range r.Terrain {
		minElev = math.Min(minElev, e)
		maxElev = math.Max(maxElev, e)
	}
	assert.True(t, near(minElev, 0))
	assert.True(t, near(maxElev, 10))
}

func footprint(x0, z0, x1, z1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: z0},
		{X: x1, Y: z0},
		{X: x1, Y: z1},
		{X: x0, Y: z1},
		{X: x0, Y: z0},
	}}
}

func TestObstacleRasterization(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	b := footprint(3.5, 3.5, 6.5, 6.5)
	r := BuildRaster(hf, []geom.Polygon{b}, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	assert.Equal(t, 11, r.Width)
	var count int
	for _, o := range r.Obstacle {
		if o != 0 {
			count++
		}
	}
	// Cell centers 4..6 in both axes fall inside the footprint
	assert.Equal(t, 9, count)
	assert.False(t, r.IsOpen(r.Index(5, 5)))
	assert.True(t, r.IsOpen(r.Index(2, 2)))
	assert.True(t, r.IsOpen(r.Index(7, 7)))
}

func TestFootprintOutsideDomain(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	b := footprint(100, 100, 110, 110)
	r := BuildRaster(hf, []geom.Polygon{b}, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	for idx := range r.Obstacle {
		assert.True(t, r.IsOpen(idx))
	}
}

func TestSourceSelection(t *testing.T) {
	// Flat terrain: every open cell ties at the midpoint elevation, so the
	// tie-break picks the raster center
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	r := BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	assert.Equal(t, r.Index(r.Width/2, r.Height/2), r.SourceIndex)

	// Linear slope 0..10 along x: the source lands at the mid elevation
	hf = NewHeightfield(2, 2, 0, 10, 0, 10, []float64{0, 10, 0, 10})
	r = BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	assert.True(t, near(r.Terrain[r.SourceIndex], 5, 0.51))
}

func TestSourceOverride(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	b := footprint(3.5, 3.5, 6.5, 6.5)
	over := &geom.Point{X: 5, Y: 5}
	r := BuildRaster(hf, []geom.Polygon{b}, BuildSpec{
		TargetCellSize: 1, MinResolution: 4, MaxResolution: 64, SourceOverride: over,
	})
	// The requested cell is obstructed, the ring search must land on an open
	// cell adjacent to the footprint
	assert.True(t, r.IsOpen(r.SourceIndex))
	si, sj := r.SourceIndex%r.Width, r.SourceIndex/r.Width
	assert.True(t, math.Abs(float64(si-5)) <= 2)
	assert.True(t, math.Abs(float64(sj-5)) <= 2)
}

func TestAllObstacleFallback(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	b := footprint(-1, -1, 11, 11)
	r := BuildRaster(hf, []geom.Polygon{b}, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	// Everything is walled off, the fallback source is forced open
	assert.True(t, r.IsOpen(r.SourceIndex))
	assert.Equal(t, r.Index(r.Width/2, r.Height/2), r.SourceIndex)
	var open int
	for idx := range r.Obstacle {
		if r.IsOpen(idx) {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestNearestOpenCell(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	b := footprint(3.5, 3.5, 6.5, 6.5)
	r := BuildRaster(hf, []geom.Polygon{b}, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	start := r.Index(5, 5)
	idx := r.NearestOpenCell(start, r.Width)
	assert.True(t, r.IsOpen(idx))
	i, j := idx%r.Width, idx/r.Width
	// First open ring around (5,5) given the 4..6 obstacle block is at
	// chessboard radius 2
	assert.Equal(t, 2, max(abs(i-5), abs(j-5)))

	// Open start cells return themselves
	assert.Equal(t, r.Index(1, 1), r.NearestOpenCell(r.Index(1, 1), r.Width))
}

func TestCellRoundTrip(t *testing.T) {
	hf := UniformHeightfield(2, 2, 0, 10, 0, 10, 0)
	r := BuildRaster(hf, nil, BuildSpec{TargetCellSize: 1, MinResolution: 4, MaxResolution: 64})
	for _, c := range [][2]int{{0, 0}, {3, 7}, {10, 10}} {
		x, z := r.CellCenter(c[0], c[1])
		i, j := r.CellAt(x, z)
		assert.Equal(t, c[0], i)
		assert.Equal(t, c[1], j)
	}
	// Out of range world coordinates clamp
	i, j := r.CellAt(-100, 100)
	assert.Equal(t, 0, i)
	assert.Equal(t, r.Height-1, j)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
