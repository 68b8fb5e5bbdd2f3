package terrain

import (
	"fmt"
	"math"
)

/*
	A Heightfield is the raw elevation input to the raster builder: a row-major
	grid of terrain elevations in meters spanning a rectangular world extent.
	Samples are ordered j*NX+i with i increasing in +X (east) and j increasing
	in +Z (north). The field is node registered: sample (0,0) sits exactly at
	(XMin, ZMin) and sample (NX-1, NY-1) at (XMax, ZMax).
*/
type Heightfield struct {
	NX, NY                 int
	XMin, XMax, ZMin, ZMax float64
	Values                 []float64
}

func NewHeightfield(nx, ny int, xMin, xMax, zMin, zMax float64, values []float64) (hf *Heightfield) {
	if nx < 2 || ny < 2 {
		panic(fmt.Errorf("heightfield needs at least 2x2 samples, have %dx%d", nx, ny))
	}
	if len(values) != nx*ny {
		panic(fmt.Errorf("heightfield value count %d does not match %dx%d", len(values), nx, ny))
	}
	// Degenerate extents are widened rather than rejected so a bad bounding
	// box degrades to a tiny flat patch instead of dividing by zero
	if xMax-xMin < 1.e-6 {
		xMax = xMin + 1.e-6
	}
	if zMax-zMin < 1.e-6 {
		zMax = zMin + 1.e-6
	}
	hf = &Heightfield{
		NX:     nx,
		NY:     ny,
		XMin:   xMin,
		XMax:   xMax,
		ZMin:   zMin,
		ZMax:   zMax,
		Values: values,
	}
	return
}

// UniformHeightfield builds a flat field at a constant elevation, mostly
// useful for tests and synthetic benchmark basins.
func UniformHeightfield(nx, ny int, xMin, xMax, zMin, zMax, elevation float64) (hf *Heightfield) {
	values := make([]float64, nx*ny)
	for i := range values {
		values[i] = elevation
	}
	return NewHeightfield(nx, ny, xMin, xMax, zMin, zMax, values)
}

func (hf *Heightfield) At(i, j int) float64 {
	return hf.Values[j*hf.NX+i]
}

// Bilinear samples the heightfield at world coordinates. Queries outside the
// extent clamp to the nearest edge sample.
func (hf *Heightfield) Bilinear(x, z float64) (elev float64) {
	var (
		fx = (x - hf.XMin) / (hf.XMax - hf.XMin) * float64(hf.NX-1)
		fz = (z - hf.ZMin) / (hf.ZMax - hf.ZMin) * float64(hf.NY-1)
	)
	fx = math.Max(0, math.Min(float64(hf.NX-1), fx))
	fz = math.Max(0, math.Min(float64(hf.NY-1), fz))
	var (
		i0 = int(fx)
		j0 = int(fz)
		i1 = i0 + 1
		j1 = j0 + 1
	)
	if i1 > hf.NX-1 {
		i1 = hf.NX - 1
	}
	if j1 > hf.NY-1 {
		j1 = hf.NY - 1
	}
	var (
		tx  = fx - float64(i0)
		tz  = fz - float64(j0)
		v00 = hf.At(i0, j0)
		v10 = hf.At(i1, j0)
		v01 = hf.At(i0, j1)
		v11 = hf.At(i1, j1)
	)
	elev = (1-tz)*((1-tx)*v00+tx*v10) + tz*((1-tx)*v01+tx*v11)
	return
}
