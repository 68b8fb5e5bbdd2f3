package SWE2D

import "math"

// Sample is a point snapshot of the solver state, in world units. SurfaceY
// is terrain plus depth, both relative to the raster datum.
type Sample struct {
	Depth, U, V        float64
	TerrainY, SurfaceY float64
	Obstacle           bool
}

/*
	SampleWorld reads the state at a world coordinate by nearest cell lookup,
	clamped to the grid. At an exact cell center the returned values are the
	cell's raw state, no interpolation. With preferOpen set an obstructed
	target redirects to the nearest open cell within searchRadius rings, so
	consumers sweeping effects along the surface never read building
	interiors.
*/
func (s *SWE) SampleWorld(x, z float64, preferOpen bool, searchRadius int) (smp Sample) {
	var (
		r    = s.Raster
		i, j = r.CellAt(x, z)
		idx  = r.Index(i, j)
	)
	if preferOpen && !r.IsOpen(idx) {
		idx = r.NearestOpenCell(idx, searchRadius)
	}
	var (
		h = s.h[s.cur][idx]
	)
	smp.Depth = h
	if h >= s.Params.WetThreshold {
		smp.U = s.hu[s.cur][idx] / h
		smp.V = s.hv[s.cur][idx] / h
	}
	smp.TerrainY = r.Terrain[idx]
	smp.SurfaceY = smp.TerrainY + h
	smp.Obstacle = !r.IsOpen(idx)
	return
}

/*
	ApplyImpulse adds a localized momentum kick around a world point, with a
	Gaussian falloff over the given radius in meters. External collaborators
	use it for debris and impact effects without involving the source model.
	Only wet open cells respond; strength scales the velocity change at the
	center. Call between Step invocations, never during one.
*/
func (s *SWE) ApplyImpulse(x, z, vx, vz, radius, strength float64) {
	var (
		r   = s.Raster
		wet = s.Params.WetThreshold
		h   = s.h[s.cur]
		hu  = s.hu[s.cur]
		hv  = s.hv[s.cur]
	)
	if radius <= 0 {
		ci, cj := r.CellAt(x, z)
		idx := r.Index(ci, cj)
		if r.IsOpen(idx) && h[idx] >= wet {
			hu[idx] += h[idx] * vx * strength
			hv[idx] += h[idx] * vz * strength
		}
		return
	}
	var (
		ci, cj = r.CellAt(x, z)
		ni     = int(math.Ceil(radius / r.Dx))
		nj     = int(math.Ceil(radius / r.Dz))
		r2     = radius * radius
	)
	for dj := -nj; dj <= nj; dj++ {
		for di := -ni; di <= ni; di++ {
			i, j := ci+di, cj+dj
			if !r.InBounds(i, j) {
				continue
			}
			idx := r.Index(i, j)
			if !r.IsOpen(idx) || h[idx] < wet {
				continue
			}
			var (
				wx = float64(di) * r.Dx
				wz = float64(dj) * r.Dz
				d2 = wx*wx + wz*wz
			)
			if d2 > r2 {
				continue
			}
			fall := math.Exp(-3 * d2 / r2)
			hu[idx] += h[idx] * vx * strength * fall
			hv[idx] += h[idx] * vz * strength * fall
		}
	}
}
