package SWE2D

import (
	"math"

	"github.com/theodorechapman/opendisaster-sub000/terrain"
)

const (
	// Injected water leaves the source as a radial jet; the jet speed grows
	// with the square root of the volumetric rate up to a hard cap
	jetBaseSpeed = 1.5
	maxJetSpeed  = 8.5
	// Mask cells near the center are floored to twice the wet threshold
	// while the source runs, so the injection point never reads as dry
	sourceFloorWeight = 0.5
)

/*
	SourceMask distributes injected volume and momentum over a smooth radial
	footprint around the resolved source cell. Weights follow a smoothstep
	falloff of normalized distance; directions point away from the center and
	are zero at the center cell itself. The mask stores open cells only and
	is immutable once built.
*/
type SourceMask struct {
	SourceIndex int
	Radius      int
	Cells       []int
	Weight      []float64
	DirX, DirZ  []float64
	WeightSum   float64
}

func BuildSourceMask(r *terrain.Raster, sourceIndex, radiusCells int) (m *SourceMask) {
	m = &SourceMask{
		SourceIndex: sourceIndex,
		Radius:      radiusCells,
	}
	if radiusCells < 1 {
		m.single(r, sourceIndex)
		return
	}
	var (
		si     = sourceIndex % r.Width
		sj     = sourceIndex / r.Width
		radius = float64(radiusCells)
	)
	for dj := -radiusCells; dj <= radiusCells; dj++ {
		for di := -radiusCells; di <= radiusCells; di++ {
			i, j := si+di, sj+dj
			if !r.InBounds(i, j) {
				continue
			}
			idx := r.Index(i, j)
			if !r.IsOpen(idx) {
				continue
			}
			dist := math.Sqrt(float64(di*di + dj*dj))
			edge := 1 - dist/radius
			if edge <= 0 {
				continue
			}
			w := edge * edge * (3 - 2*edge)
			var dx, dz float64
			if dist > 0 {
				dx = float64(di) / dist
				dz = float64(dj) / dist
			}
			m.Cells = append(m.Cells, idx)
			m.Weight = append(m.Weight, w)
			m.DirX = append(m.DirX, dx)
			m.DirZ = append(m.DirZ, dz)
			m.WeightSum += w
		}
	}
	if m.WeightSum <= 1.e-9 {
		if r.IsOpen(sourceIndex) {
			m.single(r, sourceIndex)
			return
		}
		// Fully obstructed neighborhood: keep an epsilon floor so the rate
		// division stays finite; the empty mask injects nothing
		m.WeightSum = 1.e-9
	}
	return
}

func (m *SourceMask) single(r *terrain.Raster, sourceIndex int) {
	m.Cells = []int{sourceIndex}
	m.Weight = []float64{1}
	m.DirX = []float64{0}
	m.DirZ = []float64{0}
	m.WeightSum = 1
}

// DepthRatePerCell converts a volumetric flow into a per-unit-weight depth
// rate. Summed over the mask the injected volume per second equals the flow
// rate exactly, whatever shape the mask took.
func (m *SourceMask) DepthRatePerCell(flowRate, cellArea float64) float64 {
	return flowRate / (cellArea * m.WeightSum)
}

// applySources adds the source jet, rain, infiltration and drainage to the
// freshly updated buffers. Runs after the flux divergence within the same
// substep.
func (s *SWE) applySources(dt float64, hN, huN, hvN []float64) {
	var (
		p = &s.Params
		r = s.Raster
		m = s.Mask
	)
	if p.SourceEnabled && p.SourceFlowRate > 0 {
		var (
			rate = m.DepthRatePerCell(p.SourceFlowRate, r.CellArea())
			jet  = math.Min(maxJetSpeed, jetBaseSpeed+math.Sqrt(p.SourceFlowRate))
		)
		for k, idx := range m.Cells {
			add := rate * m.Weight[k] * dt
			hN[idx] += add
			huN[idx] += add * jet * m.DirX[k]
			hvN[idx] += add * jet * m.DirZ[k]
		}
	}
	if p.RainRate > 0 || p.InfiltrationRate > 0 || p.DrainageRate > 0 {
		var (
			rain  = p.RainRate * dt
			infil = p.InfiltrationRate * dt
			decay = math.Max(0, 1-p.DrainageRate*dt)
		)
		for idx := range hN {
			if r.Obstacle[idx] != 0 {
				continue
			}
			h := hN[idx] + rain - infil
			if h < 0 {
				h = 0
			}
			hN[idx] = h * decay
		}
	}
	if p.SourceEnabled {
		floor := 2 * p.WetThreshold
		for k, idx := range m.Cells {
			if m.Weight[k] > sourceFloorWeight && hN[idx] < floor {
				hN[idx] = floor
			}
		}
	}
}
