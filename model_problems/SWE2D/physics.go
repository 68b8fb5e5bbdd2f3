package SWE2D

import "math"

const (
	baseViscosity       = 0.05 // m^2/s eddy viscosity floor
	viscositySpeedScale = 0.12 // growth of viscosity per m/s of local speed
	viscosityCap        = 0.5  // m^2/s
	diffusionLimit      = 0.2  // per-axis explicit diffusion factor bound
	maxFroude           = 2.0
)

/*
	applyCellPhysics finishes a substep on the freshly written buffers:

	1) Stability guard. A cell whose depth is non-finite or under the wet
	   threshold, or whose momentum went non-finite, is forced fully dry.
	   This is a local silent recovery: a little mass accuracy is traded for
	   the guarantee that NaN never leaves a cell.
	2) Momentum physics per wet cell, on a velocity snapshot taken after the
	   guard so the Laplacian reads a consistent state: speed scaled eddy
	   viscosity, wall no-penetration (outward normal velocity is absorbed,
	   tangential kept), Manning bottom friction, Froude limited speed cap.
*/
func (s *SWE) applyCellPhysics(dt float64, hN, huN, hvN []float64) {
	var (
		r   = s.Raster
		p   = &s.Params
		wet = p.WetThreshold
	)
	for idx := range hN {
		h := hN[idx]
		if h >= wet && !math.IsInf(h, 1) && isFinite(huN[idx]) && isFinite(hvN[idx]) {
			continue
		}
		hN[idx], huN[idx], hvN[idx] = 0, 0, 0
	}
	for idx := range hN {
		s.uWork[idx], s.vWork[idx] = velocity(hN[idx], huN[idx], hvN[idx], wet)
	}
	for j := 0; j < r.Height; j++ {
		base := j * r.Width
		for i := 0; i < r.Width; i++ {
			idx := base + i
			if r.Obstacle[idx] != 0 {
				continue
			}
			h := hN[idx]
			if h < wet {
				continue
			}
			var (
				u, v  = s.uWork[idx], s.vWork[idx]
				speed = math.Hypot(u, v)
				wallW = i == 0 || r.Obstacle[idx-1] != 0
				wallE = i == r.Width-1 || r.Obstacle[idx+1] != 0
				wallS = j == 0 || r.Obstacle[idx-r.Width] != 0
				wallN = j == r.Height-1 || r.Obstacle[idx+r.Width] != 0
			)
			// 5-point Laplacian diffusion; wall neighbors contribute no
			// shear (free slip), open dry neighbors drag toward zero
			nu := baseViscosity * (1 + viscositySpeedScale*speed)
			if nu > viscosityCap {
				nu = viscosityCap
			}
			fx := nu * dt / (r.Dx * r.Dx)
			if fx > diffusionLimit {
				fx = diffusionLimit
			}
			fz := nu * dt / (r.Dz * r.Dz)
			if fz > diffusionLimit {
				fz = diffusionLimit
			}
			var lapUx, lapUz, lapVx, lapVz float64
			if !wallW {
				lapUx += s.uWork[idx-1] - u
				lapVx += s.vWork[idx-1] - v
			}
			if !wallE {
				lapUx += s.uWork[idx+1] - u
				lapVx += s.vWork[idx+1] - v
			}
			if !wallS {
				lapUz += s.uWork[idx-r.Width] - u
				lapVz += s.vWork[idx-r.Width] - v
			}
			if !wallN {
				lapUz += s.uWork[idx+r.Width] - u
				lapVz += s.vWork[idx+r.Width] - v
			}
			u += fx*lapUx + fz*lapUz
			v += fx*lapVx + fz*lapVz
			if wallE && u > 0 {
				u = 0
			}
			if wallW && u < 0 {
				u = 0
			}
			if wallN && v > 0 {
				v = 0
			}
			if wallS && v < 0 {
				v = 0
			}
			if p.ManningN > 0 {
				speed = math.Hypot(u, v)
				if speed > 0 {
					drag := p.Gravity * p.ManningN * p.ManningN * speed / math.Pow(h, 4.0/3.0)
					damp := 1 / (1 + dt*drag)
					u *= damp
					v *= damp
				}
			}
			speed = math.Hypot(u, v)
			maxSpeed := math.Max(1, maxFroude*math.Sqrt(p.Gravity*h))
			if speed > maxSpeed {
				sc := maxSpeed / speed
				u *= sc
				v *= sc
			}
			huN[idx] = h * u
			hvN[idx] = h * v
		}
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
