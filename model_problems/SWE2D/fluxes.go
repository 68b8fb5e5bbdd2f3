package SWE2D

import (
	"fmt"
	"math"
	"strings"
)

type FluxType uint8

const (
	FLUX_Rusanov FluxType = iota
	FLUX_HLL
)

var (
	FluxNames = map[string]FluxType{
		"rusanov": FLUX_Rusanov,
		"llf":     FLUX_Rusanov,
		"lax":     FLUX_Rusanov,
		"hll":     FLUX_HLL,
	}
)

func NewFluxType(label string) (ft FluxType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if len(label) == 0 {
		return FLUX_Rusanov
	}
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("unable to use flux named [%s]", label)
		panic(err)
	}
	return
}

func (ft FluxType) Print() (txt string) {
	switch ft {
	case FLUX_Rusanov:
		txt = "Rusanov (Local Lax Friedrichs) Flux"
	case FLUX_HLL:
		txt = "HLL Flux"
	}
	return
}

/*
	fluxPassX accumulates the x direction face fluxes into the next buffers.
	Faces touching an obstacle cell carry no flux at all: together with the
	outward velocity zeroing in the physics phase this closes the domain, so
	mass only moves between open cells. Grid edges have no face and behave
	like walls for the same reason.

	Each open-open face is hydrostatically reconstructed: both depths are
	rebuilt against the higher terrain of the pair, which blocks uphill flow
	into dry cells sitting above the waterline. The bed slope term is formed
	from the same reconstructed depths, so for a resting water surface the
	face pressure and the bed force cancel per face, to rounding.
*/
func (s *SWE) fluxPassX(dt float64, hC, huC, hvC, hN, huN, hvN []float64) {
	var (
		r    = s.Raster
		wet  = s.Params.WetThreshold
		cdx  = dt / r.Dx
		bedK = 0.5 * s.Params.Gravity * cdx * s.Params.SlopeFactor
	)
	for j := 0; j < r.Height; j++ {
		base := j * r.Width
		for i := 0; i < r.Width-1; i++ {
			var (
				l = base + i
				q = l + 1
			)
			if r.Obstacle[l] != 0 || r.Obstacle[q] != 0 {
				continue
			}
			var (
				zL, zR = r.Terrain[l], r.Terrain[q]
				zf     = math.Max(zL, zR)
				hLs    = math.Max(0, hC[l]+zL-zf)
				hRs    = math.Max(0, hC[q]+zR-zf)
			)
			if hLs < dryEps && hRs < dryEps {
				continue
			}
			uL, vL := velocity(hC[l], huC[l], hvC[l], wet)
			uR, vR := velocity(hC[q], huC[q], hvC[q], wet)
			fm, fn, ft := s.faceFlux(hLs, hRs, uL, uR, vL, vR)
			hN[l] -= cdx * fm
			hN[q] += cdx * fm
			huN[l] -= cdx * fn
			huN[q] += cdx * fn
			hvN[l] -= cdx * ft
			hvN[q] += cdx * ft
			huN[l] += bedK * hLs * hLs
			huN[q] -= bedK * hRs * hRs
		}
	}
}

// fluxPassZ is fluxPassX rotated: the normal momentum is hv, the transverse
// component hu.
func (s *SWE) fluxPassZ(dt float64, hC, huC, hvC, hN, huN, hvN []float64) {
	var (
		r    = s.Raster
		wet  = s.Params.WetThreshold
		cdz  = dt / r.Dz
		bedK = 0.5 * s.Params.Gravity * cdz * s.Params.SlopeFactor
	)
	for j := 0; j < r.Height-1; j++ {
		base := j * r.Width
		for i := 0; i < r.Width; i++ {
			var (
				l = base + i
				q = l + r.Width
			)
			if r.Obstacle[l] != 0 || r.Obstacle[q] != 0 {
				continue
			}
			var (
				zL, zR = r.Terrain[l], r.Terrain[q]
				zf     = math.Max(zL, zR)
				hLs    = math.Max(0, hC[l]+zL-zf)
				hRs    = math.Max(0, hC[q]+zR-zf)
			)
			if hLs < dryEps && hRs < dryEps {
				continue
			}
			uL, vL := velocity(hC[l], huC[l], hvC[l], wet)
			uR, vR := velocity(hC[q], huC[q], hvC[q], wet)
			fm, fn, ft := s.faceFlux(hLs, hRs, vL, vR, uL, uR)
			hN[l] -= cdz * fm
			hN[q] += cdz * fm
			hvN[l] -= cdz * fn
			hvN[q] += cdz * fn
			huN[l] -= cdz * ft
			huN[q] += cdz * ft
			hvN[l] += bedK * hLs * hLs
			hvN[q] -= bedK * hRs * hRs
		}
	}
}

func velocity(h, hu, hv, wet float64) (u, v float64) {
	if h < wet {
		return
	}
	u = hu / h
	v = hv / h
	return
}

/*
	faceFlux evaluates the one dimensional Riemann flux across a face from
	the reconstructed left/right states. un is the velocity normal to the
	face, ut transverse. Returned components: mass, normal momentum,
	transverse momentum.

		F = [h un, h un^2 + g h^2/2, h un ut]

	Rusanov dissipates every component with the largest signal speed of the
	pair; HLL resolves the two outer waves and upwinds fully supersonic
	faces.
*/
func (s *SWE) faceFlux(hL, hR, unL, unR, utL, utR float64) (fm, fn, ft float64) {
	var (
		g      = s.Params.Gravity
		cL, cR = math.Sqrt(g * hL), math.Sqrt(g * hR)
		fmL    = hL * unL
		fmR    = hR * unR
		fnL    = hL*unL*unL + 0.5*g*hL*hL
		fnR    = hR*unR*unR + 0.5*g*hR*hR
		ftL    = fmL * utL
		ftR    = fmR * utR
	)
	switch s.FluxCalcAlgo {
	case FLUX_HLL:
		var (
			sL = math.Min(unL-cL, unR-cR)
			sR = math.Max(unL+cL, unR+cR)
		)
		switch {
		case sL >= 0:
			fm, fn, ft = fmL, fnL, ftL
		case sR <= 0:
			fm, fn, ft = fmR, fnR, ftR
		default:
			div := 1 / (sR - sL)
			fm = (sR*fmL - sL*fmR + sL*sR*(hR-hL)) * div
			fn = (sR*fnL - sL*fnR + sL*sR*(hR*unR-hL*unL)) * div
			ft = (sR*ftL - sL*ftR + sL*sR*(hR*utR-hL*utL)) * div
		}
	default:
		a := math.Max(math.Abs(unL)+cL, math.Abs(unR)+cR)
		fm = 0.5*(fmL+fmR) - 0.5*a*(hR-hL)
		fn = 0.5*(fnL+fnR) - 0.5*a*(hR*unR-hL*unL)
		ft = 0.5*(ftL+ftR) - 0.5*a*(hR*utR-hL*utL)
	}
	return
}
