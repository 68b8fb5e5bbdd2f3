package SWE2D

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/theodorechapman/opendisaster-sub000/terrain"
)

/*
	SWE integrates the two dimensional shallow water equations over a terrain
	raster with an explicit finite volume scheme:

		dh/dt  + d(hu)/dx + d(hv)/dz = S_h
		dhu/dt + d(hu^2 + g h^2/2)/dx + d(hu v)/dz = -g h dz_b/dx + S_hu
		dhv/dt + d(hu v)/dx + d(hv^2 + g h^2/2)/dz = -g h dz_b/dz + S_hv

	Face fluxes use hydrostatic reconstruction: depths on both sides of a face
	are rebuilt against the higher of the two terrain elevations before the
	Riemann flux is formed, and the bed slope term is discretized from the
	same reconstructed depths. The pair keeps a lake at rest exactly at rest
	on arbitrary terrain and lets wetting fronts climb steps without
	generating negative depth.

	Depth and both momentum components live in ping-pong buffer pairs: each
	substep reads the current buffers and writes the next, then the buffers
	swap. No allocation happens after construction.
*/
type SWE struct {
	Raster       *terrain.Raster
	Params       SolverParams
	Mask         *SourceMask
	FluxCalcAlgo FluxType
	Case         InitType
	// Initial condition knobs, read by InitializeSolution for the LAKE and
	// DAMBREAK cases
	LakeLevel, DamDepth, DamFrac float64
	Time                         float64
	Stats                        Stats
	h, hu, hv                    [2][]float64
	cur                          int
	uWork, vWork                 []float64
}

const (
	// Reconstructed face depths below this are treated as a dry face
	dryEps = 1.e-12
	// Substeps smaller than this fraction of MinDt stop the substep loop
	minViableDtFraction = 0.1
)

func NewSWE(r *terrain.Raster, sp SolverParams, Case InitType, fluxType FluxType, verbose bool) (s *SWE) {
	n := r.Width * r.Height
	s = &SWE{
		Raster:       r,
		Params:       sp,
		Case:         Case,
		FluxCalcAlgo: fluxType,
		DamDepth:     1.0,
		DamFrac:      0.5,
	}
	for b := 0; b < 2; b++ {
		s.h[b] = make([]float64, n)
		s.hu[b] = make([]float64, n)
		s.hv[b] = make([]float64, n)
	}
	s.uWork = make([]float64, n)
	s.vWork = make([]float64, n)
	s.Mask = BuildSourceMask(r, r.SourceIndex, sp.SourceRadiusCells)
	s.InitializeSolution()
	if verbose {
		fmt.Printf("Shallow Water Equations in 2 Dimensions\n")
		fmt.Printf("Grid %dx%d, cell %5.2fx%5.2f m\n", r.Width, r.Height, r.Dx, r.Dz)
		fmt.Printf("Solving %s\n", s.Case.Print())
		fmt.Printf("Algorithm: %s\n", s.FluxCalcAlgo.Print())
		fmt.Printf("CFL = %8.4f, source cell %d, mask cells %d\n\n", sp.CFL, r.SourceIndex, len(s.Mask.Cells))
	}
	return
}

/*
	Step advances the simulation by a frame interval, decomposed into CFL
	limited substeps:
	- dt = CFL * min(dx,dz) / maxWaveSpeed, where the wave speed scan covers
	  wet cells only; with nothing wet the step runs at MaxDt.
	- dt clamps to [MinDt, MaxDt] and to the remaining interval. A dt below
	  a small fraction of MinDt ends the loop early rather than stalling in
	  substeps that cannot make progress.
	- At most MaxSubsteps substeps run per call; any unfinished remainder of
	  the frame interval is dropped, trading simulated time for stability.
*/
func (s *SWE) Step(frameDt float64) {
	var (
		p         = &s.Params
		remaining = frameDt
		substeps  int
		lastDt    = s.Stats.LastDt
	)
	for remaining > 1.e-9 && substeps < p.MaxSubsteps {
		var (
			a  = s.maxWaveSpeed()
			dt = p.MaxDt
		)
		if a > 0 {
			dt = p.CFL * math.Min(s.Raster.Dx, s.Raster.Dz) / a
		}
		dt = math.Max(p.MinDt, math.Min(dt, p.MaxDt))
		if dt > remaining {
			dt = remaining
		}
		if dt < minViableDtFraction*p.MinDt {
			break
		}
		s.advance(dt)
		s.Time += dt
		remaining -= dt
		lastDt = dt
		substeps++
	}
	s.Stats.LastDt = lastDt
	s.Stats.Substeps = substeps
	s.refreshStats()
}

// maxWaveSpeed scans the wet cells for the largest characteristic speed
// |u|+sqrt(g h) per axis. The scan is O(cells) every substep, the same order
// as the flux pass itself.
func (s *SWE) maxWaveSpeed() (a float64) {
	var (
		g   = s.Params.Gravity
		wet = s.Params.WetThreshold
		h   = s.h[s.cur]
		hu  = s.hu[s.cur]
		hv  = s.hv[s.cur]
	)
	for idx, hh := range h {
		if hh < wet {
			continue
		}
		var (
			c = math.Sqrt(g * hh)
			u = math.Abs(hu[idx]) / hh
			v = math.Abs(hv[idx]) / hh
		)
		a = math.Max(a, math.Max(u+c, v+c))
	}
	return
}

// advance runs one explicit substep: flux divergence in x then z, source and
// sink terms, the per-cell stability guard, momentum physics, buffer swap.
func (s *SWE) advance(dt float64) {
	var (
		hC, huC, hvC = s.h[s.cur], s.hu[s.cur], s.hv[s.cur]
		nxt          = 1 - s.cur
		hN, huN, hvN = s.h[nxt], s.hu[nxt], s.hv[nxt]
	)
	copy(hN, hC)
	copy(huN, huC)
	copy(hvN, hvC)
	s.fluxPassX(dt, hC, huC, hvC, hN, huN, hvN)
	s.fluxPassZ(dt, hC, huC, hvC, hN, huN, hvN)
	s.applySources(dt, hN, huN, hvN)
	s.applyCellPhysics(dt, hN, huN, hvN)
	s.cur = nxt
}

type RunMeta struct {
	FrameDt, FinalTime float64
	StepsBeforePrint   int
	Verbose            bool
}

// Solve drives Step at a fixed frame interval until FinalTime, reporting
// progress the way an interactive host would consume it.
func (s *SWE) Solve(rm *RunMeta) {
	var (
		steps    int
		finished bool
	)
	if rm.StepsBeforePrint <= 0 {
		rm.StepsBeforePrint = 50
	}
	if rm.Verbose {
		s.PrintInitialization(rm.FinalTime)
	}
	elapsed := time.Duration(0)
	var start time.Time
	for !finished {
		start = time.Now()
		s.Step(rm.FrameDt)
		elapsed += time.Now().Sub(start)
		steps++
		finished = s.CheckIfFinished(rm.FinalTime, steps)
		if rm.Verbose && (finished || steps%rm.StepsBeforePrint == 0 || steps == 1) {
			s.PrintUpdate(steps)
		}
	}
	if rm.Verbose {
		s.PrintFinal(elapsed, steps)
	}
}

func (s *SWE) CheckIfFinished(FinalTime float64, steps int) (finished bool) {
	// Substep starvation can stall simulated time; the step bound ends the
	// run regardless
	if s.Time >= FinalTime || steps >= 10_000_000 {
		finished = true
	}
	return
}

func (s *SWE) PrintInitialization(FinalTime float64) {
	fmt.Printf("Solving until finaltime = %8.3f\n", FinalTime)
	fmt.Printf("    step     time  last_dt  sub     wet    maxdepth      volume\n")
}

func (s *SWE) PrintUpdate(steps int) {
	fmt.Printf("%8d%9.3f%9.5f%5d%8d%12.4e%12.4e\n",
		steps, s.Time, s.Stats.LastDt, s.Stats.Substeps,
		s.Stats.WetCells, s.Stats.MaxDepth, s.Stats.TotalVolume)
}

func (s *SWE) PrintFinal(elapsed time.Duration, steps int) {
	n := s.Raster.Width * s.Raster.Height
	rate := float64(elapsed.Microseconds()) / (float64(n) * float64(steps))
	fmt.Printf("\nRate of execution = %8.5f us/(cell*step) over %d steps\n", rate, steps)
}

// Stats is the aggregate snapshot recomputed after every Step call, consumed
// read-only by telemetry.
type Stats struct {
	WetCells    int
	MaxDepth    float64
	TotalVolume float64
	LastDt      float64
	Substeps    int
	Time        float64
}

func (s *SWE) refreshStats() {
	var (
		wet  = s.Params.WetThreshold
		h    = s.h[s.cur]
		st   = &s.Stats
		maxD float64
		n    int
	)
	for _, hh := range h {
		if hh >= wet {
			n++
		}
		if hh > maxD {
			maxD = hh
		}
	}
	st.WetCells = n
	st.MaxDepth = maxD
	st.TotalVolume = floats.Sum(h) * s.Raster.CellArea()
	st.Time = s.Time
}

// Depth exposes the current depth field for full-field consumers. The slice
// aliases solver-owned memory and is only valid to read between Step calls.
func (s *SWE) Depth() []float64 {
	return s.h[s.cur]
}

func (s *SWE) MomentumX() []float64 {
	return s.hu[s.cur]
}

func (s *SWE) MomentumZ() []float64 {
	return s.hv[s.cur]
}
