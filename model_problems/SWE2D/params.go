package SWE2D

import "math"

// SolverParams is the scalar configuration snapshot the solver runs with.
// All rates and coefficients are clamped non-negative at the setter
// boundary; a misconfigured caller gets a degraded simulation, never an
// invalid state.
type SolverParams struct {
	Gravity           float64
	CFL               float64
	MinDt, MaxDt      float64
	MaxSubsteps       int
	ManningN          float64
	InfiltrationRate  float64 // m/s of depth removed uniformly
	DrainageRate      float64 // 1/s proportional decay
	WetThreshold      float64 // m, below this a cell is forced dry
	SourceEnabled     bool
	SourceFlowRate    float64 // m^3/s
	SourceRadiusCells int
	RainRate          float64 // m/s of depth added uniformly
	SlopeFactor       float64 // scales the bed slope response, 1 is physical
}

func DefaultSolverParams() SolverParams {
	return SolverParams{
		Gravity:           9.81,
		CFL:               0.45,
		MinDt:             1.e-4,
		MaxDt:             0.05,
		MaxSubsteps:       8,
		ManningN:          0.03,
		WetThreshold:      1.e-4,
		SourceRadiusCells: 2,
		SlopeFactor:       1.0,
	}
}

func (s *SWE) SetGravity(g float64) {
	s.Params.Gravity = math.Max(0.1, g)
}

func (s *SWE) SetCFL(cfl float64) {
	s.Params.CFL = math.Max(0.01, math.Min(0.9, cfl))
}

func (s *SWE) SetMinDt(dt float64) {
	s.Params.MinDt = math.Max(1.e-6, dt)
	if s.Params.MaxDt < s.Params.MinDt {
		s.Params.MaxDt = s.Params.MinDt
	}
}

func (s *SWE) SetMaxDt(dt float64) {
	s.Params.MaxDt = math.Max(s.Params.MinDt, dt)
}

func (s *SWE) SetMaxSubsteps(n int) {
	if n < 1 {
		n = 1
	}
	s.Params.MaxSubsteps = n
}

func (s *SWE) SetManningN(n float64) {
	s.Params.ManningN = math.Max(0, n)
}

func (s *SWE) SetInfiltrationRate(rate float64) {
	s.Params.InfiltrationRate = math.Max(0, rate)
}

func (s *SWE) SetDrainageRate(rate float64) {
	s.Params.DrainageRate = math.Max(0, rate)
}

func (s *SWE) SetWetThreshold(h float64) {
	s.Params.WetThreshold = math.Max(1.e-6, h)
}

func (s *SWE) SetSourceEnabled(on bool) {
	s.Params.SourceEnabled = on
}

func (s *SWE) SetSourceFlowRate(rate float64) {
	s.Params.SourceFlowRate = math.Max(0, rate)
}

// SetSourceRadiusCells rebuilds the source mask; the mask is otherwise
// immutable for the solver's lifetime.
func (s *SWE) SetSourceRadiusCells(radius int) {
	if radius < 1 {
		radius = 1
	}
	s.Params.SourceRadiusCells = radius
	s.Mask = BuildSourceMask(s.Raster, s.Raster.SourceIndex, radius)
}

func (s *SWE) SetRainRate(rate float64) {
	s.Params.RainRate = math.Max(0, rate)
}

func (s *SWE) SetSlopeFactor(k float64) {
	s.Params.SlopeFactor = math.Max(0, k)
}
