package dam_break

import "math"

/*
	Ritter solution for the instantaneous break of a dam over a dry,
	frictionless, horizontal bed. Upstream of the dam sits a still column of
	depth hl; at t=0 the dam at x0 vanishes. For t>0 a rarefaction fan spans
	from the backward head at x0-c0*t to the dry front at x0+2*c0*t, with
	c0 = sqrt(g*hl):

		h(x,t) = (2*c0 - (x-x0)/t)^2 / (9*g)
		u(x,t) = 2/3 * ((x-x0)/t + c0)

	inside the fan, the undisturbed column left of it, dry bed right of it.
*/

// Ritter_calc evaluates the analytic depth and velocity at one point.
func Ritter_calc(hl, x0, g, t, x float64) (h, u float64) {
	var (
		c0 = math.Sqrt(g * hl)
		xi = (x - x0) / t
	)
	switch {
	case xi <= -c0:
		h = hl
	case xi < 2*c0:
		d := 2*c0 - xi
		h = d * d / (9 * g)
		u = (2. / 3.) * (xi + c0)
	}
	return
}

// Profile samples the solution over a set of stations.
func Profile(hl, x0, g, t float64, X []float64) (H, U []float64) {
	H = make([]float64, len(X))
	U = make([]float64, len(X))
	for i, x := range X {
		H[i], U[i] = Ritter_calc(hl, x0, g, t, x)
	}
	return
}

// KeyPositions returns the rarefaction head and the dry front location.
func KeyPositions(hl, x0, g, t float64) (xHead, xFront float64) {
	c0 := math.Sqrt(g * hl)
	xHead = x0 - c0*t
	xFront = x0 + 2*c0*t
	return
}
