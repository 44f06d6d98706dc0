// Package anim animates values over the frames of a [clock.Clock].
package anim

import "math"

// A Curve maps linear progress in [0, 1] to eased progress.
// Curves start at 0 and end at 1.
type Curve func(t float64) float64

// Linear is no easing at all.
func Linear(t float64) float64 { return t }

// Standard curves, equivalent to their CSS namesakes.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)
)

// CubicBezier returns the [Curve] of a cubic Bézier with control points
// (x1, y1) and (x2, y2), like CSS cubic-bezier(). x1 and x2 must lie in
// [0, 1].
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return bezier(y1, y2, solveX(x1, x2, t))
	}
}

// solveX finds u such that the x coordinate of the curve at u is x.
func solveX(x1, x2, x float64) float64 {
	u := x
	for range 8 {
		d := bezier(x1, x2, u) - x
		if math.Abs(d) < 1e-7 {
			return u
		}
		slope := bezierSlope(x1, x2, u)
		if math.Abs(slope) < 1e-7 {
			break
		}
		u -= d / slope
	}

	// Newton's method failed to converge; bisect.
	lo, hi := 0.0, 1.0
	u = min(max(u, lo), hi)
	for range 32 {
		d := bezier(x1, x2, u) - x
		if math.Abs(d) < 1e-7 {
			break
		}
		if d > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// bezier evaluates a 1-D cubic Bézier from 0 to 1 with inner control
// values a and b.
func bezier(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*a + 3*v*u*u*b + u*u*u
}

func bezierSlope(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*a + 6*v*u*(b-a) + 3*u*u*(1-b)
}
