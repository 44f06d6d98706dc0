package anim

import (
	"image/color"
	"math"
	"time"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
)

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor interpolates linearly between a and b, channel by channel.
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(min(max(math.Round(Lerp(float64(x), float64(y), t)), 0), 255))
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), ch(a.A, b.A)}
}

// Interpolate calls fn once per frame over d, with progress going from 0 to
// 1 along curve (nil means [Linear]). The first call happens right away,
// the last one, with progress 1, on the first frame at least d from now.
func Interpolate(co *asyncgui.Coroutine, clk *clock.Clock, d time.Duration, curve Curve, fn func(p float64)) error {
	if curve == nil {
		curve = Linear
	}

	if d <= 0 {
		fn(curve(1))
		return nil
	}

	fn(curve(0))

	var elapsed time.Duration
	for elapsed < d {
		dt, err := clk.Sleep(co, 0)
		if err != nil {
			return err
		}
		elapsed += dt
		fn(curve(min(float64(elapsed)/float64(d), 1)))
	}

	return nil
}

// A Target is something [Animate] moves toward a final value.
type Target interface {
	// begin records the current value, and returns a function that sets the
	// value at the given progress.
	begin() func(p float64)
}

type floatTarget struct {
	ptr *float64
	to  float64
}

func (t floatTarget) begin() func(float64) {
	from := *t.ptr
	return func(p float64) { *t.ptr = Lerp(from, t.to, p) }
}

type colorTarget struct {
	ptr *color.RGBA
	to  color.RGBA
}

func (t colorTarget) begin() func(float64) {
	from := *t.ptr
	return func(p float64) { *t.ptr = LerpColor(from, t.to, p) }
}

// Float animates *ptr to the value to.
func Float(ptr *float64, to float64) Target {
	return floatTarget{ptr, to}
}

// Color animates *ptr to the color to.
func Color(ptr *color.RGBA, to color.RGBA) Target {
	return colorTarget{ptr, to}
}

// Animate moves every target from its current value to its final value over
// d, along curve. If co is cancelled, the targets are left where they are.
func Animate(co *asyncgui.Coroutine, clk *clock.Clock, d time.Duration, curve Curve, targets ...Target) error {
	setters := make([]func(float64), len(targets))
	for i, t := range targets {
		setters[i] = t.begin()
	}
	return Interpolate(co, clk, d, curve, func(p float64) {
		for _, set := range setters {
			set(p)
		}
	})
}
