// Package modal shows modal dialogs: fade in, wait to be dismissed, fade
// out.
package modal

import (
	"image/color"
	"time"

	"golang.org/x/image/colornames"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/anim"
	"github.com/b97tsk/asyncgui/clock"
	"github.com/b97tsk/asyncgui/dispatch"
	"github.com/b97tsk/asyncgui/gesture"
)

// EventDismiss is the event that dismisses an open dialog.
const EventDismiss = "dismiss"

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// A Dialog is the state a host renders a modal dialog from.
type Dialog struct {
	Bounds  Rect
	Opacity float64
	Scrim   color.RGBA // Color laid over the rest of the screen.
	Open    bool
}

// Options tune [Show].
type Options struct {
	// Duration of each of the open and close transitions.
	Duration time.Duration
	Curve    anim.Curve
	// Scrim is the color the rest of the screen fades to.
	Scrim color.RGBA
	// AutoDismiss makes lifting a touch outside the dialog dismiss it.
	AutoDismiss bool
}

// DefaultOptions returns the default [Options].
func DefaultOptions() Options {
	scrim := colornames.Black
	scrim.A = 0x80
	return Options{
		Duration:    200 * time.Millisecond,
		Curve:       anim.EaseOut,
		Scrim:       scrim,
		AutoDismiss: true,
	}
}

// Show opens dlg, waits until it is dismissed, and closes it. It returns
// the event that dismissed it: an [EventDismiss], or the
// [gesture.EventTouchUp] of a touch outside the dialog.
//
// However Show returns, dlg ends up closed and fully transparent.
func Show(co *asyncgui.Coroutine, clk *clock.Clock, d *dispatch.Dispatcher, dlg *Dialog, opts Options) (dispatch.Occurrence, error) {
	dlg.Open = true
	defer func() {
		dlg.Open = false
		dlg.Opacity = 0
		dlg.Scrim = color.RGBA{}
	}()

	err := anim.Animate(co, clk, opts.Duration, opts.Curve,
		anim.Float(&dlg.Opacity, 1),
		anim.Color(&dlg.Scrim, opts.Scrim),
	)
	if err != nil {
		return dispatch.Occurrence{}, err
	}

	names := []string{EventDismiss}
	if opts.AutoDismiss {
		names = append(names, gesture.EventTouchUp)
	}

	occ, err := dispatch.AnyEvent(co, d, names, dispatch.Options{
		Filter: func(args []any) bool {
			if len(args) != 0 {
				if t, ok := args[0].(gesture.Touch); ok {
					return !dlg.Bounds.Contains(t.X, t.Y)
				}
			}
			return true
		},
		StopDispatching: true,
	})
	if err != nil {
		return dispatch.Occurrence{}, err
	}

	err = anim.Animate(co, clk, opts.Duration, opts.Curve,
		anim.Float(&dlg.Opacity, 0),
		anim.Color(&dlg.Scrim, color.RGBA{}),
	)
	return occ, err
}
