// Package gesture follows touches dispatched by a [dispatch.Dispatcher].
//
// A host reports touches by dispatching [EventTouchDown], [EventTouchMove]
// and [EventTouchUp], each with a [Touch] as the only argument.
package gesture

import (
	"errors"
	"iter"
	"math"
	"time"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
	"github.com/b97tsk/asyncgui/dispatch"
)

// Touch event names.
const (
	EventTouchDown = "touch_down"
	EventTouchMove = "touch_move"
	EventTouchUp   = "touch_up"
)

// ErrMotionEventAlreadyEnded is returned when following a touch that has
// already been lifted.
var ErrMotionEventAlreadyEnded = errors.New("gesture: motion event already ended")

// A Touch is a snapshot of a finger (or pointer) on the screen.
type Touch struct {
	ID    int
	X, Y  float64
	Ended bool
}

// Distance returns the distance between t and u.
func (t Touch) Distance(u Touch) float64 {
	return math.Hypot(t.X-u.X, t.Y-u.Y)
}

func touchOf(args []any) (Touch, bool) {
	if len(args) == 0 {
		return Touch{}, false
	}
	t, ok := args[0].(Touch)
	return t, ok
}

// RestOfTouchEvents returns an iterator over the remaining moves of touch,
// ending with the touch being lifted (a Touch with Ended set).
//
// Events are collected from the moment iteration starts, so none are missed
// while the loop body awaits something else. If touch has already ended,
// the iterator yields [ErrMotionEventAlreadyEnded] and stops.
func RestOfTouchEvents(co *asyncgui.Coroutine, d *dispatch.Dispatcher, touch Touch) iter.Seq2[Touch, error] {
	return func(yield func(Touch, error) bool) {
		if touch.Ended {
			yield(Touch{}, ErrMotionEventAlreadyEnded)
			return
		}

		q := asyncgui.NewQueue[Touch](asyncgui.Unbounded, asyncgui.FIFO)

		onMove := d.Bind(EventTouchMove, func(args ...any) bool {
			if t, ok := touchOf(args); ok && t.ID == touch.ID {
				_ = q.PutNowait(t)
			}
			return false
		})
		defer d.Unbind(onMove)

		onUp := d.Bind(EventTouchUp, func(args ...any) bool {
			if t, ok := touchOf(args); ok && t.ID == touch.ID {
				t.Ended = true
				_ = q.PutNowait(t)
				q.Close()
			}
			return false
		})
		defer d.Unbind(onUp)

		for t, err := range q.All(co) {
			if !yield(t, err) {
				return
			}
		}
	}
}

// LongPress reports whether touch is held down, without moving farther than
// slop from where it is now, for the duration hold.
func LongPress(co *asyncgui.Coroutine, clk *clock.Clock, d *dispatch.Dispatcher, touch Touch, hold time.Duration, slop float64) (bool, error) {
	watcher, err := clk.MoveOnAfter(co, hold, func(co *asyncgui.Coroutine) (any, error) {
		for t, err := range RestOfTouchEvents(co, d, touch) {
			if err != nil {
				return nil, err
			}
			if t.Ended || t.Distance(touch) > slop {
				return nil, nil
			}
		}
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return watcher.Cancelled(), nil
}
