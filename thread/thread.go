// Package thread runs blocking work off the GUI thread and hands the result
// back to a waiting computation.
//
// The work runs on another goroutine. Its result, or the panic it raised,
// crosses back through [clock.Clock.Post], the one thread-safe entry point
// into the GUI thread, and is delivered on the next tick.
package thread

import (
	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
)

// An Executor runs functions somewhere other than the calling goroutine.
type Executor interface {
	Submit(f func()) error
}

// ExecutorFunc adapts a function to the [Executor] interface.
type ExecutorFunc func(f func()) error

func (e ExecutorFunc) Submit(f func()) error { return e(f) }

// NewGoroutine is an [Executor] that runs each function on a new goroutine.
var NewGoroutine Executor = ExecutorFunc(func(f func()) error {
	go f()
	return nil
})

type outcome[T any] struct {
	value T
	err   error
}

// Run runs fn on a new goroutine and suspends co until fn returns. It
// returns what fn returns. A panic in fn is returned as
// a [*asyncgui.PanicError].
//
// If co is cancelled meanwhile, Run returns [asyncgui.ErrCancelled] right
// away. fn keeps running; its result is dropped.
func Run[T any](co *asyncgui.Coroutine, clk *clock.Clock, fn func() (T, error)) (T, error) {
	return RunIn(co, clk, NewGoroutine, fn)
}

// RunIn is like [Run] but runs fn with ex.
func RunIn[T any](co *asyncgui.Coroutine, clk *clock.Clock, ex Executor, fn func() (T, error)) (T, error) {
	var zero T

	var done asyncgui.Event

	err := ex.Submit(func() {
		var r outcome[T]
		r.err = asyncgui.Catch(func() (err error) {
			r.value, err = fn()
			return err
		})
		clk.Post(func() { done.Set(r) })
	})
	if err != nil {
		return zero, err
	}

	v, err := done.Wait(co)
	if err != nil {
		return zero, err
	}

	r := v.(outcome[T])
	return r.value, r.err
}
