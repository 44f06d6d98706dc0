package clock

import (
	"time"

	"github.com/b97tsk/asyncgui"
)

// SleepBinder returns a [asyncgui.Binder] that resumes, with the time
// actually elapsed, on the first tick at least d from now.
func (c *Clock) SleepBinder(d time.Duration) asyncgui.Binder {
	return func(resume asyncgui.Resume) func() {
		ev := c.ScheduleOnce(func(dt time.Duration) { resume(dt) }, d)
		return ev.Cancel
	}
}

// Sleep suspends co for at least d, and returns the time actually elapsed.
func (c *Clock) Sleep(co *asyncgui.Coroutine, d time.Duration) (time.Duration, error) {
	v, err := co.Await(c.SleepBinder(d))
	if err != nil {
		return 0, err
	}
	return v.(time.Duration), nil
}

// SleepFramesBinder returns a [asyncgui.Binder] that resumes after n ticks.
// For n <= 0 it resumes immediately.
func (c *Clock) SleepFramesBinder(n int) asyncgui.Binder {
	return func(resume asyncgui.Resume) func() {
		if n <= 0 {
			resume(nil)
			return nil
		}
		left := n
		ev := c.ScheduleInterval(func(time.Duration) bool {
			left--
			if left == 0 {
				resume(nil)
				return false
			}
			return true
		}, 0)
		return ev.Cancel
	}
}

// SleepFrames suspends co for n ticks.
func (c *Clock) SleepFrames(co *asyncgui.Coroutine, n int) error {
	_, err := co.Await(c.SleepFramesBinder(n))
	return err
}

// SleepForever suspends co until its Task is cancelled.
func SleepForever(co *asyncgui.Coroutine) error {
	_, err := co.Await(asyncgui.Never())
	return err
}

// MoveOnAfter runs fn in a new Task, and cancels it if it has not finished
// after d. It returns that Task, so that the caller can tell whether fn
// completed ([asyncgui.Task.Done]) or timed out.
func (c *Clock) MoveOnAfter(co *asyncgui.Coroutine, d time.Duration, fn asyncgui.Func) (*asyncgui.Task, error) {
	tasks, err := asyncgui.WaitAny(co, fn, func(co *asyncgui.Coroutine) (any, error) {
		_, err := c.Sleep(co, d)
		return nil, err
	})
	return tasks[0], err
}

// RepeatSleeping calls fn, then sleeps for step, over and over, until fn
// returns false or an error. fn is given the time elapsed since the
// previous call (zero on the first call).
func (c *Clock) RepeatSleeping(co *asyncgui.Coroutine, step time.Duration, fn func(dt time.Duration) (bool, error)) error {
	var dt time.Duration
	for {
		more, err := fn(dt)
		if err != nil || !more {
			return err
		}
		if dt, err = c.Sleep(co, step); err != nil {
			return err
		}
	}
}
