package main

import (
	"time"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
	"github.com/b97tsk/asyncgui/dispatch"
	"github.com/b97tsk/asyncgui/gesture"
	"github.com/b97tsk/asyncgui/modal"
	"github.com/b97tsk/asyncgui/thread"
)

// demo is the scripted scenario. Every step runs as a named Task, so that
// each one shows up on its own in logs and metrics.
type demo struct {
	clk    *clock.Clock
	d      *dispatch.Dispatcher
	pool   thread.Executor
	logger asyncgui.Logger
}

func (app *demo) main(co *asyncgui.Coroutine) (any, error) {
	steps := []struct {
		name string
		fn   asyncgui.Func
	}{
		{"sleepers", app.sleepers},
		{"queue", app.producerConsumer},
		{"background", app.background},
		{"timeout", app.timeout},
		{"dialog", app.dialog},
	}

	for _, step := range steps {
		tasks, err := asyncgui.WaitAllTasks(co, asyncgui.NewTask(step.fn, asyncgui.WithName(step.name)))
		if err != nil {
			return nil, err
		}
		result, _ := tasks[0].Result()
		app.logger.Info("step finished", asyncgui.F("step", step.name), asyncgui.F("result", result))
	}

	return nil, nil
}

// sleepers wakes three sleepers up in turn, and waits for all of them.
func (app *demo) sleepers(co *asyncgui.Coroutine) (any, error) {
	sleeper := func(d time.Duration) asyncgui.Func {
		return func(co *asyncgui.Coroutine) (any, error) {
			elapsed, err := app.clk.Sleep(co, d)
			if err != nil {
				return nil, err
			}
			app.logger.Info("woke up", asyncgui.F("after", elapsed))
			return elapsed, nil
		}
	}

	tasks, err := asyncgui.WaitAll(co,
		sleeper(100*time.Millisecond),
		sleeper(200*time.Millisecond),
		sleeper(300*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	return asyncgui.ResultOf[time.Duration](tasks[2])
}

// producerConsumer passes numbers through a small queue, and sums them.
func (app *demo) producerConsumer(co *asyncgui.Coroutine) (any, error) {
	q := asyncgui.NewQueue[int](2, asyncgui.FIFO)

	var sum int

	err := asyncgui.OpenNursery(co, func(co *asyncgui.Coroutine, n *asyncgui.Nursery) error {
		n.Start(func(co *asyncgui.Coroutine) (any, error) {
			defer q.Close()
			for i := 1; i <= 5; i++ {
				if err := q.Put(co, i); err != nil {
					return nil, err
				}
				if err := app.clk.SleepFrames(co, 1); err != nil {
					return nil, err
				}
			}
			return nil, nil
		}, asyncgui.WithName("producer"))

		n.Start(func(co *asyncgui.Coroutine) (any, error) {
			for item, err := range q.All(co) {
				if err != nil {
					return nil, err
				}
				app.logger.Debug("consumed", asyncgui.F("item", item))
				sum += item
			}
			return nil, nil
		}, asyncgui.WithName("consumer"))

		return nil
	})

	return sum, err
}

// background computes something off the GUI thread.
func (app *demo) background(co *asyncgui.Coroutine) (any, error) {
	return thread.RunIn(co, app.clk, app.pool, func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 6 * 7, nil
	})
}

// timeout gives up on an operation that takes too long.
func (app *demo) timeout(co *asyncgui.Coroutine) (any, error) {
	slow, err := app.clk.MoveOnAfter(co, 100*time.Millisecond, func(co *asyncgui.Coroutine) (any, error) {
		_, err := app.clk.Sleep(co, time.Hour)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	if slow.Cancelled() {
		return "timed out", nil
	}
	return "completed", nil
}

// dialog shows a modal dialog, and taps outside of it a moment later.
func (app *demo) dialog(co *asyncgui.Coroutine) (any, error) {
	dlg := &modal.Dialog{Bounds: modal.Rect{X: 100, Y: 100, W: 200, H: 120}}

	var occ dispatch.Occurrence

	_, err := asyncgui.WaitAll(co,
		func(co *asyncgui.Coroutine) (v any, err error) {
			occ, err = modal.Show(co, app.clk, app.d, dlg, modal.DefaultOptions())
			return nil, err
		},
		func(co *asyncgui.Coroutine) (any, error) {
			if _, err := app.clk.Sleep(co, 500*time.Millisecond); err != nil {
				return nil, err
			}
			app.d.Dispatch(gesture.EventTouchUp, gesture.Touch{ID: 1, X: 10, Y: 10, Ended: true})
			return nil, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return occ.Name, nil
}
