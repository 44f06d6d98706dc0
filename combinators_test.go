package asyncgui_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/b97tsk/asyncgui"
)

// waiter returns a Func that waits for ev, and records its cleanup.
func waiter(ev *asyncgui.Event, name string, log *[]string) asyncgui.Func {
	return func(co *asyncgui.Coroutine) (any, error) {
		defer func() { *log = append(*log, "cleanup "+name) }()
		if _, err := ev.Wait(co); err != nil {
			return nil, err
		}
		return name, nil
	}
}

func states(tasks []*asyncgui.Task) []asyncgui.TaskState {
	s := make([]asyncgui.TaskState, len(tasks))
	for i, t := range tasks {
		s[i] = t.State()
	}
	return s
}

func TestWaitAnyN(t *testing.T) {
	evs := make([]asyncgui.Event, 4)
	var log []string

	var tasks []*asyncgui.Task
	root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (v any, err error) {
		tasks, err = asyncgui.WaitAnyN(co, 2,
			waiter(&evs[0], "a", &log),
			waiter(&evs[1], "b", &log),
			waiter(&evs[2], "c", &log),
			waiter(&evs[3], "d", &log),
		)
		return nil, err
	})

	evs[2].Fire()
	if root.Finished() {
		t.Fatal("root finished after one child")
	}
	evs[0].Fire()

	if !root.Done() {
		t.Fatalf("root is %v (%v), want done", root.State(), root.Err())
	}
	want := []asyncgui.TaskState{asyncgui.Done, asyncgui.Cancelled, asyncgui.Done, asyncgui.Cancelled}
	if got := states(tasks); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if want := []string{"cleanup c", "cleanup a", "cleanup b", "cleanup d"}; !slices.Equal(log, want) {
		t.Fatalf("got %v, want %v", log, want)
	}
}

func TestWaitAll(t *testing.T) {
	t.Run("AllDone", func(t *testing.T) {
		evs := make([]asyncgui.Event, 3)
		var log []string

		var tasks []*asyncgui.Task
		root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (v any, err error) {
			tasks, err = asyncgui.WaitAll(co,
				waiter(&evs[0], "a", &log),
				waiter(&evs[1], "b", &log),
				waiter(&evs[2], "c", &log),
			)
			return nil, err
		})

		for i := range evs {
			if root.Finished() {
				t.Fatalf("root finished after %d children", i)
			}
			evs[len(evs)-1-i].Fire()
		}

		if !root.Done() {
			t.Fatalf("root is %v (%v), want done", root.State(), root.Err())
		}
		for i, task := range tasks {
			if v, _ := task.Result(); v != []string{"a", "b", "c"}[i] {
				t.Fatalf("task %d returned %v", i, v)
			}
		}
	})

	t.Run("ErrorAfterTeardown", func(t *testing.T) {
		var ev, fail asyncgui.Event
		var log []string
		errBoom := errors.New("boom")

		var err error
		root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
			_, err = asyncgui.WaitAll(co,
				waiter(&ev, "a", &log),
				func(co *asyncgui.Coroutine) (any, error) {
					if _, err := fail.Wait(co); err != nil {
						return nil, err
					}
					log = append(log, "fail b")
					return nil, errBoom
				},
			)
			log = append(log, "returned")
			return nil, err
		})

		fail.Fire()

		if !errors.Is(err, errBoom) {
			t.Fatalf("got %v, want errBoom", err)
		}
		if want := []string{"fail b", "cleanup a", "returned"}; !slices.Equal(log, want) {
			t.Fatalf("got %v, want %v", log, want)
		}
		if !root.Cancelled() || !errors.Is(root.Err(), errBoom) {
			t.Fatalf("root is %v with error %v", root.State(), root.Err())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
			tasks, err := asyncgui.WaitAll(co)
			return len(tasks), err
		})
		if v, err := root.Result(); err != nil || v != 0 {
			t.Fatalf("got %v, %v", v, err)
		}
	})
}

func TestWaitAnyImmediate(t *testing.T) {
	var ev asyncgui.Event
	var log []string

	var tasks []*asyncgui.Task
	asyncgui.StartFunc(func(co *asyncgui.Coroutine) (v any, err error) {
		tasks, err = asyncgui.WaitAny(co,
			func(co *asyncgui.Coroutine) (any, error) { return "now", nil },
			waiter(&ev, "never started", &log),
		)
		return nil, err
	})

	want := []asyncgui.TaskState{asyncgui.Done, asyncgui.Cancelled}
	if got := states(tasks); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(log) != 0 {
		t.Fatalf("second task ran: %v", log)
	}
}

func TestWaitCallerCancelled(t *testing.T) {
	evs := make([]asyncgui.Event, 2)
	var log []string

	var err error
	root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		_, err = asyncgui.WaitAll(co,
			waiter(&evs[0], "a", &log),
			waiter(&evs[1], "b", &log),
		)
		return nil, err
	})

	root.Cancel()

	if !errors.Is(err, asyncgui.ErrCancelled) {
		t.Fatalf("got %v, want ErrCancelled", err)
	}
	if want := []string{"cleanup a", "cleanup b"}; !slices.Equal(log, want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	if !root.Cancelled() || root.Err() != nil {
		t.Fatalf("root is %v with error %v", root.State(), root.Err())
	}
}

func TestWaitShieldedChild(t *testing.T) {
	var ev asyncgui.Event

	child := asyncgui.NewTask(func(co *asyncgui.Coroutine) (any, error) {
		return nil, co.Shield(func() error {
			_, err := ev.Wait(co)
			return err
		})
	})

	root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		_, err := asyncgui.WaitAnyTasks(co, child)
		return nil, err
	})

	root.Cancel()
	if root.Finished() || child.Finished() {
		t.Fatalf("root is %v, child is %v; want both started", root.State(), child.State())
	}

	ev.Fire()
	if !root.Cancelled() || !child.Cancelled() {
		t.Fatalf("root is %v, child is %v; want both cancelled", root.State(), child.State())
	}
}

func TestWaitStartedTasks(t *testing.T) {
	var ev asyncgui.Event

	started := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		return ev.Wait(co)
	})
	finished := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		return "early", nil
	})

	root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		_, err := asyncgui.WaitAllTasks(co, started, finished)
		return nil, err
	})

	ev.Fire()

	if !root.Done() || !started.Done() {
		t.Fatalf("root is %v, started is %v", root.State(), started.State())
	}
}
