package asyncgui

import "fmt"

const (
	flagRunning = 1 << iota
	flagBinding
	flagCancelRequested
)

// A Task owns one computation (a [Func]) and tracks its lifecycle:
//
//	Created -> Started -> Done | Cancelled
//
// A Task is started with [Start]. From then on, it is stepped forward by
// whatever its computation awaits, i.e. by the [Resume] callback its current
// [Binder] was given. Everything happens on the caller's thread of control;
// a Task is not safe for concurrent use.
//
// A started Task holds a goroutine until it finishes. A Task that is
// dropped while suspended, on an Event nobody sets or on [Never], is never
// collected; cancel Tasks that are no longer needed.
type Task struct {
	name     string
	fn       Func
	co       *Coroutine
	state    TaskState
	flag     uint8
	result   any
	err      error
	pending  uint64 // Token of the outstanding suspension, or zero.
	seq      uint64
	release  func()
	waiters  []*waiter
	observer Observer
}

type waiter struct {
	states TaskState
	notify func(t *Task)
}

// Option configures a [Task].
type Option func(t *Task)

// WithName sets the name of a Task. Names are for diagnostics only.
func WithName(name string) Option {
	return func(t *Task) { t.name = name }
}

// WithObserver sets the [Observer] of a Task.
//
// Tasks started by combinators and nurseries inherit the Observer of the
// Task that starts them, unless they have one already.
func WithObserver(o Observer) Option {
	return func(t *Task) { t.observer = o }
}

// NewTask creates a [Task] in [Created] state to run fn.
func NewTask(fn Func, opts ...Option) *Task {
	if fn == nil {
		panic("asyncgui: nil Func")
	}
	t := &Task{fn: fn, state: Created}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start starts t and returns t.
//
// The computation runs immediately, until it first suspends or ends.
// If t does not run to completion, it must eventually be cancelled to free
// its resources.
// Start panics if t is not in [Created] state.
func Start(t *Task) *Task {
	if t.state != Created {
		panic("asyncgui: task cannot be started twice, or after being cancelled")
	}
	t.state = Started
	t.co = newCoroutine(t)
	if t.observer != nil {
		t.observer.TaskStarted(t)
	}
	t.step(nil, nil)
	return t
}

// StartFunc creates a [Task] to run fn and starts it.
func StartFunc(fn Func, opts ...Option) *Task {
	return Start(NewTask(fn, opts...))
}

func (t *Task) step(value any, fail error) {
	co := t.co

	for {
		if t.state.terminal() {
			return
		}

		t.pending = 0

		if release := t.release; release != nil {
			t.release = nil
			release()
		}

		co.value, co.fail = value, fail

		t.flag |= flagRunning
		b, ok := co.next()
		t.flag &^= flagRunning

		if !ok {
			t.finish()
			return
		}

		t.seq++
		token := t.seq
		t.pending = token

		binding, resumed := true, false
		var resumedWith any

		resume := func(value any) {
			if t.pending != token {
				return
			}
			t.pending = 0
			if binding {
				resumed, resumedWith = true, value
				return
			}
			t.step(value, nil)
		}

		t.flag |= flagBinding
		release, err := bind(b, resume)
		t.flag &^= flagBinding
		binding = false
		t.release = release

		switch {
		case err != nil:
			value, fail = nil, err
		case resumed:
			value, fail = resumedWith, nil
		case t.flag&flagCancelRequested != 0 && co.shield == 0:
			value, fail = nil, ErrCancelled
		default:
			return
		}
	}
}

func bind(b Binder, resume Resume) (release func(), err error) {
	err = Catch(func() error {
		release = b(resume)
		return nil
	})
	return release, err
}

func (t *Task) finish() {
	co := t.co
	co.stop()

	err := co.err

	switch {
	case t.flag&flagCancelRequested != 0 || isCancellation(err):
		t.state = Cancelled
		if !cancellationOnly(err) {
			t.err = err
		}
	case err != nil:
		t.state = Cancelled
		t.err = err
	default:
		t.state = Done
		t.result = co.result
	}

	t.fn = nil
	t.co = nil

	if t.observer != nil {
		t.observer.TaskFinished(t)
	}

	t.notifyWaiters()
}

func (t *Task) notifyWaiters() {
	waiters := t.waiters
	t.waiters = nil
	for _, w := range waiters {
		if w.states&t.state != 0 {
			w.notify(t)
		}
	}
}

// onFinish arranges for f to be called when t reaches a terminal state, or
// calls f right away if t has already reached one.
func (t *Task) onFinish(f func(t *Task)) {
	if t.state.terminal() {
		f(t)
		return
	}
	t.addWaiter(Finished, f)
}

func (t *Task) addWaiter(states TaskState, f func(t *Task)) *waiter {
	w := &waiter{states: states, notify: f}
	t.waiters = append(t.waiters, w)
	return w
}

func (t *Task) removeWaiter(w *waiter) {
	for i, u := range t.waiters {
		if u == w {
			t.waiters = append(t.waiters[:i], t.waiters[i+1:]...)
			return
		}
	}
}

func (t *Task) inherit(parent *Task) {
	if t.observer == nil && parent != nil {
		t.observer = parent.observer
	}
}

// Cancel cancels t.
//
// Cancelling a Task in [Created] state moves it to [Cancelled] without ever
// running its computation.
// Cancelling a suspended Task resumes its computation with [ErrCancelled]
// and returns after the computation has returned, so any cleanup code
// (deferred calls, etc.) has run by then.
// If t is running, or is inside [Coroutine.Shield], the cancellation takes
// effect at the next suspension point, or when the shield ends.
//
// Cancel is idempotent, and is a no-op on finished Tasks.
func (t *Task) Cancel() {
	switch t.state {
	case Created:
		t.state = Cancelled
		t.fn = nil
		t.notifyWaiters()
	case Started:
		t.flag |= flagCancelRequested
		if t.flag&(flagRunning|flagBinding) != 0 || t.co.shield != 0 {
			return
		}
		t.step(nil, ErrCancelled)
	}
}

// Wait returns a [Binder] that resumes, with t as the value, when t reaches
// one of the given states (only [Done] and [Cancelled] are meaningful).
// If t is in one of them already, it resumes immediately.
func (t *Task) Wait(states TaskState) Binder {
	return func(resume Resume) func() {
		if t.state&states != 0 {
			resume(t)
			return nil
		}
		w := t.addWaiter(states, func(t *Task) { resume(t) })
		return func() { t.removeWaiter(w) }
	}
}

// Name returns the name of t.
func (t *Task) Name() string {
	return t.name
}

// State returns the current state of t.
func (t *Task) State() TaskState {
	return t.state
}

// Done reports whether t is in [Done] state.
func (t *Task) Done() bool {
	return t.state == Done
}

// Cancelled reports whether t is in [Cancelled] state.
func (t *Task) Cancelled() bool {
	return t.state == Cancelled
}

// Finished reports whether t is either [Done] or [Cancelled].
func (t *Task) Finished() bool {
	return t.state.terminal()
}

// Result returns the value the computation of t returned.
// If t is not [Done], Result returns an error wrapping [ErrInvalidState].
func (t *Task) Result() (any, error) {
	if t.state != Done {
		return nil, fmt.Errorf("%w: result of a %s task", ErrInvalidState, t.state)
	}
	return t.result, nil
}

// Err returns the error that ended t, if any.
//
// A Task cancelled by [Task.Cancel] has no error, unless its computation
// failed while cleaning up.
func (t *Task) Err() error {
	return t.err
}

// ResultOf is like [Task.Result] but asserts the result to type T.
func ResultOf[T any](t *Task) (T, error) {
	v, err := t.Result()
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, nil
	}
	r, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("asyncgui: result of type %T is not %T", v, zero)
	}
	return r, nil
}
