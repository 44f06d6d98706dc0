package asyncgui

import "iter"

// Resume is the callback a [Binder] is given. Calling it resumes the
// suspended computation, making value the result of [Coroutine.Await].
//
// Only the first call counts. Later calls, and calls made after the
// suspension has ended for some other reason (e.g. cancellation), are
// ignored.
type Resume func(value any)

// A Binder arranges for resume to be called once, some time later.
//
// A Binder is the only link between a computation and whatever it waits for:
// a timer, an event, another task, etc.
// A Binder may call resume before returning; this is how a wait on
// a condition that already holds completes immediately.
//
// The returned release function, if not nil, is called exactly once when the
// suspension ends, whether the computation was resumed, cancelled, or its
// Task ended otherwise. It should undo whatever the Binder acquired (stop
// a timer, unsubscribe from an event, leave a waiter list, etc.).
type Binder func(resume Resume) (release func())

// Func is the type of a computation run by a [Task].
//
// A computation is plain, linear Go code. It suspends by calling
// [Coroutine.Await] and returns its result when it completes.
// Returning an error ends the Task as [Cancelled] with that error.
type Func func(co *Coroutine) (any, error)

// A Coroutine is the execution of a [Func], owned by a [Task].
//
// A computation is stackful: it runs on its own goroutine (see [iter.Pull]),
// but control is handed back and forth so that one and only one computation
// runs at any time. Computations therefore never run in parallel, neither
// with each other nor with the code that drives them.
//
// A Coroutine must only be used by the computation it is given to.
type Coroutine struct {
	task   *Task
	yield  func(Binder) bool
	next   func() (Binder, bool)
	stop   func()
	value  any   // Resumed with.
	fail   error // Resumed with, instead of value.
	shield int
	result any
	err    error
}

func newCoroutine(t *Task) *Coroutine {
	co := &Coroutine{task: t}
	co.next, co.stop = iter.Pull(co.body)
	return co
}

func (co *Coroutine) body(yield func(Binder) bool) {
	co.yield = yield
	co.err = Catch(func() (err error) {
		co.result, err = co.task.fn(co)
		return err
	})
}

// Task returns the [Task] that owns co.
func (co *Coroutine) Task() *Task {
	return co.task
}

// Cancelled reports whether the Task of co has been asked to cancel.
func (co *Coroutine) Cancelled() bool {
	return co.task.flag&flagCancelRequested != 0
}

// Await suspends the computation until b resumes it, and returns the value
// b resumes it with.
//
// If the Task is cancelled meanwhile, Await returns [ErrCancelled] instead.
// Once cancellation has been requested, outside of [Coroutine.Shield], Await
// returns ErrCancelled immediately without suspending, so that cleanup code
// runs to completion without waiting for anything.
func (co *Coroutine) Await(b Binder) (any, error) {
	if b == nil {
		panic("asyncgui: nil Binder")
	}

	if co.Cancelled() && co.shield == 0 {
		return nil, ErrCancelled
	}

	if !co.yield(b) {
		return nil, ErrCancelled
	}

	if err := co.fail; err != nil {
		co.fail = nil
		return nil, err
	}

	v := co.value
	co.value = nil

	return v, nil
}

// Wait suspends the computation until t reaches one of the given states.
// See [Task.Wait].
func (co *Coroutine) Wait(t *Task, states TaskState) error {
	_, err := co.Await(t.Wait(states))
	return err
}

// Shield calls f with cancellation disabled.
//
// While f runs, cancelling the Task is deferred: [Task.Cancel] returns
// without tearing anything down, and Await inside f still suspends.
// If cancellation was requested meanwhile, Shield returns [ErrCancelled]
// (joined with the error f returns, if any) as soon as f returns.
func (co *Coroutine) Shield(f func() error) (err error) {
	co.shield++
	defer func() {
		co.shield--
		if co.shield == 0 && co.Cancelled() && !isCancellation(err) {
			err = joinErrors(err, ErrCancelled)
		}
	}()
	return f()
}

// Never returns a [Binder] that never resumes.
func Never() Binder {
	return func(Resume) func() { return nil }
}
