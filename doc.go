// Package asyncgui is a cooperative task runtime for frame-driven GUIs.
//
// GUI code is full of waits: wait for a second, wait for a button press,
// wait for an animation to finish. Written with callbacks, a sequence of such
// waits turns into nested callbacks. This package lets one write it as plain,
// linear Go code instead, while keeping the single-threaded, one-step-at-a-time
// execution a GUI toolkit expects.
//
// # Tasks and Binders
//
// A [Task] runs a computation, a [Func]. When the computation needs to wait
// for something, it calls [Coroutine.Await] with a [Binder]: a function that
// arranges for a [Resume] callback to be called later, e.g. by a timer or an
// event subscription. Await returns once that callback is called.
//
// Nothing runs on its own: a Task moves forward only when something calls the
// Resume callback of its current Binder. Typically that is a host frame clock
// or event dispatcher (see packages clock and dispatch), which runs on the
// GUI thread. Hence only one computation runs at any time, and no locks are
// needed.
//
// # Cancellation
//
// [Task.Cancel] resumes a suspended computation with [ErrCancelled]. The
// computation is expected to clean up (deferred calls run as usual) and to
// return that error. Cancellation is synchronous: when Cancel returns, the
// computation has returned. [Coroutine.Shield] defers cancellation over
// a critical section.
//
// # Structured Concurrency
//
// [WaitAny], [WaitAnyN] and [WaitAll] run several computations at once and
// wait for some or all of them. [OpenNursery] runs a dynamic set of them.
// In every case, no child Task outlives the call: unfinished children are
// cancelled and waited for before returning, and the first child error is
// returned after that.
//
// Timeouts need no special support. Race the operation against a sleep with
// [WaitAny].
//
// # Synchronization
//
// [Event] is a manual-reset flag. [Queue] passes items between computations,
// with zero, bounded or unbounded capacity and FIFO, LIFO or smallest-first
// order.
//
// Caveat: a computation runs on a goroutine of its own (see [iter.Pull]).
// A Task that never finishes keeps that goroutine alive.
package asyncgui
