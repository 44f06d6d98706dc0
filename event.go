package asyncgui

// An Event is a manual-reset flag that computations can wait for.
//
// Setting an Event resumes every computation that is waiting for it, in
// the order they started waiting, and the Event stays set until it is
// cleared. Waiting for an Event that is set completes immediately.
//
// The zero value is an unset Event.
// An Event must not be shared by more than one thread of control.
type Event struct {
	set     bool
	value   any
	waiters []*eventWaiter
}

type eventWaiter struct {
	resume Resume
}

// IsSet reports whether e is set.
func (e *Event) IsSet() bool {
	return e.set
}

// Value returns the value e was set with.
// It is nil if e is not set.
func (e *Event) Value() any {
	return e.value
}

// Set sets e with a value and resumes every waiter with it.
// If e is set already, Set does nothing.
func (e *Event) Set(v any) {
	if e.set {
		return
	}
	e.set = true
	e.value = v
	waiters := e.waiters
	e.waiters = nil
	for _, w := range waiters {
		w.resume(v)
	}
}

// Fire sets e with a nil value.
func (e *Event) Fire() {
	e.Set(nil)
}

// Clear unsets e.
func (e *Event) Clear() {
	e.set = false
	e.value = nil
}

// WaitBinder returns a [Binder] that resumes when e is set.
func (e *Event) WaitBinder() Binder {
	return func(resume Resume) func() {
		if e.set {
			resume(e.value)
			return nil
		}
		w := &eventWaiter{resume}
		e.waiters = append(e.waiters, w)
		return func() { e.removeWaiter(w) }
	}
}

// Wait suspends co until e is set, and returns the value e is set with.
func (e *Event) Wait(co *Coroutine) (any, error) {
	return co.Await(e.WaitBinder())
}

func (e *Event) removeWaiter(w *eventWaiter) {
	for i, u := range e.waiters {
		if u == w {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return
		}
	}
}
