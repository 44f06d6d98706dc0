package asyncgui

import "slices"

// A Nursery owns a dynamic set of child Tasks, none of which can outlive it.
//
// A Nursery is created by [OpenNursery].
type Nursery struct {
	parent   *Task
	children []*Task
	running  int // Number of unfinished non-daemon children.
	closed   bool
	wake     Event
	err      error
}

// OpenNursery starts body in a child [Task] of a new [Nursery], then
// suspends co until the nursery ends. Inside body, co is the coroutine of
// that child, which body uses to await things.
//
// The nursery ends when body and every non-daemon child have finished, or
// earlier if [Nursery.Close] is called, a child or body fails, or co is
// cancelled. It ends even while body is suspended.
// Every task that has not finished by then, body and daemons included, is
// cancelled, and OpenNursery waits until all of them finish before
// returning.
//
// The error returned joins the first error among body and the children,
// and [ErrCancelled] if co was cancelled.
func OpenNursery(co *Coroutine, body func(co *Coroutine, n *Nursery) error) error {
	n := &Nursery{parent: co.task}

	name := "nursery"
	if co.task.name != "" {
		name = co.task.name + "/nursery"
	}

	n.start(NewTask(func(co *Coroutine) (any, error) {
		return nil, body(co, n)
	}, WithName(name)), false)

	var err error

	for err == nil && !n.closed && n.err == nil && n.running != 0 {
		n.wake.Clear()
		_, err = n.wake.Wait(co)
	}

	n.closed = true

	if terr := cancelAll(co, slices.Clone(n.children)); err == nil {
		err = terr
	}

	return joinErrors(n.err, err)
}

// Start starts a child [Task] to run fn and returns it.
// Start panics if n has ended or has been closed.
func (n *Nursery) Start(fn Func, opts ...Option) *Task {
	return n.start(NewTask(fn, opts...), false)
}

// StartDaemon is like [Nursery.Start] but the child does not keep n open:
// daemons are cancelled once every non-daemon child has finished.
func (n *Nursery) StartDaemon(fn Func, opts ...Option) *Task {
	return n.start(NewTask(fn, opts...), true)
}

func (n *Nursery) start(t *Task, daemon bool) *Task {
	if n.closed {
		panic("asyncgui: nursery has been closed")
	}

	t.inherit(n.parent)

	n.children = append(n.children, t)
	if !daemon {
		n.running++
	}

	t.onFinish(func(t *Task) {
		if i := slices.Index(n.children, t); i != -1 {
			n.children = slices.Delete(n.children, i, i+1)
		}
		if !daemon {
			n.running--
		}
		if t.err != nil && n.err == nil {
			n.err = t.err
		}
		n.wake.Fire()
	})

	return Start(t)
}

// Close ends n. Unfinished children, and body if it is still running, are
// cancelled. Close may be called from any task, including one of the
// children.
func (n *Nursery) Close() {
	n.closed = true
	n.wake.Fire()
}

// Closed reports whether n has been closed or has ended.
func (n *Nursery) Closed() bool {
	return n.closed
}

// Children returns the children of n that have not finished yet.
func (n *Nursery) Children() []*Task {
	return slices.Clone(n.children)
}
