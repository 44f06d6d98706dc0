package dispatch

import (
	"slices"

	"github.com/b97tsk/asyncgui"
)

// Options tune how a computation waits for an event.
type Options struct {
	// Filter, if not nil, selects the occurrences to wait for. Occurrences
	// it rejects are left alone.
	Filter func(args []any) bool
	// StopDispatching stops the dispatch of the occurrence that is waited
	// for, so that callbacks bound later do not see it.
	StopDispatching bool
}

func (o Options) accepts(args []any) bool {
	return o.Filter == nil || o.Filter(args)
}

// An Occurrence is a dispatched event.
type Occurrence struct {
	Name string
	Args []any
}

// EventBinder returns a [asyncgui.Binder] that resumes, with an
// [Occurrence], on the next occurrence of the event name that opts accept.
func EventBinder(d *Dispatcher, name string, opts Options) asyncgui.Binder {
	return AnyEventBinder(d, []string{name}, opts)
}

// AnyEventBinder is like [EventBinder] but waits for whichever of names
// occurs first.
func AnyEventBinder(d *Dispatcher, names []string, opts Options) asyncgui.Binder {
	return func(resume asyncgui.Resume) func() {
		tokens := make([]Token, 0, len(names))
		for _, name := range names {
			tokens = append(tokens, d.Bind(name, func(args ...any) bool {
				if !opts.accepts(args) {
					return false
				}
				resume(Occurrence{name, slices.Clone(args)})
				return opts.StopDispatching
			}))
		}
		return func() {
			for _, tok := range tokens {
				d.Unbind(tok)
			}
		}
	}
}

// Event suspends co until the next occurrence of the event name that opts
// accept, and returns its arguments.
func Event(co *asyncgui.Coroutine, d *Dispatcher, name string, opts Options) ([]any, error) {
	v, err := co.Await(EventBinder(d, name, opts))
	if err != nil {
		return nil, err
	}
	return v.(Occurrence).Args, nil
}

// AnyEvent suspends co until the next occurrence of any of names that opts
// accept.
func AnyEvent(co *asyncgui.Coroutine, d *Dispatcher, names []string, opts Options) (Occurrence, error) {
	v, err := co.Await(AnyEventBinder(d, names, opts))
	if err != nil {
		return Occurrence{}, err
	}
	return v.(Occurrence), nil
}
