package dispatch

import "github.com/b97tsk/asyncgui"

// A Property is an observable value. Setting it to a different value
// dispatches an event, named after the property, with the new value as the
// only argument.
type Property[T comparable] struct {
	d     *Dispatcher
	name  string
	value T
}

// NewProperty creates a [Property] on d.
func NewProperty[T comparable](d *Dispatcher, name string, initial T) *Property[T] {
	return &Property[T]{d: d, name: name, value: initial}
}

func (p *Property[T]) Name() string { return p.name }
func (p *Property[T]) Get() T       { return p.value }

// Set sets the value of p. It dispatches only if the value changes.
func (p *Property[T]) Set(v T) {
	if p.value == v {
		return
	}
	p.value = v
	p.d.Dispatch(p.name, v)
}

// Bind calls f with every new value of p.
func (p *Property[T]) Bind(f func(v T)) Token {
	return p.d.Bind(p.name, func(args ...any) bool {
		f(args[0].(T))
		return false
	})
}

// Changed suspends co until p changes, and returns the new value.
func (p *Property[T]) Changed(co *asyncgui.Coroutine) (T, error) {
	args, err := Event(co, p.d, p.name, Options{})
	if err != nil {
		var zero T
		return zero, err
	}
	return args[0].(T), nil
}

// Until suspends co until the value of p satisfies cond, and returns it.
// If it does already, Until returns right away.
func (p *Property[T]) Until(co *asyncgui.Coroutine, cond func(v T) bool) (T, error) {
	if cond(p.value) {
		return p.value, nil
	}
	args, err := Event(co, p.d, p.name, Options{
		Filter: func(args []any) bool { return cond(args[0].(T)) },
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return args[0].(T), nil
}
