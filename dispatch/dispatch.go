// Package dispatch provides a named event dispatcher in the style of GUI
// toolkits, and the Binders that wait for its events.
package dispatch

// A Callback is called with the arguments of each dispatched occurrence of
// the event it is bound to. Returning true stops the dispatch of that
// occurrence: callbacks bound after it are not called.
type Callback func(args ...any) bool

// A Token identifies a binding made by [Dispatcher.Bind].
type Token struct {
	name string
	id   uint64
}

// A Dispatcher calls, for each dispatched event, the callbacks bound to its
// name.
//
// The zero value is ready to use. A Dispatcher is not safe for concurrent
// use; like the rest of a GUI, it belongs to one thread.
type Dispatcher struct {
	lastID   uint64
	bindings map[string][]*binding
}

type binding struct {
	id      uint64
	cb      Callback
	removed bool
}

// New creates a [Dispatcher].
func New() *Dispatcher {
	return new(Dispatcher)
}

// Bind binds cb to the event name. Callbacks are called in the order they
// were bound.
func (d *Dispatcher) Bind(name string, cb Callback) Token {
	if cb == nil {
		panic("dispatch: nil Callback")
	}
	if d.bindings == nil {
		d.bindings = make(map[string][]*binding)
	}
	d.lastID++
	d.bindings[name] = append(d.bindings[name], &binding{id: d.lastID, cb: cb})
	return Token{name, d.lastID}
}

// Unbind removes the binding identified by tok. Unbinding twice is a no-op.
//
// A callback unbound during a dispatch is not called afterwards, not even
// for the occurrence being dispatched.
func (d *Dispatcher) Unbind(tok Token) {
	s := d.bindings[tok.name]
	for i, b := range s {
		if b.id == tok.id {
			b.removed = true
			s = append(s[:i:i], s[i+1:]...)
			break
		}
	}
	if len(s) == 0 {
		delete(d.bindings, tok.name)
	} else {
		d.bindings[tok.name] = s
	}
}

// Dispatch calls the callbacks bound to name with args, and reports whether
// one of them stopped the dispatch.
//
// Callbacks bound during a dispatch are first called for the next
// occurrence.
func (d *Dispatcher) Dispatch(name string, args ...any) (stopped bool) {
	for _, b := range d.bindings[name] {
		if b.removed {
			continue
		}
		if b.cb(args...) {
			return true
		}
	}
	return false
}

// Len returns the number of callbacks bound to name.
func (d *Dispatcher) Len(name string) int {
	return len(d.bindings[name])
}
