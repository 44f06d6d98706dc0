package asyncgui

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// PanicError is the error a [Task] ends with when its computation panics.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError creates a [PanicError] for v with the current goroutine's
// stack trace. It is meant to be called from a deferred recover.
func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (pe *PanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "panic: %v", pe.Value)
	if pe.Stack != nil {
		b.WriteString("\n\n")
		b.Write(pe.Stack)
	}
	return b.String()
}

// Unwrap returns the panic value if it is an error.
func (pe *PanicError) Unwrap() error {
	if err, ok := pe.Value.(error); ok {
		return err
	}
	return nil
}

// Catch calls f and converts a panic in f into a [*PanicError].
func Catch(f func() error) (err error) {
	ok := false
	defer func() {
		if !ok {
			v := recover()
			if v == nil {
				panic("asyncgui: asyncgui does not support runtime.Goexit()")
			}
			err = NewPanicError(v)
		}
	}()
	err = f()
	ok = true
	return err
}
