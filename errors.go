package asyncgui

import "errors"

var (
	// ErrInvalidState is returned when an operation is not valid for the
	// current state of a Task, e.g. reading the result of an unfinished one.
	ErrInvalidState = errors.New("asyncgui: invalid state")

	// ErrCancelled is returned from suspension points of a computation whose
	// Task is being cancelled.
	// A computation must propagate it after cleaning up.
	ErrCancelled = errors.New("asyncgui: cancelled")

	// ErrWouldBlock is returned by a non-blocking operation that could not
	// complete immediately.
	ErrWouldBlock = errors.New("asyncgui: would block")

	// ErrClosedResource is returned by an operation on a resource that has
	// been closed in a way that forbids it.
	ErrClosedResource = errors.New("asyncgui: closed resource")

	// ErrEndOfResource is returned by a read from a resource that has been
	// half-closed and drained. It signals a normal end, not a misuse.
	ErrEndOfResource = errors.New("asyncgui: end of resource")
)

// joinErrors is like [errors.Join] but returns the error itself when there
// is only one.
func joinErrors(errs ...error) error {
	var first error
	n := 0
	for _, err := range errs {
		if err != nil {
			if n == 0 {
				first = err
			}
			n++
		}
	}
	switch n {
	case 0:
		return nil
	case 1:
		return first
	}
	return errors.Join(errs...)
}

func isCancellation(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// cancellationOnly reports whether err carries nothing but ErrCancelled.
func cancellationOnly(err error) bool {
	switch err := err.(type) {
	case nil:
		return true
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !cancellationOnly(err) {
				return false
			}
		}
		return true
	case interface{ Unwrap() error }:
		inner := err.Unwrap()
		return inner != nil && cancellationOnly(inner)
	}
	return err == ErrCancelled
}
