package asyncgui

// TaskState is the lifecycle state of a [Task].
//
// States are bit flags so that they can be combined into a mask, e.g. for
// [Task.Wait].
type TaskState uint8

const (
	// Created means the Task has not yet been started.
	Created TaskState = 1 << iota
	// Started means the Task has been started and is suspended, or running.
	Started
	// Done means the Task's computation returned normally.
	Done
	// Cancelled means the Task was cancelled, or its computation failed.
	Cancelled
)

// Finished is a mask that matches both terminal states.
const Finished = Done | Cancelled

func (s TaskState) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (s TaskState) terminal() bool {
	return s&Finished != 0
}
