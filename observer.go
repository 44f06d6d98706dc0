package asyncgui

// Observer is notified when a [Task] starts and when a started Task
// finishes. Tasks cancelled before being started are not reported.
//
// Observers are called on the thread of control that drives the Task.
type Observer interface {
	TaskStarted(t *Task)
	TaskFinished(t *Task)
}

type observers []Observer

// Observers returns an [Observer] that notifies each of s in order.
func Observers(s ...Observer) Observer {
	return observers(s)
}

func (s observers) TaskStarted(t *Task) {
	for _, o := range s {
		o.TaskStarted(t)
	}
}

func (s observers) TaskFinished(t *Task) {
	for _, o := range s {
		o.TaskFinished(t)
	}
}

// LogObserver is an [Observer] that logs task lifecycle events.
// A task that ends with an error is logged at error level, so that failures
// of tasks nobody waits for are not lost silently.
type LogObserver struct {
	Logger Logger
}

func (o LogObserver) TaskStarted(t *Task) {
	o.Logger.Debug("task started", F("task", taskName(t)))
}

func (o LogObserver) TaskFinished(t *Task) {
	if err := t.Err(); err != nil {
		o.Logger.Error("task failed", F("task", taskName(t)), F("error", err))
		return
	}
	o.Logger.Debug("task finished", F("task", taskName(t)), F("state", t.State()))
}

func taskName(t *Task) string {
	if t.name == "" {
		return "unnamed"
	}
	return t.name
}
