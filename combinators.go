package asyncgui

// countdown releases once, when n reaches zero.
type countdown struct {
	n       int
	release func()
}

func (c *countdown) done() {
	if c.n > 0 {
		c.n--
		if c.n == 0 {
			c.release()
		}
	}
}

func tasksOf(fns []Func) []*Task {
	tasks := make([]*Task, len(fns))
	for i, fn := range fns {
		tasks[i] = NewTask(fn)
	}
	return tasks
}

// WaitAny runs each of fns in its own [Task] and waits until any of them
// finishes. See [WaitAnyNTasks].
func WaitAny(co *Coroutine, fns ...Func) ([]*Task, error) {
	return waitTasks(co, 1, tasksOf(fns))
}

// WaitAnyN runs each of fns in its own [Task] and waits until n of them
// finish. See [WaitAnyNTasks].
func WaitAnyN(co *Coroutine, n int, fns ...Func) ([]*Task, error) {
	return waitTasks(co, n, tasksOf(fns))
}

// WaitAll runs each of fns in its own [Task] and waits until all of them
// finish. See [WaitAnyNTasks].
func WaitAll(co *Coroutine, fns ...Func) ([]*Task, error) {
	return waitTasks(co, len(fns), tasksOf(fns))
}

// WaitAnyTasks is like [WaitAnyNTasks] with n set to 1.
func WaitAnyTasks(co *Coroutine, tasks ...*Task) ([]*Task, error) {
	return waitTasks(co, 1, tasks)
}

// WaitAllTasks is like [WaitAnyNTasks] with n set to len(tasks).
func WaitAllTasks(co *Coroutine, tasks ...*Task) ([]*Task, error) {
	return waitTasks(co, len(tasks), tasks)
}

// WaitAnyNTasks starts tasks in order and suspends co until n of them have
// finished, or until one of them fails.
//
// Tasks that are not in [Created] state are not started again; finished ones
// count right away. Once n of them have finished, the remaining ones are not
// started at all.
//
// Before returning, every task that has not finished is cancelled, and
// WaitAnyNTasks waits for all of them to finish, so no task outlives the
// call. This holds even if co itself is cancelled meanwhile.
//
// WaitAnyNTasks returns tasks, in their original order, so that the caller
// can inspect each of them. The error returned is the error of the first
// failed task in that order, if any, joined with [ErrCancelled] if co was
// cancelled.
func WaitAnyNTasks(co *Coroutine, n int, tasks ...*Task) ([]*Task, error) {
	return waitTasks(co, n, tasks)
}

func waitTasks(co *Coroutine, n int, tasks []*Task) ([]*Task, error) {
	n = min(max(n, 0), len(tasks))

	var ev Event

	cd := countdown{n: n, release: ev.Fire}
	if n == 0 {
		ev.Fire()
	}

	parent := co.task
	for _, t := range tasks {
		t.inherit(parent)
		t.onFinish(func(t *Task) {
			if t.err != nil {
				ev.Fire()
				return
			}
			cd.done()
		})
	}

	for _, t := range tasks {
		if ev.IsSet() {
			break
		}
		if t.state == Created {
			Start(t)
		}
	}

	_, err := ev.Wait(co)

	if terr := cancelAll(co, tasks); err == nil {
		err = terr
	}

	return tasks, joinErrors(firstError(tasks), err)
}

// cancelAll cancels tasks and waits until all of them finish, with
// cancellation of co deferred meanwhile.
func cancelAll(co *Coroutine, tasks []*Task) error {
	for _, t := range tasks {
		t.Cancel()
	}
	return co.Shield(func() error {
		for _, t := range tasks {
			if !t.Finished() {
				if err := co.Wait(t, Finished); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func firstError(tasks []*Task) error {
	for _, t := range tasks {
		if t.err != nil {
			return t.err
		}
	}
	return nil
}
