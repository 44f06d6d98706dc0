package thread

import (
	"errors"
	"sync"

	"github.com/b97tsk/asyncgui"
)

// ErrPoolClosed is returned when submitting to a closed [Pool].
var ErrPoolClosed = errors.New("thread: pool closed")

// Pool is an [Executor] backed by a fixed number of worker goroutines.
//
// Submit never blocks: functions wait in an unbounded FIFO queue until
// a worker is free, so that the GUI thread is never held up by a busy pool.
type Pool struct {
	mu     sync.Mutex
	cond   sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
	logger asyncgui.Logger
}

// NewPool starts a [Pool] with the given number of workers (at least one).
// A panic in a submitted function is logged to logger, which may be nil.
func NewPool(workers int, logger asyncgui.Logger) *Pool {
	if logger == nil {
		logger = asyncgui.NopLogger{}
	}
	p := &Pool{logger: logger}
	p.cond.L = &p.mu
	for i := range max(workers, 1) {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	return p
}

// Submit queues f to be run by a worker.
func (p *Pool) Submit(f func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}

	p.queue = append(p.queue, f)
	p.cond.Signal()

	return nil
}

// Close stops accepting new functions, and waits until the workers have run
// every queued one.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Pending returns the number of queued functions not yet picked up by
// a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()

	for {
		f, ok := p.next()
		if !ok {
			return
		}
		if err := asyncgui.Catch(func() error { f(); return nil }); err != nil {
			p.logger.Error("worker panicked", asyncgui.F("worker", id), asyncgui.F("error", err))
		}
	}
}

func (p *Pool) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		if p.closed {
			return nil, false
		}
		p.cond.Wait()
	}

	f := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]

	return f, true
}
