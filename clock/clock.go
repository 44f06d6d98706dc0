// Package clock provides a frame clock for driving asyncgui tasks, and the
// Binders that wait on it.
//
// A [Clock] keeps virtual time. It moves forward only when [Clock.Tick] is
// called, once per frame, either by a host GUI's frame loop, by
// [Clock.Run], or by a test. Callbacks scheduled on a Clock run inside Tick,
// on the thread that calls Tick.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/internal/pq"
)

// A Clock is a frame clock.
//
// Except for [Clock.Post], the methods of a Clock must be called on the
// thread that calls Tick.
type Clock struct {
	mu     sync.Mutex
	posted []func()

	cfg    Config
	logger asyncgui.Logger
	now    time.Duration
	frame  uint64
	events *pq.Queue[*Event]
	stale  int // Cancelled events still in events.
}

// Cancelled events are dropped from the queue once there are at least this
// many of them, and they make up more than half of it.
const compactThreshold = 64

// Option configures a [Clock].
type Option func(c *Clock)

// WithLogger sets the [asyncgui.Logger] of a Clock.
func WithLogger(l asyncgui.Logger) Option {
	return func(c *Clock) { c.logger = l }
}

// New creates a [Clock]. Its time starts at cfg.StartTime.
func New(cfg Config, opts ...Option) *Clock {
	c := &Clock{
		cfg:    cfg,
		logger: asyncgui.NopLogger{},
		now:    cfg.StartTime,
		events: pq.New(func(a, b *Event) bool { return a.deadline < b.deadline }),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current time of c.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Frame returns the number of times c has ticked.
func (c *Clock) Frame() uint64 {
	return c.frame
}

// An Event is a callback scheduled on a [Clock].
type Event struct {
	clock    *Clock
	callback func(dt time.Duration) bool
	deadline time.Duration
	interval time.Duration
	last     time.Duration
	repeat   bool
	queued   bool
	done     bool
}

// Cancel unschedules e. Cancelling an Event that has already run, or been
// cancelled, does nothing.
func (e *Event) Cancel() {
	if e.done {
		return
	}
	e.done = true
	if e.queued {
		e.clock.stale++
		e.clock.compact()
	}
}

// Active reports whether e is still scheduled.
func (e *Event) Active() bool {
	return !e.done
}

// ScheduleOnce schedules f to be called once, on the first tick at least
// delay after now. A delay of zero or less means the next tick.
// f is given the time elapsed since it was scheduled.
func (c *Clock) ScheduleOnce(f func(dt time.Duration), delay time.Duration) *Event {
	return c.schedule(&Event{
		callback: func(dt time.Duration) bool { f(dt); return false },
		deadline: c.now + max(delay, 0),
	})
}

// ScheduleInterval schedules f to be called repeatedly, on the first tick at
// least interval after the previous call. An interval of zero or less means
// every tick. Returning false from f unschedules it.
// f is given the time elapsed since the previous call.
func (c *Clock) ScheduleInterval(f func(dt time.Duration) bool, interval time.Duration) *Event {
	interval = max(interval, 0)
	return c.schedule(&Event{
		callback: f,
		deadline: c.now + interval,
		interval: interval,
		repeat:   true,
	})
}

// ScheduleNextFrame schedules f to be called once, on the next tick.
func (c *Clock) ScheduleNextFrame(f func(dt time.Duration)) *Event {
	return c.ScheduleOnce(f, 0)
}

func (c *Clock) schedule(e *Event) *Event {
	e.clock = c
	e.last = c.now
	c.push(e)
	return e
}

func (c *Clock) push(e *Event) {
	e.queued = true
	c.events.Push(e)
}

func (c *Clock) pop() *Event {
	e := c.events.Pop()
	e.queued = false
	if e.done {
		c.stale--
	}
	return e
}

func (c *Clock) compact() {
	if c.stale < compactThreshold || c.stale*2 <= c.events.Len() {
		return
	}
	c.events.DeleteFunc(func(e *Event) bool {
		if e.done {
			e.queued = false
			return true
		}
		return false
	})
	c.stale = 0
}

// Post arranges for f to be called at the beginning of the next tick.
//
// Post is safe for concurrent use. It is the only way other goroutines
// should hand work to the thread that ticks c.
func (c *Clock) Post(f func()) {
	c.mu.Lock()
	c.posted = append(c.posted, f)
	c.mu.Unlock()
}

// Tick advances c by dt, and then runs posted functions and due events.
//
// Due events run in the order of their deadlines; those with the same
// deadline run in the order they were scheduled. Events scheduled while
// ticking, posted functions included, run no earlier than the next tick.
func (c *Clock) Tick(dt time.Duration) {
	c.now += max(dt, 0)
	c.frame++

	var due []*Event
	for !c.events.Empty() && c.events.Peek().deadline <= c.now {
		if e := c.pop(); !e.done {
			due = append(due, e)
		}
	}

	c.mu.Lock()
	posted := c.posted
	c.posted = nil
	c.mu.Unlock()

	for _, f := range posted {
		f()
	}

	for _, e := range due {
		if e.done {
			continue
		}
		elapsed := c.now - e.last
		e.last = c.now
		if !e.repeat {
			e.done = true
			e.callback(elapsed)
			continue
		}
		if !e.callback(elapsed) {
			e.done = true
		}
		if !e.done {
			e.deadline = c.now + e.interval
			c.push(e)
		}
	}
}

// Run ticks c every cfg.FrameInterval of real time until ctx is done.
// A frame that took longer than cfg.MaxFrameDelta counts as MaxFrameDelta.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.FrameInterval)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if limit := c.cfg.MaxFrameDelta; limit > 0 && dt > limit {
				c.logger.Debug("slow frame", asyncgui.F("frame", c.frame), asyncgui.F("dt", dt))
				dt = limit
			}
			c.Tick(dt)
		}
	}
}
