package asyncgui

import (
	"cmp"
	"errors"
	"iter"

	"github.com/b97tsk/asyncgui/internal/pq"
)

// Unbounded is the capacity of a [Queue] that never becomes full.
const Unbounded = -1

// Order is the order in which a buffered [Queue] hands out its items.
type Order int

const (
	// FIFO hands out items in insertion order.
	FIFO Order = iota
	// LIFO hands out the most recently inserted item first.
	LIFO
	// SmallestFirst hands out the smallest item first.
	SmallestFirst
)

// A Queue passes items from computations that put them to computations that
// get them.
//
// A Queue with a capacity of zero has no buffer at all: a putter and a getter
// must meet, and the item is handed over directly. Other queues buffer up to
// their capacity, and Put only waits while the buffer is full, Get only while
// it is empty.
//
// The two kinds differ in one more way. On a zero-capacity Queue, PutNowait
// and GetNowait succeed if a matching getter or putter is waiting. On
// a buffered Queue, GetNowait only looks at the buffer.
//
// A Queue can be closed in two ways. [Queue.Close] forbids further puts, but
// getters can still drain what is buffered, and then get [ErrEndOfResource].
// [Queue.FullClose] also discards the buffer; everything then fails with
// [ErrClosedResource].
//
// A Queue must not be shared by more than one thread of control.
type Queue[T any] struct {
	impl queueImpl[T]
}

type queueImpl[T any] interface {
	put(co *Coroutine, item T) error
	putNowait(item T) error
	get(co *Coroutine) (T, error)
	getNowait() (T, error)
	close()
	fullClose()
	len() int
	capacity() int
}

// NewQueue creates a [Queue] with the given capacity (zero, a positive
// number or [Unbounded]) handing out items in [FIFO] or [LIFO] order.
//
// For [SmallestFirst] order, use [NewPriorityQueue] or [NewPriorityQueueFunc].
func NewQueue[T any](capacity int, order Order) *Queue[T] {
	switch order {
	case FIFO:
		return newQueue[T](capacity, new(fifo[T]))
	case LIFO:
		return newQueue[T](capacity, new(lifo[T]))
	case SmallestFirst:
		panic("asyncgui: SmallestFirst requires NewPriorityQueue or NewPriorityQueueFunc")
	default:
		panic("asyncgui: unknown queue order")
	}
}

// NewPriorityQueue creates a [Queue] that hands out the smallest item first.
// Equal items are handed out in insertion order.
func NewPriorityQueue[T cmp.Ordered](capacity int) *Queue[T] {
	return NewPriorityQueueFunc(capacity, cmp.Compare[T])
}

// NewPriorityQueueFunc is like [NewPriorityQueue] but compares items with
// a function.
func NewPriorityQueueFunc[T any](capacity int, compare func(a, b T) int) *Queue[T] {
	return newQueue[T](capacity, &smallest[T]{pq.New(func(a, b T) bool { return compare(a, b) < 0 })})
}

func newQueue[T any](capacity int, buf buffer[T]) *Queue[T] {
	switch {
	case capacity == 0:
		return &Queue[T]{impl: &rendezvous[T]{allowPut: true, allowGet: true}}
	case capacity > 0 || capacity == Unbounded:
		return &Queue[T]{impl: &buffered[T]{cap: capacity, buf: buf, allowPut: true, allowGet: true}}
	default:
		panic("asyncgui: invalid queue capacity")
	}
}

// Put suspends co until item is put into q.
// It returns [ErrClosedResource] if q is closed, or gets closed meanwhile.
func (q *Queue[T]) Put(co *Coroutine, item T) error {
	return q.impl.put(co, item)
}

// PutNowait puts item into q without suspending.
// It returns [ErrWouldBlock] if that is not possible right now.
func (q *Queue[T]) PutNowait(item T) error {
	return q.impl.putNowait(item)
}

// Get suspends co until an item is got from q.
// It returns [ErrEndOfResource] if q has been closed and drained, or
// [ErrClosedResource] if q has been fully closed.
func (q *Queue[T]) Get(co *Coroutine) (T, error) {
	return q.impl.get(co)
}

// GetNowait gets an item from q without suspending.
// It returns [ErrWouldBlock] if that is not possible right now.
func (q *Queue[T]) GetNowait() (T, error) {
	return q.impl.getNowait()
}

// Close forbids further puts. Pending putters fail with
// [ErrClosedResource]. Buffered items can still be got.
func (q *Queue[T]) Close() {
	q.impl.close()
}

// FullClose forbids further puts and gets, and discards buffered items.
// Pending putters and getters fail with [ErrClosedResource].
func (q *Queue[T]) FullClose() {
	q.impl.fullClose()
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	return q.impl.len()
}

// Cap returns the capacity of q.
func (q *Queue[T]) Cap() int {
	return q.impl.capacity()
}

// IsEmpty reports whether q has no buffered items.
func (q *Queue[T]) IsEmpty() bool {
	return q.impl.len() == 0
}

// IsFull reports whether a put into q would have to wait for a getter.
func (q *Queue[T]) IsFull() bool {
	c := q.impl.capacity()
	return c != Unbounded && q.impl.len() >= c
}

// All returns an iterator that gets items from q until q is closed and
// drained. A failure other than [ErrEndOfResource] is yielded as the last
// element.
func (q *Queue[T]) All(co *Coroutine) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := q.Get(co)
			if errors.Is(err, ErrEndOfResource) {
				return
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

type putter[T any] struct {
	item   T
	resume Resume
}

type getter[T any] struct {
	resume Resume
}

type gotItem[T any] struct {
	item T
	err  error
}

// waitlist is a FIFO of waiters that can leave before their turn.
type waitlist[W any] struct {
	s []*W
}

func (l *waitlist[W]) len() int { return len(l.s) }

func (l *waitlist[W]) push(w *W) { l.s = append(l.s, w) }

func (l *waitlist[W]) pop() *W {
	w := l.s[0]
	l.s[0] = nil
	l.s = l.s[1:]
	return w
}

func (l *waitlist[W]) remove(w *W) {
	for i, u := range l.s {
		if u == w {
			l.s = append(l.s[:i], l.s[i+1:]...)
			return
		}
	}
}

func (l *waitlist[W]) drain() []*W {
	s := l.s
	l.s = nil
	return s
}

func putResult(v any, err error) error {
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return v.(error)
}

func getResult[T any](v any, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	r := v.(gotItem[T])
	return r.item, r.err
}

func failPutters[T any](l *waitlist[putter[T]], err error) {
	for _, p := range l.drain() {
		p.resume(err)
	}
}

func failGetters[T any](l *waitlist[getter[T]], err error) {
	for _, g := range l.drain() {
		g.resume(gotItem[T]{err: err})
	}
}

// rendezvous is a Queue with no buffer.
type rendezvous[T any] struct {
	putters  waitlist[putter[T]]
	getters  waitlist[getter[T]]
	allowPut bool
	allowGet bool
	busy     bool
	dirty    bool
}

func (q *rendezvous[T]) len() int      { return 0 }
func (q *rendezvous[T]) capacity() int { return 0 }

func (q *rendezvous[T]) put(co *Coroutine, item T) error {
	if !q.allowPut {
		return ErrClosedResource
	}
	return putResult(co.Await(func(resume Resume) func() {
		p := &putter[T]{item, resume}
		q.putters.push(p)
		q.match()
		return func() { q.putters.remove(p) }
	}))
}

func (q *rendezvous[T]) putNowait(item T) error {
	if !q.allowPut {
		return ErrClosedResource
	}
	if q.getters.len() == 0 {
		return ErrWouldBlock
	}
	q.getters.pop().resume(gotItem[T]{item: item})
	return nil
}

func (q *rendezvous[T]) get(co *Coroutine) (T, error) {
	if !q.allowGet {
		var zero T
		return zero, ErrClosedResource
	}
	if !q.allowPut && q.putters.len() == 0 {
		var zero T
		return zero, ErrEndOfResource
	}
	return getResult[T](co.Await(func(resume Resume) func() {
		g := &getter[T]{resume}
		q.getters.push(g)
		q.match()
		return func() { q.getters.remove(g) }
	}))
}

func (q *rendezvous[T]) getNowait() (T, error) {
	var zero T
	if !q.allowGet {
		return zero, ErrClosedResource
	}
	if q.putters.len() == 0 {
		if !q.allowPut {
			return zero, ErrEndOfResource
		}
		return zero, ErrWouldBlock
	}
	p := q.putters.pop()
	p.resume(nil)
	return p.item, nil
}

// match pairs the oldest waiting putter with the oldest waiting getter,
// repeatedly, until one side runs out.
// Resuming either side may put or get again; such calls made while matching
// are picked up by the same loop.
func (q *rendezvous[T]) match() {
	if q.busy {
		q.dirty = true
		return
	}
	q.busy = true
	defer func() { q.busy = false }()

	for {
		q.dirty = false
		for q.putters.len() != 0 && q.getters.len() != 0 {
			p, g := q.putters.pop(), q.getters.pop()
			g.resume(gotItem[T]{item: p.item})
			p.resume(nil)
		}
		if !q.dirty {
			return
		}
	}
}

func (q *rendezvous[T]) close() {
	q.allowPut = false
	failPutters(&q.putters, ErrClosedResource)
	failGetters(&q.getters, ErrEndOfResource)
}

func (q *rendezvous[T]) fullClose() {
	q.allowPut = false
	q.allowGet = false
	failPutters(&q.putters, ErrClosedResource)
	failGetters(&q.getters, ErrClosedResource)
}

type buffer[T any] interface {
	Len() int
	Push(item T)
	Pop() T
	Clear()
}

// buffered is a Queue with a buffer of a positive, or unbounded, capacity.
type buffered[T any] struct {
	cap      int
	buf      buffer[T]
	putters  waitlist[putter[T]]
	getters  waitlist[getter[T]]
	allowPut bool
	allowGet bool
	busy     bool
	dirty    bool
}

func (q *buffered[T]) len() int      { return q.buf.Len() }
func (q *buffered[T]) capacity() int { return q.cap }

func (q *buffered[T]) full() bool {
	return q.cap != Unbounded && q.buf.Len() >= q.cap
}

func (q *buffered[T]) put(co *Coroutine, item T) error {
	if !q.allowPut {
		return ErrClosedResource
	}
	if !q.full() {
		q.buf.Push(item)
		q.transfer()
		return nil
	}
	return putResult(co.Await(func(resume Resume) func() {
		p := &putter[T]{item, resume}
		q.putters.push(p)
		return func() { q.putters.remove(p) }
	}))
}

func (q *buffered[T]) putNowait(item T) error {
	if !q.allowPut {
		return ErrClosedResource
	}
	if q.full() {
		return ErrWouldBlock
	}
	q.buf.Push(item)
	q.transfer()
	return nil
}

func (q *buffered[T]) get(co *Coroutine) (T, error) {
	var zero T
	if !q.allowGet {
		return zero, ErrClosedResource
	}
	if q.buf.Len() != 0 {
		item := q.buf.Pop()
		q.transfer()
		return item, nil
	}
	if !q.allowPut {
		return zero, ErrEndOfResource
	}
	return getResult[T](co.Await(func(resume Resume) func() {
		g := &getter[T]{resume}
		q.getters.push(g)
		return func() { q.getters.remove(g) }
	}))
}

func (q *buffered[T]) getNowait() (T, error) {
	var zero T
	if !q.allowGet {
		return zero, ErrClosedResource
	}
	if q.buf.Len() == 0 {
		if !q.allowPut {
			return zero, ErrEndOfResource
		}
		return zero, ErrWouldBlock
	}
	item := q.buf.Pop()
	q.transfer()
	return item, nil
}

// transfer hands buffered items to waiting getters and moves items of
// waiting putters into the buffer, until neither is possible.
func (q *buffered[T]) transfer() {
	if q.busy {
		q.dirty = true
		return
	}
	q.busy = true
	defer func() { q.busy = false }()

	for {
		q.dirty = false
		for q.getters.len() != 0 && q.buf.Len() != 0 {
			q.getters.pop().resume(gotItem[T]{item: q.buf.Pop()})
		}
		for q.putters.len() != 0 && !q.full() {
			p := q.putters.pop()
			q.buf.Push(p.item)
			p.resume(nil)
		}
		if !q.allowPut && q.buf.Len() == 0 {
			failGetters(&q.getters, ErrEndOfResource)
		}
		if !q.dirty && (q.getters.len() == 0 || q.buf.Len() == 0) {
			return
		}
	}
}

func (q *buffered[T]) close() {
	q.allowPut = false
	failPutters(&q.putters, ErrClosedResource)
	q.transfer()
}

func (q *buffered[T]) fullClose() {
	q.allowPut = false
	q.allowGet = false
	q.buf.Clear()
	failPutters(&q.putters, ErrClosedResource)
	failGetters(&q.getters, ErrClosedResource)
}

type fifo[T any] struct {
	s []T
}

func (b *fifo[T]) Len() int    { return len(b.s) }
func (b *fifo[T]) Push(item T) { b.s = append(b.s, item) }

func (b *fifo[T]) Clear() {
	clear(b.s)
	b.s = b.s[:0]
}

func (b *fifo[T]) Pop() (item T) {
	var zero T
	item, b.s[0] = b.s[0], zero
	b.s = b.s[1:]
	return item
}

type lifo[T any] struct {
	s []T
}

func (b *lifo[T]) Len() int    { return len(b.s) }
func (b *lifo[T]) Push(item T) { b.s = append(b.s, item) }

func (b *lifo[T]) Clear() {
	clear(b.s)
	b.s = b.s[:0]
}

func (b *lifo[T]) Pop() (item T) {
	var zero T
	n := len(b.s) - 1
	item, b.s[n] = b.s[n], zero
	b.s = b.s[:n]
	return item
}

type smallest[T any] struct {
	*pq.Queue[T]
}
