// Package pq provides a sorted queue that keeps arrival order among equal
// elements.
//
// It is not a heap. Elements are kept fully sorted, split into a head and
// a tail slice sharing spare capacity; Push inserts with a binary search
// and Pop takes from the front of head.
package pq

import "sort"

// Queue is a priority queue ordered by a less function.
// Popping the queue removes the least element; elements that compare equal
// are popped in arrival order (FIFO).
//
// The zero value is not usable; create one with [New].
type Queue[E any] struct {
	head, tail []E
	less       func(a, b E) bool
}

// New creates a [Queue] ordered by less.
func New[E any](less func(a, b E) bool) *Queue[E] {
	if less == nil {
		panic("pq: nil less function")
	}
	return &Queue[E]{less: less}
}

// Empty reports whether q has no elements.
func (q *Queue[E]) Empty() bool {
	return len(q.head) == 0
}

// Len returns the number of elements in q.
func (q *Queue[E]) Len() int {
	return len(q.head) + len(q.tail)
}

// Push inserts v after every element not greater than v.
func (q *Queue[E]) Push(v E) {
	headsize, tailsize := len(q.head), len(q.tail)

	n := headsize + tailsize

	i := sort.Search(n, func(i int) bool {
		if i < headsize {
			return q.less(v, q.head[i])
		}

		i -= headsize

		return q.less(v, q.tail[i])
	})

	if n == cap(q.tail) {
		var zero E

		s := append(q.tail[:n], zero)[:0]

		if i < headsize {
			s = append(s, q.head[:i]...)
			s = append(s, v)
			s = append(s, q.head[i:]...)
			s = append(s, q.tail...)
		} else {
			i -= headsize
			s = append(s, q.head...)
			s = append(s, q.tail[:i]...)
			s = append(s, v)
			s = append(s, q.tail[i:]...)
		}

		q.head, q.tail = s, s[:0]

		return
	}

	if headsize < cap(q.head) {
		s := q.head
		s = s[:headsize+1]
		copy(s[i+1:], s[i:])
		s[i] = v
		q.head = s
		return
	}

	if i < headsize {
		s := q.head
		u := s[headsize-1]
		copy(s[i+1:], s[i:])
		s[i] = v
		v = u
		i = headsize
	}

	i -= headsize

	s := q.tail
	s = s[:tailsize+1]
	copy(s[i+1:], s[i:])
	s[i] = v
	q.tail = s
}

// Peek returns the least element without removing it.
// Peek panics if q is empty.
func (q *Queue[E]) Peek() E {
	return q.head[0]
}

// Pop removes and returns the least element.
// Pop panics if q is empty.
func (q *Queue[E]) Pop() (v E) {
	q.head[0], v = v, q.head[0]

	if len(q.head) > 1 {
		q.head = q.head[1:]
	} else {
		q.head, q.tail = q.tail, q.tail[:0]
	}

	return v
}

// Clear removes every element from q.
func (q *Queue[E]) Clear() {
	clear(q.head)
	clear(q.tail)
	q.head, q.tail = q.head[:0], q.tail[:0]
}

// DeleteFunc removes every element for which del returns true, and keeps the
// order of the others.
func (q *Queue[E]) DeleteFunc(del func(E) bool) {
	s := make([]E, 0, q.Len())
	for _, v := range q.head {
		if !del(v) {
			s = append(s, v)
		}
	}
	for _, v := range q.tail {
		if !del(v) {
			s = append(s, v)
		}
	}
	q.head, q.tail = s, s[:0]
}
