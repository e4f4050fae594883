package queue

import "iter"

// nilIndex marks the absence of a slot (empty queue, end of chain).
const nilIndex = -1

type slot[T any] struct {
	next int
	item T
}

// Queue is a FIFO queue with O(1) amortized Enqueue, Dequeue and Peek.
// The zero value is an empty queue ready to use.
type Queue[T any] struct {
	slots []slot[T]
	free  []int
	front int
	back  int
	n     int
	init  bool
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.lazyInit()
	return q
}

func (q *Queue[T]) lazyInit() {
	if !q.init {
		q.front, q.back = nilIndex, nilIndex
		q.init = true
	}
}

// Enqueue appends item at the back of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.lazyInit()

	var idx int
	if k := len(q.free); k > 0 {
		idx = q.free[k-1]
		q.free = q.free[:k-1]
		q.slots[idx] = slot[T]{next: nilIndex, item: item}
	} else {
		idx = len(q.slots)
		q.slots = append(q.slots, slot[T]{next: nilIndex, item: item})
	}

	if q.back == nilIndex {
		q.front = idx
	} else {
		q.slots[q.back].next = idx
	}
	q.back = idx
	q.n++
}

// Dequeue removes and returns the item at the front of the queue.
// The boolean is false when the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.Empty() {
		return zero, false
	}

	idx := q.front
	s := q.slots[idx]
	q.front = s.next
	if q.front == nilIndex {
		q.back = nilIndex
	}

	// Drop the reference so the slot does not pin the item.
	q.slots[idx] = slot[T]{next: nilIndex}
	q.free = append(q.free, idx)
	q.n--
	return s.item, true
}

// Peek returns the item at the front of the queue without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if q.Empty() {
		return zero, false
	}
	return q.slots[q.front].item, true
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool { return q.n == 0 }

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return q.n }

// Cap returns the size of the backing store, occupied or free.
func (q *Queue[T]) Cap() int { return len(q.slots) }

// Reset empties the queue and releases the backing store.
func (q *Queue[T]) Reset() {
	q.slots = nil
	q.free = nil
	q.n = 0
	q.init = false
	q.lazyInit()
}

// Each calls fn for every item in enqueue order until fn returns false.
func (q *Queue[T]) Each(fn func(T) bool) {
	if q.Empty() {
		return
	}
	for idx := q.front; idx != nilIndex; idx = q.slots[idx].next {
		if !fn(q.slots[idx].item) {
			return
		}
	}
}

// All returns an iterator over the queued items in enqueue order.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		q.Each(yield)
	}
}

// Slice returns the queued items in enqueue order.
func (q *Queue[T]) Slice() []T {
	out := make([]T, 0, q.n)
	q.Each(func(item T) bool {
		out = append(out, item)
		return true
	})
	return out
}
