// Package queue provides a constant-time FIFO queue backed by a growable
// slice used as a singly linked list.
//
// # Layout
//
// Each occupied slot of the backing slice holds an item and the index of
// its successor. Dequeued slots are pushed onto a free-list and handed out
// again before the slice grows, so a queue under balanced enqueue/dequeue
// load never grows past its high-water mark:
//
//	q := queue.New[string]()
//	q.Enqueue("a")
//	q.Enqueue("b")
//	v, _ := q.Dequeue() // "a"
//	q.Enqueue("c")      // reuses the slot "a" vacated
//
// Iteration with [Queue.All] or [Queue.Each] follows successor links, so
// it yields items in enqueue order even after the storage order and the
// link order have diverged.
//
// # Concurrency
//
// Queue is not safe for concurrent use.
package queue
