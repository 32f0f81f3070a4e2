// Package queue provides the in-process FIFO that feeds the judge
// worker pool. Durability across restarts comes from the submission
// store plus the startup requeue scan, not from the queue itself.
package queue

import (
	"errors"
	"sync"
)

const defaultCapacity = 4096

// ErrClosed is returned by Enqueue after the queue is shut down.
var ErrClosed = errors.New("judge queue is closed")

// JudgeQueue is a shared FIFO of pending submission ids. Enqueue never
// blocks: the backlog grows without bound and memory is the only
// back-pressure. Dispatch is at-least-once: an id may be enqueued more
// than once across the process lifetime and duplicates are not
// deduplicated.
type JudgeQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []int64
	closed bool
}

// New creates a queue. capacity sizes the initial backlog buffer; a
// non-positive value selects the default. It is a hint, not a limit.
func New(capacity int) *JudgeQueue {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	q := &JudgeQueue{
		items: make([]int64, 0, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a submission id to the queue without blocking. It
// fails only after Close.
func (q *JudgeQueue) Enqueue(id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, id)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until an id is available or the queue is shut down.
// ok is false once the queue is closed and drained, signalling worker
// termination.
func (q *JudgeQueue) Dequeue() (id int64, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return 0, false
	}
	id = q.items[0]
	q.items = q.items[1:]
	return id, true
}

// Len returns the number of ids waiting in the backlog.
func (q *JudgeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close shuts the queue down. Pending ids remain dequeueable; once the
// backlog drains, Dequeue reports termination. Close is idempotent.
func (q *JudgeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
