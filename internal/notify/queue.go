// Package notify provides a deferred-action queue for transient status
// messages. Actions are (deadline, func) pairs run from the daemon's
// refresh tick, so reverting a message never happens from a re-entrant
// timer callback.
package notify

import (
	"sync"
	"time"
)

type action struct {
	deadline time.Time
	fn       func()
}

// Queue holds pending deferred actions. Safe for concurrent use; IPC
// handlers push from their own goroutines while the refresh tick polls.
type Queue struct {
	mu      sync.Mutex
	pending []action
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// After schedules fn to run once d has elapsed, on a future Poll.
func (q *Queue) After(d time.Duration, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, action{deadline: time.Now().Add(d), fn: fn})
}

// Poll runs every action whose deadline is at or before now, in the order
// they were scheduled, and drops them from the queue. Actions run without
// the queue lock held, so an action may schedule further actions.
func (q *Queue) Poll(now time.Time) {
	q.mu.Lock()
	var due []action
	var rest []action
	for _, a := range q.pending {
		if !a.deadline.After(now) {
			due = append(due, a)
		} else {
			rest = append(rest, a)
		}
	}
	q.pending = rest
	q.mu.Unlock()

	for _, a := range due {
		a.fn()
	}
}

// Len reports the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
