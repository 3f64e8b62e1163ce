package watch

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout reports that no new records arrived within the requested
// window. It is an expected outcome, not a failure: callers use it as a
// heuristic that the producer may be finished, though a merely slow
// producer is indistinguishable.
var ErrTimeout = errors.New("no new records within timeout")

// Queue is an unbounded mailbox of delta counts for one listener. Puts
// never block; a consumer that stops draining accumulates entries.
type Queue struct {
	mu     sync.Mutex
	deltas []int
	ready  chan struct{}
}

// NewQueue returns an empty listener queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Put appends one delta count. It never blocks.
func (q *Queue) Put(delta int) {
	q.mu.Lock()
	q.deltas = append(q.deltas, delta)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of undelivered deltas.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.deltas)
}

func (q *Queue) take() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.deltas) == 0 {
		return 0, false
	}
	delta := q.deltas[0]
	q.deltas = q.deltas[1:]
	if len(q.deltas) > 0 {
		// More pending; keep the signal armed for the next take.
		select {
		case q.ready <- struct{}{}:
		default:
		}
	}
	return delta, true
}

// Next returns the oldest undelivered delta, waiting up to timeout for one
// to arrive. It returns ErrTimeout when the window elapses with no
// delivery, or ctx.Err() if the context is cancelled first.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) (int, error) {
	if delta, ok := q.take(); ok {
		return delta, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
			return 0, ErrTimeout
		case <-q.ready:
			if delta, ok := q.take(); ok {
				return delta, nil
			}
		}
	}
}
