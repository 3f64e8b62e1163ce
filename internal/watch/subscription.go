package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ssxwatch/internal/logging"
)

// Subscription is one consumer's handle on a Watcher: an unbounded delta
// queue registered at a starting offset, plus the store the deltas refer
// to. Subscriptions are never explicitly destroyed; one lives as long as
// its consumer keeps polling it.
type Subscription[T any] struct {
	id      string
	watcher *Watcher[T]
	queue   *Queue
	logger  *slog.Logger
}

// Subscribe registers a new listener on the watcher starting at
// fromOffset. If records at or past fromOffset already exist, the backlog
// delta is queued before Subscribe returns.
func Subscribe[T any](w *Watcher[T], fromOffset int, logger *slog.Logger) *Subscription[T] {
	sub := &Subscription[T]{
		id:      uuid.NewString(),
		watcher: w,
		queue:   NewQueue(),
	}
	sub.logger = logging.WithComponent(logger, "subscription").With(
		logging.String(logging.FieldSubscription, sub.id),
		logging.String(logging.FieldPath, w.Path()),
	)
	w.Register(sub.queue, fromOffset)
	sub.logger.Debug("subscribed", logging.Int("from_offset", fromOffset))
	return sub
}

// ID returns the subscription's correlation id used in log lines.
func (s *Subscription[T]) ID() string {
	return s.id
}

// Next blocks until a delta notification arrives, then returns the most
// recently appended delta records from the store at the moment of
// delivery. It returns ErrTimeout when no delta arrives within timeout,
// and ctx.Err() if the context is cancelled first. A timeout affects only
// this subscription; the underlying watcher keeps running.
func (s *Subscription[T]) Next(ctx context.Context, timeout time.Duration) ([]T, error) {
	delta, err := s.queue.Next(ctx, timeout)
	if err != nil {
		return nil, err
	}
	records := s.watcher.Store().Tail(delta)
	s.logger.Debug("delivered records", logging.Int("delta", delta))
	return records, nil
}

// Pending returns the number of undelivered delta notifications.
func (s *Subscription[T]) Pending() int {
	return s.queue.Len()
}
