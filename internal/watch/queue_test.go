package watch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ssxwatch/internal/watch"
)

func TestQueueDeliversInOrder(t *testing.T) {
	q := watch.NewQueue()
	q.Put(3)
	q.Put(1)
	q.Put(4)

	ctx := context.Background()
	for _, want := range []int{3, 1, 4} {
		got, err := q.Next(ctx, time.Second)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Fatalf("expected delta %d, got %d", want, got)
		}
	}
}

func TestQueueTimeout(t *testing.T) {
	q := watch.NewQueue()
	start := time.Now()
	_, err := q.Next(context.Background(), 20*time.Millisecond)
	if !errors.Is(err, watch.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Next returned before the timeout window elapsed")
	}
}

func TestQueueContextCancellation(t *testing.T) {
	q := watch.NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := q.Next(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQueueAccumulatesWithoutBlocking(t *testing.T) {
	q := watch.NewQueue()
	const n = 10000
	for i := 0; i < n; i++ {
		q.Put(1)
	}
	if q.Len() != n {
		t.Fatalf("expected %d pending deltas, got %d", n, q.Len())
	}

	ctx := context.Background()
	for i := 0; i < n; i++ {
		if _, err := q.Next(ctx, time.Second); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("expected drained queue, got %d pending", q.Len())
	}
}

func TestQueuePutWakesBlockedNext(t *testing.T) {
	q := watch.NewQueue()
	done := make(chan int, 1)
	go func() {
		delta, err := q.Next(context.Background(), 5*time.Second)
		if err != nil {
			t.Errorf("Next: %v", err)
		}
		done <- delta
	}()

	time.Sleep(10 * time.Millisecond)
	q.Put(7)

	select {
	case delta := <-done:
		if delta != 7 {
			t.Fatalf("expected delta 7, got %d", delta)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Next was not woken by Put")
	}
}
