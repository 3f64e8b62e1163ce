package store_test

import (
	"sync"
	"testing"

	"ssxwatch/internal/store"
)

func TestAppendPreservesOrderAcrossGrowth(t *testing.T) {
	s := store.NewWithCapacity[int](4)
	const total = 100
	for i := 0; i < total; i++ {
		s.Append(i)
	}
	if s.Len() != total {
		t.Fatalf("expected %d records, got %d", total, s.Len())
	}
	all := s.Slice(0, s.Len())
	for i, v := range all {
		if v != i {
			t.Fatalf("record %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestTailReturnsLastRecords(t *testing.T) {
	s := store.New[string]()
	for _, v := range []string{"a", "b", "c", "d"} {
		s.Append(v)
	}

	tail := s.Tail(2)
	if len(tail) != 2 || tail[0] != "c" || tail[1] != "d" {
		t.Fatalf("unexpected tail: %v", tail)
	}
	if got := s.Tail(10); len(got) != 4 {
		t.Fatalf("oversized tail should clamp to length, got %d records", len(got))
	}
	if got := s.Tail(0); got != nil {
		t.Fatalf("Tail(0) should be nil, got %v", got)
	}
}

func TestSliceNegativeIndices(t *testing.T) {
	s := store.New[int]()
	for i := 0; i < 10; i++ {
		s.Append(i)
	}

	last3 := s.Slice(-3, s.Len())
	if len(last3) != 3 || last3[0] != 7 || last3[2] != 9 {
		t.Fatalf("unexpected negative slice: %v", last3)
	}
	if got := s.Slice(-100, 2); len(got) != 2 || got[0] != 0 {
		t.Fatalf("expected clamped slice [0 1], got %v", got)
	}
	if got := s.Slice(5, 3); got != nil {
		t.Fatalf("inverted range should be nil, got %v", got)
	}
}

func TestAt(t *testing.T) {
	s := store.New[int]()
	s.Append(10)
	s.Append(20)

	if v, err := s.At(-1); err != nil || v != 20 {
		t.Fatalf("At(-1) = %d, %v", v, err)
	}
	if _, err := s.At(2); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestConcurrentReadsDuringAppend(t *testing.T) {
	s := store.NewWithCapacity[int](8)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			got := s.Tail(s.Len())
			for i := 1; i < len(got); i++ {
				if got[i] != got[i-1]+1 {
					t.Errorf("reader observed out-of-order records: %d then %d", got[i-1], got[i])
					return
				}
			}
		}
	}()

	for i := 0; i < 5000; i++ {
		s.Append(i)
	}
	close(done)
	wg.Wait()
}
