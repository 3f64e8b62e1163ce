package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"

	"ssxwatch/internal/watch"
)

func TestRegistrySharesWatcherPerIdentity(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/results/shared.out", []byte("x\ny\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg := watch.NewRegistry()
	defer reg.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created := 0
	create := func(path string) *watch.Watcher[string] {
		created++
		return watch.New(path, watch.RawLines(), newWatcherConfig(fs))
	}

	first, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/shared.out", create)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/../results/shared.out", create)
	if err != nil {
		t.Fatalf("GetOrCreate (normalized): %v", err)
	}

	if first != second {
		t.Fatal("expected the same watcher instance for one identity")
	}
	if created != 1 {
		t.Fatalf("expected one construction, got %d", created)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one registry entry, got %d", reg.Len())
	}

	// Records observed via one subscription are backlog for a later one
	// against the same watcher.
	waitForLen(t, first, 2)
	early := watch.Subscribe(first, 0, nil)
	if _, err := early.Next(ctx, 2*time.Second); err != nil {
		t.Fatalf("early Next: %v", err)
	}
	late := watch.Subscribe(second, 0, nil)
	records, err := late.Next(ctx, 2*time.Second)
	if err != nil {
		t.Fatalf("late Next: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("late subscriber should see full backlog, got %v", records)
	}
}

func TestRegistrySeparatesKinds(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg := watch.NewRegistry()
	defer reg.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/a.out", func(path string) *watch.Watcher[string] {
		return watch.New(path, watch.RawLines(), newWatcherConfig(fs))
	})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	b, err := watch.GetOrCreate(ctx, reg, watch.Kind("other"), "/results/a.out", func(path string) *watch.Watcher[string] {
		return watch.New(path, watch.RawLines(), newWatcherConfig(fs))
	})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if a == b {
		t.Fatal("different kinds for one path must get distinct watchers")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected two entries, got %d", reg.Len())
	}
}

func TestRegistryRejectsMismatchedRecordType(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg := watch.NewRegistry()
	defer reg.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/a.out", func(path string) *watch.Watcher[string] {
		return watch.New(path, watch.RawLines(), newWatcherConfig(fs))
	}); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	_, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/a.out", func(path string) *watch.Watcher[int] {
		return watch.New(path, func(line string, emit func(int)) int { return 0 }, newWatcherConfig(fs))
	})
	if err == nil {
		t.Fatal("expected record type mismatch error")
	}
}

func TestRegistryCloseStopsWatchers(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg := watch.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := watch.GetOrCreate(ctx, reg, watch.KindRawLines, "/results/closing.out", func(path string) *watch.Watcher[string] {
		return watch.New(path, watch.RawLines(), newWatcherConfig(fs))
	})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	reg.Close()
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry after Close, got %d", reg.Len())
	}
	// Stop after Close is a no-op, not a deadlock.
	w.Stop()
}
