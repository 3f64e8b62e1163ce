package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// Kind identifies a parser strategy, and with a path forms the identity of
// a watched file.
type Kind string

// Key is the registry identity of one watched file.
type Key struct {
	Kind Kind
	Path string
}

type stoppable interface {
	Stop()
}

// Registry shares one started Watcher per (kind, normalized path). It is
// an explicit value owned by the application rather than package-level
// state; construct one at startup and pass it to whatever creates
// subscriptions. Entries are never evicted.
type Registry struct {
	mu       sync.Mutex
	watchers map[Key]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{watchers: make(map[Key]any)}
}

// GetOrCreate returns the shared watcher for (kind, path). On first lookup
// it constructs one via create and starts it under ctx; subsequent lookups
// reuse the same instance and ignore create. Lookups never fail for a
// missing file: the new watcher simply polls until the path appears.
func GetOrCreate[T any](ctx context.Context, r *Registry, kind Kind, path string, create func(path string) *Watcher[T]) (*Watcher[T], error) {
	normalized, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("normalize path %q: %w", path, err)
	}
	key := Key{Kind: kind, Path: normalized}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.watchers[key]; ok {
		watcher, ok := existing.(*Watcher[T])
		if !ok {
			return nil, fmt.Errorf("watcher for %s %s holds a different record type", kind, normalized)
		}
		return watcher, nil
	}

	watcher := create(normalized)
	if err := watcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("start watcher for %s %s: %w", kind, normalized, err)
	}
	r.watchers[key] = watcher
	return watcher, nil
}

// Len returns the number of live watchers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watchers)
}

// Close stops every watcher. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	watchers := make([]any, 0, len(r.watchers))
	for _, w := range r.watchers {
		watchers = append(watchers, w)
	}
	r.watchers = make(map[Key]any)
	r.mu.Unlock()

	for _, w := range watchers {
		if s, ok := w.(stoppable); ok {
			s.Stop()
		}
	}
}
