package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"ssxwatch/internal/logging"
	"ssxwatch/internal/store"
	"ssxwatch/internal/tail"
)

// ParseFunc maps one raw line to zero or more records, emitting each via
// the append callback and returning how many it emitted. Malformed input
// is reported as zero records, never as an error; implementations log and
// move on.
type ParseFunc[T any] func(line string, emit func(T)) int

// Config adjusts watcher behavior. The zero value selects the OS
// filesystem, the default poll interval, and a no-op logger.
type Config struct {
	FS           afero.Fs
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Watcher owns the tail loop, record store, and listener set for one
// results file. Exactly one watcher exists per (kind, path) when obtained
// through a Registry.
type Watcher[T any] struct {
	path   string
	parse  ParseFunc[T]
	tailer *tail.Tailer
	store  *store.Store[T]
	logger *slog.Logger

	// mu serializes batch processing against listener registration so a
	// listener either sees a batch in its registration backlog or in a
	// broadcast delta, never both.
	mu        sync.Mutex
	listeners []*Queue

	lifecycle sync.Mutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New constructs a watcher for one file with the given parser strategy.
// Call Start to begin tailing.
func New[T any](path string, parse ParseFunc[T], cfg Config) *Watcher[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher[T]{
		path:  path,
		parse: parse,
		tailer: tail.New(path, tail.Config{
			FS:           cfg.FS,
			PollInterval: cfg.PollInterval,
			Logger:       logger,
		}),
		store:  store.New[T](),
		logger: logging.WithComponent(logger, "watcher").With(logging.String(logging.FieldPath, path)),
	}
}

// Start launches the tail-and-broadcast loop as a background goroutine.
// The loop runs until ctx is cancelled or Stop is called.
func (w *Watcher[T]) Start(ctx context.Context) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.run(runCtx)
	return nil
}

// Stop cancels the tail loop and waits for it to exit. Pending listener
// queues keep their undelivered deltas.
func (w *Watcher[T]) Stop() {
	w.lifecycle.Lock()
	if !w.running {
		w.lifecycle.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.lifecycle.Unlock()

	cancel()
	w.wg.Wait()
}

// Store exposes the append-only record buffer for read access.
func (w *Watcher[T]) Store() *store.Store[T] {
	return w.store
}

// Path returns the watched file path.
func (w *Watcher[T]) Path() string {
	return w.path
}

// Register adds a listener queue. If fromOffset is behind the current
// store length, the backlog delta is enqueued synchronously before the
// call returns, so a late subscriber learns about existing records
// without waiting for new writes. Registering the same queue twice
// delivers every subsequent delta twice.
func (w *Watcher[T]) Register(q *Queue, fromOffset int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, q)
	if length := w.store.Len(); fromOffset < length {
		q.Put(length - fromOffset)
	}
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer w.wg.Done()

	for batch := range w.tailer.Lines(ctx) {
		w.consume(batch)
	}
	w.logger.Debug("watch loop finished")
}

// consume parses one batch and broadcasts the delta. It holds the
// listener mutex for the whole batch so registration backlog computation
// cannot interleave with the append-then-broadcast sequence.
func (w *Watcher[T]) consume(batch tail.Batch) {
	w.mu.Lock()
	defer w.mu.Unlock()

	newRecords := 0
	for _, line := range batch {
		newRecords += w.parse(line, w.store.Append)
	}
	if newRecords == 0 {
		return
	}

	w.logger.Debug("new records available",
		logging.Int("records", newRecords),
		logging.Int("listeners", len(w.listeners)),
	)
	for _, listener := range w.listeners {
		listener.Put(newRecords)
	}
}
