package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"ssxwatch/internal/archive"
	"ssxwatch/internal/config"
	"ssxwatch/internal/logging"
	"ssxwatch/internal/pia"
	"ssxwatch/internal/watch"
)

// Daemon runs one watcher per configured results file and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *watch.Registry
	archive  *archive.Store

	fs           afero.Fs
	pollInterval time.Duration

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Watchers     int
	ArchivePath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies. The archive
// store may be nil when archiving is disabled.
func New(cfg *config.Config, logger *slog.Logger, archiveStore *archive.Store) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:          cfg,
		logger:       logging.WithComponent(logger, "daemon"),
		registry:     watch.NewRegistry(),
		archive:      archiveStore,
		fs:           afero.NewOsFs(),
		pollInterval: cfg.PollInterval(),
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}, nil
}

// Registry exposes the daemon's watcher registry so in-process consumers
// can subscribe to the same shared watchers.
func (d *Daemon) Registry() *watch.Registry {
	return d.registry
}

// Start acquires the daemon lock and launches a watcher for every
// configured file.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ssxwatchd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for _, wf := range d.cfg.Watch.Files {
		if err := d.startWatch(runCtx, wf); err != nil {
			d.shutdown()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("collector started",
		logging.String("lock", d.lockPath),
		logging.Int("files", len(d.cfg.Watch.Files)),
	)
	return nil
}

func (d *Daemon) startWatch(ctx context.Context, wf config.WatchFile) error {
	watcherConfig := watch.Config{
		FS:           d.fs,
		PollInterval: d.pollInterval,
		Logger:       d.logger,
	}

	switch watch.Kind(wf.Kind) {
	case pia.Kind:
		w, err := watch.GetOrCreate(ctx, d.registry, pia.Kind, wf.Path, func(path string) *watch.Watcher[pia.Record] {
			return watch.New(path, pia.NewParser(d.logger), watcherConfig)
		})
		if err != nil {
			return err
		}
		if d.archive != nil {
			d.wg.Add(1)
			go d.drainIntoArchive(ctx, w, string(pia.Kind), w.Path())
		}
	case watch.KindRawLines:
		// Raw lines are fanned out live but have no archive shape.
		if _, err := watch.GetOrCreate(ctx, d.registry, watch.KindRawLines, wf.Path, func(path string) *watch.Watcher[string] {
			return watch.New(path, watch.RawLines(), watcherConfig)
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("watch.files: unknown kind %q for %s", wf.Kind, wf.Path)
	}

	d.logger.Info("watching results file",
		logging.String(logging.FieldKind, wf.Kind),
		logging.String(logging.FieldPath, wf.Path),
	)
	return nil
}

// drainIntoArchive persists each newly parsed record exactly once. The
// subscription is only a wakeup; the records themselves are read from the
// watcher store by position so a burst of deltas cannot skip or duplicate
// rows.
func (d *Daemon) drainIntoArchive(ctx context.Context, w *watch.Watcher[pia.Record], kind, path string) {
	defer d.wg.Done()

	logger := logging.WithComponent(d.logger, "archiver").With(logging.String(logging.FieldPath, path))
	sub := watch.Subscribe(w, 0, d.logger)

	offset := 0
	for {
		if _, err := sub.Next(ctx, d.cfg.ListenerTimeout()); err != nil {
			if errors.Is(err, watch.ErrTimeout) {
				continue
			}
			// Context cancelled: flush whatever arrived since the last
			// notification and exit.
			d.flush(logger, w, kind, path, &offset)
			return
		}
		d.flush(logger, w, kind, path, &offset)
	}
}

func (d *Daemon) flush(logger *slog.Logger, w *watch.Watcher[pia.Record], kind, path string, offset *int) {
	length := w.Store().Len()
	if length <= *offset {
		return
	}
	records := w.Store().Slice(*offset, length)

	// Use a fresh context: the run context is already cancelled when
	// flushing during shutdown.
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelWrite()
	if err := d.archive.AppendRecords(writeCtx, kind, path, *offset, records); err != nil {
		logger.Warn("archive write failed; will retry on next delta", logging.Error(err))
		return
	}
	logger.Debug("archived records", logging.Int("records", len(records)), logging.Int("offset", *offset))
	*offset = length
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.shutdown()
	d.running.Store(false)
	d.logger.Info("collector stopped")
}

func (d *Daemon) shutdown() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.registry.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.archive != nil {
		return d.archive.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		Watchers:     d.registry.Len(),
		LockFilePath: d.lockPath,
	}
	if d.archive != nil {
		status.ArchivePath = d.archive.Path()
	}
	return status
}
