package tail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"

	"ssxwatch/internal/logging"
)

// DefaultPollInterval bounds both the wait for file creation and the wait
// for new bytes once the end of file is reached.
const DefaultPollInterval = time.Second

const readChunkSize = 64 * 1024

// Batch is one group of complete lines discovered in a single read pass,
// in file order, without line terminators.
type Batch []string

// Config adjusts tailer behavior. The zero value selects the OS
// filesystem, the default poll interval, and a no-op logger.
type Config struct {
	FS           afero.Fs
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Tailer incrementally reads one growing file and emits batches of
// complete lines.
type Tailer struct {
	fs     afero.Fs
	path   string
	poll   time.Duration
	logger *slog.Logger
}

// New constructs a tailer for the given path.
func New(path string, cfg Config) *Tailer {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tailer{
		fs:     fs,
		path:   path,
		poll:   poll,
		logger: logger.With(logging.String(logging.FieldComponent, "tailer"), logging.String("path", path)),
	}
}

// Lines starts the tail loop in a background goroutine and returns the
// channel it emits batches on. The channel is closed when ctx is
// cancelled or the file becomes unreadable; cancellation is observed at
// each poll boundary, so shutdown latency is bounded by the poll
// interval. A buffered partial line is dropped on cancellation.
func (t *Tailer) Lines(ctx context.Context) <-chan Batch {
	out := make(chan Batch)
	go t.run(ctx, out)
	return out
}

func (t *Tailer) run(ctx context.Context, out chan<- Batch) {
	defer close(out)

	file, ok := t.awaitFile(ctx)
	if !ok {
		return
	}
	defer file.Close()

	var partial []byte
	buf := make([]byte, readChunkSize)
	for {
		for {
			n, err := file.Read(buf)
			if n > 0 {
				partial = append(partial, buf[:n]...)
				var batch Batch
				batch, partial = splitLines(partial)
				if len(batch) > 0 {
					select {
					case out <- batch:
					case <-ctx.Done():
						return
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					t.logger.Warn("read failed; will retry", logging.Error(err))
				}
				break
			}
			if n == 0 {
				break
			}
		}

		if !sleep(ctx, t.poll) {
			if len(partial) > 0 {
				t.logger.Debug("cancelled with buffered partial line", logging.Int("bytes", len(partial)))
			}
			return
		}
	}
}

// awaitFile polls for file existence until the file appears or ctx is
// cancelled. It returns the opened file and whether tailing should begin.
func (t *Tailer) awaitFile(ctx context.Context) (afero.File, bool) {
	for {
		exists, err := afero.Exists(t.fs, t.path)
		if err != nil {
			t.logger.Warn("existence check failed; will retry", logging.Error(err))
		} else if exists {
			break
		} else {
			t.logger.Debug("file does not exist yet, waiting for creation")
		}
		if !sleep(ctx, t.poll) {
			t.logger.Debug("cancelled before file appeared")
			return nil, false
		}
	}

	file, err := t.fs.Open(t.path)
	if err != nil {
		t.logger.Error("open failed after file appeared", logging.Error(err))
		return nil, false
	}
	return file, true
}

// splitLines separates the accumulated bytes into complete lines and the
// unterminated remainder. Terminators are stripped; an empty remainder is
// returned as nil so the buffer does not pin the previous read's backing
// array.
func splitLines(data []byte) (Batch, []byte) {
	last := -1
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] == '\n' {
			last = i
			break
		}
	}
	if last < 0 {
		return nil, data
	}

	complete := string(data[:last])
	var rest []byte
	if last+1 < len(data) {
		rest = append(rest, data[last+1:]...)
	}

	lines := strings.Split(complete, "\n")
	batch := make(Batch, 0, len(lines))
	for _, line := range lines {
		batch = append(batch, strings.TrimSuffix(line, "\r"))
	}
	return batch, rest
}

// sleep waits for the given duration and reports false if ctx was
// cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
