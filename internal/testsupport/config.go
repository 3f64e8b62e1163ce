package testsupport

import (
	"path/filepath"
	"testing"

	"ssxwatch/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test
// and a fast poll interval so tailing tests settle quickly.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Watch.PollIntervalSeconds = 1
	return &cfg
}
