package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ssxwatch/internal/archive"
	"ssxwatch/internal/pia"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "config.toml"),
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[watch]
poll_interval_seconds = 1
listener_timeout_seconds = 1
`, env.dataDir, filepath.Join(base, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "fresh", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestShowListsArchivedRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	watched := filepath.Join(env.baseDir, "run01.out")

	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store, err := archive.OpenPath(filepath.Join(env.dataDir, "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	records := []pia.Record{
		{FileNumber: 1, SpotsTotal: 50, SpotsFiltered: 42},
		{FileNumber: 2, SpotsTotal: 12, SpotsFiltered: 12},
	}
	if err := store.AppendRecords(t.Context(), "pia", watched, 0, records); err != nil {
		t.Fatalf("seed archive: %v", err)
	}
	store.Close()

	out, _, err := runCLI(t, []string{"show"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, watched)
	requireContains(t, out, "Pia")

	out, _, err = runCLI(t, []string{"show", "--path", watched}, env.configPath)
	if err != nil {
		t.Fatalf("show --path: %v", err)
	}
	requireContains(t, out, "1\t50\t42")
	requireContains(t, out, "2\t12\t12")
}

func TestFollowPrintsRecordsThenIdleExits(t *testing.T) {
	env := setupCLITestEnv(t)
	watched := filepath.Join(env.baseDir, "run01.out")
	lines := `{"file-number": 1, "n_spots_total": 50, "n_spots_4A": 42}` + "\n" +
		`{"file-number": 2, "n_spots_total": 12, "n_spots_4A": 12}` + "\n"
	if err := os.WriteFile(watched, []byte(lines), 0o644); err != nil {
		t.Fatalf("write watched file: %v", err)
	}

	out, _, err := runCLI(t, []string{"follow", watched, "--timeout", "1", "--idle-exit"}, env.configPath)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	requireContains(t, out, "file=1 total=50 filtered=42")
	requireContains(t, out, "file=2 total=12 filtered=12")
}

func TestFollowRawLines(t *testing.T) {
	env := setupCLITestEnv(t)
	watched := filepath.Join(env.baseDir, "plain.log")
	if err := os.WriteFile(watched, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write watched file: %v", err)
	}

	out, _, err := runCLI(t, []string{"follow", watched, "--raw", "--timeout", "1", "--idle-exit"}, env.configPath)
	if err != nil {
		t.Fatalf("follow --raw: %v", err)
	}
	requireContains(t, out, "alpha\nbeta\n")
}
