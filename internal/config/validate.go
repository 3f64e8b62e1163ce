package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWatch() error {
	if c.Watch.PollIntervalSeconds < 0 {
		return fmt.Errorf("watch.poll_interval_seconds must not be negative, got %d", c.Watch.PollIntervalSeconds)
	}
	if c.Watch.ListenerTimeoutSeconds < 0 {
		return fmt.Errorf("watch.listener_timeout_seconds must not be negative, got %d", c.Watch.ListenerTimeoutSeconds)
	}

	seen := make(map[WatchFile]struct{}, len(c.Watch.Files))
	for i, wf := range c.Watch.Files {
		if strings.TrimSpace(wf.Kind) == "" {
			return fmt.Errorf("watch.files[%d]: kind is required", i)
		}
		if strings.TrimSpace(wf.Path) == "" {
			return fmt.Errorf("watch.files[%d]: path is required", i)
		}
		if _, ok := seen[wf]; ok {
			return fmt.Errorf("watch.files[%d]: duplicate entry for %s %s", i, wf.Kind, wf.Path)
		}
		seen[wf] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
