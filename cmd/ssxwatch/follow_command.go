package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ssxwatch/internal/logging"
	"ssxwatch/internal/pia"
	"ssxwatch/internal/watch"
)

func newFollowCommand(cmdCtx *commandContext) *cobra.Command {
	var raw bool
	var idleExit bool
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "follow <path>",
		Short: "Stream records from a result file as they are written",
		Long: "Follow tails a result file, waiting for it to appear if needed,\n" +
			"and prints each record as soon as a complete line lands on disk.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Paths: []string{"stderr"}})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			timeout := cfg.ListenerTimeout()
			if timeoutSeconds > 0 {
				timeout = time.Duration(timeoutSeconds) * time.Second
			}

			registry := watch.NewRegistry()
			defer registry.Close()

			watchCfg := watch.Config{PollInterval: cfg.PollInterval(), Logger: logger}
			out := cmd.OutOrStdout()

			if raw {
				w, err := watch.GetOrCreate(ctx, registry, watch.KindRawLines, args[0], func(path string) *watch.Watcher[string] {
					return watch.New(path, watch.RawLines(), watchCfg)
				})
				if err != nil {
					return err
				}
				return followLoop(ctx, watch.Subscribe(w, 0, logger), timeout, idleExit, func(line string) {
					fmt.Fprintln(out, line)
				})
			}

			w, err := watch.GetOrCreate(ctx, registry, pia.Kind, args[0], func(path string) *watch.Watcher[pia.Record] {
				return watch.New(path, pia.NewParser(logger), watchCfg)
			})
			if err != nil {
				return err
			}
			return followLoop(ctx, watch.Subscribe(w, 0, logger), timeout, idleExit, func(rec pia.Record) {
				fmt.Fprintf(out, "file=%d total=%d filtered=%d\n", rec.FileNumber, rec.SpotsTotal, rec.SpotsFiltered)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Treat the file as plain lines instead of spotfinding results")
	cmd.Flags().BoolVar(&idleExit, "idle-exit", false, "Exit once no new records arrive within the timeout")
	cmd.Flags().IntVarP(&timeoutSeconds, "timeout", "t", 0, "Idle timeout in seconds (defaults to the configured listener timeout)")
	return cmd
}

func followLoop[T any](ctx context.Context, sub *watch.Subscription[T], timeout time.Duration, idleExit bool, print func(T)) error {
	for {
		records, err := sub.Next(ctx, timeout)
		switch {
		case errors.Is(err, watch.ErrTimeout):
			if idleExit {
				return nil
			}
			continue
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}
		for _, rec := range records {
			print(rec)
		}
	}
}
