package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ssxwatch/internal/archive"
	"ssxwatch/internal/config"
	"ssxwatch/internal/daemon"
	"ssxwatch/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	var store *archive.Store
	if cfg.Archive.Enabled {
		store, err = archive.Open(cfg)
		if err != nil {
			logger.Error("open archive", logging.Error(err))
			return
		}
	}

	d, err := daemon.New(cfg, logger, store)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("ssxwatchd shutting down")
}
