package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagechat/sage/internal/app"
	"github.com/sagechat/sage/internal/config"
	"github.com/sagechat/sage/internal/log"
)

// runIngest loads a JSONL passage corpus into the knowledge store.
func runIngest(logger log.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sage ingest <file.jsonl>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	receipt, err := a.NewIngestPipeline().Run(ctx, f)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	fmt.Printf("Ingested %d passages from %s\n", receipt.Inserted, args[0])
	return nil
}
