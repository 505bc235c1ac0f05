package cmd

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/sagechat/sage/internal/api"
	"github.com/sagechat/sage/internal/app"
	"github.com/sagechat/sage/internal/config"
	"github.com/sagechat/sage/internal/log"
)

// runServe starts the HTTP API server.
func runServe(logger log.Logger, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := api.DefaultAddr
	if len(args) > 0 {
		if _, _, err := net.SplitHostPort(args[0]); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", args[0], err)
		}
		addr = args[0]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting HTTP API server", "version", Version)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	server := api.NewServer(a.DBPool, a.Sessions, logger.With("component", "api"))
	return server.Run(ctx, addr)
}
