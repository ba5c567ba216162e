package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/tablejack/internal/app"
	"github.com/fadedpez/tablejack/internal/config"
	"github.com/fadedpez/tablejack/internal/logging"
)

// ServeCmd runs the HTTP and websocket server. Settings come from the
// environment; flags override the few worth changing per run.
type ServeCmd struct {
	Addr  string `kong:"help='Listen address (overrides LISTEN_ADDR)'"`
	Rules string `kong:"type='path',help='Table rules HCL file (overrides TABLEJACK_RULES)'"`
}

func (c *ServeCmd) Run(logger *logging.Logger) error {
	if c.Rules != "" {
		if err := os.Setenv("TABLEJACK_RULES", c.Rules); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.ListenAddr = c.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting tablejack %s (%s, storage %s)", version, cfg.Environment, cfg.StorageType)
	return a.Run(ctx)
}
