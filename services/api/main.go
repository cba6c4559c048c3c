package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/YASHK-arch/heavy-metal-compass/internal/logging"
	"github.com/YASHK-arch/heavy-metal-compass/services/api/config"
	httpserver "github.com/YASHK-arch/heavy-metal-compass/services/api/http"
	"github.com/YASHK-arch/heavy-metal-compass/services/api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatal("config error", zap.Error(err))
	}

	if err := logging.Initialize(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}); err != nil {
		logging.Logger.Fatal("logging setup error", zap.Error(err))
	}
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	standards, err := cfg.Standards()
	if err != nil {
		logging.Logger.Fatal("standards error", zap.Error(err))
	}

	srv := httpserver.New(cfg, store.New(), standards)
	logging.Logger.Info("REST API listening",
		zap.String("addr", cfg.ListenAddr()),
		zap.Int("standards", len(standards)),
		zap.Int("workers", cfg.Workers),
	)

	if err := srv.Run(ctx); err != nil {
		logging.Logger.Fatal("server error", zap.Error(err))
	}
}
