package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-storefront/internal/app"
	"go-storefront/internal/config"
	"go-storefront/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl := logger.Must(cfg.AppEnv)
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if cfg.KafkaBroker == "" {
		zl.Fatal("KAFKA_BROKER is required for the cart consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsumer(ctx, cfg, zl); err != nil {
		zl.Fatal("consumer failed", zap.Error(err))
	}
}
