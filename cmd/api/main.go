package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-storefront/internal/app"
	"go-storefront/internal/bootstrap"
	"go-storefront/internal/config"
	"go-storefront/internal/pkg/logger"

	"github.com/gin-gonic/gin"
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// build dependency + routes
	a, err := app.BuildApp(ctx, r, cfg, zl)
	if err != nil {
		zl.Fatal("build app failed", zap.Error(err))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Run(ctx)
	}()

	err = bootstrap.StartHTTPServer(ctx, r, bootstrap.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}, zl)
	if err != nil {
		zl.Error("http server error", zap.Error(err))
	}

	stop()
	wg.Wait()
	if err := a.Close(); err != nil {
		zl.Error("close app failed", zap.Error(err))
	}
}
