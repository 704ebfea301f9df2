package app

import (
	"context"
	"errors"

	"go-storefront/internal/catalog"
	"go-storefront/internal/config"
	"go-storefront/internal/messaging"
	"go-storefront/internal/messaging/kafka/producer"
	"go-storefront/internal/middleware"
	"go-storefront/internal/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventQueueSize = 1024

// App holds the wired API process. Run starts its background loops and
// Close releases its connections once the HTTP server has stopped.
type App struct {
	dispatcher *producer.Dispatcher
	closers    []func() error
	logger     *zap.Logger
}

func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	// 1. Catalog
	products, err := catalog.LoadFile(cfg.CatalogFile, logger)
	if err != nil {
		return nil, err
	}

	// 2. Setup Infrastructure
	gw, closeGateway, err := openGateway(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeGateway)

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.KafkaBroker != "" {
		writer, err := connectKafkaWithRetry(ctx, cfg.KafkaBroker, maxConnectRetries, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, writer.Close)
		a.dispatcher = producer.NewDispatcher(producer.NewPublisher(writer, cfg.KafkaTopic), eventQueueSize, logger)
		publisher = a.dispatcher
	} else {
		logger.Info("KAFKA_BROKER not set, domain events are disabled")
	}

	engine := pricing.NewEngine(pricing.DefaultConfig().WithShipping(cfg.FreeShippingThreshold, cfg.FlatShippingFee))

	// 3. Middleware
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
	)

	// 4. Register Modules & Routes
	registerModules(router, cfg, modules{
		gw:        gw,
		products:  products,
		engine:    engine,
		publisher: publisher,
	}, logger)

	return a, nil
}

// Run blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.dispatcher == nil {
		<-ctx.Done()
		return
	}
	a.dispatcher.Run(ctx)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
