package app

import (
	"context"

	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/config"
	"go-storefront/internal/messaging"
	"go-storefront/internal/messaging/kafka/consumer"
	"go-storefront/internal/pricing"
	"go-storefront/internal/storage"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer clears carts when the order service reports a completed
// checkout. It blocks until ctx is cancelled.
func RunConsumer(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger = logger.Named("consumer")
	logger.Info("starting cart consumer")

	// 1. Connect to storage
	gw, closeGateway, err := openGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeGateway() }()

	products, err := catalog.LoadFile(cfg.CatalogFile, logger)
	if err != nil {
		return err
	}

	engine := pricing.NewEngine(pricing.DefaultConfig().WithShipping(cfg.FreeShippingThreshold, cfg.FlatShippingFee))
	cartService := cart.NewService(gw, products, engine, nil, storage.Options{Retries: cfg.StorageCASRetries}, logger)

	// 2. Setup Kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaConsumerGroup,
	})
	defer reader.Close()
	logger.Info("kafka reader initialized",
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaConsumerGroup),
	)

	// 3. Start consuming
	consumer.ConsumeMessages(ctx, reader, consumer.Handlers{
		messaging.EventDeleteCart: consumer.DeleteCartHandler(cartService, logger),
	}, logger)

	logger.Info("cart consumer stopped")
	return nil
}
