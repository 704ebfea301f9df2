package app

import (
	"context"
	"fmt"

	"go-storefront/internal/config"
	"go-storefront/internal/storage"
	"go-storefront/internal/storage/memory"
	"go-storefront/internal/storage/postgres"
	"go-storefront/internal/storage/redisstore"

	"go.uber.org/zap"
)

const redisKeyPrefix = "storefront:"

// openGateway picks the persistence backend named by STORAGE_DRIVER. The
// returned close func releases whatever connections the backend holds.
func openGateway(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Gateway, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, state is lost on restart")
		return memory.New(), func() error { return nil }, nil

	case config.StorageRedis:
		rdb, err := connectRedisWithRetry(ctx, cfg.RedisAddr, maxConnectRetries, logger)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(rdb, redisKeyPrefix, logger), rdb.Close, nil

	case config.StoragePostgres:
		db, err := connectDBWithRetry(ctx, cfg.DBURL, maxConnectRetries, logger)
		if err != nil {
			return nil, nil, err
		}
		gw := postgres.New(db, cfg.DBURL, logger)
		return gw, func() error {
			_ = gw.Close()
			return db.Close()
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
