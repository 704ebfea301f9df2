package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go-storefront/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	fieldData    = "data"
	fieldVersion = "version"
)

// Gateway stores each record as a hash {data, version} and publishes the key
// on a per-key channel after every successful write.
type Gateway struct {
	rdb    redis.UniversalClient
	prefix string
	logger *zap.Logger
}

func New(rdb redis.UniversalClient, prefix string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.Named("redis_gateway"),
	}
}

func (g *Gateway) hashKey(key string) string {
	return g.prefix + "state:" + key
}

func (g *Gateway) channel(key string) string {
	return g.prefix + "changed:" + key
}

func (g *Gateway) Load(ctx context.Context, key string) (storage.Record, error) {
	vals, err := g.rdb.HMGet(ctx, g.hashKey(key), fieldData, fieldVersion).Result()
	if err != nil {
		return storage.Record{}, fmt.Errorf("redis hmget: %w", err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return storage.Record{}, nil
	}

	data, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return storage.Record{}, fmt.Errorf("redis version for %s: %w", key, err)
	}
	return storage.Record{Data: []byte(data), Version: version}, nil
}

func (g *Gateway) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	hk := g.hashKey(key)
	var next int64

	err := g.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, hk, fieldVersion).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != expectedVersion {
			return storage.ErrVersionConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hk, fieldData, data, fieldVersion, next)
			return nil
		})
		return err
	}, hk)

	switch {
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, storage.ErrVersionConflict):
		return 0, storage.ErrVersionConflict
	case err != nil:
		return 0, fmt.Errorf("redis save: %w", err)
	}

	if err := g.rdb.Publish(ctx, g.channel(key), key).Err(); err != nil {
		g.logger.Warn("failed to publish change", zap.String("key", key), zap.Error(err))
	}
	return next, nil
}

func (g *Gateway) Subscribe(ctx context.Context, key string, fn func(string)) (func(), error) {
	pubsub := g.rdb.Subscribe(ctx, g.channel(key))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	ch := pubsub.Channel()
	go func() {
		for msg := range ch {
			fn(msg.Payload)
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				g.logger.Debug("pubsub close", zap.String("key", key), zap.Error(err))
			}
		})
	}

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			cancel()
		}()
	}
	return cancel, nil
}
