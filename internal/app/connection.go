package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const maxConnectRetries = 5

var retryDelay = 5 * time.Second

func connectDBWithRetry(ctx context.Context, dsn string, maxRetries int, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.PingContext(ctx)
			if err == nil {
				logger.Info("connected to database")
				return db, nil
			}
			_ = db.Close()
		}

		logger.Warn("database connect failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if !sleep(ctx, retryDelay) {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("connect database: %w", err)
}

func connectRedisWithRetry(ctx context.Context, addr string, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	var err error
	for i := 1; i <= maxRetries; i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			logger.Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}

		logger.Warn("redis connect failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if !sleep(ctx, retryDelay) {
			break
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("connect redis: %w", err)
}

// connectKafkaWithRetry returns a writer without a default topic; each
// message names its own.
func connectKafkaWithRetry(ctx context.Context, broker string, maxRetries int, logger *zap.Logger) (*kafka.Writer, error) {
	var err error
	for i := 1; i <= maxRetries; i++ {
		var conn *kafka.Conn
		conn, err = kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			logger.Info("connected to kafka", zap.String("broker", broker))
			return &kafka.Writer{
				Addr:         kafka.TCP(broker),
				Balancer:     &kafka.Hash{},
				RequiredAcks: kafka.RequireOne,
			}, nil
		}

		logger.Warn("kafka connect failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if !sleep(ctx, retryDelay) {
			break
		}
	}

	return nil, fmt.Errorf("connect kafka: %w", err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
