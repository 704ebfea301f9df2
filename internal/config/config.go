package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config is the process configuration, read from the environment (and an
// optional .env file) at startup.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	StorageDriver     string `env:"STORAGE_DRIVER" envDefault:"memory"`
	StorageCASRetries int    `env:"STORAGE_CAS_RETRIES" envDefault:"5"`
	RedisAddr         string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DBURL             string `env:"DB_URL"`

	KafkaBroker        string `env:"KAFKA_BROKER"`
	KafkaTopic         string `env:"KAFKA_TOPIC" envDefault:"storefront.events"`
	KafkaConsumerGroup string `env:"KAFKA_CONSUMER_GROUP" envDefault:"storefront-cart-consumer"`

	CatalogFile string `env:"CATALOG_FILE" envDefault:"catalog.yaml"`

	FreeShippingThreshold int64 `env:"FREE_SHIPPING_THRESHOLD" envDefault:"1999"`
	FlatShippingFee       int64 `env:"FLAT_SHIPPING_FEE" envDefault:"99"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if c.DBURL == "" {
			return fmt.Errorf("config: DB_URL is required for the %q storage driver", c.StorageDriver)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageCASRetries < 1 {
		return fmt.Errorf("config: STORAGE_CAS_RETRIES must be at least 1")
	}
	if c.FreeShippingThreshold < 0 || c.FlatShippingFee < 0 {
		return fmt.Errorf("config: shipping threshold and fee must not be negative")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
