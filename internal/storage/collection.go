package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const DefaultRetries = 5

type Options struct {
	// Retries bounds the compare-and-swap loop in Update.
	Retries int
	Logger  *zap.Logger
}

// Collection is a typed JSON array stored under one key. Records that fail to
// decode or fail their `validate` tags make the whole collection read as
// empty; the bad blob is overwritten by the next successful write.
type Collection[T any] struct {
	gw       Gateway
	key      string
	retries  int
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCollection[T any](gw Gateway, key string, opts Options) *Collection[T] {
	if opts.Retries < 1 {
		opts.Retries = DefaultRetries
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Collection[T]{
		gw:       gw,
		key:      key,
		retries:  opts.Retries,
		logger:   opts.Logger.With(zap.String("key", key)),
		validate: validator.New(),
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Get returns the stored items and their version. Missing or malformed data
// yields an empty collection; only transport failures are returned as errors.
func (c *Collection[T]) Get(ctx context.Context) ([]T, int64, error) {
	rec, err := c.gw.Load(ctx, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", c.key, err)
	}
	return c.decode(rec), rec.Version, nil
}

// Set overwrites the collection regardless of what is stored.
func (c *Collection[T]) Set(ctx context.Context, items []T) error {
	_, _, err := c.Update(ctx, func([]T) ([]T, error) {
		return items, nil
	})
	return err
}

// Update applies fn to the freshly loaded collection and saves the result
// with compare-and-swap, reloading and reapplying fn on conflict. An error
// from fn aborts without writing. fn must be free of side effects since it
// may run more than once. The returned version is the one just written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, int64, error) {
	for attempt := 1; attempt <= c.retries; attempt++ {
		items, version, err := c.Get(ctx)
		if err != nil {
			return nil, 0, err
		}

		next, err := fn(items)
		if err != nil {
			return nil, 0, err
		}
		if next == nil {
			next = []T{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s: %w", c.key, err)
		}

		written, err := c.gw.Save(ctx, c.key, data, version)
		if err == nil {
			return next, written, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, 0, fmt.Errorf("save %s: %w", c.key, err)
		}

		c.logger.Debug("storage version conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Int64("version", version),
		)
	}

	c.logger.Warn("storage update gave up after repeated conflicts", zap.Int("retries", c.retries))
	return nil, 0, ErrContention
}

// Subscribe registers fn for changes made to this collection by any context.
func (c *Collection[T]) Subscribe(ctx context.Context, fn func()) (func(), error) {
	return c.gw.Subscribe(ctx, c.key, func(string) { fn() })
}

func (c *Collection[T]) decode(rec Record) []T {
	if len(rec.Data) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(rec.Data, &items); err != nil {
		c.logger.Warn("malformed persisted data, treating as empty", zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	for i := range items {
		err := c.validate.Struct(&items[i])
		var invalid *validator.InvalidValidationError
		if err == nil || errors.As(err, &invalid) {
			continue
		}
		c.logger.Warn("persisted data failed shape validation, treating as empty",
			zap.Int("index", i),
			zap.Error(err),
		)
		return []T{}
	}
	return items
}
