package producer

import (
	"context"
	"errors"
	"time"

	"go-storefront/internal/messaging"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("producer: event queue full")

// Dispatcher queues events in memory and publishes them from a background
// loop, so a slow broker never holds up a cart mutation. Events still
// queued when Run returns are flushed with a short deadline.
type Dispatcher struct {
	next       messaging.Publisher
	queue      chan messaging.Event
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewDispatcher(next messaging.Publisher, size int, logger *zap.Logger) *Dispatcher {
	if size < 1 {
		size = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		next:       next,
		queue:      make(chan messaging.Event, size),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     logger.Named("event_dispatcher"),
	}
}

// Publish enqueues without blocking.
func (d *Dispatcher) Publish(_ context.Context, e messaging.Event) error {
	select {
	case d.queue <- e:
		return nil
	default:
		d.logger.Warn("dropping event, queue full",
			zap.String("event_type", e.Type),
			zap.String("key", e.Key),
		)
		return ErrQueueFull
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case e := <-d.queue:
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e messaging.Event) {
	var err error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err = d.next.Publish(ctx, e); err == nil {
			d.logger.Debug("event published",
				zap.String("event_type", e.Type),
				zap.String("key", e.Key),
			)
			return
		}

		d.logger.Warn("publish failed",
			zap.String("event_type", e.Type),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.backoff * time.Duration(attempt)):
		}
	}

	d.logger.Error("event dropped after retries",
		zap.String("event_type", e.Type),
		zap.String("key", e.Key),
		zap.Error(err),
	)
}
