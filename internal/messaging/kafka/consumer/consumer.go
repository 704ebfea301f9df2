package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type HandlerFunc func(ctx context.Context, payload []byte) error

// Handlers routes messages by their event_type header.
type Handlers map[string]HandlerFunc

// ConsumeMessages runs until ctx is cancelled. Messages whose handler fails
// with a transient error stay uncommitted so they are redelivered; malformed
// payloads and unknown event types are committed and skipped.
func ConsumeMessages(ctx context.Context, reader MessageReader, handlers Handlers, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("started consuming messages")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("stopped consuming messages")
				return
			}
			logger.Error("fetch message failed", zap.Error(err))
			continue
		}

		eventType := getHeader(msg.Headers, "event_type")
		log := logger.With(
			zap.String("event_type", eventType),
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset),
		)

		handle, ok := handlers[eventType]
		if !ok {
			log.Debug("skipping unhandled event")
			commit(ctx, reader, msg, log)
			continue
		}

		if err := handle(ctx, msg.Value); err != nil {
			if permanent(err) {
				log.Warn("dropping malformed event", zap.Error(err))
				commit(ctx, reader, msg, log)
				continue
			}
			log.Error("handle event failed", zap.Error(err))
			continue
		}

		commit(ctx, reader, msg, log)
	}
}

func commit(ctx context.Context, reader MessageReader, msg kafka.Message, logger *zap.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		logger.Error("commit message failed", zap.Error(err))
	}
}

func permanent(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, ErrMissingSession)
}
