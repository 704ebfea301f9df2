package producer

import (
	"context"

	"go-storefront/internal/messaging"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	writer MessageWriter
	topic  string
}

func NewPublisher(writer MessageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, e messaging.Event) error {
	return p.writer.WriteMessages(ctx, toMessage(p.topic, e))
}

func toMessage(topic string, e messaging.Event) kafka.Message {
	return kafka.Message{
		Topic: topic,
		Key:   []byte(e.Key),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: messaging.HeaderEventType, Value: []byte(e.Type)},
			{Key: messaging.HeaderAggregateType, Value: []byte(e.AggregateType)},
		},
	}
}
