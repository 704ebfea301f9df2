package producer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-storefront/internal/messaging"
	mockMessaging "go-storefront/internal/mock/messaging"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, "storefront.events")

	err := p.Publish(context.Background(), messaging.Event{
		Type:          messaging.EventCartUpdated,
		AggregateType: messaging.AggregateCart,
		Key:           "session-1",
		Payload:       []byte(`{"count":2}`),
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "storefront.events", msg.Topic)
	assert.Equal(t, "session-1", string(msg.Key))
	assert.JSONEq(t, `{"count":2}`, string(msg.Value))
	assert.Equal(t, []kafka.Header{
		{Key: "event_type", Value: []byte("CART_UPDATED")},
		{Key: "aggregate_type", Value: []byte("CART")},
	}, msg.Headers)
}

func TestPublisher_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := NewPublisher(w, "storefront.events")

	err := p.Publish(context.Background(), messaging.Event{Type: messaging.EventCartUpdated})
	assert.EqualError(t, err, "broker unavailable")
}

func newTestDispatcher(next messaging.Publisher, size int) *Dispatcher {
	d := NewDispatcher(next, size, nil)
	d.backoff = time.Millisecond
	return d
}

func TestDispatcher_RetriesThenDelivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mockMessaging.NewMockPublisher(ctrl)
	e := messaging.Event{Type: messaging.EventWishlistUpdated, Key: "s1"}

	gomock.InOrder(
		next.EXPECT().Publish(gomock.Any(), e).Return(errors.New("timeout")),
		next.EXPECT().Publish(gomock.Any(), e).Return(nil),
	)

	d := newTestDispatcher(next, 4)
	d.deliver(context.Background(), e)
}

func TestDispatcher_DropsAfterMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mockMessaging.NewMockPublisher(ctrl)

	next.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("timeout")).Times(3)

	d := newTestDispatcher(next, 4)
	d.deliver(context.Background(), messaging.Event{Type: messaging.EventCartUpdated})
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := newTestDispatcher(messaging.NopPublisher{}, 1)

	require.NoError(t, d.Publish(context.Background(), messaging.Event{Key: "a"}))
	assert.ErrorIs(t, d.Publish(context.Background(), messaging.Event{Key: "b"}), ErrQueueFull)
}

func TestDispatcher_RunDrainsOnShutdown(t *testing.T) {
	w := &recordingWriter{}
	d := newTestDispatcher(NewPublisher(w, "t"), 8)

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, d.Publish(context.Background(), messaging.Event{Key: key}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.msgs, 3)
}
