package messaging

import "context"

const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"

	EventCartUpdated     = "CART_UPDATED"
	EventWishlistUpdated = "WISHLIST_UPDATED"
	EventDeleteCart      = "DELETE_CART"

	AggregateCart     = "CART"
	AggregateWishlist = "WISHLIST"
)

// Event is one message on the storefront topic. Key is the session ID so
// all events of a session land on the same partition.
type Event struct {
	Type          string
	AggregateType string
	Key           string
	Payload       []byte
}

//go:generate mockgen -source=events.go -destination=../mock/messaging/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type CartUpdatedPayload struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
	Lines     int    `json:"lines"`
	Subtotal  string `json:"subtotal"`
	Total     string `json:"total"`
}

type WishlistUpdatedPayload struct {
	SessionID  string   `json:"session_id"`
	Count      int      `json:"count"`
	ProductIDs []string `json:"product_ids"`
}

// DeleteCartPayload is emitted by the order service once checkout completes.
type DeleteCartPayload struct {
	SessionID string `json:"session_id"`
}
