package cart_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/messaging"
	messagingMock "go-storefront/internal/mock/messaging"
	"go-storefront/internal/pricing"
	"go-storefront/internal/storage"
	"go-storefront/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T, publisher messaging.Publisher) (cart.Service, *memory.Gateway) {
	t.Helper()
	gw := memory.New()
	svc := cart.NewService(
		gw,
		catalog.NewMemoryRepository(teeProduct()),
		pricing.NewEngine(pricing.DefaultConfig()),
		publisher,
		storage.Options{Retries: 3},
		nil,
	)
	return svc, gw
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("by_variant_id", func(t *testing.T) {
		svc, _ := newService(t, nil)
		sid := uuid.NewString()

		res, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", VariantID: "v3", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "p1-v3", res.ID)
		assert.Equal(t, "4000", res.LineTotal.String())
	})

	t.Run("by_size_and_colour_case_insensitive", func(t *testing.T) {
		svc, _ := newService(t, nil)
		sid := uuid.NewString()

		res, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", Size: "l", Colour: " red ", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "v3", res.VariantID)
	})

	t.Run("defaults_to_initial_selection", func(t *testing.T) {
		svc, _ := newService(t, nil)
		sid := uuid.NewString()

		res, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "v1", res.VariantID)
	})

	t.Run("unknown_pair", func(t *testing.T) {
		svc, _ := newService(t, nil)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "p1", Size: "XL", Colour: "Red", Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrVariantNotFound)
	})

	t.Run("unknown_product", func(t *testing.T) {
		svc, _ := newService(t, nil)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "nope", Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("out_of_stock_pair", func(t *testing.T) {
		svc, _ := newService(t, nil)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "p1", VariantID: "v2", Quantity: 1})
		assert.ErrorIs(t, err, cart.ErrNoPurchasableVariant)
	})

	t.Run("invalid_session", func(t *testing.T) {
		svc, _ := newService(t, nil)

		_, err := svc.AddItem(ctx, "not-a-uuid", cart.AddItemRequest{ProductID: "p1", Quantity: 1})
		assert.ErrorIs(t, err, cart.ErrInvalidSession)
	})
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)
	a, b := uuid.NewString(), uuid.NewString()

	_, err := svc.AddItem(ctx, a, cart.AddItemRequest{ProductID: "p1", VariantID: "v1", Quantity: 2})
	require.NoError(t, err)

	countA, err := svc.Count(ctx, a)
	require.NoError(t, err)
	countB, err := svc.Count(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, 2, countA)
	assert.Equal(t, 0, countB)
}

func TestCartService_Detail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)
	sid := uuid.NewString()

	_, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", VariantID: "v1", Quantity: 1})
	require.NoError(t, err)

	res, err := svc.Detail(ctx, sid)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "1000", res.Pricing.Subtotal.String())
	assert.Equal(t, "99", res.Pricing.ShippingFee.String())
	assert.Equal(t, "1099", res.Pricing.Total.String())
}

func TestCartService_LineOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)
	sid := uuid.NewString()

	_, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", VariantID: "v3", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQty(ctx, sid, "p1-v3", cart.UpdateQtyRequest{Quantity: 4}))
	require.NoError(t, svc.Increment(ctx, sid, "p1-v3"))
	require.NoError(t, svc.Decrement(ctx, sid, "p1-v3"))

	count, err := svc.Count(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.ErrorIs(t, svc.UpdateQty(ctx, sid, "p1-v3", cart.UpdateQtyRequest{Quantity: 6}), cart.ErrInsufficientStock)

	require.NoError(t, svc.DeleteItem(ctx, sid, "p1-v3"))
	count, err = svc.Count(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCartService_PublishesCartUpdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := messagingMock.NewMockPublisher(ctrl)
	svc, _ := newService(t, publisher)
	ctx := context.Background()
	sid := uuid.NewString()

	var events []messaging.Event
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e messaging.Event) error {
			events = append(events, e)
			return nil
		}).
		Times(2)

	_, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "p1", VariantID: "v1", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, sid))

	require.Len(t, events, 2)
	assert.Equal(t, messaging.EventCartUpdated, events[0].Type)
	assert.Equal(t, messaging.AggregateCart, events[0].AggregateType)
	assert.Equal(t, sid, events[0].Key)

	var payload messaging.CartUpdatedPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "1099", payload.Total)

	require.NoError(t, json.Unmarshal(events[1].Payload, &payload))
	assert.Equal(t, 0, payload.Count)
}

func TestCartService_FailedMutationPublishesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := messagingMock.NewMockPublisher(ctrl)
	svc, _ := newService(t, publisher)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.AddItem(context.Background(), uuid.NewString(), cart.AddItemRequest{ProductID: "p1", VariantID: "v1", Quantity: 9})
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
}

func TestCartService_AddItemSingleDimension(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	res, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "p1", Size: "L", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "v3", res.VariantID)

	_, err = svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "p1", Colour: "Blue", Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrNoPurchasableVariant)

	_, err = svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ProductID: "p1", Colour: "Green", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrVariantNotFound)
}
