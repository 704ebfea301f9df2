package wishlist_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-storefront/internal/catalog"
	"go-storefront/internal/messaging"
	messagingMock "go-storefront/internal/mock/messaging"
	"go-storefront/internal/storage"
	"go-storefront/internal/storage/memory"
	"go-storefront/internal/wishlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newWishlistService(publisher messaging.Publisher) wishlist.Service {
	return wishlist.NewService(
		memory.New(),
		catalog.NewMemoryRepository(hoodie()),
		publisher,
		storage.Options{},
		nil,
	)
}

func TestWishlistService_Toggle(t *testing.T) {
	ctx := context.Background()
	svc := newWishlistService(nil)
	sid := uuid.NewString()

	t.Run("add_by_slug", func(t *testing.T) {
		res, err := svc.Toggle(ctx, sid, "zip-hoodie")
		require.NoError(t, err)
		assert.Equal(t, wishlist.ToggleResponse{ProductID: "p2", InWishlist: true, ItemCount: 1}, res)

		has, err := svc.Has(ctx, sid, "p2")
		require.NoError(t, err)
		assert.True(t, has.InWishlist)
	})

	t.Run("remove_by_id", func(t *testing.T) {
		res, err := svc.Toggle(ctx, sid, "p2")
		require.NoError(t, err)
		assert.False(t, res.InWishlist)
		assert.Equal(t, 0, res.ItemCount)
	})

	t.Run("unknown_product", func(t *testing.T) {
		_, err := svc.Toggle(ctx, sid, "missing")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("blank_product", func(t *testing.T) {
		_, err := svc.Toggle(ctx, sid, " ")
		assert.ErrorIs(t, err, wishlist.ErrInvalidProductID)
	})

	t.Run("invalid_session", func(t *testing.T) {
		_, err := svc.Toggle(ctx, "guest", "p2")
		assert.ErrorIs(t, err, wishlist.ErrInvalidSession)
	})
}

func TestWishlistService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newWishlistService(nil)
	sid := uuid.NewString()

	_, err := svc.Toggle(ctx, sid, "p2")
	require.NoError(t, err)

	list, err := svc.List(ctx, sid)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "2299", list.Items[0].Price.String())
	assert.Equal(t, 1, list.ItemCount)

	require.NoError(t, svc.Delete(ctx, sid, "zip-hoodie"))
	require.NoError(t, svc.Delete(ctx, sid, "p2"))

	has, err := svc.Has(ctx, sid, "p2")
	require.NoError(t, err)
	assert.False(t, has.InWishlist)

	has, err = svc.Has(ctx, sid, "never-existed")
	require.NoError(t, err)
	assert.False(t, has.InWishlist)
}

func TestWishlistService_PublishesUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := messagingMock.NewMockPublisher(ctrl)
	svc := newWishlistService(publisher)
	sid := uuid.NewString()

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e messaging.Event) error {
			assert.Equal(t, messaging.EventWishlistUpdated, e.Type)
			assert.Equal(t, sid, e.Key)

			var payload messaging.WishlistUpdatedPayload
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, []string{"p2"}, payload.ProductIDs)
			return nil
		})

	_, err := svc.Toggle(context.Background(), sid, "p2")
	require.NoError(t, err)
}
