package redisstore_test

import (
	"context"
	"testing"
	"time"

	"go-storefront/internal/storage"
	"go-storefront/internal/storage/redisstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGateway(t *testing.T) (*redisstore.Gateway, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redisstore.New(rdb, "test:", nil), mr
}

func TestRedisGateway_LoadMissing(t *testing.T) {
	gw, _ := setupGateway(t)

	rec, err := gw.Load(context.Background(), "s1:cart")
	require.NoError(t, err)
	assert.False(t, rec.Exists())
}

func TestRedisGateway_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	gw, mr := setupGateway(t)

	v, err := gw.Save(ctx, "s1:cart", []byte(`[{"id":"a"}]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	rec, err := gw.Load(ctx, "s1:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(rec.Data))
	assert.Equal(t, int64(1), rec.Version)

	assert.Equal(t, "1", mr.HGet("test:state:s1:cart", "version"))
}

func TestRedisGateway_StaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	_, err := gw.Save(ctx, "k", []byte(`[]`), 0)
	require.NoError(t, err)

	_, err = gw.Save(ctx, "k", []byte(`[1]`), 0)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	v, err := gw.Save(ctx, "k", []byte(`[1]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestRedisGateway_SubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	got := make(chan string, 1)
	cancel, err := gw.Subscribe(ctx, "s1:wishlist", func(key string) { got <- key })
	require.NoError(t, err)
	defer cancel()

	_, err = gw.Save(ctx, "s1:wishlist", []byte(`[]`), 0)
	require.NoError(t, err)

	select {
	case key := <-got:
		assert.Equal(t, "s1:wishlist", key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestRedisGateway_WithCollection(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	type row struct {
		ID string `json:"id" validate:"required"`
	}
	col := storage.NewCollection[row](gw, "s2:cart", storage.Options{})

	require.NoError(t, col.Set(ctx, []row{{ID: "a"}, {ID: "b"}}))

	items, version, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a"}, {ID: "b"}}, items)
	assert.Equal(t, int64(1), version)
}
