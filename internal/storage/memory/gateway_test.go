package memory_test

import (
	"context"
	"testing"
	"time"

	"go-storefront/internal/storage"
	"go-storefront/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_LoadMissingKey(t *testing.T) {
	gw := memory.New()

	rec, err := gw.Load(context.Background(), "s1:cart")
	require.NoError(t, err)
	assert.False(t, rec.Exists())
	assert.Nil(t, rec.Data)
}

func TestGateway_SaveIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	gw := memory.New()

	v1, err := gw.Save(ctx, "k", []byte(`[1]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	_, err = gw.Save(ctx, "k", []byte(`[2]`), 0)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	v2, err := gw.Save(ctx, "k", []byte(`[3]`), v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	rec, err := gw.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(rec.Data))
	assert.Equal(t, int64(2), rec.Version)
}

func TestGateway_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	gw := memory.New()
	_, err := gw.Save(ctx, "k", []byte(`abc`), 0)
	require.NoError(t, err)

	rec, _ := gw.Load(ctx, "k")
	rec.Data[0] = 'z'

	again, _ := gw.Load(ctx, "k")
	assert.Equal(t, "abc", string(again.Data))
}

func TestGateway_Subscribe(t *testing.T) {
	ctx := context.Background()
	gw := memory.New()

	got := make(chan string, 4)
	cancel, err := gw.Subscribe(ctx, "s1:cart", func(key string) { got <- key })
	require.NoError(t, err)

	_, err = gw.Save(ctx, "s1:wishlist", []byte(`[]`), 0)
	require.NoError(t, err)
	_, err = gw.Save(ctx, "s1:cart", []byte(`[]`), 0)
	require.NoError(t, err)

	select {
	case key := <-got:
		assert.Equal(t, "s1:cart", key)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}

	cancel()
	assert.Equal(t, 0, gw.Subscribers("s1:cart"))

	_, err = gw.Save(ctx, "s1:cart", []byte(`[]`), 1)
	require.NoError(t, err)

	select {
	case key := <-got:
		t.Fatalf("unexpected notification for %s after cancel", key)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGateway_SubscribeCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gw := memory.New()

	_, err := gw.Subscribe(ctx, "k", func(string) {})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.Subscribers("k"))

	cancel()
	assert.Eventually(t, func() bool { return gw.Subscribers("k") == 0 }, time.Second, 5*time.Millisecond)
}
