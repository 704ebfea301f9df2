package events

import (
	"context"
	"io"
	"net/http"
	"time"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/response"
	"go-storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	EventCartUpdated     = "cart-updated"
	EventWishlistUpdated = "wishlist-updated"
	EventReady           = "ready"
	EventPing            = "ping"

	DefaultHeartbeat = 25 * time.Second
)

// Counter reports the badge counts pushed with each event.
type Counter interface {
	CartCount(ctx context.Context, sessionID string) (int, error)
	WishlistCount(ctx context.Context, sessionID string) (int, error)
}

type CountPayload struct {
	Count int `json:"count"`
}

// Handler streams change notifications for the caller's cart and wishlist
// as server-sent events, replacing client-side polling of the header badges.
type Handler struct {
	gw        storage.Gateway
	counter   Counter
	heartbeat time.Duration
	logger    *zap.Logger
}

func NewHandler(gw storage.Gateway, counter Counter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		gw:        gw,
		counter:   counter,
		heartbeat: DefaultHeartbeat,
		logger:    logger.Named("events"),
	}
}

func (h *Handler) WithHeartbeat(d time.Duration) *Handler {
	h.heartbeat = d
	return h
}

func (h *Handler) Stream(c *gin.Context) {
	sid := middleware.SessionID(c)
	ctx := c.Request.Context()

	cartKey := storage.Key(sid, storage.CollectionCart)
	wishlistKey := storage.Key(sid, storage.CollectionWishlist)

	changes := make(chan string, 8)
	signal := func(key string) {
		select {
		case changes <- key:
		default:
		}
	}

	for _, key := range []string{cartKey, wishlistKey} {
		cancel, err := h.gw.Subscribe(ctx, key, signal)
		if err != nil {
			h.logger.Error("subscribe failed", zap.String("key", key), zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Change stream unavailable", nil)
			return
		}
		defer cancel()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent(EventReady, gin.H{"sessionId": sid})
	c.Writer.Flush()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case key := <-changes:
			switch key {
			case cartKey:
				h.emit(c, EventCartUpdated, h.counter.CartCount, sid)
			case wishlistKey:
				h.emit(c, EventWishlistUpdated, h.counter.WishlistCount, sid)
			}
			return true
		case <-ticker.C:
			c.SSEvent(EventPing, "")
			return true
		}
	})
}

func (h *Handler) emit(c *gin.Context, name string, count func(context.Context, string) (int, error), sid string) {
	n, err := count(c.Request.Context(), sid)
	if err != nil {
		h.logger.Warn("count for event failed", zap.String("event", name), zap.Error(err))
		c.SSEvent(name, gin.H{})
		return
	}
	c.SSEvent(name, CountPayload{Count: n})
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/events", handler.Stream)
}
