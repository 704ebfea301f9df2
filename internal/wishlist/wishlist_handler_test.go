package wishlist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/internal/catalog"
	"go-storefront/internal/middleware"
	"go-storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== FAKE SERVICE ====================

type fakeWishlistService struct {
	listFunc   func(ctx context.Context, sessionID string) (wishlist.WishlistResponse, error)
	toggleFunc func(ctx context.Context, sessionID, productID string) (wishlist.ToggleResponse, error)
	hasFunc    func(ctx context.Context, sessionID, productID string) (wishlist.HasResponse, error)
	deleteFunc func(ctx context.Context, sessionID, productID string) error
}

func (f *fakeWishlistService) List(ctx context.Context, sessionID string) (wishlist.WishlistResponse, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, sessionID)
	}
	return wishlist.WishlistResponse{}, nil
}

func (f *fakeWishlistService) Toggle(ctx context.Context, sessionID, productID string) (wishlist.ToggleResponse, error) {
	if f.toggleFunc != nil {
		return f.toggleFunc(ctx, sessionID, productID)
	}
	return wishlist.ToggleResponse{}, nil
}

func (f *fakeWishlistService) Has(ctx context.Context, sessionID, productID string) (wishlist.HasResponse, error) {
	if f.hasFunc != nil {
		return f.hasFunc(ctx, sessionID, productID)
	}
	return wishlist.HasResponse{}, nil
}

func (f *fakeWishlistService) Delete(ctx context.Context, sessionID, productID string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, sessionID, productID)
	}
	return nil
}

// ==================== HELPER FUNCTIONS ====================

func setupTestRouter(svc wishlist.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middleware.Session())
	wishlist.RegisterRoutes(api, wishlist.NewHandler(svc), func(c *gin.Context) { c.Next() })
	return r
}

func serve(r *gin.Engine, method, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== TESTS ====================

func TestWishlistHandler_Toggle(t *testing.T) {
	sid := uuid.NewString()

	t.Run("added", func(t *testing.T) {
		svc := &fakeWishlistService{
			toggleFunc: func(_ context.Context, sessionID, productID string) (wishlist.ToggleResponse, error) {
				assert.Equal(t, sid, sessionID)
				return wishlist.ToggleResponse{ProductID: productID, InWishlist: true, ItemCount: 1}, nil
			},
		}

		w := serve(setupTestRouter(svc), http.MethodPost, "/api/v1/wishlist/p2/toggle", sid)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Message string                  `json:"message"`
			Data    wishlist.ToggleResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Product added to wishlist", body.Message)
		assert.True(t, body.Data.InWishlist)
	})

	t.Run("product_not_found", func(t *testing.T) {
		svc := &fakeWishlistService{
			toggleFunc: func(context.Context, string, string) (wishlist.ToggleResponse, error) {
				return wishlist.ToggleResponse{}, catalog.ErrProductNotFound
			},
		}

		w := serve(setupTestRouter(svc), http.MethodPost, "/api/v1/wishlist/zzz/toggle", sid)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWishlistHandler_HasListDelete(t *testing.T) {
	sid := uuid.NewString()
	deleted := ""
	svc := &fakeWishlistService{
		hasFunc: func(_ context.Context, _ string, productID string) (wishlist.HasResponse, error) {
			return wishlist.HasResponse{ProductID: productID, InWishlist: true}, nil
		},
		listFunc: func(context.Context, string) (wishlist.WishlistResponse, error) {
			return wishlist.WishlistResponse{Items: []wishlist.ItemResponse{}, ItemCount: 0}, nil
		},
		deleteFunc: func(_ context.Context, _ string, productID string) error {
			deleted = productID
			return nil
		},
	}
	r := setupTestRouter(svc)

	w := serve(r, http.MethodGet, "/api/v1/wishlist/p2", sid)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/wishlist", sid)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodDelete, "/api/v1/wishlist/p2", sid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p2", deleted)
}
