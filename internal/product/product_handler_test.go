package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/internal/catalog"
	"go-storefront/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductService struct {
	getFunc    func(ctx context.Context, idOrSlug string) (product.ProductResponse, error)
	selectFunc func(ctx context.Context, idOrSlug string, req product.SelectionRequest) (product.SelectionResponse, error)
}

func (f *fakeProductService) List(context.Context) ([]product.ProductSummaryResponse, error) {
	return []product.ProductSummaryResponse{}, nil
}

func (f *fakeProductService) Get(ctx context.Context, idOrSlug string) (product.ProductResponse, error) {
	return f.getFunc(ctx, idOrSlug)
}

func (f *fakeProductService) Select(ctx context.Context, idOrSlug string, req product.SelectionRequest) (product.SelectionResponse, error) {
	return f.selectFunc(ctx, idOrSlug, req)
}

func setupRouter(svc product.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	product.RegisterRoutes(r.Group("/api/v1"), product.NewHandler(svc))
	return r
}

func TestProductHandler_Get(t *testing.T) {
	svc := &fakeProductService{
		getFunc: func(_ context.Context, idOrSlug string) (product.ProductResponse, error) {
			if idOrSlug != "classic-tee" {
				return product.ProductResponse{}, catalog.ErrProductNotFound
			}
			return product.ProductResponse{ID: "p1", Slug: idOrSlug}, nil
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/classic-tee", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Select(t *testing.T) {
	var got product.SelectionRequest
	svc := &fakeProductService{
		selectFunc: func(_ context.Context, _ string, req product.SelectionRequest) (product.SelectionResponse, error) {
			got = req
			if req.Event == "bogus" {
				return product.SelectionResponse{}, product.ErrInvalidEvent
			}
			return product.SelectionResponse{Size: "M", Colour: "Red", Purchasable: true}, nil
		},
	}
	r := setupRouter(svc)

	body, _ := json.Marshal(map[string]string{"size": "M", "colour": "Red", "event": "pick_colour", "value": "Blue"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/selection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, product.SelectionRequest{Size: "M", Colour: "Red", Event: "pick_colour", Value: "Blue"}, got)

	body, _ = json.Marshal(map[string]string{"event": "bogus"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/p1/selection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
