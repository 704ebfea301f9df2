package pricing_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(t *testing.T, body string) (*httptest.ResponseRecorder, pricing.ResultResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pricing.RegisterRoutes(r.Group("/api/v1"), pricing.NewHandler(pricing.NewEngine(pricing.DefaultConfig())))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env struct {
		Data pricing.ResultResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env.Data
}

func TestPricingHandler_Quote(t *testing.T) {
	t.Run("scenario_total", func(t *testing.T) {
		w, res := quote(t, `{"lines":[{"price":2000,"quantity":2}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "4000", res.Subtotal.String())
		assert.Equal(t, "200", res.DiscountAmount.String())
		assert.Equal(t, "5%", res.DiscountLabel)
		assert.Equal(t, "0", res.ShippingFee.String())
		assert.Equal(t, "3800", res.Total.String())
	})

	t.Run("empty_cart", func(t *testing.T) {
		w, res := quote(t, `{"lines":[]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, res.Total.IsZero())
	})

	t.Run("rejects_zero_quantity", func(t *testing.T) {
		w, _ := quote(t, `{"lines":[{"price":100,"quantity":0}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_negative_price", func(t *testing.T) {
		w, _ := quote(t, `{"lines":[{"price":-1,"quantity":1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
