package product

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		products.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.List,
		)

		products.GET("/:id",
			middleware.RateLimitByIP(10, 20),
			handler.Get,
		)

		// selection is recomputed on every click, so it gets a looser bucket
		products.POST("/:id/selection",
			middleware.RateLimitByIP(20, 40),
			handler.Select,
		)
	}
}
