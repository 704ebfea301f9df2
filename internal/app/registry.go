package app

import (
	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/config"
	"go-storefront/internal/events"
	"go-storefront/internal/messaging"
	"go-storefront/internal/middleware"
	"go-storefront/internal/pricing"
	"go-storefront/internal/product"
	"go-storefront/internal/storage"
	"go-storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type modules struct {
	gw        storage.Gateway
	products  catalog.Repository
	engine    *pricing.Engine
	publisher messaging.Publisher
}

func registerModules(router *gin.Engine, cfg config.Config, m modules, logger *zap.Logger) {
	opts := storage.Options{Retries: cfg.StorageCASRetries}

	// --- Services ---
	productService := product.NewService(m.products)
	cartService := cart.NewService(m.gw, m.products, m.engine, m.publisher, opts, logger)
	wishlistService := wishlist.NewService(m.gw, m.products, m.publisher, opts, logger)

	// --- Handlers ---
	productHandler := product.NewHandler(productService)
	pricingHandler := pricing.NewHandler(m.engine)
	cartHandler := cart.NewHandler(cartService)
	wishlistHandler := wishlist.NewHandler(wishlistService)
	eventsHandler := events.NewHandler(m.gw, events.NewServiceCounter(cartService, wishlistService), logger)

	mutationLimit := middleware.RateLimitBySession(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// --- Routes Registration ---
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", middleware.Session())
	{
		product.RegisterRoutes(api, productHandler)
		pricing.RegisterRoutes(api, pricingHandler)
		cart.RegisterRoutes(api, cartHandler, mutationLimit)
		wishlist.RegisterRoutes(api, wishlistHandler, mutationLimit)
		events.RegisterRoutes(api, eventsHandler)
	}
}
