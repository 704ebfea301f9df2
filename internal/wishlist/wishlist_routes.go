package wishlist

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mutationLimit gin.HandlerFunc) {
	wishlists := r.Group("/wishlist")
	{
		wishlists.GET("", handler.List)
		wishlists.GET("/:productId", handler.Has)
		wishlists.POST("/:productId/toggle", mutationLimit, handler.Toggle)
		wishlists.DELETE("/:productId", mutationLimit, handler.Delete)
	}
}
