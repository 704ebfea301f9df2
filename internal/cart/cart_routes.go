package cart

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects the Session middleware to run on r. Mutations are
// wrapped in mutationLimit.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mutationLimit gin.HandlerFunc) {
	carts := r.Group("/cart")
	{
		carts.GET("", handler.Detail)
		carts.GET("/count", handler.Count)
		carts.DELETE("", mutationLimit, handler.Clear)
		carts.POST("/items", mutationLimit, handler.AddItem)

		items := carts.Group("/items/:lineId", mutationLimit)
		{
			items.PATCH("", handler.UpdateQty)
			items.POST("/increment", handler.Increment)
			items.POST("/decrement", handler.Decrement)
			items.DELETE("", handler.DeleteItem)
		}
	}
}
