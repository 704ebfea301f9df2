package pricing

import (
	"net/http"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid input", err.Error())
		return
	}

	lines, err := req.ToLines()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", ToResultResponse(h.engine.Price(lines)))
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/pricing/quote", handler.Quote)
}
