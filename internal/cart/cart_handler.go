package cart

import (
	"net/http"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Detail(ctx *gin.Context) {
	res, err := h.service.Detail(ctx, middleware.SessionID(ctx))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", res)
}

func (h *Handler) Count(ctx *gin.Context) {
	count, err := h.service.Count(ctx, middleware.SessionID(ctx))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", CartCountResponse{Count: count})
}

func (h *Handler) AddItem(ctx *gin.Context) {
	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "BAD_REQUEST", "Invalid input", err.Error())
		return
	}

	item, err := h.service.AddItem(ctx, middleware.SessionID(ctx), req)
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusCreated, "Item added to cart", item)
}

func (h *Handler) UpdateQty(ctx *gin.Context) {
	var req UpdateQtyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "BAD_REQUEST", "Invalid input", err.Error())
		return
	}

	if err := h.service.UpdateQty(ctx, middleware.SessionID(ctx), ctx.Param("lineId"), req); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Quantity updated", nil)
}

func (h *Handler) Increment(ctx *gin.Context) {
	if err := h.service.Increment(ctx, middleware.SessionID(ctx), ctx.Param("lineId")); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", nil)
}

func (h *Handler) Decrement(ctx *gin.Context) {
	if err := h.service.Decrement(ctx, middleware.SessionID(ctx), ctx.Param("lineId")); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", nil)
}

func (h *Handler) DeleteItem(ctx *gin.Context) {
	if err := h.service.DeleteItem(ctx, middleware.SessionID(ctx), ctx.Param("lineId")); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Item removed", nil)
}

func (h *Handler) Clear(ctx *gin.Context) {
	if err := h.service.ClearCart(ctx, middleware.SessionID(ctx)); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Cart cleared", nil)
}
