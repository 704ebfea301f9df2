package wishlist

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

func (h *Handler) List(ctx *gin.Context) {
	res, err := h.service.List(ctx, middleware.SessionID(ctx))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", res)
}

func (h *Handler) Toggle(ctx *gin.Context) {
	res, err := h.service.Toggle(ctx, middleware.SessionID(ctx), ctx.Param("productId"))
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	msg := "Product removed from wishlist"
	if res.InWishlist {
		msg = "Product added to wishlist"
	}
	response.Success(ctx, http.StatusOK, msg, res)
}

func (h *Handler) Has(ctx *gin.Context) {
	res, err := h.service.Has(ctx, middleware.SessionID(ctx), ctx.Param("productId"))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "", res)
}

func (h *Handler) Delete(ctx *gin.Context) {
	if err := h.service.Delete(ctx, middleware.SessionID(ctx), ctx.Param("productId")); err != nil {
		response.FromError(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Product removed from wishlist", nil)
}
