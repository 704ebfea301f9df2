package wishlist

import (
	"go-storefront/internal/catalog"
	"go-storefront/internal/shared/helper"

	"github.com/shopspring/decimal"
)

// Item is the persisted wishlist record; ID is the product ID.
type Item struct {
	ID          string  `json:"id" validate:"required"`
	ProductID   string  `json:"productId" validate:"required"`
	Name        string  `json:"name"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image"`
	ProductCode string  `json:"productCode"`
}

func NewItem(p catalog.Product) Item {
	return Item{
		ID:          p.ID,
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       helper.DecimalToFloat64(p.MinPrice()),
		Image:       p.PrimaryImage(),
		ProductCode: p.Code,
	}
}

// ==================== RESPONSE STRUCTS ====================

type ItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	ProductCode string          `json:"productCode"`
}

type WishlistResponse struct {
	Items     []ItemResponse `json:"items"`
	ItemCount int            `json:"itemCount"`
}

type ToggleResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
	ItemCount  int    `json:"itemCount"`
}

type HasResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}

func ToItemResponse(i Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		ProductID:   i.ProductID,
		Name:        i.Name,
		Price:       helper.Float64ToDecimalExact(i.Price),
		Image:       i.Image,
		ProductCode: i.ProductCode,
	}
}

func ToWishlistResponse(items []Item) WishlistResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemResponse(i))
	}
	return WishlistResponse{Items: out, ItemCount: len(items)}
}
