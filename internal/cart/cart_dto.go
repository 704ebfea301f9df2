package cart

import (
	"strings"

	"go-storefront/internal/pricing"
	"go-storefront/internal/shared/helper"

	"github.com/shopspring/decimal"
)

// LineItem is the persisted cart record. Field names are the stored JSON
// layout and must not change.
type LineItem struct {
	ID          string  `json:"id" validate:"required"`
	ProductID   string  `json:"productId" validate:"required"`
	VariantID   string  `json:"variantId" validate:"required"`
	Name        string  `json:"name"`
	Price       float64 `json:"price" validate:"gt=0"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity" validate:"gte=1,ltefield=MaxStock"`
	Size        string  `json:"size"`
	Colour      string  `json:"color"`
	ProductCode string  `json:"productCode"`
	MaxStock    int     `json:"maxStock" validate:"gte=1"`
}

func (l LineItem) UnitPrice() decimal.Decimal {
	return helper.Float64ToDecimalExact(l.Price)
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

var lineIDEscaper = strings.NewReplacer("~", "~~", "-", "~-")

// LineID joins product and variant IDs with "-". Hyphens and tildes inside
// either part are escaped with "~" so distinct pairs never share an ID.
func LineID(productID, variantID string) string {
	return lineIDEscaper.Replace(productID) + "-" + lineIDEscaper.Replace(variantID)
}

// ==================== REQUEST STRUCTS ====================

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
	Size      string `json:"size"`
	Colour    string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type UpdateQtyRequest struct {
	Quantity int `json:"quantity"`
}

// ==================== RESPONSE STRUCTS ====================

type LineItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	VariantID   string          `json:"variantId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Colour      string          `json:"color"`
	ProductCode string          `json:"productCode"`
	MaxStock    int             `json:"maxStock"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type CartResponse struct {
	Items   []LineItemResponse     `json:"items"`
	Count   int                    `json:"count"`
	Pricing pricing.ResultResponse `json:"pricing"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

func ToLineItemResponse(l LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		VariantID:   l.VariantID,
		Name:        l.Name,
		Price:       l.UnitPrice(),
		Image:       l.Image,
		Quantity:    l.Quantity,
		Size:        l.Size,
		Colour:      l.Colour,
		ProductCode: l.ProductCode,
		MaxStock:    l.MaxStock,
		LineTotal:   l.LineTotal(),
	}
}

func ToCartResponse(s Snapshot) CartResponse {
	items := make([]LineItemResponse, 0, len(s.Items))
	for _, l := range s.Items {
		items = append(items, ToLineItemResponse(l))
	}
	return CartResponse{
		Items:   items,
		Count:   s.Count,
		Pricing: pricing.ToResultResponse(s.Pricing),
	}
}
