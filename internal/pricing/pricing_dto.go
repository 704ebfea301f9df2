package pricing

import (
	"go-storefront/internal/shared/helper"

	"github.com/shopspring/decimal"
)

type QuoteLine struct {
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int     `json:"quantity" binding:"gte=1"`
}

type QuoteRequest struct {
	Lines []QuoteLine `json:"lines" binding:"dive"`
}

type ResultResponse struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	DiscountRate          decimal.Decimal `json:"discountRate"`
	DiscountAmount        decimal.Decimal `json:"discountAmount"`
	DiscountLabel         string          `json:"discountLabel,omitempty"`
	ShippingFee           decimal.Decimal `json:"shippingFee"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
	FreeShippingProgress  int             `json:"freeShippingProgress"`
}

func ToResultResponse(r Result) ResultResponse {
	return ResultResponse{
		Subtotal:              r.Subtotal,
		DiscountRate:          r.DiscountRate,
		DiscountAmount:        r.DiscountAmount,
		DiscountLabel:         r.DiscountLabel,
		ShippingFee:           r.ShippingFee,
		Total:                 r.Total,
		FreeShippingRemaining: r.FreeShippingRemaining,
		FreeShippingProgress:  r.FreeShippingProgress,
	}
}

// ToLines converts request lines, rejecting NaN and infinities that JSON
// decoding cannot produce but other callers might.
func (q QuoteRequest) ToLines() ([]Line, error) {
	lines := make([]Line, 0, len(q.Lines))
	for _, l := range q.Lines {
		if !helper.IsFinite(l.Price) {
			return nil, ErrInvalidLine
		}
		lines = append(lines, Line{
			UnitPrice: helper.Float64ToDecimalExact(l.Price),
			Quantity:  l.Quantity,
		})
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	return lines, nil
}
