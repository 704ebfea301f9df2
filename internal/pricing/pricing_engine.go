package pricing

import (
	"fmt"
	"net/http"
	"sort"

	"go-storefront/internal/pkg/apperror"

	"github.com/shopspring/decimal"
)

var ErrInvalidLine = apperror.New(
	apperror.CodeInvalidInput,
	"Line items must have a positive price and quantity",
	http.StatusBadRequest,
)

// Tier applies Rate when the subtotal is strictly greater than Above.
type Tier struct {
	Above decimal.Decimal
	Rate  decimal.Decimal
}

type Config struct {
	Tiers []Tier
	// Shipping is free when the subtotal is strictly greater than this.
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// DefaultConfig is the storefront cart page policy: 15% above 8000, 10% above
// 5000, 5% above 3000, free shipping above 1999, otherwise 99.
func DefaultConfig() Config {
	return Config{
		Tiers: []Tier{
			{Above: decimal.NewFromInt(8000), Rate: decimal.RequireFromString("0.15")},
			{Above: decimal.NewFromInt(5000), Rate: decimal.RequireFromString("0.10")},
			{Above: decimal.NewFromInt(3000), Rate: decimal.RequireFromString("0.05")},
		},
		FreeShippingThreshold: decimal.NewFromInt(1999),
		FlatShippingFee:       decimal.NewFromInt(99),
	}
}

// Line is the pricing view of a cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Result struct {
	Subtotal       decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountLabel  string
	ShippingFee    decimal.Decimal
	Total          decimal.Decimal

	// FreeShippingRemaining is how much more the shopper must add before
	// shipping becomes free; zero once it is.
	FreeShippingRemaining decimal.Decimal
	// FreeShippingProgress is 0-100.
	FreeShippingProgress int
}

// Engine is a pure function of its config and input; it is safe to share.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	tiers := make([]Tier, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Above.GreaterThan(tiers[j].Above)
	})
	cfg.Tiers = tiers
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Price assumes validated input; see ValidateLines.
func (e *Engine) Price(lines []Line) Result {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	if subtotal.IsZero() {
		return Result{
			Subtotal:              decimal.Zero,
			DiscountRate:          decimal.Zero,
			DiscountAmount:        decimal.Zero,
			ShippingFee:           decimal.Zero,
			Total:                 decimal.Zero,
			FreeShippingRemaining: decimal.Zero,
		}
	}

	rate := e.DiscountRate(subtotal)
	// Round is half away from zero, which is half-up for a positive amount.
	discount := subtotal.Mul(rate).Round(0)
	shipping := e.ShippingFee(subtotal)

	res := Result{
		Subtotal:              subtotal,
		DiscountRate:          rate,
		DiscountAmount:        discount,
		DiscountLabel:         label(rate),
		ShippingFee:           shipping,
		Total:                 subtotal.Sub(discount).Add(shipping),
		FreeShippingRemaining: decimal.Zero,
		FreeShippingProgress:  100,
	}

	if shipping.IsPositive() {
		res.FreeShippingRemaining = e.cfg.FreeShippingThreshold.Sub(subtotal)
		if e.cfg.FreeShippingThreshold.IsPositive() {
			res.FreeShippingProgress = int(subtotal.Div(e.cfg.FreeShippingThreshold).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
	}

	return res
}

// DiscountRate picks the highest tier whose threshold the subtotal exceeds.
func (e *Engine) DiscountRate(subtotal decimal.Decimal) decimal.Decimal {
	for _, t := range e.cfg.Tiers {
		if subtotal.GreaterThan(t.Above) {
			return t.Rate
		}
	}
	return decimal.Zero
}

func (e *Engine) ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(e.cfg.FreeShippingThreshold) {
		return decimal.Zero
	}
	return e.cfg.FlatShippingFee
}

// ValidateLines rejects input the engine must never see: negative prices and
// quantities below one.
func ValidateLines(lines []Line) error {
	for i, l := range lines {
		if l.UnitPrice.IsNegative() || l.Quantity < 1 {
			return fmt.Errorf("line %d: %w", i, ErrInvalidLine)
		}
	}
	return nil
}

func label(rate decimal.Decimal) string {
	if rate.IsZero() {
		return ""
	}
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// WithShipping overrides the shipping policy, leaving tiers untouched.
func (c Config) WithShipping(freeAbove, flatFee int64) Config {
	c.FreeShippingThreshold = decimal.NewFromInt(freeAbove)
	c.FlatShippingFee = decimal.NewFromInt(flatFee)
	return c
}
