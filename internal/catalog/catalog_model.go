package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is one purchasable (size, colour) combination of a product.
type Variant struct {
	ID     string
	Size   string
	Colour string
	Stock  int
	Price  decimal.Decimal
	Images []string
}

func (v Variant) InStock() bool {
	return v.Stock > 0
}

// Product is immutable once built by NewProduct; callers must not mutate
// the Variants slice.
type Product struct {
	ID       string
	Slug     string
	Code     string
	Name     string
	Category string
	Images   []string
	Variants []Variant
}

// Sizes returns the distinct sizes in first-appearance order.
func (p Product) Sizes() []string {
	return distinct(p.Variants, func(v Variant) string { return v.Size })
}

// Colours returns the distinct colours in first-appearance order.
func (p Product) Colours() []string {
	return distinct(p.Variants, func(v Variant) string { return v.Colour })
}

func (p Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

func (p Product) InStock() bool {
	for _, v := range p.Variants {
		if v.InStock() {
			return true
		}
	}
	return false
}

// MinPrice is zero for a product without variants.
func (p Product) MinPrice() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	min := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(min) {
			min = v.Price
		}
	}
	return min
}

func (p Product) MaxPrice() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	max := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.GreaterThan(max) {
			max = v.Price
		}
	}
	return max
}

// Variant looks a variant up by its ID.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// PrimaryImage is the first product image, or the first variant image when
// the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	for _, v := range p.Variants {
		if len(v.Images) > 0 {
			return v.Images[0]
		}
	}
	return PlaceholderImage
}

// Key normalizes a size or colour for comparison: case-insensitive, trimmed.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Same reports whether two sizes or colours name the same option.
func Same(a, b string) bool {
	return Key(a) == Key(b)
}

func distinct(vs []Variant, field func(Variant) string) []string {
	seen := make(map[string]struct{}, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		k := Key(field(v))
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, field(v))
	}
	return out
}
