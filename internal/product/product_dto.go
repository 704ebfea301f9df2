package product

import (
	"go-storefront/internal/catalog"
	"go-storefront/internal/selection"

	"github.com/shopspring/decimal"
)

// ==================== REQUEST STRUCTS ====================

// SelectionRequest carries the current selection and the event to apply.
// An empty event re-settles the selection, which is how a client recovers
// a stale selection after a reload.
type SelectionRequest struct {
	Size   string `json:"size"`
	Colour string `json:"colour"`
	Event  string `json:"event"`
	Value  string `json:"value"`
}

// ==================== RESPONSE STRUCTS ====================

type VariantResponse struct {
	ID     string          `json:"id"`
	Size   string          `json:"size"`
	Colour string          `json:"colour"`
	Stock  int             `json:"stock"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}

type AvailabilityResponse struct {
	EnabledSizes   []string `json:"enabledSizes"`
	EnabledColours []string `json:"enabledColours"`
	AllSizes       []string `json:"allSizes"`
	AllColours     []string `json:"allColours"`
}

type SelectionResponse struct {
	Size         string               `json:"size"`
	Colour       string               `json:"colour"`
	Variant      *VariantResponse     `json:"variant"`
	Purchasable  bool                 `json:"purchasable"`
	Availability AvailabilityResponse `json:"availability"`
}

type ProductResponse struct {
	ID         string            `json:"id"`
	Slug       string            `json:"slug"`
	Code       string            `json:"productCode"`
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	Images     []string          `json:"images"`
	Sizes      []string          `json:"sizes"`
	Colours    []string          `json:"colours"`
	TotalStock int               `json:"totalStock"`
	InStock    bool              `json:"inStock"`
	MinPrice   decimal.Decimal   `json:"minPrice"`
	MaxPrice   decimal.Decimal   `json:"maxPrice"`
	Variants   []VariantResponse `json:"variants"`
	Selection  SelectionResponse `json:"selection"`
}

type ProductSummaryResponse struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	MinPrice decimal.Decimal `json:"minPrice"`
	InStock  bool            `json:"inStock"`
}

func toVariantResponse(v catalog.Variant) VariantResponse {
	images := v.Images
	if images == nil {
		images = []string{}
	}
	return VariantResponse{
		ID:     v.ID,
		Size:   v.Size,
		Colour: v.Colour,
		Stock:  v.Stock,
		Price:  v.Price,
		Images: images,
	}
}

func toSelectionResponse(res selection.Resolution, av selection.Availability) SelectionResponse {
	out := SelectionResponse{
		Size:        res.Selection.Size,
		Colour:      res.Selection.Colour,
		Purchasable: res.Purchasable,
		Availability: AvailabilityResponse{
			EnabledSizes:   av.EnabledSizes,
			EnabledColours: av.EnabledColours,
			AllSizes:       av.AllSizes,
			AllColours:     av.AllColours,
		},
	}
	if res.Found {
		v := toVariantResponse(res.Variant)
		out.Variant = &v
	}
	return out
}

func toProductResponse(p catalog.Product, sel SelectionResponse) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, toVariantResponse(v))
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return ProductResponse{
		ID:         p.ID,
		Slug:       p.Slug,
		Code:       p.Code,
		Name:       p.Name,
		Category:   p.Category,
		Images:     images,
		Sizes:      p.Sizes(),
		Colours:    p.Colours(),
		TotalStock: p.TotalStock(),
		InStock:    p.InStock(),
		MinPrice:   p.MinPrice(),
		MaxPrice:   p.MaxPrice(),
		Variants:   variants,
		Selection:  sel,
	}
}

func toSummaryResponse(p catalog.Product) ProductSummaryResponse {
	return ProductSummaryResponse{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Image:    p.PrimaryImage(),
		MinPrice: p.MinPrice(),
		InStock:  p.InStock(),
	}
}
