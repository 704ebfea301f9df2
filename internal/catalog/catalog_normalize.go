package catalog

import (
	"fmt"
	"strings"

	"go-storefront/internal/shared/helper"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

const (
	DefaultSize      = "One Size"
	DefaultColour    = "Standard"
	PlaceholderImage = "/images/placeholder.jpg"
)

// RawProduct is the catalog payload as it arrives from the catalog API or the
// seed file. Nothing in it is trusted until NewProduct has run.
type RawProduct struct {
	ID          string       `json:"_id" yaml:"_id" validate:"required"`
	Slug        string       `json:"slug" yaml:"slug"`
	ProductCode string       `json:"product_code" yaml:"product_code"`
	ProductName string       `json:"product_name" yaml:"product_name"`
	Material    string       `json:"material" yaml:"material"`
	Category    string       `json:"category" yaml:"category"`
	Images      []string     `json:"images" yaml:"images"`
	Variants    []RawVariant `json:"variants" yaml:"variants"`
}

type RawVariant struct {
	ID       string   `json:"_id" yaml:"_id"`
	Size     string   `json:"size" yaml:"size"`
	Colour   string   `json:"colour" yaml:"colour"`
	Color    string   `json:"color" yaml:"color"`
	Stock    *int     `json:"stock" yaml:"stock" validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" yaml:"quantity" validate:"omitempty,gte=0"`
	Price    float64  `json:"price" yaml:"price" validate:"gt=0"`
	Images   []string `json:"images" yaml:"images"`
}

// Issue records a variant that NewProduct dropped.
type Issue struct {
	Index  int
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("variant[%d]: %s", i.Index, i.Reason)
}

var validate = validator.New()

// NewProduct normalizes a raw payload into a Product. Malformed variants and
// variants repeating an earlier (size, colour) pair are dropped and reported
// as issues; a payload left with no variants fails with ErrInvalidProduct.
func NewProduct(raw RawProduct) (Product, []Issue, error) {
	if err := validate.Struct(raw); err != nil {
		return Product{}, nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	var issues []Issue
	seen := make(map[pairKey]struct{}, len(raw.Variants))
	variants := make([]Variant, 0, len(raw.Variants))

	for i, rv := range raw.Variants {
		v, err := normalizeVariant(rv)
		if err != nil {
			issues = append(issues, Issue{Index: i, Reason: err.Error()})
			continue
		}

		k := pairKey{size: Key(v.Size), colour: Key(v.Colour)}
		if _, dup := seen[k]; dup {
			issues = append(issues, Issue{Index: i, Reason: fmt.Sprintf("duplicate pair %s/%s", v.Size, v.Colour)})
			continue
		}
		seen[k] = struct{}{}
		variants = append(variants, v)
	}

	if len(variants) == 0 {
		return Product{}, issues, ErrInvalidProduct
	}

	p := Product{
		ID:       strings.TrimSpace(raw.ID),
		Slug:     strings.TrimSpace(raw.Slug),
		Code:     strings.TrimSpace(raw.ProductCode),
		Name:     displayName(raw),
		Category: strings.TrimSpace(raw.Category),
		Images:   cleanImages(raw.Images),
		Variants: variants,
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name, p.ID)
	}
	return p, issues, nil
}

func normalizeVariant(rv RawVariant) (Variant, error) {
	if !helper.IsFinite(rv.Price) {
		return Variant{}, fmt.Errorf("price is not a finite number")
	}
	if err := validate.Struct(rv); err != nil {
		return Variant{}, err
	}

	size := strings.TrimSpace(rv.Size)
	if size == "" {
		size = DefaultSize
	}
	colour := strings.TrimSpace(rv.Colour)
	if colour == "" {
		colour = strings.TrimSpace(rv.Color)
	}
	if colour == "" {
		colour = DefaultColour
	}

	stock := 0
	switch {
	case rv.Stock != nil:
		stock = *rv.Stock
	case rv.Quantity != nil:
		stock = *rv.Quantity
	}

	id := strings.TrimSpace(rv.ID)
	if id == "" {
		id = size + "-" + colour
	}

	return Variant{
		ID:     id,
		Size:   size,
		Colour: colour,
		Stock:  stock,
		Price:  helper.Float64ToDecimalExact(rv.Price),
		Images: cleanImages(rv.Images),
	}, nil
}

func displayName(raw RawProduct) string {
	if name := strings.TrimSpace(raw.ProductName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(raw.Material) + " " + strings.TrimSpace(raw.Category))
}

// cleanImages maps bare file names under /images/ and drops blanks.
func cleanImages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, img := range in {
		img = strings.TrimSpace(img)
		switch {
		case img == "":
			continue
		case strings.HasPrefix(img, "http"), strings.HasPrefix(img, "/"):
			out = append(out, img)
		default:
			out = append(out, "/images/"+img)
		}
	}
	return out
}

func slugify(name, id string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return id
}
