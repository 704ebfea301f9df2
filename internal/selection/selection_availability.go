package selection

import (
	"go-storefront/internal/catalog"
)

// Availability says which option buttons are enabled for a selection.
type Availability struct {
	EnabledSizes   []string `json:"enabledSizes"`
	EnabledColours []string `json:"enabledColours"`
	AllSizes       []string `json:"allSizes"`
	AllColours     []string `json:"allColours"`
}

func (a Availability) SizeEnabled(size string) bool {
	return contains(a.EnabledSizes, size)
}

func (a Availability) ColourEnabled(colour string) bool {
	return contains(a.EnabledColours, colour)
}

// Available computes the enabled sizes and colours for sel. A size is enabled
// when some in-stock variant has it and matches the selected colour (if any);
// colours are symmetric. An empty result falls back to every option on the
// product so the UI never dead-ends with zero choices.
func Available(p catalog.Product, sel Selection) Availability {
	return availability(catalog.BuildIndex(p), sel)
}

func availability(idx *catalog.Index, sel Selection) Availability {
	sizes := enabled(idx.Sizes(), func(size string) []catalog.Variant { return idx.BySize(size) },
		func(v catalog.Variant) bool { return sel.Colour == "" || catalog.Same(v.Colour, sel.Colour) })
	colours := enabled(idx.Colours(), func(colour string) []catalog.Variant { return idx.ByColour(colour) },
		func(v catalog.Variant) bool { return sel.Size == "" || catalog.Same(v.Size, sel.Size) })

	if len(sizes) == 0 {
		sizes = idx.Sizes()
	}
	if len(colours) == 0 {
		colours = idx.Colours()
	}

	return Availability{
		EnabledSizes:   nonNil(sizes),
		EnabledColours: nonNil(colours),
		AllSizes:       nonNil(idx.Sizes()),
		AllColours:     nonNil(idx.Colours()),
	}
}

func enabled(options []string, variants func(string) []catalog.Variant, match func(catalog.Variant) bool) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		for _, v := range variants(opt) {
			if v.InStock() && match(v) {
				out = append(out, opt)
				break
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if catalog.Same(item, s) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
