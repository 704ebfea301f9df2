package selection

import (
	"go-storefront/internal/catalog"
)

// Selection is the shopper's in-progress choice. An empty field is unset.
type Selection struct {
	Size   string `json:"size"`
	Colour string `json:"colour"`
}

type EventKind string

const (
	EventNone        EventKind = ""
	EventPickSize    EventKind = "pick_size"
	EventPickColour  EventKind = "pick_colour"
	EventClearSize   EventKind = "clear_size"
	EventClearColour EventKind = "clear_colour"
	EventReset       EventKind = "reset"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventNone, EventPickSize, EventPickColour, EventClearSize, EventClearColour, EventReset:
		return true
	}
	return false
}

type Event struct {
	Kind  EventKind
	Value string
}

// Resolution is a settled selection and the variant it points at. When
// Purchasable is false the product has no stock anywhere (or no variants):
// the UI renders "out of stock" instead of retrying.
type Resolution struct {
	Selection   Selection
	Variant     catalog.Variant
	Found       bool
	Purchasable bool
}

// Initial is the selection on product load: the first in-stock variant, or
// the first variant when nothing is in stock.
func Initial(p catalog.Product) Resolution {
	return initial(catalog.BuildIndex(p))
}

// Resolve applies ev to current and returns the nearest valid selection.
// For a product with variants the result always names an existing pair, and
// that pair is in stock whenever any variant is.
func Resolve(p catalog.Product, current Selection, ev Event) Resolution {
	return resolve(catalog.BuildIndex(p), current, ev)
}

func resolve(idx *catalog.Index, current Selection, ev Event) Resolution {
	if idx.Empty() {
		return Resolution{}
	}

	switch ev.Kind {
	case EventReset:
		return initial(idx)

	case EventPickSize:
		size, ok := idx.CanonicalSize(ev.Value)
		if !ok {
			return settle(idx, current)
		}
		return anchorSize(idx, size, current.Colour)

	case EventPickColour:
		colour, ok := idx.CanonicalColour(ev.Value)
		if !ok {
			return settle(idx, current)
		}
		return anchorColour(idx, colour, current.Size)

	case EventClearSize:
		return settle(idx, Selection{Colour: current.Colour})

	case EventClearColour:
		return settle(idx, Selection{Size: current.Size})
	}

	return settle(idx, current)
}

// settle turns an arbitrary (possibly partial or stale) selection into a
// resolved one without an explicit anchor. Size wins over colour.
func settle(idx *catalog.Index, sel Selection) Resolution {
	size, sizeOK := idx.CanonicalSize(sel.Size)
	colour, colourOK := idx.CanonicalColour(sel.Colour)

	switch {
	case sizeOK && colourOK:
		if v, ok := idx.Pair(size, colour); ok && (v.InStock() || !idx.AnyInStock()) {
			return resolved(v)
		}
		return anchorSize(idx, size, colour)
	case sizeOK:
		return anchorSize(idx, size, "")
	case colourOK:
		return anchorColour(idx, colour, "")
	}
	return initial(idx)
}

// anchorSize keeps size when it can and reassigns colour. Fallback order:
//  1. (size, colour) in stock
//  2. first in-stock colour for size
//  3. size has no stock but the product does: keep colour if it has stock
//     in some other size, else the first in-stock variant
//  4. nothing in stock: size's first colour
func anchorSize(idx *catalog.Index, size, colour string) Resolution {
	if colour != "" && idx.PairInStock(size, colour) {
		v, _ := idx.Pair(size, colour)
		return resolved(v)
	}

	candidates := idx.BySize(size)
	if v, ok := firstInStock(candidates); ok {
		return resolved(v)
	}

	if idx.AnyInStock() {
		if colour != "" {
			if v, ok := firstInStock(idx.ByColour(colour)); ok {
				return resolved(v)
			}
		}
		v, _ := idx.FirstInStock()
		return resolved(v)
	}

	if len(candidates) > 0 {
		return resolved(candidates[0])
	}
	return initial(idx)
}

// anchorColour mirrors anchorSize with the dimensions swapped.
func anchorColour(idx *catalog.Index, colour, size string) Resolution {
	if size != "" && idx.PairInStock(size, colour) {
		v, _ := idx.Pair(size, colour)
		return resolved(v)
	}

	candidates := idx.ByColour(colour)
	if v, ok := firstInStock(candidates); ok {
		return resolved(v)
	}

	if idx.AnyInStock() {
		if size != "" {
			if v, ok := firstInStock(idx.BySize(size)); ok {
				return resolved(v)
			}
		}
		v, _ := idx.FirstInStock()
		return resolved(v)
	}

	if len(candidates) > 0 {
		return resolved(candidates[0])
	}
	return initial(idx)
}

func initial(idx *catalog.Index) Resolution {
	if idx.Empty() {
		return Resolution{}
	}
	if v, ok := idx.FirstInStock(); ok {
		return resolved(v)
	}
	return resolved(idx.Variants()[0])
}

func resolved(v catalog.Variant) Resolution {
	return Resolution{
		Selection:   Selection{Size: v.Size, Colour: v.Colour},
		Variant:     v,
		Found:       true,
		Purchasable: v.InStock(),
	}
}

func firstInStock(vs []catalog.Variant) (catalog.Variant, bool) {
	for _, v := range vs {
		if v.InStock() {
			return v, true
		}
	}
	return catalog.Variant{}, false
}
