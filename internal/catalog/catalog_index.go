package catalog

type pairKey struct {
	size   string
	colour string
}

// Index is the lookup view of a product's variants keyed by size, by colour
// and by (size, colour) pair. Every slice it returns preserves variant order.
type Index struct {
	variants []Variant
	sizes    []string
	colours  []string
	bySize   map[string][]int
	byColour map[string][]int
	byPair   map[pairKey]int
}

// BuildIndex runs in O(len(p.Variants)). A product without variants yields an
// empty index that answers every lookup with "absent".
func BuildIndex(p Product) *Index {
	idx := &Index{
		variants: p.Variants,
		bySize:   make(map[string][]int),
		byColour: make(map[string][]int),
		byPair:   make(map[pairKey]int, len(p.Variants)),
	}

	for i, v := range p.Variants {
		sk, ck := Key(v.Size), Key(v.Colour)

		if _, ok := idx.bySize[sk]; !ok {
			idx.sizes = append(idx.sizes, v.Size)
		}
		idx.bySize[sk] = append(idx.bySize[sk], i)

		if _, ok := idx.byColour[ck]; !ok {
			idx.colours = append(idx.colours, v.Colour)
		}
		idx.byColour[ck] = append(idx.byColour[ck], i)

		pk := pairKey{size: sk, colour: ck}
		if _, ok := idx.byPair[pk]; !ok {
			idx.byPair[pk] = i
		}
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.variants)
}

func (idx *Index) Empty() bool {
	return len(idx.variants) == 0
}

func (idx *Index) Variants() []Variant {
	return idx.variants
}

// Sizes are the product's distinct sizes in canonical spelling.
func (idx *Index) Sizes() []string {
	return idx.sizes
}

func (idx *Index) Colours() []string {
	return idx.colours
}

func (idx *Index) BySize(size string) []Variant {
	return idx.pick(idx.bySize[Key(size)])
}

func (idx *Index) ByColour(colour string) []Variant {
	return idx.pick(idx.byColour[Key(colour)])
}

// Pair returns the variant for (size, colour), if the product has one.
func (idx *Index) Pair(size, colour string) (Variant, bool) {
	i, ok := idx.byPair[pairKey{size: Key(size), colour: Key(colour)}]
	if !ok {
		return Variant{}, false
	}
	return idx.variants[i], true
}

// PairInStock reports whether (size, colour) exists and has stock.
func (idx *Index) PairInStock(size, colour string) bool {
	v, ok := idx.Pair(size, colour)
	return ok && v.InStock()
}

// CanonicalSize maps any spelling of a size to the one stored on the product.
func (idx *Index) CanonicalSize(size string) (string, bool) {
	ids, ok := idx.bySize[Key(size)]
	if !ok {
		return "", false
	}
	return idx.variants[ids[0]].Size, true
}

func (idx *Index) CanonicalColour(colour string) (string, bool) {
	ids, ok := idx.byColour[Key(colour)]
	if !ok {
		return "", false
	}
	return idx.variants[ids[0]].Colour, true
}

// FirstInStock is the first variant, in variant order, with stock.
func (idx *Index) FirstInStock() (Variant, bool) {
	for _, v := range idx.variants {
		if v.InStock() {
			return v, true
		}
	}
	return Variant{}, false
}

func (idx *Index) AnyInStock() bool {
	_, ok := idx.FirstInStock()
	return ok
}

func (idx *Index) pick(ids []int) []Variant {
	out := make([]Variant, 0, len(ids))
	for _, i := range ids {
		out = append(out, idx.variants[i])
	}
	return out
}
