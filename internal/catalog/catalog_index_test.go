package catalog_test

import (
	"testing"

	"go-storefront/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleProduct() catalog.Product {
	price := decimal.NewFromInt(1000)
	return catalog.Product{
		ID:   "p-1",
		Name: "Anarkali",
		Variants: []catalog.Variant{
			{ID: "v1", Size: "M", Colour: "Red", Stock: 3, Price: price},
			{ID: "v2", Size: "M", Colour: "Blue", Stock: 0, Price: price},
			{ID: "v3", Size: "L", Colour: "Red", Stock: 0, Price: price},
		},
	}
}

func TestBuildIndex(t *testing.T) {
	idx := catalog.BuildIndex(sampleProduct())

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"M", "L"}, idx.Sizes())
	assert.Equal(t, []string{"Red", "Blue"}, idx.Colours())

	bySize := idx.BySize("m")
	if assert.Len(t, bySize, 2) {
		assert.Equal(t, "v1", bySize[0].ID)
		assert.Equal(t, "v2", bySize[1].ID)
	}
	assert.Len(t, idx.ByColour("Red"), 2)
	assert.Empty(t, idx.ByColour("Green"))

	v, ok := idx.Pair(" l ", "red")
	assert.True(t, ok)
	assert.Equal(t, "v3", v.ID)

	_, ok = idx.Pair("L", "Blue")
	assert.False(t, ok)

	assert.True(t, idx.PairInStock("M", "Red"))
	assert.False(t, idx.PairInStock("M", "Blue"))

	size, ok := idx.CanonicalSize("m")
	assert.True(t, ok)
	assert.Equal(t, "M", size)

	first, ok := idx.FirstInStock()
	assert.True(t, ok)
	assert.Equal(t, "v1", first.ID)
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := catalog.BuildIndex(catalog.Product{ID: "empty"})

	assert.True(t, idx.Empty())
	assert.Empty(t, idx.Sizes())
	assert.Empty(t, idx.Colours())
	assert.Empty(t, idx.BySize("M"))
	assert.False(t, idx.AnyInStock())

	_, ok := idx.Pair("M", "Red")
	assert.False(t, ok)
}
