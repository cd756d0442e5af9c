package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

func stockedProduct(id primitive.ObjectID, color, size string, count int) *models.Product {
	return &models.Product{
		ID:   id,
		Name: "Tee",
		Variants: []models.Variant{
			{Color: color, Sizes: []models.SizeStock{{SizeName: size, CountInStock: count}}},
		},
	}
}

func TestCheckStock(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	products := map[string]*models.Product{
		p1.Hex(): stockedProduct(p1, "black", "M", 3),
		p2.Hex(): stockedProduct(p2, "white", "L", 0),
	}

	t.Run("all sufficient", func(t *testing.T) {
		issues := CheckStock([]models.CartItem{
			{ProductID: p1, Color: "black", Size: "M", Quantity: 3, Name: "Tee"},
		}, products)
		assert.Empty(t, issues)
	})

	t.Run("aggregates every failing line", func(t *testing.T) {
		issues := CheckStock([]models.CartItem{
			{ProductID: p1, Color: "black", Size: "M", Quantity: 4, Name: "Tee"},
			{ProductID: p2, Color: "white", Size: "L", Quantity: 1, Name: "Tee"},
		}, products)
		require.Len(t, issues, 2)
		assert.Equal(t, 4, issues[0].Requested)
		assert.Equal(t, 3, issues[0].Available)
		assert.Equal(t, 0, issues[1].Available)
	})

	t.Run("missing product counts as zero stock", func(t *testing.T) {
		issues := CheckStock([]models.CartItem{
			{ProductID: primitive.NewObjectID(), Color: "black", Size: "M", Quantity: 1},
		}, products)
		require.Len(t, issues, 1)
		assert.Equal(t, 0, issues[0].Available)
	})

	t.Run("missing variant or size counts as zero stock", func(t *testing.T) {
		issues := CheckStock([]models.CartItem{
			{ProductID: p1, Color: "red", Size: "M", Quantity: 1},
			{ProductID: p1, Color: "black", Size: "XL", Quantity: 1},
		}, products)
		assert.Len(t, issues, 2)
	})
}

func TestStockIssueString(t *testing.T) {
	s := StockIssue{Name: "Tee", Color: "black", Size: "M", Requested: 4, Available: 3}
	assert.Equal(t, "Tee (black/M): requested 4, available 3", s.String())
}

func TestShippingRule(t *testing.T) {
	rule := ShippingRule{Fee: 5, FreeOver: 100}

	assert.InDelta(t, 5, rule.PriceFor(99.99), 1e-9)
	assert.InDelta(t, 0, rule.PriceFor(100), 1e-9)
	assert.InDelta(t, 0, rule.PriceFor(250), 1e-9)

	t.Run("threshold disabled", func(t *testing.T) {
		flat := ShippingRule{Fee: 5}
		assert.InDelta(t, 5, flat.PriceFor(1e6), 1e-9)
	})
}
