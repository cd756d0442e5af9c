package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderItemsTotal(t *testing.T) {
	order := Order{
		ShippingPrice: 5,
		Items: []OrderItem{
			{Quantity: 2, Price: 10},
			{Quantity: 3, Price: 7.5},
		},
	}
	assert.InDelta(t, 42.5, order.ItemsTotal(), 1e-9)

	// the invariant checkout maintains
	order.TotalPrice = order.ShippingPrice + order.ItemsTotal()
	assert.InDelta(t, 47.5, order.TotalPrice, 1e-9)
}

func TestOrderOwnedBy(t *testing.T) {
	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	userOrder := Order{User: &userID}
	assert.True(t, userOrder.OwnedBy(&userID, ""))
	assert.False(t, userOrder.OwnedBy(&other, ""))
	assert.False(t, userOrder.OwnedBy(nil, "g-1"))

	guestOrder := Order{GuestID: "g-1"}
	assert.True(t, guestOrder.OwnedBy(nil, "g-1"))
	assert.False(t, guestOrder.OwnedBy(nil, "g-2"))
	assert.False(t, guestOrder.OwnedBy(&userID, ""))
}

func TestProductHelpers(t *testing.T) {
	p := Product{
		Price:         50,
		DiscountPrice: 40,
		Variants: []Variant{
			{Color: "black", Sizes: []SizeStock{{SizeName: "M", CountInStock: 3}, {SizeName: "L", CountInStock: 2}}},
			{Color: "white", Sizes: []SizeStock{{SizeName: "S", CountInStock: 1}}},
		},
	}

	assert.InDelta(t, 40, p.DisplayPrice(), 1e-9)
	p.DiscountPrice = 0
	assert.InDelta(t, 50, p.DisplayPrice(), 1e-9)

	assert.Equal(t, 6, p.TotalStock())

	v := p.FindVariant("black")
	assert.NotNil(t, v)
	assert.Nil(t, p.FindVariant("red"))

	s := v.FindSize("L")
	assert.NotNil(t, s)
	assert.Equal(t, 2, s.CountInStock)
	assert.Nil(t, v.FindSize("XXL"))
}

func TestValidSize(t *testing.T) {
	for _, name := range SizeNames {
		assert.True(t, ValidSize(name))
	}
	assert.False(t, ValidSize("XS"))
	assert.False(t, ValidSize("m"))
}
