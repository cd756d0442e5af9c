package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartRecompute(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	cart := Cart{Items: []CartItem{
		{ProductID: p1, Color: "black", Size: "M", Quantity: 2, Price: 19.99},
		{ProductID: p2, Color: "white", Size: "L", Quantity: 1, Price: 35},
	}}
	cart.Recompute()

	assert.Equal(t, 3, cart.TotalItems)
	assert.InDelta(t, 2*19.99+35, cart.TotalPrice, 1e-9)

	t.Run("after mutation", func(t *testing.T) {
		cart.Items[0].Quantity = 5
		cart.Recompute()
		assert.Equal(t, 6, cart.TotalItems)
		assert.InDelta(t, 5*19.99+35, cart.TotalPrice, 1e-9)
	})

	t.Run("empty cart is zero", func(t *testing.T) {
		empty := Cart{}
		empty.Recompute()
		assert.Zero(t, empty.TotalItems)
		assert.Zero(t, empty.TotalPrice)
	})
}

func TestCartFindItem(t *testing.T) {
	p := primitive.NewObjectID()
	cart := Cart{Items: []CartItem{
		{ProductID: p, Color: "black", Size: "M"},
		{ProductID: p, Color: "black", Size: "L"},
	}}

	assert.Equal(t, 0, cart.FindItem(p, "black", "M"))
	assert.Equal(t, 1, cart.FindItem(p, "black", "L"))
	assert.Equal(t, -1, cart.FindItem(p, "white", "M"))
	assert.Equal(t, -1, cart.FindItem(primitive.NewObjectID(), "black", "M"))
}

func TestCartItemKey(t *testing.T) {
	p := primitive.NewObjectID()
	a := CartItem{ProductID: p, Color: "black", Size: "M"}
	b := CartItem{ProductID: p, Color: "black", Size: "M", Quantity: 9}
	c := CartItem{ProductID: p, Color: "black", Size: "L"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
