package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a snapshot of a product variant at the time it was added.
// Price, Name and Image are copied from the product and never synced back.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Color     string             `bson:"color" json:"color"`
	Size      string             `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
}

// Key identifies a cart line; two items with the same key are the same line.
func (i CartItem) Key() string {
	return i.ProductID.Hex() + "|" + i.Color + "|" + i.Size
}

// Cart belongs to either a registered user or a guest cookie id, never both.
type Cart struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User       *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestID    string              `bson:"guestId,omitempty" json:"guestId,omitempty"`
	Items      []CartItem          `bson:"items" json:"items"`
	TotalItems int                 `bson:"totalItems" json:"totalItems"`
	TotalPrice float64             `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Recompute refreshes TotalItems and TotalPrice from the line items.
// Every write path must call it before persisting.
func (c *Cart) Recompute() {
	items := 0
	price := 0.0
	for _, it := range c.Items {
		items += it.Quantity
		price += it.Price * float64(it.Quantity)
	}
	c.TotalItems = items
	c.TotalPrice = price
}

// FindItem returns the index of the line matching (productId, color, size), or -1.
func (c *Cart) FindItem(productID primitive.ObjectID, color, size string) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.Color == color && it.Size == size {
			return i
		}
	}
	return -1
}
