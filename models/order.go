package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderShipping   OrderStatus = "shipping"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentPayPal PaymentMethod = "paypal"
)

// OrderItem mirrors CartItem: a denormalized snapshot taken at checkout.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Color     string             `bson:"color" json:"color"`
	Size      string             `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
}

type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Phone    string `bson:"phone" json:"phone"`
	Line1    string `bson:"line1" json:"line1"`
	Ward     string `bson:"ward,omitempty" json:"ward,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	City     string `bson:"city" json:"city"`
}

// Order is never deleted; cancellation is a status flip.
// ExpiresAt is set only for non-COD orders and drives the timeout sweep.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User            *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestID         string              `bson:"guestId,omitempty" json:"guestId,omitempty"`
	Email           string              `bson:"email,omitempty" json:"email,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	ShippingAddress ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	ShippingPrice   float64             `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64             `bson:"totalPrice" json:"totalPrice"`
	Status          OrderStatus         `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus       `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   PaymentMethod       `bson:"paymentMethod" json:"paymentMethod"`
	PayPalOrderID   string              `bson:"paypalOrderId,omitempty" json:"paypalOrderId,omitempty"`
	ExpiresAt       *time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ItemsTotal is the pre-shipping sum of line item price times quantity.
func (o *Order) ItemsTotal() float64 {
	total := 0.0
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// OwnedBy reports whether the given caller identity owns this order.
func (o *Order) OwnedBy(userID *primitive.ObjectID, guestID string) bool {
	if o.User != nil && userID != nil && *o.User == *userID {
		return true
	}
	return o.GuestID != "" && o.GuestID == guestID
}
