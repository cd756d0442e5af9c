package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperr"
	"storefront/database"
	"storefront/mailer"
	"storefront/models"
)

// StockIssue describes one line item that cannot be fulfilled.
type StockIssue struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (s StockIssue) String() string {
	return fmt.Sprintf("%s (%s/%s): requested %d, available %d", s.Name, s.Color, s.Size, s.Requested, s.Available)
}

// CheckStock compares cart lines against current product stock. Products are
// keyed by hex id. A missing product, variant or size counts as zero stock.
func CheckStock(items []models.CartItem, products map[string]*models.Product) []StockIssue {
	var issues []StockIssue
	for _, it := range items {
		available := 0
		if p, ok := products[it.ProductID.Hex()]; ok {
			if v := p.FindVariant(it.Color); v != nil {
				if b := v.FindSize(it.Size); b != nil {
					available = b.CountInStock
				}
			}
		}
		if it.Quantity > available {
			issues = append(issues, StockIssue{
				Name:      it.Name,
				Color:     it.Color,
				Size:      it.Size,
				Requested: it.Quantity,
				Available: available,
			})
		}
	}
	return issues
}

// ShippingRule computes the shipping price for an items subtotal.
type ShippingRule struct {
	Fee      float64
	FreeOver float64
}

func (r ShippingRule) PriceFor(subtotal float64) float64 {
	if r.FreeOver > 0 && subtotal >= r.FreeOver {
		return 0
	}
	return r.Fee
}

type CheckoutInput struct {
	PaymentMethod   models.PaymentMethod
	ShippingAddress models.ShippingAddress
	Email           string
	Shipping        ShippingRule
	OrderTTL        time.Duration
}

// PlaceOrder snapshots the caller's cart into an order, decrements stock per
// line and deletes the cart. The stock check is a read followed by writes
// without a transaction; the per-item guard keeps stock non-negative but a
// concurrent checkout can still fail partway through.
func PlaceOrder(ctx context.Context, owner CartOwner, in CheckoutInput) (*models.Order, error) {
	if in.PaymentMethod != models.PaymentCOD && in.PaymentMethod != models.PaymentPayPal {
		return nil, apperr.New(apperr.Invalid, "unsupported payment method")
	}

	var cart models.Cart
	err := database.CartCollection.FindOne(ctx, owner.Filter()).Decode(&cart)
	if err == mongo.ErrNoDocuments || (err == nil && len(cart.Items) == 0) {
		return nil, apperr.New(apperr.Invalid, "cart is empty")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to fetch cart")
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	cursor, err := database.ProductCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to fetch products")
	}
	var fetched []models.Product
	if err := cursor.All(ctx, &fetched); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to decode products")
	}
	products := make(map[string]*models.Product, len(fetched))
	for i := range fetched {
		products[fetched[i].ID.Hex()] = &fetched[i]
	}

	if issues := CheckStock(cart.Items, products); len(issues) > 0 {
		lines := make([]string, len(issues))
		for i, is := range issues {
			lines[i] = is.String()
		}
		return nil, apperr.New(apperr.Invalid, "insufficient stock: "+strings.Join(lines, "; "))
	}

	items := make([]models.OrderItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = models.OrderItem(it)
	}

	now := time.Now()
	order := &models.Order{
		ID:              primitive.NewObjectID(),
		User:            owner.UserID,
		Email:           in.Email,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		Status:          models.OrderProcessing,
		PaymentStatus:   models.PaymentUnpaid,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if owner.UserID == nil {
		order.GuestID = owner.GuestID
	}
	order.ShippingPrice = in.Shipping.PriceFor(order.ItemsTotal())
	order.TotalPrice = order.ShippingPrice + order.ItemsTotal()
	if in.PaymentMethod != models.PaymentCOD {
		exp := now.Add(in.OrderTTL)
		order.ExpiresAt = &exp
	}

	if _, err := database.OrderCollection.InsertOne(ctx, order); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create order")
	}

	for _, it := range order.Items {
		if err := decrementStock(ctx, it); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"order":   order.ID.Hex(),
				"product": it.ProductID.Hex(),
			}).Error("stock decrement failed")
		}
	}

	if _, err := database.CartCollection.DeleteOne(ctx, owner.Filter()); err != nil {
		logrus.WithError(err).WithField("order", order.ID.Hex()).Error("failed to delete cart after checkout")
	}

	mailer.SendOrderConfirmation(ctx, order)
	return order, nil
}

// decrementStock takes quantity out of the exact (color, size) bucket, but
// only while the bucket still holds enough. Stock never goes negative.
func decrementStock(ctx context.Context, it models.OrderItem) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"v.color": it.Color},
			bson.M{"s.sizeName": it.Size, "s.countInStock": bson.M{"$gte": it.Quantity}},
		},
	})
	res, err := database.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": it.ProductID},
		bson.M{"$inc": bson.M{"variants.$[v].sizes.$[s].countInStock": -it.Quantity}},
		opts)
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to update stock")
	}
	if res.ModifiedCount == 0 {
		return apperr.New(apperr.Conflict, "stock changed concurrently")
	}
	return nil
}

// RestoreStock puts line item quantities back after a cancellation.
func RestoreStock(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		opts := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"v.color": it.Color},
				bson.M{"s.sizeName": it.Size},
			},
		})
		_, err := database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": it.ProductID},
			bson.M{"$inc": bson.M{"variants.$[v].sizes.$[s].countInStock": it.Quantity}},
			opts)
		if err != nil {
			logrus.WithError(err).WithField("product", it.ProductID.Hex()).Error("stock restore failed")
		}
	}
}
