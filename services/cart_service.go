package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperr"
	"storefront/database"
	"storefront/models"
)

// CartOwner identifies whose cart we operate on: a logged-in user id or a
// guest cookie id. UserID wins when both are present.
type CartOwner struct {
	UserID  *primitive.ObjectID
	GuestID string
}

func (o CartOwner) Filter() bson.M {
	if o.UserID != nil {
		return bson.M{"user": *o.UserID}
	}
	return bson.M{"guestId": o.GuestID}
}

func (o CartOwner) Empty() bool {
	return o.UserID == nil && o.GuestID == ""
}

// GetCart loads the owner's cart, or returns an empty unsaved one.
func GetCart(ctx context.Context, owner CartOwner) (*models.Cart, error) {
	if owner.Empty() {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	var cart models.Cart
	err := database.CartCollection.FindOne(ctx, owner.Filter()).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c := &models.Cart{Items: []models.CartItem{}, GuestID: owner.GuestID}
		c.User = owner.UserID
		return c, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to fetch cart")
	}
	return &cart, nil
}

// SaveCart recomputes totals and upserts the cart under its owner key.
func SaveCart(ctx context.Context, owner CartOwner, cart *models.Cart) error {
	if owner.Empty() {
		return apperr.New(apperr.Invalid, "cart has no owner")
	}
	cart.Recompute()
	now := time.Now()
	cart.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"totalItems": cart.TotalItems,
			"totalPrice": cart.TotalPrice,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err := database.CartCollection.UpdateOne(ctx, owner.Filter(), update, opts)
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to save cart")
	}
	return nil
}

// AddItem validates the product variant/size and stock, snapshots display
// fields onto the line, and bumps quantity when the line already exists.
func AddItem(ctx context.Context, owner CartOwner, productID primitive.ObjectID, color, size string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.Invalid, "quantity must be at least 1")
	}
	if !models.ValidSize(size) {
		return nil, apperr.New(apperr.Invalid, "invalid size")
	}

	var product models.Product
	err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "isPublished": true}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to fetch product")
	}

	variant := product.FindVariant(color)
	if variant == nil {
		return nil, apperr.New(apperr.Invalid, "color not available for this product")
	}
	bucket := variant.FindSize(size)
	if bucket == nil {
		return nil, apperr.New(apperr.Invalid, "size not available for this color")
	}

	cart, err := GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	newQty := quantity
	if i := cart.FindItem(productID, color, size); i >= 0 {
		newQty += cart.Items[i].Quantity
	}
	if newQty > bucket.CountInStock {
		return nil, apperr.New(apperr.Invalid, "quantity exceeds available stock")
	}

	image := ""
	if len(variant.Images) > 0 {
		image = variant.Images[0]
	}
	if i := cart.FindItem(productID, color, size); i >= 0 {
		cart.Items[i].Quantity = newQty
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Color:     color,
			Size:      size,
			Quantity:  quantity,
			Price:     product.DisplayPrice(),
			Name:      product.Name,
			Image:     image,
		})
	}

	if err := SaveCart(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets a line's quantity; zero removes the line.
func UpdateItem(ctx context.Context, owner CartOwner, productID primitive.ObjectID, color, size string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, apperr.New(apperr.Invalid, "invalid quantity")
	}

	cart, err := GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	i := cart.FindItem(productID, color, size)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "item not in cart")
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		var product models.Product
		err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err != nil {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		if v := product.FindVariant(color); v != nil {
			if b := v.FindSize(size); b != nil && quantity > b.CountInStock {
				return nil, apperr.New(apperr.Invalid, "quantity exceeds available stock")
			}
		}
		cart.Items[i].Quantity = quantity
	}

	if err := SaveCart(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops one line; with a zero product id it clears the whole cart.
func RemoveItem(ctx context.Context, owner CartOwner, productID primitive.ObjectID, color, size string) (*models.Cart, error) {
	if owner.Empty() {
		// no identity means no cart; carts only come into being on add
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	cart, err := GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if productID.IsZero() {
		cart.Items = []models.CartItem{}
	} else {
		i := cart.FindItem(productID, color, size)
		if i < 0 {
			return nil, apperr.New(apperr.NotFound, "item not in cart")
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	}

	if err := SaveCart(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// MergeItems appends guest lines whose (productId, color, size) key does not
// already exist in the user cart. Colliding lines are skipped, not summed.
func MergeItems(userItems, guestItems []models.CartItem) []models.CartItem {
	seen := make(map[string]bool, len(userItems))
	for _, it := range userItems {
		seen[it.Key()] = true
	}
	merged := userItems
	for _, it := range guestItems {
		if seen[it.Key()] {
			continue
		}
		seen[it.Key()] = true
		merged = append(merged, it)
	}
	return merged
}

// MergeGuestCart folds a guest cart into the user's cart at login. With no
// existing user cart the guest cart is re-owned; otherwise guest lines are
// merged in and the guest cart deleted. Best effort, no transaction.
func MergeGuestCart(ctx context.Context, userID primitive.ObjectID, guestID string) error {
	if guestID == "" {
		return nil
	}

	var guestCart models.Cart
	err := database.CartCollection.FindOne(ctx, bson.M{"guestId": guestID}).Decode(&guestCart)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to fetch guest cart")
	}

	var userCart models.Cart
	err = database.CartCollection.FindOne(ctx, bson.M{"user": userID}).Decode(&userCart)
	if err == mongo.ErrNoDocuments {
		// no user cart: re-own the guest cart
		_, err = database.CartCollection.UpdateOne(ctx,
			bson.M{"_id": guestCart.ID},
			bson.M{
				"$set":   bson.M{"user": userID, "updatedAt": time.Now()},
				"$unset": bson.M{"guestId": ""},
			})
		return apperr.Wrap(err, apperr.Internal, "failed to re-own guest cart")
	}
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to fetch user cart")
	}

	userCart.Items = MergeItems(userCart.Items, guestCart.Items)
	owner := CartOwner{UserID: &userID}
	if err := SaveCart(ctx, owner, &userCart); err != nil {
		return err
	}

	_, err = database.CartCollection.DeleteOne(ctx, bson.M{"_id": guestCart.ID})
	return apperr.Wrap(err, apperr.Internal, "failed to delete guest cart")
}
