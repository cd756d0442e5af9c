package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/database"
	"storefront/models"
	"storefront/services"
)

func Checkout(c *gin.Context) {
	var body struct {
		PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
		Email           string                 `json:"email"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paymentMethod and shippingAddress are required"})
		return
	}

	ctx := c.Request.Context()
	owner := cartOwner(c, false)
	if owner.UserID == nil && owner.GuestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cart is empty"})
		return
	}

	email := body.Email
	if owner.UserID != nil {
		var user models.User
		if err := database.UserCollection.FindOne(ctx, bson.M{"_id": *owner.UserID}).Decode(&user); err == nil {
			email = user.Email
		}
	}
	if owner.UserID == nil && email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required for guest checkout"})
		return
	}

	order, err := services.PlaceOrder(ctx, owner, services.CheckoutInput{
		PaymentMethod:   models.PaymentMethod(body.PaymentMethod),
		ShippingAddress: body.ShippingAddress,
		Email:           email,
		Shipping:        shippingRule(),
		OrderTTL:        cfg.OrderTTL,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "order placed", "data": order})
}

func GetOrders(c *gin.Context) {
	owner := cartOwner(c, false)
	if owner.UserID == nil && owner.GuestID == "" {
		c.JSON(http.StatusOK, gin.H{"data": []models.Order{}})
		return
	}

	filter := bson.M{"guestId": owner.GuestID}
	if owner.UserID != nil {
		filter = bson.M{"user": *owner.UserID}
	}

	ctx := c.Request.Context()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch orders"})
		return
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func GetOrder(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	var order models.Order
	err = database.OrderCollection.FindOne(c.Request.Context(), bson.M{"_id": objID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch order"})
		return
	}

	if !isAdmin(c) && !order.OwnedBy(currentUserID(c), c.GetString("guestId")) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// UpdateOrder applies one action from the transition table:
// cancel (owner or admin), confirm/ship/deliver (admin only).
func UpdateOrder(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	var body struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "action is required"})
		return
	}

	ctx := c.Request.Context()
	var order models.Order
	err = database.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch order"})
		return
	}

	isOwner := order.OwnedBy(currentUserID(c), c.GetString("guestId"))
	updated, err := services.TransitionOrder(ctx, &order, services.OrderAction(body.Action), isAdmin(c), isOwner)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order updated", "data": updated})
}
