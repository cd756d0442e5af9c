package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/database"
	"storefront/models"
)

// PayPalCreate registers the order total with PayPal and stores the
// returned PayPal order id on our order.
func PayPalCreate(c *gin.Context) {
	if !paypal.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "paypal is not configured"})
		return
	}

	var body struct {
		OrderID string `json:"orderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "orderId is required"})
		return
	}
	objID, err := primitive.ObjectIDFromHex(body.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid orderId"})
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

	if !order.OwnedBy(currentUserID(c), c.GetString("guestId")) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your order"})
		return
	}
	if order.PaymentMethod != models.PaymentPayPal {
		c.JSON(http.StatusBadRequest, gin.H{"message": "order is not a paypal order"})
		return
	}
	if order.PaymentStatus != models.PaymentUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "order is not awaiting payment"})
		return
	}

	paypalOrderID, err := paypal.CreateOrder(ctx, order.TotalPrice, order.ID.Hex())
	if err != nil {
		fail(c, err)
		return
	}

	_, err = database.OrderCollection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{"paypalOrderId": paypalOrderID, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store paypal order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paypalOrderId": paypalOrderID})
}

// PayPalCapture finalizes the payment: on success the order becomes paid
// and its expiry is lifted so the sweep leaves it alone.
func PayPalCapture(c *gin.Context) {
	if !paypal.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "paypal is not configured"})
		return
	}

	var body struct {
		OrderID       string `json:"orderId" binding:"required"`
		PayPalOrderID string `json:"paypalOrderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "orderId and paypalOrderId are required"})
		return
	}
	objID, err := primitive.ObjectIDFromHex(body.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid orderId"})
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

	if !order.OwnedBy(currentUserID(c), c.GetString("guestId")) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your order"})
		return
	}
	if order.PayPalOrderID == "" || order.PayPalOrderID != body.PayPalOrderID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paypal order mismatch"})
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		c.JSON(http.StatusOK, gin.H{"message": "already paid"})
		return
	}

	if err := paypal.CaptureOrder(ctx, body.PayPalOrderID); err != nil {
		fail(c, err)
		return
	}

	_, err = database.OrderCollection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{
			"$set":   bson.M{"paymentStatus": models.PaymentPaid, "updatedAt": time.Now()},
			"$unset": bson.M{"expiresAt": ""},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to mark order paid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment captured"})
}
