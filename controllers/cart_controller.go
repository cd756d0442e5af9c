package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/services"
)

type cartItemRef struct {
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

func GetCart(c *gin.Context) {
	owner := cartOwner(c, false)
	cart, err := services.GetCart(c.Request.Context(), owner)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cart})
}

func AddToCart(c *gin.Context) {
	var body struct {
		cartItemRef
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId, color, size and quantity are required"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId"})
		return
	}

	owner := cartOwner(c, true)
	cart, err := services.AddItem(c.Request.Context(), owner, productID, body.Color, body.Size, body.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added to cart", "data": cart})
}

func UpdateCartItem(c *gin.Context) {
	var body struct {
		cartItemRef
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || *body.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId, color, size and quantity are required"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId"})
		return
	}

	owner := cartOwner(c, false)
	cart, err := services.UpdateItem(c.Request.Context(), owner, productID, body.Color, body.Size, *body.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated", "data": cart})
}

// RemoveFromCart drops one line identified by query params, or clears the
// whole cart when productId is absent.
func RemoveFromCart(c *gin.Context) {
	owner := cartOwner(c, false)

	var productID primitive.ObjectID
	if hex := c.Query("productId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId"})
			return
		}
		productID = id
	}

	cart, err := services.RemoveItem(c.Request.Context(), owner, productID, c.Query("color"), c.Query("size"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated", "data": cart})
}
