package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/database"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
)

func CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, sku, price and category are required"})
		return
	}
	if product.DiscountPrice < 0 || (product.DiscountPrice > 0 && product.DiscountPrice > product.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "discount price must not exceed price"})
		return
	}
	for _, v := range product.Variants {
		for _, s := range v.Sizes {
			if !models.ValidSize(s.SizeName) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid size name: " + s.SizeName})
				return
			}
			if s.CountInStock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "stock must not be negative"})
				return
			}
		}
	}

	product.ID = primitive.NewObjectID()
	product.Slug = utils.Slugify(product.Name)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	ctx := c.Request.Context()
	_, err := database.ProductCollection.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		// slug collision: retry once with the id as suffix
		product.Slug = product.Slug + "-" + product.ID.Hex()[18:]
		_, err = database.ProductCollection.InsertOne(ctx, product)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "sku or slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "product created", "data": product})
}

func UpdateProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	var body struct {
		Name          *string             `json:"name"`
		Description   *string             `json:"description"`
		Price         *float64            `json:"price"`
		DiscountPrice *float64            `json:"discountPrice"`
		Gender        *models.Gender      `json:"gender"`
		Category      *primitive.ObjectID `json:"category"`
		Collection    *primitive.ObjectID `json:"collection"`
		Variants      []models.Variant    `json:"variants"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}
	if body.Price != nil {
		update["price"] = *body.Price
	}
	if body.DiscountPrice != nil {
		update["discountPrice"] = *body.DiscountPrice
	}
	if body.Gender != nil {
		update["gender"] = *body.Gender
	}
	if body.Category != nil {
		update["category"] = *body.Category
	}
	if body.Collection != nil {
		update["collection"] = *body.Collection
	}
	if body.Variants != nil {
		for _, v := range body.Variants {
			for _, s := range v.Sizes {
				if !models.ValidSize(s.SizeName) || s.CountInStock < 0 {
					c.JSON(http.StatusBadRequest, gin.H{"message": "invalid variant sizes"})
					return
				}
			}
		}
		update["variants"] = body.Variants
	}
	update["updatedAt"] = time.Now()

	ctx := c.Request.Context()

	var current models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&current); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	price := current.Price
	if body.Price != nil {
		price = *body.Price
	}
	discount := current.DiscountPrice
	if body.DiscountPrice != nil {
		discount = *body.DiscountPrice
	}
	if discount < 0 || (discount > 0 && discount > price) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "discount price must not exceed price"})
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = database.ProductCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product updated", "data": updated})
}

func PublishProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	var body struct {
		IsPublished *bool `json:"isPublished" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "isPublished is required"})
		return
	}

	res, err := database.ProductCollection.UpdateOne(c.Request.Context(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"isPublished": *body.IsPublished, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update product"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "publish state updated"})
}

func DeleteProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	res, err := database.ProductCollection.DeleteOne(c.Request.Context(), bson.M{"_id": objID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete product"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": objID.Hex()})
}

// GetProductsAdmin serves the admin table: every filter combination maps
// onto the aggregation pipeline in services.
func GetProductsAdmin(c *gin.Context) {
	q := services.AdminProductQuery{
		Stock:  c.Query("stock"),
		Gender: c.Query("gender"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
	if v := c.Query("published"); v != "" {
		published := v == "true"
		q.Published = &published
	}
	if id, err := primitive.ObjectIDFromHex(c.Query("category")); err == nil {
		q.Category = id
	}
	if id, err := primitive.ObjectIDFromHex(c.Query("collection")); err == nil {
		q.Collection = id
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	docs, total, err := services.ListAdminProducts(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  docs,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}
