package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/database"
	"storefront/models"
)

// GetProducts is the public listing: published products only, filterable by
// category/collection slug, gender, text search and price range.
func GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	filter := bson.M{"isPublished": true}

	if slug := c.Query("category"); slug != "" {
		var cat models.Category
		if err := database.CategoryCollection.FindOne(ctx, bson.M{"slug": slug, "isActive": true}).Decode(&cat); err != nil {
			c.JSON(http.StatusOK, gin.H{"data": []models.Product{}, "total": 0})
			return
		}
		filter["category"] = cat.ID
	}
	if slug := c.Query("collection"); slug != "" {
		var col models.Collection
		if err := database.CollectionCollection.FindOne(ctx, bson.M{"slug": slug, "isActive": true}).Decode(&col); err != nil {
			c.JSON(http.StatusOK, gin.H{"data": []models.Product{}, "total": 0})
			return
		}
		filter["collection"] = col.ID
	}
	if gender := c.Query("gender"); gender != "" {
		filter["gender"] = gender
	}
	if search := c.Query("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	price := bson.M{}
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	total, err := database.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to count products"})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := database.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch products"})
		return
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  products,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetProduct fetches one published product by hex id or slug.
func GetProduct(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")

	filter := bson.M{"slug": idOrSlug, "isPublished": true}
	if objID, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		filter = bson.M{"_id": objID, "isPublished": true}
	}

	var product models.Product
	err := database.ProductCollection.FindOne(c.Request.Context(), filter).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}
