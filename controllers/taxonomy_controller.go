package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/database"
	"storefront/utils"
)

// Category and Collection share the same shape and handlers; only the
// backing collection differs.

type taxonomy struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func listTaxonomies(col func() *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{"isActive": true}
		if isAdmin(c) && c.Query("all") == "true" {
			filter = bson.M{}
		}

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := col().Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch"})
			return
		}
		items := []taxonomy{}
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

func createTaxonomy(col func() *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
			return
		}

		now := time.Now()
		item := taxonomy{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Slug:      utils.Slugify(input.Name),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := col().InsertOne(c.Request.Context(), item)
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "name already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "created", "data": item})
	}
}

func updateTaxonomy(col func() *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		var input struct {
			Name     *string `json:"name"`
			IsActive *bool   `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if input.Name != nil {
			update["name"] = *input.Name
			update["slug"] = utils.Slugify(*input.Name)
		}
		if input.IsActive != nil {
			update["isActive"] = *input.IsActive
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated taxonomy
		err = col().FindOneAndUpdate(c.Request.Context(), bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "name already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "updated", "data": updated})
	}
}

// deleteTaxonomy is a soft delete: the document stays for existing product refs.
func deleteTaxonomy(col func() *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		res, err := col().UpdateOne(c.Request.Context(),
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
	}
}

func categoryCol() *mongo.Collection   { return database.CategoryCollection }
func collectionCol() *mongo.Collection { return database.CollectionCollection }

var (
	ListCategories   = listTaxonomies(categoryCol)
	CreateCategory   = createTaxonomy(categoryCol)
	UpdateCategory   = updateTaxonomy(categoryCol)
	DeleteCategory   = deleteTaxonomy(categoryCol)
	ListCollections  = listTaxonomies(collectionCol)
	CreateCollection = createTaxonomy(collectionCol)
	UpdateCollection = updateTaxonomy(collectionCol)
	DeleteCollection = deleteTaxonomy(collectionCol)
)
