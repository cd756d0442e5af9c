package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/apperr"
	"storefront/database"
)

// Stock buckets for the admin listing filter.
const (
	StockOut = "out"
	StockLow = "low"
	StockIn  = "in"

	lowStockThreshold = 5
)

// AdminProductQuery collects the admin listing filters. Zero values mean
// "no filter" except Page/Limit which get defaults.
type AdminProductQuery struct {
	Published  *bool
	Stock      string // out | low | in
	Category   primitive.ObjectID
	Collection primitive.ObjectID
	Gender     string
	Search     string
	Sort       string // newest | price_asc | price_desc | name
	Page       int
	Limit      int
}

func (q *AdminProductQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// totalStockExpr sums countInStock across every variant size bucket.
func totalStockExpr() bson.M {
	return bson.M{"$reduce": bson.M{
		"input":        "$variants",
		"initialValue": 0,
		"in": bson.M{"$add": bson.A{"$$value", bson.M{"$reduce": bson.M{
			"input":        "$$this.sizes",
			"initialValue": 0,
			"in":           bson.M{"$add": bson.A{"$$value", "$$this.countInStock"}},
		}}}},
	}}
}

// BuildAdminMatch is the shared filter stage; the paged pipeline and the
// count pipeline both start from it so totals can't drift from the page.
func BuildAdminMatch(q AdminProductQuery) bson.M {
	match := bson.M{}
	if q.Published != nil {
		match["isPublished"] = *q.Published
	}
	if !q.Category.IsZero() {
		match["category"] = q.Category
	}
	if !q.Collection.IsZero() {
		match["collection"] = q.Collection
	}
	if q.Gender != "" {
		match["gender"] = q.Gender
	}
	if q.Search != "" {
		regex := bson.M{"$regex": q.Search, "$options": "i"}
		match["$or"] = bson.A{bson.M{"name": regex}, bson.M{"sku": regex}}
	}
	return match
}

func stockBucketMatch(bucket string) (bson.M, bool) {
	switch bucket {
	case StockOut:
		return bson.M{"totalStock": 0}, true
	case StockLow:
		return bson.M{"totalStock": bson.M{"$gt": 0, "$lte": lowStockThreshold}}, true
	case StockIn:
		return bson.M{"totalStock": bson.M{"$gt": lowStockThreshold}}, true
	}
	return nil, false
}

// BuildAdminPipeline assembles the aggregation for one page of the admin
// product table: filter, computed fields, stock bucket, lookups, sort, page.
func BuildAdminPipeline(q AdminProductQuery) mongo.Pipeline {
	q.normalize()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: BuildAdminMatch(q)}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"totalStock": totalStockExpr(),
			"displayPrice": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$discountPrice", 0}}, "$discountPrice", "$price",
			}},
			"discountPercent": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$discountPrice", 0}},
				bson.M{"$round": bson.A{bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{
						bson.M{"$subtract": bson.A{"$price", "$discountPrice"}}, "$price",
					}}, 100,
				}}, 0}},
				0,
			}},
		}}},
	}

	if m, ok := stockBucketMatch(q.Stock); ok {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: m}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "categories", "localField": "category",
			"foreignField": "_id", "as": "categoryDoc",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path": "$categoryDoc", "preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "collections", "localField": "collection",
			"foreignField": "_id", "as": "collectionDoc",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path": "$collectionDoc", "preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$sort", Value: sortSpec(q.Sort)}},
		bson.D{{Key: "$skip", Value: int64((q.Page - 1) * q.Limit)}},
		bson.D{{Key: "$limit", Value: int64(q.Limit)}},
	)
	return pipeline
}

// BuildAdminCountPipeline counts everything the page filter matches,
// including the stock bucket (which needs the computed totalStock).
func BuildAdminCountPipeline(q AdminProductQuery) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: BuildAdminMatch(q)}},
	}
	if m, ok := stockBucketMatch(q.Stock); ok {
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{"totalStock": totalStockExpr()}}},
			bson.D{{Key: "$match", Value: m}},
		)
	}
	pipeline = append(pipeline, bson.D{{Key: "$count", Value: "total"}})
	return pipeline
}

func sortSpec(sort string) bson.D {
	switch sort {
	case "price_asc":
		return bson.D{{Key: "displayPrice", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "displayPrice", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// ListAdminProducts runs the filtered pipeline twice: once for the page,
// once for the total of the same filter.
func ListAdminProducts(ctx context.Context, q AdminProductQuery) ([]bson.M, int64, error) {
	cursor, err := database.ProductCollection.Aggregate(ctx, BuildAdminPipeline(q))
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Internal, "failed to list products")
	}
	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Internal, "failed to decode products")
	}

	countCursor, err := database.ProductCollection.Aggregate(ctx, BuildAdminCountPipeline(q))
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Internal, "failed to count products")
	}
	var counts []struct {
		Total int64 `bson:"total"`
	}
	if err := countCursor.All(ctx, &counts); err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Internal, "failed to decode count")
	}
	total := int64(0)
	if len(counts) > 0 {
		total = counts[0].Total
	}
	return docs, total, nil
}
