package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

func Connect(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return errors.Wrap(err, "mongodb connection failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, "mongodb ping failed")
	}

	Client = client
	DB = client.Database(dbName)

	logrus.WithField("db", dbName).Info("connected to MongoDB")
	return nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = Client.Disconnect(ctx)
}

var (
	UserCollection       *mongo.Collection
	ProductCollection    *mongo.Collection
	CategoryCollection   *mongo.Collection
	CollectionCollection *mongo.Collection
	CartCollection       *mongo.Collection
	OrderCollection      *mongo.Collection
	OtpCollection        *mongo.Collection
	BlacklistCollection  *mongo.Collection
)

func InitCollections() {
	UserCollection = DB.Collection("users")
	ProductCollection = DB.Collection("products")
	CategoryCollection = DB.Collection("categories")
	CollectionCollection = DB.Collection("collections")
	CartCollection = DB.Collection("carts")
	OrderCollection = DB.Collection("orders")
	OtpCollection = DB.Collection("otps")
	BlacklistCollection = DB.Collection("blacklist_tokens")
}

// EnsureIndexes creates the unique and TTL indexes the document invariants
// depend on: one cart per owner, unique slugs and SKUs, self-expiring OTPs.
func EnsureIndexes(ctx context.Context) error {
	sparse := options.Index().SetUnique(true).SetSparse(true)

	_, err := CartCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: sparse},
		{Keys: bson.D{{Key: "guestId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return errors.Wrap(err, "cart indexes")
	}

	_, err = ProductCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return errors.Wrap(err, "product indexes")
	}

	for _, col := range []*mongo.Collection{CategoryCollection, CollectionCollection} {
		_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return errors.Wrap(err, "taxonomy indexes")
		}
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "user indexes")
	}

	_, err = OtpCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Wrap(err, "otp ttl index")
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "order indexes")
	}

	_, err = BlacklistCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return errors.Wrap(err, "blacklist ttl index")
}
