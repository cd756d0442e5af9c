package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Otp is a one-time login code. A TTL index on ExpiresAt reaps stale codes.
type Otp struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
