package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/apperr"
	"storefront/config"
	"storefront/middleware"
	"storefront/models"
	"storefront/payment"
	"storefront/services"
)

var (
	cfg    *config.Config
	paypal *payment.PayPalClient
)

// Init wires the config and payment client; called once from main.
func Init(c *config.Config, pp *payment.PayPalClient) {
	cfg = c
	paypal = pp
}

// writeErr maps storage failures on insert/update paths: a duplicate key
// becomes a conflict the client can act on, anything else stays internal.
func writeErr(err error, conflictMsg, internalMsg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.New(apperr.Conflict, conflictMsg)
	}
	return apperr.Wrap(err, apperr.Internal, internalMsg)
}

// fail maps an error kind to a status and emits the {message} body the
// frontend expects. Internal causes are logged, never sent to the client.
func fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"message": apperr.MessageOf(err)})
}

func currentUserID(c *gin.Context) *primitive.ObjectID {
	v, ok := c.Get("userId")
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(v.(string))
	if err != nil {
		return nil
	}
	return &id
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == models.RoleAdmin
}

// cartOwner resolves the caller's cart identity. Writes mint a guest id for
// anonymous callers; reads leave them cartless.
func cartOwner(c *gin.Context, mint bool) services.CartOwner {
	if id := currentUserID(c); id != nil {
		return services.CartOwner{UserID: id}
	}
	guestID := c.GetString("guestId")
	if guestID == "" && mint {
		guestID = middleware.MintGuest(c)
	}
	return services.CartOwner{GuestID: guestID}
}

func shippingRule() services.ShippingRule {
	return services.ShippingRule{Fee: cfg.ShippingFee, FreeOver: cfg.FreeShippingOver}
}
