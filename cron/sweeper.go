// Package cron runs the expired-order sweep: unpaid non-COD orders whose
// payment window has passed are cancelled and their stock restored.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/apperr"
	"storefront/database"
	"storefront/mailer"
	"storefront/models"
	"storefront/services"
)

// Start schedules the sweep with the given cron spec (default every 5 min).
func Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := Sweep(ctx); err != nil {
			logrus.WithError(err).Error("order sweep failed")
		} else if n > 0 {
			logrus.WithField("cancelled", n).Info("order sweep done")
		}
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "bad sweep spec")
	}
	c.Start()
	return c, nil
}

// expiredOrdersFilter selects the sweep's victims: non-COD, still unpaid,
// still processing, payment window passed.
func expiredOrdersFilter(now time.Time) bson.M {
	return bson.M{
		"paymentMethod": bson.M{"$ne": models.PaymentCOD},
		"paymentStatus": models.PaymentUnpaid,
		"status":        models.OrderProcessing,
		"expiresAt":     bson.M{"$lt": now},
	}
}

// cancelExpiredFilter guards the write: it repeats the status and payment
// status so an order transitioned between query and write matches nothing.
func cancelExpiredFilter(orderID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":           orderID,
		"status":        models.OrderProcessing,
		"paymentStatus": models.PaymentUnpaid,
	}
}

func cancelExpiredUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"status":        models.OrderCancelled,
		"paymentStatus": models.PaymentFailed,
		"updatedAt":     now,
	}}
}

// Sweep cancels every expired unpaid non-COD order still in processing.
// The status filter on the write is the only idempotency guard; an order
// transitioned between query and write is simply skipped.
func Sweep(ctx context.Context) (int, error) {
	cursor, err := database.OrderCollection.Find(ctx, expiredOrdersFilter(time.Now()))
	if err != nil {
		return 0, apperr.Wrap(err, apperr.Internal, "failed to query expired orders")
	}
	var expired []models.Order
	if err := cursor.All(ctx, &expired); err != nil {
		return 0, apperr.Wrap(err, apperr.Internal, "failed to decode expired orders")
	}

	cancelled := 0
	for i := range expired {
		order := &expired[i]
		res, err := database.OrderCollection.UpdateOne(ctx,
			cancelExpiredFilter(order.ID), cancelExpiredUpdate(time.Now()))
		if err != nil {
			logrus.WithError(err).WithField("order", order.ID.Hex()).Error("failed to cancel expired order")
			continue
		}
		if res.ModifiedCount == 0 {
			// someone transitioned it between query and write
			continue
		}

		services.RestoreStock(ctx, order.Items)
		order.Status = models.OrderCancelled
		order.PaymentStatus = models.PaymentFailed
		mailer.SendOrderCancelled(ctx, order)
		cancelled++
	}
	return cancelled, nil
}
