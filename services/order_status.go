package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"storefront/apperr"
	"storefront/database"
	"storefront/mailer"
	"storefront/models"
)

type OrderAction string

const (
	ActionCancel  OrderAction = "cancel"
	ActionConfirm OrderAction = "confirm"
	ActionShip    OrderAction = "ship"
	ActionDeliver OrderAction = "deliver"
)

// Transition is the outcome of applying an action to an order.
type Transition struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus // empty means unchanged
	RestoreStock  bool
}

// ApplyAction enforces the transition table: cancel only from processing or
// confirmed and only by the owner or an admin; confirm/ship/deliver are
// admin-only and each requires its exact predecessor status.
func ApplyAction(order *models.Order, action OrderAction, isAdmin, isOwner bool) (Transition, error) {
	switch action {
	case ActionCancel:
		if !isAdmin && !isOwner {
			return Transition{}, apperr.New(apperr.Forbidden, "not allowed to cancel this order")
		}
		if order.Status != models.OrderProcessing && order.Status != models.OrderConfirmed {
			return Transition{}, apperr.New(apperr.Invalid, "order can no longer be cancelled")
		}
		t := Transition{Status: models.OrderCancelled, RestoreStock: true}
		switch {
		case order.PaymentStatus == models.PaymentPaid:
			t.PaymentStatus = models.PaymentRefunded
		case order.PaymentMethod != models.PaymentCOD:
			t.PaymentStatus = models.PaymentFailed
		}
		return t, nil

	case ActionConfirm:
		if !isAdmin {
			return Transition{}, apperr.New(apperr.Forbidden, "admin only")
		}
		if order.Status != models.OrderProcessing {
			return Transition{}, apperr.New(apperr.Invalid, "only processing orders can be confirmed")
		}
		return Transition{Status: models.OrderConfirmed}, nil

	case ActionShip:
		if !isAdmin {
			return Transition{}, apperr.New(apperr.Forbidden, "admin only")
		}
		if order.Status != models.OrderConfirmed {
			return Transition{}, apperr.New(apperr.Invalid, "only confirmed orders can be shipped")
		}
		return Transition{Status: models.OrderShipping}, nil

	case ActionDeliver:
		if !isAdmin {
			return Transition{}, apperr.New(apperr.Forbidden, "admin only")
		}
		if order.Status != models.OrderShipping {
			return Transition{}, apperr.New(apperr.Invalid, "only shipping orders can be delivered")
		}
		t := Transition{Status: models.OrderDelivered}
		if order.PaymentMethod == models.PaymentCOD {
			t.PaymentStatus = models.PaymentPaid
		}
		return t, nil
	}
	return Transition{}, apperr.New(apperr.Invalid, "unknown action")
}

// TransitionOrder applies an action and persists the result. Stock is
// restored after the write, outside any transaction.
func TransitionOrder(ctx context.Context, order *models.Order, action OrderAction, isAdmin, isOwner bool) (*models.Order, error) {
	t, err := ApplyAction(order, action, isAdmin, isOwner)
	if err != nil {
		return nil, err
	}

	set := bson.M{"status": t.Status, "updatedAt": time.Now()}
	if t.PaymentStatus != "" {
		set["paymentStatus"] = t.PaymentStatus
	}
	// filter repeats the current status so a concurrent transition loses
	res, err := database.OrderCollection.UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": order.Status},
		bson.M{"$set": set})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update order")
	}
	if res.MatchedCount == 0 {
		return nil, apperr.New(apperr.Conflict, "order changed, retry")
	}

	order.Status = t.Status
	if t.PaymentStatus != "" {
		order.PaymentStatus = t.PaymentStatus
	}
	if t.RestoreStock {
		RestoreStock(ctx, order.Items)
		mailer.SendOrderCancelled(ctx, order)
	}
	return order, nil
}
