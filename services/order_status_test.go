package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
	"storefront/models"
)

func order(status models.OrderStatus, payStatus models.PaymentStatus, method models.PaymentMethod) *models.Order {
	return &models.Order{Status: status, PaymentStatus: payStatus, PaymentMethod: method}
}

func TestApplyActionForwardPath(t *testing.T) {
	steps := []struct {
		action OrderAction
		from   models.OrderStatus
		to     models.OrderStatus
	}{
		{ActionConfirm, models.OrderProcessing, models.OrderConfirmed},
		{ActionShip, models.OrderConfirmed, models.OrderShipping},
		{ActionDeliver, models.OrderShipping, models.OrderDelivered},
	}

	for _, step := range steps {
		t.Run(string(step.action), func(t *testing.T) {
			tr, err := ApplyAction(order(step.from, models.PaymentPaid, models.PaymentPayPal), step.action, true, false)
			require.NoError(t, err)
			assert.Equal(t, step.to, tr.Status)
			assert.False(t, tr.RestoreStock)
		})

		t.Run(string(step.action)+" requires admin", func(t *testing.T) {
			_, err := ApplyAction(order(step.from, models.PaymentPaid, models.PaymentPayPal), step.action, false, true)
			require.Error(t, err)
			assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
		})
	}
}

func TestApplyActionNeverSkipsStates(t *testing.T) {
	// each admin action fails from every status except its exact predecessor
	preds := map[OrderAction]models.OrderStatus{
		ActionConfirm: models.OrderProcessing,
		ActionShip:    models.OrderConfirmed,
		ActionDeliver: models.OrderShipping,
	}
	all := []models.OrderStatus{
		models.OrderProcessing, models.OrderConfirmed, models.OrderShipping,
		models.OrderDelivered, models.OrderCancelled,
	}

	for action, pred := range preds {
		for _, from := range all {
			if from == pred {
				continue
			}
			_, err := ApplyAction(order(from, models.PaymentUnpaid, models.PaymentCOD), action, true, false)
			require.Error(t, err, "%s must fail from %s", action, from)
			assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
		}
	}
}

func TestApplyActionCancel(t *testing.T) {
	t.Run("owner can cancel processing", func(t *testing.T) {
		tr, err := ApplyAction(order(models.OrderProcessing, models.PaymentUnpaid, models.PaymentPayPal), ActionCancel, false, true)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, tr.Status)
		assert.True(t, tr.RestoreStock)
		assert.Equal(t, models.PaymentFailed, tr.PaymentStatus)
	})

	t.Run("admin can cancel confirmed", func(t *testing.T) {
		tr, err := ApplyAction(order(models.OrderConfirmed, models.PaymentUnpaid, models.PaymentCOD), ActionCancel, true, false)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, tr.Status)
		assert.Empty(t, tr.PaymentStatus, "unpaid COD keeps its payment status")
	})

	t.Run("paid order refunds on cancel", func(t *testing.T) {
		tr, err := ApplyAction(order(models.OrderProcessing, models.PaymentPaid, models.PaymentPayPal), ActionCancel, false, true)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, tr.PaymentStatus)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		_, err := ApplyAction(order(models.OrderProcessing, models.PaymentUnpaid, models.PaymentCOD), ActionCancel, false, false)
		require.Error(t, err)
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})

	for _, from := range []models.OrderStatus{models.OrderShipping, models.OrderDelivered, models.OrderCancelled} {
		t.Run("cannot cancel from "+string(from), func(t *testing.T) {
			_, err := ApplyAction(order(from, models.PaymentUnpaid, models.PaymentCOD), ActionCancel, true, true)
			require.Error(t, err)
			assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
		})
	}
}

func TestApplyActionDeliverMarksCODPaid(t *testing.T) {
	tr, err := ApplyAction(order(models.OrderShipping, models.PaymentUnpaid, models.PaymentCOD), ActionDeliver, true, false)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, tr.PaymentStatus)

	tr, err = ApplyAction(order(models.OrderShipping, models.PaymentPaid, models.PaymentPayPal), ActionDeliver, true, false)
	require.NoError(t, err)
	assert.Empty(t, tr.PaymentStatus)
}

func TestApplyActionUnknown(t *testing.T) {
	_, err := ApplyAction(order(models.OrderProcessing, models.PaymentUnpaid, models.PaymentCOD), "refund", true, true)
	require.Error(t, err)
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
}
