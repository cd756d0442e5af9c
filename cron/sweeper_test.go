package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

func TestExpiredOrdersFilter(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	filter := expiredOrdersFilter(now)

	t.Run("COD orders are excluded", func(t *testing.T) {
		method, ok := filter["paymentMethod"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, models.PaymentCOD, method["$ne"])
	})

	t.Run("only unpaid processing orders qualify", func(t *testing.T) {
		assert.Equal(t, models.PaymentUnpaid, filter["paymentStatus"])
		assert.Equal(t, models.OrderProcessing, filter["status"])
	})

	t.Run("expiry is a strict past cutoff", func(t *testing.T) {
		exp, ok := filter["expiresAt"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, now, exp["$lt"])
	})

	// nothing beyond these four conditions may widen the sweep
	assert.Len(t, filter, 4)
}

func TestCancelExpiredFilterRepeatsQueryState(t *testing.T) {
	orderID := primitive.NewObjectID()
	filter := cancelExpiredFilter(orderID)

	assert.Equal(t, orderID, filter["_id"])
	// the write must skip orders transitioned between query and write
	assert.Equal(t, models.OrderProcessing, filter["status"])
	assert.Equal(t, models.PaymentUnpaid, filter["paymentStatus"])
	assert.Len(t, filter, 3)
}

func TestCancelExpiredUpdate(t *testing.T) {
	now := time.Now()
	update := cancelExpiredUpdate(now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, models.OrderCancelled, set["status"])
	assert.Equal(t, models.PaymentFailed, set["paymentStatus"])
	assert.Equal(t, now, set["updatedAt"])

	require.Len(t, update, 1, "cancellation must only set fields, never unset or replace")
}
