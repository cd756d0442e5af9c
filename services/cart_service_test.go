package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/apperr"
	"storefront/models"
)

func TestMergeItems(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	p3 := primitive.NewObjectID()

	userItems := []models.CartItem{
		{ProductID: p1, Color: "black", Size: "M", Quantity: 2, Price: 10},
		{ProductID: p2, Color: "white", Size: "L", Quantity: 1, Price: 20},
	}
	guestItems := []models.CartItem{
		{ProductID: p1, Color: "black", Size: "M", Quantity: 5, Price: 10}, // collides
		{ProductID: p1, Color: "black", Size: "L", Quantity: 1, Price: 10}, // different size
		{ProductID: p3, Color: "red", Size: "S", Quantity: 3, Price: 15},
	}

	merged := MergeItems(userItems, guestItems)

	require.Len(t, merged, 4)

	t.Run("colliding line keeps user quantity", func(t *testing.T) {
		i := -1
		for idx, it := range merged {
			if it.ProductID == p1 && it.Color == "black" && it.Size == "M" {
				i = idx
			}
		}
		require.GreaterOrEqual(t, i, 0)
		assert.Equal(t, 2, merged[i].Quantity, "collision must be skipped, not summed")
	})

	t.Run("user lines come first, guest additions after", func(t *testing.T) {
		assert.Equal(t, userItems[0].Key(), merged[0].Key())
		assert.Equal(t, userItems[1].Key(), merged[1].Key())
	})

	t.Run("no duplicate keys in result", func(t *testing.T) {
		seen := map[string]bool{}
		for _, it := range merged {
			assert.False(t, seen[it.Key()], "duplicate key %s", it.Key())
			seen[it.Key()] = true
		}
	})
}

func TestMergeItemsEdgeCases(t *testing.T) {
	p := primitive.NewObjectID()
	guest := []models.CartItem{{ProductID: p, Color: "black", Size: "M", Quantity: 1}}

	t.Run("empty user cart takes all guest lines", func(t *testing.T) {
		merged := MergeItems(nil, guest)
		require.Len(t, merged, 1)
		assert.Equal(t, guest[0].Key(), merged[0].Key())
	})

	t.Run("empty guest cart is a no-op", func(t *testing.T) {
		merged := MergeItems(guest, nil)
		require.Len(t, merged, 1)
	})

	t.Run("duplicate keys inside the guest cart collapse to one", func(t *testing.T) {
		merged := MergeItems(nil, append(guest, guest...))
		assert.Len(t, merged, 1)
	})
}

// collections are nil in these tests, so any database access panics;
// identity-less callers must never get that far
func TestCartOpsWithoutIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns an unsaved empty cart", func(t *testing.T) {
		cart, err := GetCart(ctx, CartOwner{})
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.ID.IsZero())
	})

	t.Run("clear is a no-op", func(t *testing.T) {
		cart, err := RemoveItem(ctx, CartOwner{}, primitive.NilObjectID, "", "")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.ID.IsZero())
	})

	t.Run("remove of a specific line is a no-op", func(t *testing.T) {
		cart, err := RemoveItem(ctx, CartOwner{}, primitive.NewObjectID(), "black", "M")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("save refuses an ownerless cart", func(t *testing.T) {
		err := SaveCart(ctx, CartOwner{}, &models.Cart{})
		require.Error(t, err)
		assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	})
}

func TestCartOwnerFilter(t *testing.T) {
	userID := primitive.NewObjectID()

	userOwner := CartOwner{UserID: &userID, GuestID: "ignored"}
	assert.Equal(t, userID, userOwner.Filter()["user"])
	assert.NotContains(t, userOwner.Filter(), "guestId")

	guestOwner := CartOwner{GuestID: "g-1"}
	assert.Equal(t, "g-1", guestOwner.Filter()["guestId"])

	assert.False(t, userOwner.Empty())
	assert.False(t, guestOwner.Empty())
	assert.True(t, CartOwner{}.Empty())
}
