package order_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(t *testing.T) kernel.User {
	t.Helper()
	u, err := kernel.NewUser(kernel.NewUUID(), "tester", "tester@example.com")
	require.NoError(t, err)
	return u
}

func TestNewOrder(t *testing.T) {
	t.Run("should create valid order with all valid parameters", func(t *testing.T) {
		id := kernel.NewUUID()
		user := testUser(t)

		o, err := order.NewOrder(id, user, order.TypeProduct)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.User().IsEqual(user))
		assert.Equal(t, order.TypeProduct, o.Type())
		assert.Equal(t, order.Submitted, o.Status())
		assert.Nil(t, o.StatusChangedOn())
		assert.Nil(t, o.CompletedOn())
		assert.False(t, o.CreatedOn().IsZero())
	})

	t.Run("should raise submitted event", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, err)

		events := o.PopEvents()

		require.Len(t, events, 1)
		assert.Equal(t, "order.submitted", events[0].Name())
		assert.Empty(t, o.PopEvents())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, testUser(t), order.TypeProduct)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with zero value user", func(t *testing.T) {
		var invalidUser kernel.User

		o, err := order.NewOrder(kernel.NewUUID(), invalidUser, order.TypeProduct)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with unknown order type", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeUnknown)

		require.Error(t, err)
		assert.Nil(t, o)
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("real transition moves statusChangedOn and raises event", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		o.PopEvents()

		err := o.ChangeStatus(order.Accepted, "approved")

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
		assert.Equal(t, "approved", o.AdditionalStatusInfo())
		require.NotNil(t, o.StatusChangedOn())

		events := o.PopEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(order.StatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, order.Submitted, changed.Previous)
		assert.Equal(t, order.Accepted, changed.Next)
	})

	t.Run("writing the current status is a no-op", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.ChangeStatus(order.Accepted, "approved"))
		changedOn := *o.StatusChangedOn()
		o.PopEvents()

		err := o.ChangeStatus(order.Accepted, "still approved")

		require.NoError(t, err)
		assert.Equal(t, changedOn, *o.StatusChangedOn())
		assert.Equal(t, "still approved", o.AdditionalStatusInfo())
		assert.Empty(t, o.PopEvents())
	})

	t.Run("terminal status sets completedOn", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.ChangeStatus(order.Accepted, ""))
		require.NoError(t, o.ChangeStatus(order.InProduction, ""))

		require.NoError(t, o.ChangeStatus(order.Completed, "all items produced"))

		require.NotNil(t, o.CompletedOn())
	})

	t.Run("resuming production clears completedOn", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeSubscription)
		require.NoError(t, o.ChangeStatus(order.Accepted, ""))
		require.NoError(t, o.ChangeStatus(order.Completed, ""))
		require.NotNil(t, o.CompletedOn())

		require.NoError(t, o.ChangeStatus(order.InProduction, "new batch"))

		assert.Nil(t, o.CompletedOn())
	})

	t.Run("cannot leave a final status", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.Cancel("changed my mind"))

		err := o.ChangeStatus(order.InProduction, "")

		require.Error(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})
}

func TestOrder_Moderation(t *testing.T) {
	t.Run("approve moves submitted order to accepted", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)

		require.NoError(t, o.Approve())

		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("approve fails when order already moderated", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.Approve())

		err := o.Approve()

		require.Error(t, err)
	})

	t.Run("reject cancels the order with the given reason", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)

		require.NoError(t, o.Reject("quota policy"))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "quota policy", o.AdditionalStatusInfo())
	})
}

func TestOrder_Terminate(t *testing.T) {
	t.Run("terminates a subscription", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeSubscription)
		require.NoError(t, o.ChangeStatus(order.Suspended, ""))

		require.NoError(t, o.Terminate())

		assert.Equal(t, order.Terminated, o.Status())
		// the subscription never "finished producing"; only Completed
		// and Failed record a production end time
		assert.Nil(t, o.CompletedOn())
	})

	t.Run("refuses non-subscription orders", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)

		err := o.Terminate()

		require.Error(t, err)
	})
}

func TestOrder_ItemSpecifications(t *testing.T) {
	t.Run("duplicate item identifiers are rejected", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		first, err := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")
		require.NoError(t, err)
		second, err := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-002", "")
		require.NoError(t, err)

		require.NoError(t, o.AddItemSpecification(first))
		err = o.AddItemSpecification(second)

		require.Error(t, err)
		assert.Len(t, o.ItemSpecifications(), 1)
	})

	t.Run("lookup by item identifier", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		spec, _ := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")
		require.NoError(t, o.AddItemSpecification(spec))

		found, err := o.ItemSpecification("item-1")
		require.NoError(t, err)
		assert.Equal(t, "L8-001", found.Identifier())

		_, err = o.ItemSpecification("missing")
		require.Error(t, err)
	})
}

func TestOrder_DeliveryOptionFor(t *testing.T) {
	orderLevel, err := order.NewDeliveryOption(order.DeliveryOnlineDataAccess, "http", 0, "", "")
	require.NoError(t, err)
	itemLevel, err := order.NewDeliveryOption(order.DeliveryMedia, "DVD", 1, "", "")
	require.NoError(t, err)

	t.Run("item-level option wins", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.SetDeliveryOption(orderLevel))
		spec, _ := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")
		require.NoError(t, spec.SetDeliveryOption(itemLevel))

		resolved, ok := o.DeliveryOptionFor(spec)

		require.True(t, ok)
		assert.Equal(t, order.DeliveryMedia, resolved.Type())
	})

	t.Run("falls back to the order-level option", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		require.NoError(t, o.SetDeliveryOption(orderLevel))
		spec, _ := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")

		resolved, ok := o.DeliveryOptionFor(spec)

		require.True(t, ok)
		assert.Equal(t, order.DeliveryOnlineDataAccess, resolved.Type())
	})

	t.Run("reports absence of delivery options", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
		spec, _ := order.NewItemSpecification(kernel.NewUUID(), "item-1", "Landsat8", "L8-001", "")

		_, ok := o.DeliveryOptionFor(spec)

		assert.False(t, ok)
	})
}

func TestOrder_SubscriptionPeriod(t *testing.T) {
	t.Run("rejects end before begin", func(t *testing.T) {
		o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeSubscription)
		begin := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		end := begin.Add(-time.Hour)

		err := o.SetSubscriptionPeriod(&begin, &end)

		require.Error(t, err)
	})
}

func TestOrder_RecordResultAccessRequest(t *testing.T) {
	o, _ := order.NewOrder(kernel.NewUUID(), testUser(t), order.TypeProduct)
	require.Nil(t, o.LastResultAccessRequest())

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	o.RecordResultAccessRequest(at)

	require.NotNil(t, o.LastResultAccessRequest())
	assert.Equal(t, at, *o.LastResultAccessRequest())
}
