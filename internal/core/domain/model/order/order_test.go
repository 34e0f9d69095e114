package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
)

func TestNewOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		o := mustNewOrder(t)

		assert.NoError(t, o.Validate())
		assert.Equal(t, "1001", o.Number())
		assert.Equal(t, "EUR", o.Currency())
		assert.False(t, o.HasShipment())
		assert.Nil(t, o.Customs())
		assert.Empty(t, o.Notes())
	})

	t.Run("missing number", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "", testAddress(t), testMoney(t, 50), testItems(t))
		assert.Error(t, err)
	})

	t.Run("no items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "1001", testAddress(t), testMoney(t, 50), nil)
		assert.Error(t, err)
	})

	t.Run("unconstructed destination", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "1001", kernel.Address{}, testMoney(t, 50), testItems(t))
		assert.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("nil order", func(t *testing.T) {
		var o *order.Order
		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})

	t.Run("zero value order", func(t *testing.T) {
		o := &order.Order{}
		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})
}

func TestOrder_ShippableItems(t *testing.T) {
	physical := mustNewItem(t, "SKU-1", 2, 1.5, true)
	virtual := mustNewItem(t, "SKU-2", 1, 0, false)

	o, err := order.NewOrder(
		kernel.NewUUID(), "1001", testAddress(t), testMoney(t, 50),
		[]order.Item{physical, virtual})
	require.NoError(t, err)

	shippable := o.ShippableItems()
	require.Len(t, shippable, 1)
	assert.Equal(t, "SKU-1", shippable[0].ProductRef())
}

func TestOrder_AttachShipment(t *testing.T) {
	t.Run("attaches once", func(t *testing.T) {
		o := mustNewOrder(t)
		rec := mustNewRecord(t)

		require.NoError(t, o.AttachShipment(rec))
		assert.True(t, o.HasShipment())
		assert.Equal(t, rec, o.Shipment())
	})

	t.Run("second attach is rejected", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.AttachShipment(mustNewRecord(t)))

		err := o.AttachShipment(mustNewRecord(t))
		require.ErrorIs(t, err, order.ErrShipmentAlreadyAttached)
	})

	t.Run("unconstructed record is rejected", func(t *testing.T) {
		o := mustNewOrder(t)
		assert.Error(t, o.AttachShipment(&shipment.Record{}))
	})

	t.Run("attach after clear succeeds", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.AttachShipment(mustNewRecord(t)))
		require.NoError(t, o.ClearShipment())

		assert.NoError(t, o.AttachShipment(mustNewRecord(t)))
	})
}

func TestOrder_ClearShipment(t *testing.T) {
	t.Run("clears attached shipment", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.AttachShipment(mustNewRecord(t)))

		require.NoError(t, o.ClearShipment())
		assert.False(t, o.HasShipment())
	})

	t.Run("nothing to clear", func(t *testing.T) {
		o := mustNewOrder(t)
		require.ErrorIs(t, o.ClearShipment(), order.ErrNoShipmentAttached)
	})
}

func TestOrder_AttachCustoms(t *testing.T) {
	now := time.Now()

	t.Run("attaches once", func(t *testing.T) {
		o := mustNewOrder(t)
		sub := customs.NewPendingSubmission(now, now.Add(5*time.Minute))

		require.NoError(t, o.AttachCustoms(sub))
		assert.Equal(t, sub, o.Customs())
	})

	t.Run("live submission is not replaced", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.AttachCustoms(customs.NewPendingSubmission(now, now)))

		err := o.AttachCustoms(customs.NewPendingSubmission(now, now))
		require.ErrorIs(t, err, order.ErrCustomsAlreadyAttached)
	})

	t.Run("voided submission can be replaced", func(t *testing.T) {
		o := mustNewOrder(t)
		sub := customs.NewPendingSubmission(now, now)
		sub.MarkVoided()
		require.NoError(t, o.AttachCustoms(sub))

		assert.NoError(t, o.AttachCustoms(customs.NewPendingSubmission(now, now)))
	})
}

func TestOrder_PreRegistration(t *testing.T) {
	now := time.Now()

	t.Run("successful announcement blocks resubmission", func(t *testing.T) {
		o := mustNewOrder(t)
		assert.False(t, o.PreRegistration().Blocked())

		o.MarkPreRegistered(now)

		assert.True(t, o.PreRegistration().Submitted())
		assert.True(t, o.PreRegistration().Blocked())
		assert.Empty(t, o.PreRegistration().LastError())
	})

	t.Run("failed announcement does not block", func(t *testing.T) {
		o := mustNewOrder(t)
		o.RecordPreRegistrationError(now, "upstream 500")

		assert.False(t, o.PreRegistration().Blocked())
		assert.Equal(t, "upstream 500", o.PreRegistration().LastError())
		require.NotNil(t, o.PreRegistration().AttemptedAt())
	})

	t.Run("void blocks resubmission", func(t *testing.T) {
		o := mustNewOrder(t)
		o.VoidPreRegistration()

		assert.True(t, o.PreRegistration().Voided())
		assert.True(t, o.PreRegistration().Blocked())
	})
}

func TestOrder_Notes(t *testing.T) {
	o := mustNewOrder(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	o.AddNote(at, "all shipments voided")
	o.AddNote(at.Add(time.Minute), "data cleaned")

	notes := o.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "all shipments voided", notes[0].Message)
	assert.Equal(t, "data cleaned", notes[1].Message)
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now()
	rec := mustNewRecord(t)
	sub := customs.NewPendingSubmission(now, now.Add(5*time.Minute))
	notes := []order.Note{{At: now, Message: "labels generated"}}

	o, err := order.RestoreOrder(
		kernel.NewUUID(), "1001", testAddress(t), testMoney(t, 50), testItems(t),
		rec, sub, order.RestorePreRegistration(true, &now, "", false), notes)

	require.NoError(t, err)
	assert.NoError(t, o.Validate())
	assert.True(t, o.HasShipment())
	assert.Equal(t, sub, o.Customs())
	assert.True(t, o.PreRegistration().Submitted())
	assert.Len(t, o.Notes(), 1)
}

func TestOrder_IsEqual(t *testing.T) {
	o1 := mustNewOrder(t)
	o2 := mustNewOrder(t)

	assert.True(t, o1.IsEqual(o1))
	assert.False(t, o1.IsEqual(o2))
	assert.False(t, o1.IsEqual(nil))
}

func mustNewOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "1001", testAddress(t), testMoney(t, 50), testItems(t))
	require.NoError(t, err)
	return o
}

func mustNewRecord(t *testing.T) *shipment.Record {
	t.Helper()
	rec, err := shipment.NewRecord(
		[]string{"1ZSHIP01"}, []string{"1ZTRACK01"}, []string{"bGFiZWwx"}, "GIF", time.Now())
	require.NoError(t, err)
	return rec
}

func mustNewItem(t *testing.T, sku string, quantity int, unitWeightKg float64, shipping bool) order.Item {
	t.Helper()
	item, err := order.NewItem(sku, "widget", quantity, unitWeightKg, testMoney(t, 10), "6403.99", "DE", shipping)
	require.NoError(t, err)
	return item
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	return []order.Item{mustNewItem(t, "SKU-1", 1, 2.0, true)}
}

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(
		"John Smith", "", "1 Main St", "", "Berlin", "", "10115", "DE", "+49 30 0000", "john@example.com")
	require.NoError(t, err)
	return addr
}

func testMoney(t *testing.T, amount float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "EUR")
	require.NoError(t, err)
	return m
}
