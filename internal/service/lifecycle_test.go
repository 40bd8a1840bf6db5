package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

func TestArchiveRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	o := f.checkout(t, f.dineIn(70000))

	archived, err := f.orders.Archive(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.False(t, archived.IsPaid)
	assert.Equal(t, models.StateArchived, archived.State())

	// Archiving twice is a no-op.
	again, err := f.orders.Archive(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	assert.True(t, again.IsArchived)

	restored, err := f.orders.Restore(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.False(t, restored.IsPaid)
	assert.Equal(t, models.StateActive, restored.State())

	stored, err := f.repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsArchived)
	assert.False(t, stored.IsPaid)
	assert.Equal(t, int64(63800), stored.Total)
	assert.Equal(t, int64(70000), stored.ReceivedAmount)
	assert.Len(t, stored.Items, 2)

	assert.Equal(t, []string{EventOrderCreated, EventOrderArchived, EventOrderArchived, EventOrderRestored}, f.events.Types())
}

func TestArchivedFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	a := f.checkout(t, f.dineIn(70000))
	f.checkout(t, f.dineIn(70000))
	_, err := f.orders.Archive(ctx, f.cashier, a.ID)
	require.NoError(t, err)

	yes := true
	archived, err := f.orders.List(ctx, f.cashier, models.OrderFilter{Archived: &yes})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, a.ID, archived[0].ID)
}

func TestReorder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	src := f.checkout(t, f.dineIn(70000))

	_, err := f.orders.Reorder(ctx, f.cashier, src.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, int64(1), f.countOrders(t))

	_, err = f.orders.Archive(ctx, f.cashier, src.ID)
	require.NoError(t, err)

	f.nasi.Price = 40000
	require.NoError(t, f.repo.SaveMenuItem(ctx, &f.nasi))

	o, err := f.orders.Reorder(ctx, f.cashier, src.ID)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, o.ID)
	assert.NotEqual(t, src.OrderNumber, o.OrderNumber)
	assert.Equal(t, f.cashier.UserID, o.UserID)
	assert.Equal(t, "Budi", o.CustomerName)
	assert.Equal(t, models.OrderTypeDineIn, o.OrderType)
	require.NotNil(t, o.TableNumber)
	assert.Equal(t, 5, *o.TableNumber)
	assert.Equal(t, fixedNow, o.OrderDate)

	assert.Equal(t, int64(58000), o.Subtotal)
	assert.Equal(t, int64(5800), o.Tax)
	assert.Equal(t, int64(63800), o.Total)
	assert.Zero(t, o.ReceivedAmount)
	assert.Zero(t, o.Change)
	assert.False(t, o.IsPaid)
	assert.False(t, o.IsArchived)

	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(25000), o.Items[0].SnapshotPrice)
	assert.Equal(t, "pedas", o.Items[0].Note)

	source, err := f.repo.GetOrder(ctx, src.ID)
	require.NoError(t, err)
	assert.True(t, source.IsArchived)

	evs := f.events.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, EventOrderReordered, last.Event["type"])
	assert.Equal(t, src.ID.String(), last.Event["sourceID"])
	assert.Equal(t, o.ID.String(), last.Key)
}

func TestPay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	src := f.checkout(t, f.dineIn(70000))

	_, err := f.orders.Pay(ctx, f.cashier, src.ID, 70000)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.orders.Archive(ctx, f.cashier, src.ID)
	require.NoError(t, err)
	_, err = f.orders.Pay(ctx, f.cashier, src.ID, 70000)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	o, err := f.orders.Reorder(ctx, f.cashier, src.ID)
	require.NoError(t, err)

	_, err = f.orders.Pay(ctx, f.cashier, o.ID, 50000)
	require.ErrorIs(t, err, apperr.ErrInsufficientPayment)
	_, err = f.orders.Pay(ctx, f.cashier, o.ID, -1)
	require.ErrorIs(t, err, apperr.ErrValidation)

	paid, err := f.orders.Pay(ctx, f.cashier, o.ID, 70000)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, int64(70000), paid.ReceivedAmount)
	assert.Equal(t, int64(6200), paid.Change)

	stored, err := f.repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, int64(6200), stored.Change)
}
