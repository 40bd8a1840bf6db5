package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/internal/repo"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/pkg/db"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/metrics"
)

var fixedNow = time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

type fixture struct {
	repo   *repo.GormRepo
	events *events.Recorder
	orders *OrderService

	nasi, esTeh, kue models.MenuItem
	cashier          Requester
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(ctx))

	f := &fixture{
		repo:    r,
		events:  &events.Recorder{},
		cashier: Requester{UserID: uuid.New(), Role: models.RoleCashier},
		nasi:    models.MenuItem{Name: "Nasi Goreng Spesial", Description: "fried rice", Price: 25000, Category: models.CategoryFood},
		esTeh:   models.MenuItem{Name: "Es Teh Manis", Description: "sweet iced tea", Price: 8000, Category: models.CategoryBeverages},
		kue:     models.MenuItem{Name: "Kue Lapis", Description: "layer cake", Price: 15000, Category: models.CategoryDessert},
	}
	for _, m := range []*models.MenuItem{&f.nasi, &f.esTeh, &f.kue} {
		require.NoError(t, r.CreateMenuItem(ctx, m))
	}

	f.orders = &OrderService{
		Orders:  r,
		Menu:    r,
		Pricing: pricing.Default(),
		Events:  f.events,
		Metrics: metrics.New(),
		Now:     func() time.Time { return fixedNow },
	}
	return f
}

func intPtr(v int) *int { return &v }

// dineIn is 2 Nasi Goreng and 1 Es Teh at table 5: 58000 + 5800 tax.
func (f *fixture) dineIn(received int64) transport.CheckoutRequest {
	return transport.CheckoutRequest{
		CustomerName: "Budi",
		OrderType:    models.OrderTypeDineIn,
		TableNumber:  intPtr(5),
		Items: []transport.OrderItemRequest{
			{MenuItem: f.nasi.ID, Quantity: 2, Note: " pedas "},
			{MenuItem: f.esTeh.ID, Quantity: 1},
		},
		ReceivedAmount: received,
	}
}

func (f *fixture) checkout(t *testing.T, in transport.CheckoutRequest) *models.Order {
	t.Helper()
	o, err := f.orders.Checkout(context.Background(), f.cashier, in)
	require.NoError(t, err)
	return o
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&n).Error)
	return n
}
