package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedMenu(t *testing.T, r *GormRepo) (food, drink models.MenuItem) {
	t.Helper()
	ctx := context.Background()

	food = models.MenuItem{Name: "Nasi Goreng", Description: "fried rice", Price: 25000, Category: models.CategoryFood}
	drink = models.MenuItem{Name: "Es Teh", Description: "iced tea", Price: 8000, Category: models.CategoryBeverages}
	require.NoError(t, r.CreateMenuItem(ctx, &food))
	require.NoError(t, r.CreateMenuItem(ctx, &drink))
	return food, drink
}

func newOrder(user uuid.UUID, number string, items ...models.OrderItem) *models.Order {
	var sub int64
	for _, it := range items {
		sub += it.SnapshotPrice * int64(it.Quantity)
	}
	table := 3
	return &models.Order{
		UserID:         user,
		OrderNumber:    number,
		OrderDate:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		CustomerName:   "Budi",
		OrderType:      models.OrderTypeDineIn,
		TableNumber:    &table,
		Items:          items,
		Subtotal:       sub,
		Tax:            sub / 10,
		Total:          sub + sub/10,
		ReceivedAmount: sub + sub/10,
		IsPaid:         true,
	}
}

func TestGormRepo_CreateAndGetOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, drink := seedMenu(t, r)
	user := uuid.New()

	o := newOrder(user, "ORD#00000001",
		models.OrderItem{MenuItemID: food.ID, Quantity: 2, Note: "pedas", SnapshotPrice: food.Price},
		models.OrderItem{MenuItemID: drink.ID, Quantity: 1, SnapshotPrice: drink.Price},
	)
	require.NoError(t, r.CreateOrder(ctx, o))
	require.NotEqual(t, uuid.Nil, o.ID)

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD#00000001", got.OrderNumber)
	assert.Equal(t, user, got.UserID)
	assert.Equal(t, int64(58000), got.Subtotal)
	assert.Equal(t, int64(5800), got.Tax)
	assert.Equal(t, int64(63800), got.Total)
	assert.True(t, got.IsPaid)
	assert.False(t, got.IsArchived)
	require.NotNil(t, got.TableNumber)
	assert.Equal(t, 3, *got.TableNumber)

	require.Len(t, got.Items, 2)
	assert.Equal(t, food.ID, got.Items[0].MenuItemID)
	assert.Equal(t, "pedas", got.Items[0].Note)
	assert.Equal(t, int64(25000), got.Items[0].SnapshotPrice)
	assert.Equal(t, drink.ID, got.Items[1].MenuItemID)
}

func TestGormRepo_GetOrder_NotFound(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	_, err := r.GetOrder(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGormRepo_CreateOrder_DuplicateNumber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, _ := seedMenu(t, r)

	first := newOrder(uuid.New(), "ORD#00000042", models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
	require.NoError(t, r.CreateOrder(ctx, first))

	second := newOrder(uuid.New(), "ORD#00000042", models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
	err := r.CreateOrder(ctx, second)
	require.ErrorIs(t, err, apperr.ErrDuplicateOrderNumber)

	n, err := r.DeleteAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormRepo_ListOrders_ScopedAndFiltered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, _ := seedMenu(t, r)
	alice, bob := uuid.New(), uuid.New()

	item := func() models.OrderItem {
		return models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price}
	}

	a1 := newOrder(alice, "ORD#00000001", item())
	a2 := newOrder(alice, "ORD#00000002", item())
	b1 := newOrder(bob, "ORD#00000003", item())
	for _, o := range []*models.Order{a1, a2, b1} {
		require.NoError(t, r.CreateOrder(ctx, o))
	}

	a2.IsArchived = true
	a2.IsPaid = false
	require.NoError(t, r.SaveOrder(ctx, a2))

	all, err := r.ListOrders(ctx, alice, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, o := range all {
		assert.Equal(t, alice, o.UserID)
		assert.Len(t, o.Items, 1)
	}

	archived := true
	onlyArchived, err := r.ListOrders(ctx, alice, models.OrderFilter{Archived: &archived})
	require.NoError(t, err)
	require.Len(t, onlyArchived, 1)
	assert.Equal(t, a2.ID, onlyArchived[0].ID)
	assert.False(t, onlyArchived[0].IsPaid)

	active := false
	onlyActive, err := r.ListOrders(ctx, alice, models.OrderFilter{Archived: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, a1.ID, onlyActive[0].ID)

	none, err := r.ListOrders(ctx, uuid.New(), models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormRepo_ListOrders_Paged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, _ := seedMenu(t, r)
	user := uuid.New()

	for _, n := range []string{"ORD#00000001", "ORD#00000002", "ORD#00000003"} {
		o := newOrder(user, n, models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
		require.NoError(t, r.CreateOrder(ctx, o))
	}

	page, err := r.ListOrders(ctx, user, models.OrderFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Len(t, page[0].Items, 1)

	first, err := r.ListOrders(ctx, user, models.OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.NotEqual(t, page[0].ID, first[0].ID)
	assert.NotEqual(t, page[0].ID, first[1].ID)
}

func TestGormRepo_SaveOrderWithItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, drink := seedMenu(t, r)

	o := newOrder(uuid.New(), "ORD#00000010", models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
	require.NoError(t, r.CreateOrder(ctx, o))

	o.Items = []models.OrderItem{
		{MenuItemID: drink.ID, Quantity: 3, SnapshotPrice: drink.Price},
		{MenuItemID: food.ID, Quantity: 2, SnapshotPrice: food.Price},
	}
	o.Subtotal, o.Tax, o.Total = 74000, 7400, 81400
	require.NoError(t, r.SaveOrderWithItems(ctx, o))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(81400), got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, drink.ID, got.Items[0].MenuItemID)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, food.ID, got.Items[1].MenuItemID)
}

func TestGormRepo_SaveOrder_Missing(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	err := r.SaveOrder(context.Background(), &models.Order{ID: uuid.New()})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGormRepo_DeleteOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, _ := seedMenu(t, r)

	o := newOrder(uuid.New(), "ORD#00000020", models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
	require.NoError(t, r.CreateOrder(ctx, o))

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	_, err := r.GetOrder(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var items int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).Count(&items).Error)
	assert.Zero(t, items)

	require.ErrorIs(t, r.DeleteOrder(ctx, o.ID), apperr.ErrNotFound)
}

func TestGormRepo_DeleteAllOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, _ := seedMenu(t, r)

	for _, n := range []string{"ORD#00000031", "ORD#00000032", "ORD#00000033"} {
		o := newOrder(uuid.New(), n, models.OrderItem{MenuItemID: food.ID, Quantity: 1, SnapshotPrice: food.Price})
		require.NoError(t, r.CreateOrder(ctx, o))
	}

	n, err := r.DeleteAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var left int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&left).Error)
	assert.Zero(t, left)

	n, err = r.DeleteAllOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormRepo_MenuCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	food, drink := seedMenu(t, r)

	got, err := r.GetMenuItem(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", got.Name)

	got.Price = 27000
	require.NoError(t, r.SaveMenuItem(ctx, got))
	again, err := r.GetMenuItem(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(27000), again.Price)

	missing := uuid.New()
	byID, err := r.GetMenuItems(ctx, []uuid.UUID{food.ID, drink.ID, missing})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.NotContains(t, byID, missing)

	empty, err := r.GetMenuItems(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	list, err := r.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.CategoryBeverages, list[0].Category)

	require.NoError(t, r.DeleteMenuItem(ctx, drink.ID))
	_, err = r.GetMenuItem(ctx, drink.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, r.DeleteMenuItem(ctx, drink.ID), apperr.ErrNotFound)
	require.ErrorIs(t, r.SaveMenuItem(ctx, &models.MenuItem{ID: drink.ID, Name: "x"}), apperr.ErrNotFound)
}

func TestGormRepo_SearchMenuItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	seedMenu(t, r)

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{name: "by name any case", q: "NASI", want: []string{"Nasi Goreng"}},
		{name: "by description", q: "iced", want: []string{"Es Teh"}},
		{name: "by category", q: "bever", want: []string{"Es Teh"}},
		{name: "no match", q: "sate", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			items, err := r.SearchMenuItems(ctx, tt.q)
			require.NoError(t, err)

			var names []string
			for _, m := range items {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGormRepo_ReplaceMenu(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)
	seedMenu(t, r)

	err := r.ReplaceMenu(ctx, []models.MenuItem{
		{Name: "Kue Lapis", Description: "layer cake", Price: 15000, Category: models.CategoryDessert},
	})
	require.NoError(t, err)

	list, err := r.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kue Lapis", list[0].Name)
	assert.NotEqual(t, uuid.Nil, list[0].ID)
}

func TestGormRepo_Users(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	u := &models.User{Username: "kasir", Email: "kasir@padi.pos", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.Equal(t, models.RoleCashier, u.Role)

	dup := &models.User{Username: "other", Email: "kasir@padi.pos", PasswordHash: "y"}
	require.ErrorIs(t, r.CreateUser(ctx, dup), apperr.ErrConflict)

	byEmail, err := r.GetUserByEmail(ctx, "kasir@padi.pos")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.GetUserByEmail(ctx, "nobody@padi.pos")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	admin := &models.User{Username: "boss", Email: "boss@padi.pos", PasswordHash: "z", Role: models.RoleAdmin}
	require.NoError(t, r.CreateUser(ctx, admin))

	n, err := r.CountUsersByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	u.Email = "boss@padi.pos"
	require.ErrorIs(t, r.SaveUser(ctx, u), apperr.ErrConflict)

	u.Email = "kasir2@padi.pos"
	u.Username = "kasir dua"
	require.NoError(t, r.SaveUser(ctx, u))
	got, err := r.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "kasir dua", got.Username)
	assert.Equal(t, "kasir2@padi.pos", got.Email)
}

func TestTruncateStatement_QuotesTableNames(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	stmt, err := truncateStatement(r.DB, &models.OrderItem{}, &models.Order{})
	require.NoError(t, err)
	assert.Equal(t, `TRUNCATE TABLE "order_items", "orders" CASCADE`, stmt)

	prefixed, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{TablePrefix: `pos"shop_`},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(prefixed) })

	stmt, err = truncateStatement(prefixed, &models.OrderItem{}, &models.Order{})
	require.NoError(t, err)
	assert.Equal(t, `TRUNCATE TABLE "pos""shop_order_items", "pos""shop_orders" CASCADE`, stmt)
}
