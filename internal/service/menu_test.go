package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/transport"
)

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]models.MenuItem
	removed []uuid.UUID
	resets  int
	hits    []models.MenuItem
	err     error
}

func (f *fakeIndex) IndexMenuItem(_ context.Context, m models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = make(map[uuid.UUID]models.MenuItem)
	}
	f.docs[m.ID] = m
	return nil
}

func (f *fakeIndex) RemoveMenuItem(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = nil
	f.resets++
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]models.MenuItem, error) {
	return f.hits, f.err
}

func newMenuService(t *testing.T) (*MenuService, *fixture, *fakeIndex) {
	t.Helper()
	f := newFixture(t)
	idx := &fakeIndex{}
	return &MenuService{Repo: f.repo, Index: idx, Events: f.events}, f, idx
}

var admin = Requester{UserID: uuid.New(), Role: models.RoleAdmin}

func TestMenu_CreateRequiresAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f, idx := newMenuService(t)

	in := transport.CreateMenuItemRequest{Name: "Sate Ayam", Description: "chicken satay", Price: 30000, Category: "Food"}

	_, err := svc.Create(ctx, f.cashier, in)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	m, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Contains(t, idx.docs, m.ID)
	assert.Equal(t, []string{EventMenuCreated}, f.events.Types())

	bad := in
	bad.Price = -1
	_, err = svc.Create(ctx, admin, bad)
	require.ErrorIs(t, err, apperr.ErrValidation)

	bad = in
	bad.Name = " "
	_, err = svc.Create(ctx, admin, bad)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMenu_PatchKeepsBlankFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f, _ := newMenuService(t)

	blank := ""
	price := int64(27000)
	m, err := svc.Patch(ctx, admin, f.nasi.ID, transport.PatchMenuItemRequest{Name: &blank, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng Spesial", m.Name)
	assert.Equal(t, int64(27000), m.Price)

	_, err = svc.Patch(ctx, f.cashier, f.nasi.ID, transport.PatchMenuItemRequest{Price: &price})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Patch(ctx, admin, uuid.New(), transport.PatchMenuItemRequest{Price: &price})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMenu_PatchDoesNotReprice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f, _ := newMenuService(t)

	o := f.checkout(t, f.dineIn(70000))

	price := int64(99000)
	_, err := svc.Patch(ctx, admin, f.nasi.ID, transport.PatchMenuItemRequest{Price: &price})
	require.NoError(t, err)

	got, err := f.orders.Get(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), got.Items[0].SnapshotPrice)
	assert.Equal(t, int64(63800), got.Total)
}

func TestMenu_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f, idx := newMenuService(t)

	require.ErrorIs(t, svc.Delete(ctx, f.cashier, f.kue.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, f.kue.ID))
	assert.Equal(t, []uuid.UUID{f.kue.ID}, idx.removed)

	_, err := svc.Get(ctx, f.kue.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, admin, f.kue.ID), apperr.ErrNotFound)
}

func TestMenu_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f, idx := newMenuService(t)

	all, err := svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	idx.hits = []models.MenuItem{f.kue}
	hits, err := svc.Search(ctx, "lapis")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, f.kue.ID, hits[0].ID)

	idx.err = errors.New("index down")
	fallback, err := svc.Search(ctx, "teh")
	require.NoError(t, err)
	require.Len(t, fallback, 1)
	assert.Equal(t, "Es Teh Manis", fallback[0].Name)

	svc.Index = nil
	noIndex, err := svc.Search(ctx, "goreng")
	require.NoError(t, err)
	require.Len(t, noIndex, 1)
}

func TestMenu_Replace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, idx := newMenuService(t)

	old, err := svc.Create(ctx, admin, transport.CreateMenuItemRequest{Name: "Gado Gado", Description: "salad", Price: 18000, Category: "Food"})
	require.NoError(t, err)
	require.Contains(t, idx.docs, old.ID)

	err = svc.Replace(ctx, []models.MenuItem{
		{Name: "Soto Ayam", Description: "chicken soup", Price: 20000, Category: "Food"},
		{Name: "Es Jeruk", Description: "orange juice", Price: 10000, Category: "Beverages"},
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, idx.docs, 2)
	assert.NotContains(t, idx.docs, old.ID)
	assert.Equal(t, 1, idx.resets)

	err = svc.Replace(ctx, []models.MenuItem{{Name: "Broken", Price: 1}})
	require.ErrorIs(t, err, apperr.ErrValidation)
}
