package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/models"
)

// Requester is the authenticated caller. Every operation receives it
// explicitly; nothing is read from ambient state.
type Requester struct {
	UserID uuid.UUID
	Role   string
}

func (r Requester) IsAdmin() bool {
	return r.Role == models.RoleAdmin
}

// OrderStore persists orders. Implementations wrap apperr.ErrNotFound and
// apperr.ErrDuplicateOrderNumber. CreateOrder assigns fresh ids to the
// order and its items.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, f models.OrderFilter) ([]models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error
	SaveOrderWithItems(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	DeleteAllOrders(ctx context.Context) (int64, error)
}

type MenuStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	SearchMenuItems(ctx context.Context, q string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	SaveMenuItem(ctx context.Context, m *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	ReplaceMenu(ctx context.Context, items []models.MenuItem) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	CountUsersByRole(ctx context.Context, role string) (int64, error)
}

// MenuIndex is an optional full-text index kept beside the menu store.
type MenuIndex interface {
	Reset(ctx context.Context) error
	IndexMenuItem(ctx context.Context, m models.MenuItem) error
	RemoveMenuItem(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, size int) ([]models.MenuItem, error)
}
