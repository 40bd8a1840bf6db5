package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/logging"
)

const searchSize = 50

type MenuService struct {
	Repo   MenuStore
	Index  MenuIndex
	Events events.Publisher
}

func requireAdmin(req Requester) error {
	if !req.IsAdmin() {
		return fmt.Errorf("%w: admin role required", apperr.ErrForbidden)
	}
	return nil
}

func (s *MenuService) Get(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.Repo.GetMenuItem(ctx, id)
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.Repo.ListMenuItems(ctx)
}

// Search asks the index when there is one and falls back to the store when
// the index is missing or failing.
func (s *MenuService) Search(ctx context.Context, q string) ([]models.MenuItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.Repo.ListMenuItems(ctx)
	}

	if s.Index != nil {
		items, err := s.Index.Search(ctx, q, searchSize)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("menu_index_search_error", "query", q, "error", err)
	}
	return s.Repo.SearchMenuItems(ctx, q)
}

func (s *MenuService) Create(ctx context.Context, req Requester, in transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := requireAdmin(req); err != nil {
		return nil, err
	}

	m := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		Category:    strings.TrimSpace(in.Category),
	}
	if err := validateMenuItem(m); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateMenuItem(ctx, m); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, m)
	publish(ctx, s.Events, events.MenuTopic, m.ID.String(), EventMenuCreated, newMenuEvent(EventMenuCreated, m))
	return m, nil
}

// Patch applies the non-empty fields of in. Orders already placed keep the
// price they captured.
func (s *MenuService) Patch(ctx context.Context, req Requester, id uuid.UUID, in transport.PatchMenuItemRequest) (*models.MenuItem, error) {
	if err := requireAdmin(req); err != nil {
		return nil, err
	}

	m, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		m.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if in.Image != nil && strings.TrimSpace(*in.Image) != "" {
		m.Image = strings.TrimSpace(*in.Image)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		m.Category = strings.TrimSpace(*in.Category)
	}
	if err := validateMenuItem(m); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveMenuItem(ctx, m); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, m)
	publish(ctx, s.Events, events.MenuTopic, m.ID.String(), EventMenuUpdated, newMenuEvent(EventMenuUpdated, m))
	return m, nil
}

// Delete removes a menu item. Orders that reference it are left alone and
// show the item without display data from then on.
func (s *MenuService) Delete(ctx context.Context, req Requester, id uuid.UUID) error {
	if err := requireAdmin(req); err != nil {
		return err
	}

	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.RemoveMenuItem(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_index_remove_error", "menu_item_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.MenuTopic, id.String(), EventMenuDeleted, MenuEvent{
		Type:       EventMenuDeleted,
		MenuItemID: id.String(),
	})
	return nil
}

// Replace swaps the whole catalog for items. The index is emptied first so
// no document outlives its store row.
func (s *MenuService) Replace(ctx context.Context, items []models.MenuItem) error {
	for i := range items {
		if err := validateMenuItem(&items[i]); err != nil {
			return err
		}
	}
	if err := s.Repo.ReplaceMenu(ctx, items); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.Reset(ctx); err != nil {
			return fmt.Errorf("reset menu index: %w", err)
		}
	}
	for i := range items {
		s.syncIndex(ctx, &items[i])
	}
	return nil
}

func (s *MenuService) syncIndex(ctx context.Context, m *models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexMenuItem(ctx, *m); err != nil {
		logging.FromContext(ctx).Warn("menu_index_sync_error", "menu_item_id", m.ID, "error", err)
	}
}

func validateMenuItem(m *models.MenuItem) error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: name required", apperr.ErrValidation)
	case m.Description == "":
		return fmt.Errorf("%w: description required", apperr.ErrValidation)
	case m.Category == "":
		return fmt.Errorf("%w: category required", apperr.ErrValidation)
	case m.Price < 0:
		return fmt.Errorf("%w: price must be >= 0", apperr.ErrValidation)
	}
	return nil
}
