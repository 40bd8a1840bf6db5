package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

func (r *GormRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &m, nil
}

// GetMenuItems returns the items that still exist, keyed by id. Unknown ids
// are simply absent.
func (r *GormRepo) GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	out := make(map[uuid.UUID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

func (r *GormRepo) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := r.DB.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SearchMenuItems(ctx context.Context, q string) ([]models.MenuItem, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"

	items := []models.MenuItem{}
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	m.ID = uuid.New()
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) SaveMenuItem(ctx context.Context, m *models.MenuItem) error {
	res := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"price":       m.Price,
		"image":       m.Image,
		"category":    m.Category,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, m.ID)
	}
	return nil
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, id)
	}
	return nil
}

// ReplaceMenu deletes every menu item and inserts items. Orders keep their
// references and snapshot prices.
func (r *GormRepo) ReplaceMenu(ctx context.Context, items []models.MenuItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
