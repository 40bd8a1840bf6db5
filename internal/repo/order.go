package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func prepareItems(o *models.Order) {
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
		o.Items[i].DisplayMenuItem = nil
	}
}

func duplicateNumber(number string) error {
	return fmt.Errorf("%w: %s", apperr.ErrDuplicateOrderNumber, number)
}

// CreateOrder assigns new ids and inserts the order with its items. The
// unique index on order_number is the final guard; the count inside the
// transaction gives a readable error on drivers that don't translate it.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	o.ID = uuid.New()
	prepareItems(o)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", o.OrderNumber).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return duplicateNumber(o.OrderNumber)
		}

		if err := tx.Create(o).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateNumber(o.OrderNumber)
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", itemsByPosition).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, f models.OrderFilter) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if f.Archived != nil {
		q = q.Where("is_archived = ?", *f.Archived)
	}
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	orders := []models.Order{}
	if err := q.Preload("Items", itemsByPosition).Order("created_at ASC").Order("order_number ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func headerColumns(o *models.Order) map[string]any {
	return map[string]any{
		"subtotal":        o.Subtotal,
		"tax":             o.Tax,
		"total":           o.Total,
		"received_amount": o.ReceivedAmount,
		"change":          o.Change,
		"is_archived":     o.IsArchived,
		"is_paid":         o.IsPaid,
	}
}

func saveHeader(tx *gorm.DB, o *models.Order) error {
	res := tx.Model(&models.Order{}).Where("id = ?", o.ID).Updates(headerColumns(o))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, o.ID)
	}
	return nil
}

// SaveOrder writes totals, payment and state flags. Items are untouched.
func (r *GormRepo) SaveOrder(ctx context.Context, o *models.Order) error {
	return saveHeader(r.DB.WithContext(ctx), o)
}

// SaveOrderWithItems writes the header and replaces the item list in one
// transaction.
func (r *GormRepo) SaveOrderWithItems(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveHeader(tx, o); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		prepareItems(o)
		if len(o.Items) == 0 {
			return nil
		}
		return tx.Create(&o.Items).Error
	})
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
		}
		return nil
	})
}

// truncateStatement builds a Postgres TRUNCATE for the tables backing
// values, as named by the connection's naming strategy.
func truncateStatement(db *gorm.DB, values ...any) (string, error) {
	tables := make([]string, len(values))
	for i, m := range values {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return "", fmt.Errorf("table for %T: %w", m, err)
		}
		tables[i] = pq.QuoteIdentifier(stmt.Schema.Table)
	}
	return "TRUNCATE TABLE " + strings.Join(tables, ", ") + " CASCADE", nil
}

// DeleteAllOrders empties the order tables and reports how many orders
// were removed. Postgres gets a TRUNCATE.
func (r *GormRepo) DeleteAllOrders(ctx context.Context) (int64, error) {
	db := r.DB.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, err
	}

	if db.Dialector.Name() == "postgres" {
		stmt, err := truncateStatement(db, &models.OrderItem{}, &models.Order{})
		if err != nil {
			return 0, err
		}
		if err := db.Exec(stmt).Error; err != nil {
			return 0, err
		}
		return n, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return all.Delete(&models.Order{}).Error
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
