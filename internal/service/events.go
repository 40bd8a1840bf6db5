package service

import (
	"context"
	"time"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/logging"
)

const (
	EventOrderCreated   = "order_created"
	EventOrderUpdated   = "order_updated"
	EventOrderDeleted   = "order_deleted"
	EventOrderArchived  = "order_archived"
	EventOrderRestored  = "order_restored"
	EventOrderReordered = "order_reordered"
	EventOrderPaid      = "order_paid"

	EventMenuCreated = "menu_created"
	EventMenuUpdated = "menu_updated"
	EventMenuDeleted = "menu_deleted"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderID"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userID"`
	Total       int64     `json:"total"`
	IsArchived  bool      `json:"isArchived"`
	IsPaid      bool      `json:"isPaid"`
	SourceID    string    `json:"sourceID,omitempty"`
	At          time.Time `json:"at"`
}

type MenuEvent struct {
	Type       string    `json:"type"`
	MenuItemID string    `json:"menuItemID"`
	Name       string    `json:"name,omitempty"`
	Price      int64     `json:"price,omitempty"`
	Category   string    `json:"category,omitempty"`
	At         time.Time `json:"at"`
}

func newOrderEvent(typ string, o *models.Order) OrderEvent {
	return OrderEvent{
		Type:        typ,
		OrderID:     o.ID.String(),
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID.String(),
		Total:       o.Total,
		IsArchived:  o.IsArchived,
		IsPaid:      o.IsPaid,
		At:          time.Now().UTC(),
	}
}

func newMenuEvent(typ string, m *models.MenuItem) MenuEvent {
	return MenuEvent{
		Type:       typ,
		MenuItemID: m.ID.String(),
		Name:       m.Name,
		Price:      m.Price,
		Category:   m.Category,
		At:         time.Now().UTC(),
	}
}

// publish never fails the caller. The change is already stored when the
// event goes out.
func publish(ctx context.Context, p events.Publisher, topic, key, typ string, ev any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "event", typ, "key", key, "error", err)
	}
}
