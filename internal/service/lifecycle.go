package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/metrics"
)

// Archive parks an order. Payment is voided, not refunded.
func (s *OrderService) Archive(ctx context.Context, req Requester, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, req, id, EventOrderArchived, metrics.EventArchived, func(o *models.Order) {
		o.IsArchived = true
		o.IsPaid = false
	})
}

// Restore returns an order to Active. It stays unpaid until Pay.
func (s *OrderService) Restore(ctx context.Context, req Requester, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, req, id, EventOrderRestored, metrics.EventRestored, func(o *models.Order) {
		o.IsArchived = false
		o.IsPaid = false
	})
}

func (s *OrderService) transition(ctx context.Context, req Requester, id uuid.UUID, event, metric string, apply func(*models.Order)) (*models.Order, error) {
	o, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}

	apply(o)
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, err
	}
	if err := s.resolveDisplay(ctx, o); err != nil {
		return nil, err
	}

	s.Metrics.OrderEvent(metric)
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), event, newOrderEvent(event, o))
	return o, nil
}

// Reorder creates a new Active, unpaid order from an archived one. Items
// keep their snapshot prices and totals are recomputed from them.
func (s *OrderService) Reorder(ctx context.Context, req Requester, id uuid.UUID) (*models.Order, error) {
	src, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if !src.IsArchived {
		return nil, fmt.Errorf("%w: order %s is not archived", apperr.ErrInvalidState, src.OrderNumber)
	}

	lines := pricing.LinesFromItems(src.Items)
	totals, err := s.engine().Compute(lines)
	if err != nil {
		return nil, err
	}

	var table *int
	if src.TableNumber != nil {
		t := *src.TableNumber
		table = &t
	}

	o := &models.Order{
		UserID:       src.UserID,
		OrderDate:    s.now(),
		CustomerName: src.CustomerName,
		OrderType:    src.OrderType,
		TableNumber:  table,
		Items:        pricing.ItemsFromLines(lines),
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
	}

	if err := s.create(ctx, o, false); err != nil {
		return nil, err
	}
	if err := s.resolveDisplay(ctx, o); err != nil {
		return nil, err
	}

	s.Metrics.OrderEvent(metrics.EventReordered)
	ev := newOrderEvent(EventOrderReordered, o)
	ev.SourceID = src.ID.String()
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), EventOrderReordered, ev)
	return o, nil
}

// Pay settles an Active, unpaid order.
func (s *OrderService) Pay(ctx context.Context, req Requester, id uuid.UUID, received int64) (*models.Order, error) {
	o, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if o.IsArchived {
		return nil, fmt.Errorf("%w: order %s is archived", apperr.ErrInvalidState, o.OrderNumber)
	}
	if o.IsPaid {
		return nil, fmt.Errorf("%w: order %s is already paid", apperr.ErrInvalidState, o.OrderNumber)
	}

	totals := pricing.Totals{Subtotal: o.Subtotal, Tax: o.Tax, Total: o.Total}
	if err := pricing.Settle(&totals, received); err != nil {
		return nil, err
	}

	o.ReceivedAmount = received
	o.Change = totals.Change
	o.IsPaid = true
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, err
	}
	if err := s.resolveDisplay(ctx, o); err != nil {
		return nil, err
	}

	s.Metrics.OrderEvent(metrics.EventPaid)
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), EventOrderPaid, newOrderEvent(EventOrderPaid, o))
	return o, nil
}
