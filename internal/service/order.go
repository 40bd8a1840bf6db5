package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/ordernum"
	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/logging"
	"github.com/padipos/padipos/pkg/metrics"
)

// maxNumberAttempts bounds retries of server-generated order numbers.
const maxNumberAttempts = 5

type OrderService struct {
	Orders  OrderStore
	Menu    MenuStore
	Pricing *pricing.Engine
	Numbers ordernum.Generator
	Events  events.Publisher
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) numbers() ordernum.Generator {
	if s.Numbers == nil {
		return ordernum.RandomToken{}
	}
	return s.Numbers
}

func (s *OrderService) engine() *pricing.Engine {
	if s.Pricing == nil {
		return pricing.Default()
	}
	return s.Pricing
}

// validateHeader checks customer, order type and table number, returning the
// table number to store. Take Away never stores a table.
func validateHeader(customerName, orderType string, table *int) (*int, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, fmt.Errorf("%w: customerName required", apperr.ErrValidation)
	}

	switch orderType {
	case models.OrderTypeDineIn:
		if table == nil || *table < 1 {
			return nil, fmt.Errorf("%w: tableNumber must be >= 1 for %s", apperr.ErrValidation, orderType)
		}
		t := *table
		return &t, nil
	case models.OrderTypeTakeAway:
		if table != nil && *table != 0 {
			return nil, fmt.Errorf("%w: tableNumber must be empty for %s", apperr.ErrValidation, orderType)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: orderType must be %q or %q", apperr.ErrValidation, models.OrderTypeDineIn, models.OrderTypeTakeAway)
	}
}

func menuIDs(cart []pricing.CartItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(cart))
	ids := make([]uuid.UUID, 0, len(cart))
	for _, c := range cart {
		if _, ok := seen[c.MenuItemID]; ok || c.MenuItemID == uuid.Nil {
			continue
		}
		seen[c.MenuItemID] = struct{}{}
		ids = append(ids, c.MenuItemID)
	}
	return ids
}

func trimNotes(cart []pricing.CartItem) {
	for i := range cart {
		cart[i].Note = strings.TrimSpace(cart[i].Note)
	}
}

// Checkout prices the cart against the current catalog, settles it against
// the tendered amount and stores the order as paid. Nothing is stored when
// any step fails.
func (s *OrderService) Checkout(ctx context.Context, req Requester, in transport.CheckoutRequest) (*models.Order, error) {
	table, err := validateHeader(in.CustomerName, in.OrderType, in.TableNumber)
	if err != nil {
		return nil, err
	}

	cart := transport.CartItems(in.Items)
	trimNotes(cart)

	catalog, err := s.Menu.GetMenuItems(ctx, menuIDs(cart))
	if err != nil {
		return nil, err
	}
	lines, err := pricing.Resolve(cart, catalog)
	if err != nil {
		return nil, err
	}
	totals, err := s.engine().Quote(lines, in.ReceivedAmount)
	if err != nil {
		return nil, err
	}

	orderDate := s.now()
	if in.OrderDate != nil && !in.OrderDate.IsZero() {
		orderDate = in.OrderDate.UTC()
	}

	o := &models.Order{
		UserID:         req.UserID,
		OrderNumber:    strings.TrimSpace(in.OrderNumber),
		OrderDate:      orderDate,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		OrderType:      in.OrderType,
		TableNumber:    table,
		Items:          pricing.ItemsFromLines(lines),
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		Total:          totals.Total,
		ReceivedAmount: in.ReceivedAmount,
		Change:         totals.Change,
		IsPaid:         true,
	}

	if err := s.create(ctx, o, o.OrderNumber != ""); err != nil {
		return nil, err
	}

	attachDisplay(o, catalog)
	s.Metrics.OrderEvent(metrics.EventCreated)
	s.Metrics.Revenue(o.Total)
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), EventOrderCreated, newOrderEvent(EventOrderCreated, o))
	return o, nil
}

// create stores o. A caller-chosen number is tried once; a generated one is
// redrawn on collision up to maxNumberAttempts times.
func (s *OrderService) create(ctx context.Context, o *models.Order, fixedNumber bool) error {
	attempts := 1
	if !fixedNumber {
		attempts = maxNumberAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if !fixedNumber {
			n, genErr := s.numbers().Next(ctx)
			if genErr != nil {
				return genErr
			}
			o.OrderNumber = n
		}

		err = s.Orders.CreateOrder(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrDuplicateOrderNumber) {
			return err
		}
		logging.FromContext(ctx).Warn("order_number_collision", "order_number", o.OrderNumber, "attempt", i+1)
	}
	return err
}

// load fetches an order and checks that req owns it. A missing order is
// NotFound; someone else's order is Unauthorized.
func (s *OrderService) load(ctx context.Context, req Requester, id uuid.UUID) (*models.Order, error) {
	o, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != req.UserID {
		return nil, fmt.Errorf("%w: order %s belongs to another user", apperr.ErrUnauthorized, id)
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, req Requester, id uuid.UUID) (*models.Order, error) {
	o, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveDisplay(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, req Requester, f models.OrderFilter) ([]models.Order, error) {
	orders, err := s.Orders.ListOrders(ctx, req.UserID, f)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := s.resolveDisplay(ctx, ptrs...); err != nil {
		return nil, err
	}
	return orders, nil
}

// Update replaces the item list and recomputes subtotal, tax and total.
// Menu items already on the order keep their snapshot price; new ones are
// priced from the catalog. A paid order must still be covered by its
// received amount, otherwise nothing changes.
func (s *OrderService) Update(ctx context.Context, req Requester, id uuid.UUID, in transport.UpdateOrderRequest) (*models.Order, error) {
	o, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}

	cart := transport.CartItems(in.Items)
	trimNotes(cart)
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", apperr.ErrValidation)
	}

	known := make(map[uuid.UUID]models.MenuItem, len(o.Items))
	for _, it := range o.Items {
		if _, ok := known[it.MenuItemID]; !ok {
			known[it.MenuItemID] = models.MenuItem{ID: it.MenuItemID, Price: it.SnapshotPrice}
		}
	}

	var fresh []uuid.UUID
	for _, mid := range menuIDs(cart) {
		if _, ok := known[mid]; !ok {
			fresh = append(fresh, mid)
		}
	}
	if len(fresh) > 0 {
		catalog, err := s.Menu.GetMenuItems(ctx, fresh)
		if err != nil {
			return nil, err
		}
		for mid, mi := range catalog {
			known[mid] = mi
		}
	}

	lines, err := pricing.Resolve(cart, known)
	if err != nil {
		return nil, err
	}
	totals, err := s.engine().Compute(lines)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		if err := pricing.Settle(&totals, o.ReceivedAmount); err != nil {
			return nil, err
		}
		o.Change = totals.Change
	}

	o.Items = pricing.ItemsFromLines(lines)
	o.Subtotal = totals.Subtotal
	o.Tax = totals.Tax
	o.Total = totals.Total

	if err := s.Orders.SaveOrderWithItems(ctx, o); err != nil {
		return nil, err
	}
	if err := s.resolveDisplay(ctx, o); err != nil {
		return nil, err
	}

	s.Metrics.OrderEvent(metrics.EventUpdated)
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), EventOrderUpdated, newOrderEvent(EventOrderUpdated, o))
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, req Requester, id uuid.UUID) error {
	o, err := s.load(ctx, req, id)
	if err != nil {
		return err
	}
	if err := s.Orders.DeleteOrder(ctx, o.ID); err != nil {
		return err
	}

	s.Metrics.OrderEvent(metrics.EventDeleted)
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), EventOrderDeleted, newOrderEvent(EventOrderDeleted, o))
	return nil
}

// ClearAll removes every order of every user. Maintenance only.
func (s *OrderService) ClearAll(ctx context.Context) (int64, error) {
	return s.Orders.DeleteAllOrders(ctx)
}

// resolveDisplay attaches live menu data to each item. Items whose menu
// entry is gone are left without display data; prices are never touched.
func (s *OrderService) resolveDisplay(ctx context.Context, orders ...*models.Order) error {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.MenuItemID]; !ok {
				seen[it.MenuItemID] = struct{}{}
				ids = append(ids, it.MenuItemID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	catalog, err := s.Menu.GetMenuItems(ctx, ids)
	if err != nil {
		return err
	}
	for _, o := range orders {
		attachDisplay(o, catalog)
	}
	return nil
}

func attachDisplay(o *models.Order, catalog map[uuid.UUID]models.MenuItem) {
	for i := range o.Items {
		mi, ok := catalog[o.Items[i].MenuItemID]
		if !ok {
			o.Items[i].DisplayMenuItem = nil
			continue
		}
		o.Items[i].DisplayMenuItem = &models.MenuItemView{
			ID:       mi.ID,
			Name:     mi.Name,
			Image:    mi.Image,
			Category: mi.Category,
		}
	}
}
