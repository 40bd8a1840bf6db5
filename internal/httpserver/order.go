package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/internal/util"
	"github.com/padipos/padipos/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "create_order_error", err)
	}

	var body transport.CheckoutRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	order, err := h.Svc.Checkout(ctx, req, body)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) listOrders(c echo.Context, handler string, f models.OrderFilter) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "list_orders_error", err)
	}
	page, err := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))
	if err != nil {
		return badRequest(l, "list_orders_error", err.Error(), err)
	}
	f.Offset, f.Limit = page.Offset, page.Limit

	orders, err := h.Svc.List(ctx, req, f)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}

	l.Info("list_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

// GetOrders lists the caller's orders. ?archived=true|false picks one state,
// ?archived=all returns both, and the default is active orders only.
func (h *OrderHTTP) GetOrders(c echo.Context) error {
	var f models.OrderFilter
	switch v := c.QueryParam("archived"); v {
	case "all":
	case "":
		active := false
		f.Archived = &active
	default:
		archived, err := strconv.ParseBool(v)
		if err != nil {
			l := logging.FromContext(c.Request().Context()).With("handler", "order.get_orders")
			return badRequest(l, "list_orders_error", "archived must be true, false or all", err)
		}
		f.Archived = &archived
	}
	return h.listOrders(c, "order.get_orders", f)
}

func (h *OrderHTTP) GetArchivedOrders(c echo.Context) error {
	archived := true
	return h.listOrders(c, "order.get_archived_orders", models.OrderFilter{Archived: &archived})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "get_order_error", err)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "get_order_error", "invalid id", err)
	}

	order, err := h.Svc.Get(ctx, req, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	l.Info("get_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "update_order_error", err)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "update_order_error", "invalid id", err)
	}

	var body transport.UpdateOrderRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "update_order_error", "invalid body", err)
	}

	order, err := h.Svc.Update(ctx, req, id, body)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", id, "total", order.Total)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "delete_order_error", err)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "delete_order_error", "invalid id", err)
	}

	if err := h.Svc.Delete(ctx, req, id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "order deleted"})
}

type orderTransition func(*service.OrderService, echo.Context, service.Requester) (*models.Order, error)

func (h *OrderHTTP) transition(c echo.Context, name string, status int, op orderTransition) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order."+name)

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, name+"_error", err)
	}

	order, err := op(h.Svc, c, req)
	if err != nil {
		return fail(l, name+"_error", err)
	}

	l.Info(name+"_success", "order_id", order.ID, "order_number", order.OrderNumber)
	return c.JSON(status, order)
}

func (h *OrderHTTP) ArchiveOrder(c echo.Context) error {
	return h.transition(c, "archive_order", http.StatusOK, func(s *service.OrderService, c echo.Context, req service.Requester) (*models.Order, error) {
		id, err := pathID(c)
		if err != nil {
			return nil, invalidID(err)
		}
		return s.Archive(c.Request().Context(), req, id)
	})
}

func (h *OrderHTTP) RestoreOrder(c echo.Context) error {
	return h.transition(c, "restore_order", http.StatusOK, func(s *service.OrderService, c echo.Context, req service.Requester) (*models.Order, error) {
		id, err := pathID(c)
		if err != nil {
			return nil, invalidID(err)
		}
		return s.Restore(c.Request().Context(), req, id)
	})
}

func (h *OrderHTTP) ReorderOrder(c echo.Context) error {
	return h.transition(c, "reorder_order", http.StatusCreated, func(s *service.OrderService, c echo.Context, req service.Requester) (*models.Order, error) {
		id, err := pathID(c)
		if err != nil {
			return nil, invalidID(err)
		}
		return s.Reorder(c.Request().Context(), req, id)
	})
}

func (h *OrderHTTP) PayOrder(c echo.Context) error {
	return h.transition(c, "pay_order", http.StatusOK, func(s *service.OrderService, c echo.Context, req service.Requester) (*models.Order, error) {
		id, err := pathID(c)
		if err != nil {
			return nil, invalidID(err)
		}
		var body transport.PayOrderRequest
		if err := c.Bind(&body); err != nil {
			return nil, invalidBody(err)
		}
		return s.Pay(c.Request().Context(), req, id, body.ReceivedAmount)
	})
}
