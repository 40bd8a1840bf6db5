package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

// GetMenu lists the catalog, or searches it when ?q= is given.
func (h *MenuHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu")

	items, err := h.Svc.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(l, "get_menu_error", err)
	}

	l.Info("get_menu_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu_item")

	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "get_menu_item_error", "invalid id", err)
	}

	item, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_menu_item_error", err)
	}

	l.Info("get_menu_item_success", "menu_item_id", id)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create_menu_item")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "create_menu_item_error", err)
	}

	var body transport.CreateMenuItemRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "create_menu_item_error", "invalid body", err)
	}

	item, err := h.Svc.Create(ctx, req, body)
	if err != nil {
		return fail(l, "create_menu_item_error", err)
	}

	l.Info("create_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) PatchMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.patch_menu_item")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "patch_menu_item_error", err)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "patch_menu_item_error", "invalid id", err)
	}

	var body transport.PatchMenuItemRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "patch_menu_item_error", "invalid body", err)
	}

	item, err := h.Svc.Patch(ctx, req, id, body)
	if err != nil {
		return fail(l, "patch_menu_item_error", err)
	}

	l.Info("patch_menu_item_success", "menu_item_id", id)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete_menu_item")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "delete_menu_item_error", err)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "delete_menu_item_error", "invalid id", err)
	}

	if err := h.Svc.Delete(ctx, req, id); err != nil {
		return fail(l, "delete_menu_item_error", err)
	}

	l.Info("delete_menu_item_success", "menu_item_id", id)
	return c.NoContent(http.StatusNoContent)
}
