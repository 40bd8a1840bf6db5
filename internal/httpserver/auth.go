package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/internal/transport"
	"github.com/padipos/padipos/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var body transport.RegisterRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	resp, err := h.Svc.Register(ctx, body)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", resp.User.ID)
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var body transport.LoginRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	resp, err := h.Svc.Login(ctx, body)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", resp.User.ID)
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "profile_error", err)
	}

	u, err := h.Svc.Profile(ctx, req)
	if err != nil {
		return fail(l, "profile_error", err)
	}

	return c.JSON(http.StatusOK, u)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "update_profile_error", err)
	}

	var body transport.UpdateProfileRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "update_profile_error", "invalid body", err)
	}

	u, err := h.Svc.UpdateProfile(ctx, req, body)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}

	l.Info("update_profile_success", "user_id", u.ID)
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "change_password_error", err)
	}

	var body transport.ChangePasswordRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "change_password_error", "invalid body", err)
	}

	if err := h.Svc.ChangePassword(ctx, req, body); err != nil {
		return fail(l, "change_password_error", err)
	}

	l.Info("change_password_success", "user_id", req.UserID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "password changed"})
}
