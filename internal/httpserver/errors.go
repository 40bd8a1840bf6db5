package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/service"
	mw "github.com/padipos/padipos/pkg/middleware/auth"
)

var statusByKind = map[string]int{
	"validation":             http.StatusBadRequest,
	"insufficient_payment":   http.StatusUnprocessableEntity,
	"duplicate_order_number": http.StatusConflict,
	"not_found":              http.StatusNotFound,
	"unauthorized":           http.StatusForbidden,
	"forbidden":              http.StatusForbidden,
	"invalid_state":          http.StatusConflict,
	"conflict":               http.StatusConflict,
	"invalid_credentials":    http.StatusUnauthorized,
}

func statusOf(err error) int {
	if code, ok := statusByKind[apperr.Kind(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// fail logs err under event and turns it into an HTTP error. Internal
// errors are not echoed to the client.
func fail(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", "internal error", "error", err)
		return echo.NewHTTPError(code, "internal error")
	}
	l.Warn(event, "status", code, "reason", apperr.Kind(err), "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

var errNoUser = errors.New("no authenticated user")

func requester(c echo.Context) (service.Requester, error) {
	s, ok := c.Get(mw.ContextUserID).(string)
	if !ok || s == "" {
		return service.Requester{}, errNoUser
	}
	role, _ := c.Get(mw.ContextRole).(string)
	return service.RequesterFromClaims(s, role)
}

func unauthenticated(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusUnauthorized, "reason", "unauthorized", "error", err)
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func invalidID(err error) error {
	return fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err)
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: invalid body: %v", apperr.ErrValidation, err)
}
