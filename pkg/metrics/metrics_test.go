package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEventAndRevenue(t *testing.T) {
	t.Parallel()

	m := New()
	m.OrderEvent(EventCreated)
	m.OrderEvent(EventCreated)
	m.OrderEvent(EventArchived)
	m.Revenue(73000)
	m.Revenue(-5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orders.WithLabelValues(EventCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues(EventArchived)))
	assert.Equal(t, 73000.0, testutil.ToFloat64(m.revenue))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.OrderEvent(EventPaid) })
}

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	t.Parallel()

	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/orders/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/x", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/orders/:id", "404")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "padipos_http_requests_total"))
}
