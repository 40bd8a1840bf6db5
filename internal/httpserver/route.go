package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/pkg/metrics"
	middleware "github.com/padipos/padipos/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler  *OrderHTTP
	MenuHandler   *MenuHTTP
	AuthHandler   *AuthHTTP
	ReportHandler *ReportHTTP
	JWTSecret     []byte
	Metrics       *metrics.Metrics
	// Ready reports whether backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, authMW.RequireAuth)
	auth.PUT("/profile", d.AuthHandler.UpdateProfile, authMW.RequireAuth)
	auth.POST("/change-password", d.AuthHandler.ChangePassword, authMW.RequireAuth)

	menu := api.Group("/menu")
	menu.GET("", d.MenuHandler.GetMenu, authMW.RequireAuth)
	menu.GET("/search", d.MenuHandler.GetMenu, authMW.RequireAuth)
	menu.GET("/:id", d.MenuHandler.GetMenuItem, authMW.RequireAuth)
	menu.POST("", d.MenuHandler.CreateMenuItem, authMW.RequireAdmin)
	menu.PUT("/:id", d.MenuHandler.PatchMenuItem, authMW.RequireAdmin)
	menu.PATCH("/:id", d.MenuHandler.PatchMenuItem, authMW.RequireAdmin)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem, authMW.RequireAdmin)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/archived", d.OrderHandler.GetArchivedOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
	orders.POST("/:id/archive", d.OrderHandler.ArchiveOrder)
	orders.POST("/:id/restore", d.OrderHandler.RestoreOrder)
	orders.POST("/:id/reorder", d.OrderHandler.ReorderOrder)
	orders.POST("/:id/pay", d.OrderHandler.PayOrder)

	reports := api.Group("/reports", authMW.RequireAuth)
	reports.GET("/sales", d.ReportHandler.Sales)
	reports.GET("/dashboard", d.ReportHandler.Dashboard)
	reports.GET("/summary", d.ReportHandler.Summary)
}
