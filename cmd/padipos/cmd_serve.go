package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/padipos/padipos/internal/config"
	"github.com/padipos/padipos/internal/httpserver"
	"github.com/padipos/padipos/internal/ordernum"
	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/internal/search"
	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/pkg/events"
	"github.com/padipos/padipos/pkg/metrics"
	loggingmw "github.com/padipos/padipos/pkg/middleware/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, serve)
	},
}

// attachMenuIndex gives svc an Elasticsearch index when ES_URL is set.
func attachMenuIndex(ctx context.Context, cfg config.ServiceConfig, svc *service.MenuService) error {
	if cfg.ESURL == "" {
		return nil
	}
	es, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		return err
	}
	idx := search.NewMenuIndex(es, cfg.ESMenuIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		return err
	}
	svc.Index = idx
	return nil
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	cfg.MustServe()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	engine, err := pricing.NewEngine(cfg.Tax)
	if err != nil {
		return err
	}

	var numbers ordernum.Generator = ordernum.RandomToken{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		numbers = ordernum.NewRedisCounter(rdb)
		a.log.Info("order_numbers_from_redis", "addr", cfg.RedisAddr)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer func() {
			if err := kp.Close(); err != nil {
				a.log.Warn("kafka_close_error", "error", err)
			}
		}()
		publisher = kp
		a.log.Info("events_to_kafka", "brokers", cfg.KafkaBrokers)
	}

	menuSvc := &service.MenuService{Repo: a.store, Events: publisher}
	if err := attachMenuIndex(ctx, cfg, menuSvc); err != nil {
		return err
	}

	m := metrics.New()
	orderSvc := &service.OrderService{
		Orders:  a.store,
		Menu:    a.store,
		Pricing: engine,
		Numbers: numbers,
		Events:  publisher,
		Metrics: m,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(a.log))
	e.Use(m.Middleware())
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:  &httpserver.OrderHTTP{Svc: orderSvc},
		MenuHandler:   &httpserver.MenuHTTP{Svc: menuSvc},
		AuthHandler:   &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: a.store, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL}},
		ReportHandler: &httpserver.ReportHTTP{Svc: &service.ReportService{Orders: orderSvc}, Location: cfg.Location},
		JWTSecret:     cfg.JWTSecret,
		Metrics:       m,
		Ready:         a.ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http_server_start", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info("http_server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info("shutdown_complete")
	return nil
}
