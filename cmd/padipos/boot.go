package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/padipos/padipos/internal/config"
	"github.com/padipos/padipos/internal/repo"
	"github.com/padipos/padipos/internal/service"
	pkgconfig "github.com/padipos/padipos/pkg/config"
	"github.com/padipos/padipos/pkg/db"
	"github.com/padipos/padipos/pkg/logging"
)

type store interface {
	service.OrderStore
	service.MenuStore
	service.UserStore
	Migrate(ctx context.Context) error
}

type app struct {
	cfg   config.ServiceConfig
	log   *slog.Logger
	store store

	ping  func(ctx context.Context) error
	close func() error
}

// boot loads configuration and opens the selected store. The returned
// context carries the service logger.
func boot(ctx context.Context) (context.Context, *app, error) {
	if err := pkgconfig.LoadDotenv(envFile); err != nil {
		return ctx, nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Load()
	log := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(log)
	ctx = logging.IntoContext(ctx, log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a := &app{cfg: cfg, log: log}
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, r, err := repo.OpenMongo(initCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return ctx, nil, err
		}
		a.store = r
		a.ping = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		a.close = func() error { return disconnect(client) }
	default:
		gdb, err := openGorm(initCtx, cfg)
		if err != nil {
			return ctx, nil, err
		}
		a.store = &repo.GormRepo{DB: gdb}
		a.ping = func(ctx context.Context) error { return pingGorm(ctx, gdb) }
		a.close = func() error { return db.Close(gdb) }
	}

	log.Info("store_opened", "driver", cfg.StoreDriver)
	return ctx, a, nil
}

func openGorm(ctx context.Context, cfg config.ServiceConfig) (*gorm.DB, error) {
	if cfg.StoreDriver == config.StoreSQLite {
		return db.OpenSQLite(ctx, cfg.SQLitePath)
	}
	return db.Open(ctx, cfg.DatabaseURL)
}

func pingGorm(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
