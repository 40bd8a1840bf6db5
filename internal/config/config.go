package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/pkg/config"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
)

type ServiceConfig struct {
	config.Config

	Location *time.Location
	Tax      decimal.Decimal

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads the environment and exits on anything the selected store
// cannot run without.
func Load() ServiceConfig {
	cfg := config.Load()

	config.MustOneOf(cfg.StoreDriver, "STORE_DRIVER", StorePostgres, StoreSQLite, StoreMongo)
	switch cfg.StoreDriver {
	case StorePostgres:
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	case StoreSQLite:
		config.MustNonEmpty(cfg.SQLitePath, "SQLITE_PATH")
	case StoreMongo:
		config.MustNonEmpty(cfg.MongoURI, "MONGODB_URI")
	}

	sc, err := FromConfig(cfg)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return sc
}

// MustServe checks what only the HTTP server needs.
func (c ServiceConfig) MustServe() {
	config.MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
}

func FromConfig(cfg config.Config) (ServiceConfig, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("TIMEZONE=%q: %w", cfg.Timezone, err)
	}
	rate, err := pricing.ParseRate(cfg.TaxRate)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("TAX_RATE: %w", err)
	}

	return ServiceConfig{
		Config:        cfg,
		Location:      loc,
		Tax:           rate,
		AdminUsername: config.EnvDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    config.EnvDefault("ADMIN_EMAIL", "admin@padipos.local"),
		AdminPassword: config.EnvDefault("ADMIN_PASSWORD", "admin123"),
	}, nil
}
