package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	MongoURI      string
	MongoDatabase string

	RedisAddr string

	KafkaBrokers []string

	ESURL       string
	ESUser      string
	ESPassword  string
	ESMenuIndex string

	JWTSecret []byte
	JWTTTL    time.Duration

	TaxRate  string
	Timezone string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "padipos"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		StoreDriver: EnvDefault("STORE_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  EnvDefault("SQLITE_PATH", "padipos.db"),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: EnvDefault("MONGODB_DATABASE", "padipos"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESMenuIndex: EnvDefault("ES_MENU_INDEX", "menu"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", time.Hour),

		TaxRate:  EnvDefault("TAX_RATE", "0.10"),
		Timezone: EnvDefault("TIMEZONE", "Asia/Jakarta"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
