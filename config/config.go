package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config carries every tenant-level setting the engine needs. It is loaded
// once in main and handed to the services explicitly, so nothing in the core
// reads ambient environment state.
type Config struct {
	Port     string
	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	RedisAddr string // optional, stats cache disabled when empty

	// Deletion protection for bills/bookings.
	EnablePasswordProtection bool
	AdminDeletionPassword    string

	DefaultGSTPercent float64

	// Midtrans gateway (optional, QRIS payments disabled when empty).
	MidtransServerKey string
	MidtransEnv       string
}

// Load reads configuration from the environment. godotenv is expected to have
// populated it already for local runs.
func Load() Config {
	cfg := Config{
		Port:                     getEnv("PORT", "8080"),
		DBDriver:                 getEnv("DB_DRIVER", "mysql"),
		DBDSN:                    os.Getenv("DB_DSN"),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		EnablePasswordProtection: getEnvBool("ENABLE_PASSWORD_PROTECTION", true),
		AdminDeletionPassword:    os.Getenv("ADMIN_DELETION_PASSWORD"),
		DefaultGSTPercent:        getEnvFloat("DEFAULT_GST_PERCENT", 18),
		MidtransServerKey:        os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransEnv:              getEnv("MIDTRANS_ENV", "sandbox"),
	}
	return cfg
}

// InitDB opens the configured database. MySQL in production, SQLite for local
// development and tests.
func InitDB(cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "hospitality.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for mysql")
		}
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
