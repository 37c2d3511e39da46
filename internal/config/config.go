package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Env             string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DBDriver          string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisURL     string
	SessionTTL   time.Duration
	CookieSecure bool

	LoginRate  float64
	LoginBurst int
}

const (
	defaultEnv             = "development"
	defaultPort            = "8080"
	defaultTimeout         = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	defaultDBDriver          = "sqlite"
	defaultSQLiteURL         = "file:syucap.db"
	defaultDBMaxOpenConns    = 10
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = time.Hour

	defaultSessionTTL = 24 * time.Hour
	defaultLoginRate  = 1.0
	defaultLoginBurst = 5
)

// Load reads a .env file when one exists, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration values from the environment, applying defaults where necessary.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:             getEnv("APP_ENV", defaultEnv),
		Port:            getEnv("PORT", defaultPort),
		ReadTimeout:     getDuration("READ_TIMEOUT", defaultTimeout),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", defaultTimeout),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),

		DBDriver:          getEnv("DB_DRIVER", defaultDBDriver),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", defaultDBConnMaxLifetime),

		RedisURL:     os.Getenv("REDIS_URL"),
		SessionTTL:   getDuration("SESSION_TTL", defaultSessionTTL),
		CookieSecure: getBool("COOKIE_SECURE", false),

		LoginRate:  getFloat("LOGIN_RATE", defaultLoginRate),
		LoginBurst: getInt("LOGIN_BURST", defaultLoginBurst),
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLiteURL
		}
	case "mysql", "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", cfg.DBDriver)
		}
	default:
		return Config{}, fmt.Errorf("unknown DB_DRIVER value: %s", cfg.DBDriver)
	}

	if cfg.LoginRate <= 0 || cfg.LoginBurst < 1 {
		return Config{}, fmt.Errorf("LOGIN_RATE must be positive and LOGIN_BURST at least 1")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool { return c.Env == "production" }

func getEnv(key string, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
