package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         string
	LogLevel     string
	StoreBackend string // redis, postgres or memory
	RedisAddr    string
	DBConn       string
	StorageKey   string

	AlertsEnabled bool
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	AlertEmail    string
}

// NewConfig loads configuration from the environment, reading an
// optional .env file first
func NewConfig() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		StoreBackend:  getEnv("STORE_BACKEND", "redis"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5432 user=debtwise password=debtwise dbname=debtwise sslmode=disable"),
		StorageKey:    getEnv("STORAGE_KEY", "debtwise:snapshot"),
		AlertsEnabled: getEnv("ALERTS_ENABLED", "false") == "true",
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", ""),
		AlertEmail:    getEnv("ALERT_EMAIL", ""),
	}

	switch cfg.StoreBackend {
	case "redis", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.StorageKey == "" {
		return nil, fmt.Errorf("STORAGE_KEY is required")
	}
	if cfg.AlertsEnabled {
		if cfg.SMTPHost == "" || cfg.SenderEmail == "" || cfg.AlertEmail == "" {
			return nil, fmt.Errorf("SMTP_HOST, SENDER_EMAIL and ALERT_EMAIL are required when ALERTS_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
