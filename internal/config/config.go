package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is read once in main and passed down; no package reads the
// environment after startup.
type Config struct {
	MongoURI      string
	MongoDatabase string
	APIPort       string
	JWTSecret     string

	PaymentWebhookSecret string
	PaymentAPIKey        string
	PaymentEnv           string // "sandbox" or "production"
	WebhookMaxAge        time.Duration

	TextbeltKey string
	LogLevel    string
	CORSOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDatabase:        os.Getenv("MONGO_DATABASE"),
		APIPort:              getEnv("API_PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PaymentAPIKey:        os.Getenv("PAYMENT_API_KEY"),
		PaymentEnv:           getEnv("PAYMENT_ENV", "sandbox"),
		WebhookMaxAge:        5 * time.Minute,
		TextbeltKey:          os.Getenv("TEXTBELT_API_KEY"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if raw := os.Getenv("WEBHOOK_MAX_AGE"); raw != "" {
		maxAge, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid WEBHOOK_MAX_AGE %q: %w", raw, err)
		}
		cfg.WebhookMaxAge = maxAge
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("config: MONGO_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("config: MONGO_DATABASE is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return nil, fmt.Errorf("config: PAYMENT_WEBHOOK_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
