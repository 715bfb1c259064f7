package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Gateway    GatewayConfig
	Booking    BookingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// GatewayConfig configures the payment gateway merchant API.
type GatewayConfig struct {
	BaseURL        string
	Email          string
	Password       string
	WebhookSecret  string
	WebhookBaseURL string // callbacks land on WebhookBaseURL + /api/v1/webhooks/{payment,refund}
	PaymentExpiry  time.Duration
	RefundRetries  int
}

// BookingConfig tunes the reservation engine.
type BookingConfig struct {
	MinDuration   time.Duration // per-day minimum booking window
	MaxDuration   time.Duration // per-day maximum booking window
	SweepInterval time.Duration // how often approved bookings past their end are completed
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8088"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "venuely:venuely@tcp(localhost:3306)/venuely?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "venuely",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Gateway: GatewayConfig{
			BaseURL:        env("GATEWAY_BASE_URL", ""),
			Email:          env("GATEWAY_EMAIL", ""),
			Password:       env("GATEWAY_PASSWORD", ""),
			WebhookSecret:  env("GATEWAY_WEBHOOK_SECRET", ""),
			WebhookBaseURL: env("GATEWAY_WEBHOOK_BASE_URL", ""),
			PaymentExpiry:  24 * time.Hour,
			RefundRetries:  3,
		},
		Booking: BookingConfig{
			MinDuration:   30 * time.Minute,
			MaxDuration:   14 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
