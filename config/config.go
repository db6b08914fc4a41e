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
	Admin      AdminConfig
	Cloudinary CloudinaryConfig
	SMTP       SMTPConfig
	Store      StoreConfig
	Ozow       OzowConfig
	PayFast    PayFastConfig
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

// AdminConfig seeds the single store-admin account at startup.
type AdminConfig struct {
	Email    string
	Password string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// SMTPConfig configures outbound mail. Leaving Host empty disables sending
// (order confirmations and contact notifications are then logged only).
type SMTPConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	ContactRecipient string
}

// StoreConfig holds storefront-wide values. PublicBaseURL is where the
// gateways reach us (notify/redirect URLs are built from it); FrontendBaseURL
// is where the shopper's browser lands after payment.
type StoreConfig struct {
	Name            string
	PublicBaseURL   string
	FrontendBaseURL string
}

// OzowConfig holds the Ozow merchant credentials. PrivateKey signs every
// outbound request and verifies every inbound notification.
type OzowConfig struct {
	SiteCode    string
	CountryCode string
	Currency    string
	PrivateKey  string
	IsTest      bool
}

// PayFastConfig holds the PayFast merchant credentials. Passphrase is
// optional; when empty it is omitted from the signature entirely.
type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DB_DSN", "poolside:poolside@tcp(localhost:3306)/poolside?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "poolside",
		},
		Admin: AdminConfig{
			Email:    env("ADMIN_EMAIL", "admin@poolside.co.za"),
			Password: env("ADMIN_PASSWORD", "change-me"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:             env("SMTP_HOST", ""),
			Port:             envInt("SMTP_PORT", 587),
			Username:         env("SMTP_USERNAME", ""),
			Password:         env("SMTP_PASSWORD", ""),
			From:             env("SMTP_FROM", "orders@poolside.co.za"),
			ContactRecipient: env("CONTACT_RECIPIENT", "info@poolside.co.za"),
		},
		Store: StoreConfig{
			Name:            env("STORE_NAME", "Poolside Beanbags"),
			PublicBaseURL:   env("PUBLIC_BASE_URL", "http://localhost:8080"),
			FrontendBaseURL: env("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
		Ozow: OzowConfig{
			SiteCode:    env("OZOW_SITE_CODE", ""),
			CountryCode: env("OZOW_COUNTRY_CODE", "ZA"),
			Currency:    env("OZOW_CURRENCY_CODE", "ZAR"),
			PrivateKey:  env("OZOW_PRIVATE_KEY", ""),
			IsTest:      envBool("OZOW_IS_TEST", true),
		},
		PayFast: PayFastConfig{
			MerchantID:  env("PAYFAST_MERCHANT_ID", ""),
			MerchantKey: env("PAYFAST_MERCHANT_KEY", ""),
			Passphrase:  env("PAYFAST_PASSPHRASE", ""),
			ProcessURL:  env("PAYFAST_PROCESS_URL", "https://sandbox.payfast.co.za/eng/process"),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
