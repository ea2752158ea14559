package internal

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Email generation defaults. Per-request options override these.
	EmailWidth      int
	BackgroundColor string
	TextColor       string
	FontFamily      string
	SiteName        string // Used for the document <title>
	Locale          string // Used for the lang attribute

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	// Local Storage (development)
	LocalStoragePath string // Base directory for local file storage
	LocalStorageURL  string // Base URL for accessing local files

	// R2 Storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string // Optional custom domain URL

	// SMTP delivery provider
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Generation defaults
		EmailWidth:      getEnvInt("EMAIL_WIDTH", 600),
		BackgroundColor: getEnv("EMAIL_BACKGROUND_COLOR", "#ffffff"),
		TextColor:       getEnv("EMAIL_TEXT_COLOR", "#333333"),
		FontFamily:      getEnv("EMAIL_FONT_FAMILY", "Arial, Helvetica, sans-serif"),
		SiteName:        getEnv("SITE_NAME", "CampaignBridge"),
		Locale:          getEnv("SITE_LOCALE", "en"),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		// R2 configuration (production only)
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		// SMTP defaults for Mailhog (development)
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@campaignbridge.dev"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "CampaignBridge"),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// Validate storage configuration
	if cfg.StorageProvider == "r2" {
		if cfg.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2AccessKeyID == "" {
			return nil, fmt.Errorf("R2_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2SecretAccessKey == "" {
			return nil, fmt.Errorf("R2_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME is required when STORAGE_PROVIDER is 'r2'")
		}
	} else if cfg.StorageProvider != "local" {
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 'r2', got: %s", cfg.StorageProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
