package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Security settings
	JWTSecret        string
	OAuthStateString string

	// QuickBooks Online settings
	QuickBooksClientID     string
	QuickBooksClientSecret string
	QuickBooksRedirectURL  string
	QuickBooksEnvironment  string // "sandbox" or "production"
	QuickBooksMinorVersion string

	// Report cache settings
	ReportCacheTTL             time.Duration
	ReportCacheCleanupInterval time.Duration

	// Frontend URL for reference (e.g., CORS, redirects)
	FrontendBaseURL string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getRequiredEnv("JWT_SECRET")

	oauthStateString := getEnv("OAUTH_STATE_STRING", "secure-random-state-string-for-dev-only")
	if oauthStateString == "secure-random-state-string-for-dev-only" {
		log.Println("WARNING: Using default OAUTH_STATE_STRING. Set this in production.")
	}

	qbEnvironment := strings.ToLower(getEnv("QUICKBOOKS_ENVIRONMENT", "sandbox"))
	if qbEnvironment != "sandbox" && qbEnvironment != "production" {
		log.Printf("WARNING: Invalid QUICKBOOKS_ENVIRONMENT '%s', defaulting to sandbox.", qbEnvironment)
		qbEnvironment = "sandbox"
	}

	frontendBaseURL := getEnv("APP_BASE_URL", "http://localhost:3000")
	apiBaseURL := getEnv("API_BASE_URL", "http://localhost:8080")

	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./brokercrm.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// Security
		JWTSecret:        jwtSecret,
		OAuthStateString: oauthStateString,

		// QuickBooks
		QuickBooksClientID:     getEnv("QUICKBOOKS_CLIENT_ID", ""),
		QuickBooksClientSecret: getEnv("QUICKBOOKS_CLIENT_SECRET", ""),
		QuickBooksRedirectURL:  getEnv("QUICKBOOKS_REDIRECT_URL", apiBaseURL+"/api/quickbooks/callback"),
		QuickBooksEnvironment:  qbEnvironment,
		QuickBooksMinorVersion: getEnv("QUICKBOOKS_MINOR_VERSION", "65"),

		// Caching
		ReportCacheTTL:             getEnvAsDuration("REPORT_CACHE_TTL", 5*time.Minute),
		ReportCacheCleanupInterval: getEnvAsDuration("REPORT_CACHE_CLEANUP_INTERVAL", 10*time.Minute),

		// URLs
		FrontendBaseURL: frontendBaseURL,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, QuickBooksEnv=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.QuickBooksEnvironment)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
