package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway
type Config struct {
	AppMode string
	Port    string
	Backend BackendConfig
	Cookie  CookieConfig
	Session SessionConfig
}

// BackendConfig holds the remote finance API configuration
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CookieConfig holds the credential cookie configuration. The cookie is
// the browser-side token store: one fixed key, opaque string value.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
	Domain   string
	MaxAge   time.Duration
}

// SessionConfig holds session registry configuration
type SessionConfig struct {
	TTL           time.Duration
	SweepSchedule string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Backend: loadBackendConfig(),
		Cookie:  loadCookieConfig(appMode),
		Session: loadSessionConfig(),
	}

	AppConfig = config

	log.Printf("configuration loaded [MODE: %s] [BACKEND: %s]", appMode, config.Backend.BaseURL)
	return config, nil
}

// loadBackendConfig loads the remote API config
func loadBackendConfig() BackendConfig {
	timeoutSeconds, _ := strconv.Atoi(getEnv("BACKEND_TIMEOUT_SECONDS", "10"))

	return BackendConfig{
		BaseURL: strings.TrimRight(getEnv("BACKEND_API_URL", "http://localhost:4000"), "/"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// loadCookieConfig loads credential cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))
	maxAgeHours, _ := strconv.Atoi(getEnv("COOKIE_MAX_AGE_HOURS", "168"))

	return CookieConfig{
		Name:     getEnv("COOKIE_NAME", "finflow_token"),
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
		MaxAge:   time.Duration(maxAgeHours) * time.Hour,
	}
}

// loadSessionConfig loads session registry config
func loadSessionConfig() SessionConfig {
	ttlMinutes, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "5"))

	return SessionConfig{
		TTL:           time.Duration(ttlMinutes) * time.Minute,
		SweepSchedule: getEnv("SESSION_SWEEP_INTERVAL", "@every 10m"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://app.finflow.dev"
	}
	return origins
}
