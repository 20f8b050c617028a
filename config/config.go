package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables holding the affiliate API credentials.
const (
	EnvAppKey       = "AE_APP_KEY"
	EnvAppSecret    = "AE_APP_SECRET"
	EnvAppSignature = "AE_APP_SIGNATURE"
	EnvTrackingID   = "AE_TRACKING_ID"
)

// ErrMissingCredential is matched by the error Validate returns.
var ErrMissingCredential = errors.New("missing required credential")

// MissingEnvError names every required environment variable that is unset.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variable(s): %s", strings.Join(e.Names, ", "))
}

func (e *MissingEnvError) Is(target error) bool { return target == ErrMissingCredential }

// Config holds all application configuration.
type Config struct {
	// Affiliate API
	AppKey       string
	AppSecret    string
	AppSignature string
	TrackingID   string
	APIEndpoint  string

	// Display defaults
	Currency string
	Language string
	Country  string

	// Outbound HTTP
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int
	MaxRetries    int
	HTTPTimeout   time.Duration
	ProxyMode     string // "direct", "custom"
	ProxyFile     string // file with proxy list for custom mode

	// HTTP server
	HTTPPort         string
	APIKey           string
	AnnouncementFile string

	// Logging
	LogLevel  string // "debug", "info", "warn", "error"
	LogFormat string // "text", "json"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIEndpoint:      "https://api-sg.aliexpress.com/sync",
		Currency:         "USD",
		Language:         "EN",
		Country:          "US",
		RatePerSecond:    5.0,
		RateBurst:        5,
		MaxConcurrent:    4,
		MaxRetries:       0,
		HTTPTimeout:      30 * time.Second,
		ProxyMode:        "direct",
		HTTPPort:         "8080",
		AnnouncementFile: "data/announcement.json",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	c.AppKey = os.Getenv(EnvAppKey)
	c.AppSecret = os.Getenv(EnvAppSecret)
	c.AppSignature = os.Getenv(EnvAppSignature)
	c.TrackingID = os.Getenv(EnvTrackingID)

	if v := os.Getenv("AE_API_ENDPOINT"); v != "" {
		c.APIEndpoint = v
	}
	if v := os.Getenv("STOREFRONT_CURRENCY"); v != "" {
		c.Currency = v
	}
	if v := os.Getenv("STOREFRONT_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("STOREFRONT_COUNTRY"); v != "" {
		c.Country = v
	}
	if v := os.Getenv("STOREFRONT_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("STOREFRONT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("STOREFRONT_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("STOREFRONT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("STOREFRONT_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("STOREFRONT_PROXY_MODE"); v != "" {
		c.ProxyMode = v
	}
	if v := os.Getenv("STOREFRONT_PROXIES"); v != "" {
		c.ProxyFile = v
	}
	if v := os.Getenv("STOREFRONT_ANNOUNCEMENT_FILE"); v != "" {
		c.AnnouncementFile = v
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("STOREFRONT_API_KEY"); v != "" {
		c.APIKey = v
	}
}

// Validate reports every missing credential at once. It must pass before
// any client is built: an empty credential produces signatures the remote
// rejects on every call.
func (c *Config) Validate() error {
	var missing []string
	for _, kv := range []struct{ name, value string }{
		{EnvAppKey, c.AppKey},
		{EnvAppSecret, c.AppSecret},
		{EnvAppSignature, c.AppSignature},
		{EnvTrackingID, c.TrackingID},
	} {
		if strings.TrimSpace(kv.value) == "" {
			missing = append(missing, kv.name)
		}
	}
	if len(missing) > 0 {
		return &MissingEnvError{Names: missing}
	}
	if c.ProxyMode == "custom" && c.ProxyFile == "" {
		return fmt.Errorf("proxy mode %q requires STOREFRONT_PROXIES", c.ProxyMode)
	}
	return nil
}
