// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client
type Config struct {
	App        AppConfig
	API        APIConfig
	LocalStore LocalStoreConfig
	Checkout   CheckoutConfig
	Receipt    ReceiptConfig
	Contact    ContactConfig
	Logging    LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// APIConfig contains the remote storefront API configuration
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// LocalStoreConfig contains the client-local key-value store configuration
type LocalStoreConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	CartTTL      time.Duration
	TokenTTL     time.Duration
	PoolSize     int
	MinIdleConns int
}

// CheckoutConfig contains payment checkout configuration
type CheckoutConfig struct {
	Currency        string
	CallbackHost    string
	CallbackPort    string
	CallbackPath    string
	ShutdownTimeout time.Duration
}

// ReceiptConfig contains local receipt rendering configuration
type ReceiptConfig struct {
	Enabled        bool
	OutputDir      string
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
}

// ContactConfig contains the contact-form mail delivery configuration
type ContactConfig struct {
	Provider  string
	APIKey    string
	FromEmail string
	FromName  string
	ToEmail   string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ricecart"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:        getEnv("STORE_API_URL", "http://localhost:8080/"),
			RequestTimeout: getEnvAsDuration("STORE_API_TIMEOUT", 30*time.Second),
		},
		LocalStore: LocalStoreConfig{
			Host:         getEnv("LOCALSTORE_HOST", "localhost"),
			Port:         getEnv("LOCALSTORE_PORT", "6379"),
			Password:     getEnv("LOCALSTORE_PASSWORD", ""),
			DB:           getEnvAsInt("LOCALSTORE_DB", 0),
			CartTTL:      getEnvAsDuration("CART_TTL", 0),
			TokenTTL:     getEnvAsDuration("TOKEN_TTL", 0),
			PoolSize:     getEnvAsInt("LOCALSTORE_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("LOCALSTORE_MIN_IDLE_CONNS", 2),
		},
		Checkout: CheckoutConfig{
			Currency:        getEnv("CHECKOUT_CURRENCY", "INR"),
			CallbackHost:    getEnv("CHECKOUT_CALLBACK_HOST", "127.0.0.1"),
			CallbackPort:    getEnv("CHECKOUT_CALLBACK_PORT", "8972"),
			CallbackPath:    getEnv("CHECKOUT_CALLBACK_PATH", "/callback"),
			ShutdownTimeout: getEnvAsDuration("CHECKOUT_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Receipt: ReceiptConfig{
			Enabled:        getEnvAsBool("RECEIPT_ENABLED", false),
			OutputDir:      getEnv("RECEIPT_OUTPUT_DIR", "./receipts"),
			CompanyName:    getEnv("RECEIPT_COMPANY_NAME", "Rice"),
			CompanyAddress: getEnv("RECEIPT_COMPANY_ADDRESS", ""),
			CompanyEmail:   getEnv("RECEIPT_COMPANY_EMAIL", ""),
		},
		Contact: ContactConfig{
			Provider:  getEnv("CONTACT_PROVIDER", "resend"),
			APIKey:    getEnv("CONTACT_API_KEY", ""),
			FromEmail: getEnv("CONTACT_FROM_EMAIL", "noreply@example.com"),
			FromName:  getEnv("CONTACT_FROM_NAME", "Rice Storefront"),
			ToEmail:   getEnv("CONTACT_TO_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("STORE_API_URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("STORE_API_URL must be an http(s) URL")
	}
	if c.LocalStore.Host == "" {
		return fmt.Errorf("LOCALSTORE_HOST is required")
	}
	if c.Checkout.Currency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY is required")
	}
	if c.Checkout.CallbackPort == "" {
		return fmt.Errorf("CHECKOUT_CALLBACK_PORT is required")
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetLocalStoreAddr returns the local key-value store address
func (c *Config) GetLocalStoreAddr() string {
	return fmt.Sprintf("%s:%s", c.LocalStore.Host, c.LocalStore.Port)
}

// GetCallbackURL returns the URL the payment gateway redirects to
func (c *Config) GetCallbackURL() string {
	return fmt.Sprintf("http://%s:%s%s", c.Checkout.CallbackHost, c.Checkout.CallbackPort, c.Checkout.CallbackPath)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
