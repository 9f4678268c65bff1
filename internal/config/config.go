package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	App  AppConfig
	API  APIConfig
	Mock MockServerConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"circlepos"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
}

// APIConfig holds bookstore API client settings. The retry budget is
// MaxRetries retries on top of the initial attempt; RequestTimeout bounds a
// single attempt so a hung call cannot stall the whole budget.
type APIConfig struct {
	BaseURL        string        `envconfig:"API_BASE_URL" default:"http://localhost:8000/api"`
	RequestTimeout time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"15s"`
	MaxRetries     int           `envconfig:"API_MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"API_RETRY_BASE_DELAY" default:"1s"`
	RetryMaxJitter time.Duration `envconfig:"API_RETRY_MAX_JITTER" default:"1s"`
}

// MockServerConfig holds settings for the local mock bookstore API.
type MockServerConfig struct {
	Host            string        `envconfig:"MOCK_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"MOCK_PORT" default:"8000"`
	ReadTimeout     time.Duration `envconfig:"MOCK_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"MOCK_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"MOCK_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Address returns the mock server address in host:port format.
func (m *MockServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
