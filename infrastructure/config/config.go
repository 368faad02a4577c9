package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cosmic-backend/pkg/utils"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Event store backends
const (
	EventStoreDynamoDB = "dynamodb"
	EventStoreFile     = "file"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `env:"SERVER_ADDRESS" yaml:"server_address" validate:"required"`
	Environment   string `env:"ENVIRONMENT" yaml:"environment" validate:"required"`

	// Local state files and site assets
	DataDir       string `env:"DATA_DIR" yaml:"data_dir"`
	ContactFile   string `env:"CONTACT_FILE" yaml:"contact_file" validate:"required"`
	EventFile     string `env:"EVENT_FILE" yaml:"event_file" validate:"required"`
	DashboardFile string `env:"DASHBOARD_FILE" yaml:"dashboard_file" validate:"required"`
	ViewsDir      string `env:"VIEWS_DIR" yaml:"views_dir"`
	PublicDir     string `env:"PUBLIC_DIR" yaml:"public_dir"`

	// Event store
	EventStore       string `env:"EVENT_STORE" yaml:"event_store" validate:"required,oneof=dynamodb file"`
	AWSRegion        string `env:"AWS_REGION" yaml:"aws_region"`
	EventsTable      string `env:"EVENTS_TABLE" yaml:"events_table" validate:"required_if=EventStore dynamodb"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT" yaml:"dynamodb_endpoint"`
	EventBusName     string `env:"EVENT_BUS_NAME" yaml:"event_bus_name"`

	// Circuit breaker around the event store
	BreakerMaxRequests      uint32        `env:"BREAKER_MAX_REQUESTS" yaml:"breaker_max_requests"`
	BreakerInterval         time.Duration `env:"BREAKER_INTERVAL" yaml:"breaker_interval"`
	BreakerTimeout          time.Duration `env:"BREAKER_TIMEOUT" yaml:"breaker_timeout"`
	BreakerFailureThreshold float64       `env:"BREAKER_FAILURE_THRESHOLD" yaml:"breaker_failure_threshold" validate:"gt=0,lte=1"`
	BreakerMinRequests      uint32        `env:"BREAKER_MIN_REQUESTS" yaml:"breaker_min_requests"`

	// Submissions allowed per client per minute; 0 disables throttling
	SubmitRateLimit int `env:"SUBMIT_RATE_LIMIT" yaml:"submit_rate_limit" validate:"gte=0"`
	// Take client addresses from X-Forwarded-For/X-Real-IP
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" yaml:"trust_proxy_headers"`

	// Lambda configuration
	LambdaFunctionName string `env:"AWS_LAMBDA_FUNCTION_NAME" yaml:"-"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" yaml:"log_level" validate:"oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool `env:"ENABLE_METRICS" yaml:"enable_metrics"`
	EnableTracing bool `env:"ENABLE_TRACING" yaml:"enable_tracing"`
	EnableCORS    bool `env:"ENABLE_CORS" yaml:"enable_cors"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress: ":3000",
		Environment:   "development",

		DataDir:       ".",
		ContactFile:   "contact1.json",
		EventFile:     "data.json",
		DashboardFile: "dashboard.json",
		ViewsDir:      "web/views",
		PublicDir:     "web/public",

		EventStore:  EventStoreFile,
		AWSRegion:   "us-east-1",
		EventsTable: "cosmic-events",

		BreakerMaxRequests:      5,
		BreakerInterval:         30 * time.Second,
		BreakerTimeout:          60 * time.Second,
		BreakerFailureThreshold: 0.8,
		BreakerMinRequests:      5,

		LogLevel:      "info",
		EnableMetrics: true,
		EnableTracing: false,
		EnableCORS:    true,
	}
}

// LoadConfig layers, lowest precedence first: defaults, the YAML file named
// by CONFIG_FILE, then the environment. A .env file in the working directory
// is loaded into the environment without overriding variables already set.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ContactPath is the location of the contact submissions file
func (c *Config) ContactPath() string {
	return c.resolve(c.ContactFile)
}

// EventPath is the location of the file-backed event store
func (c *Config) EventPath() string {
	return c.resolve(c.EventFile)
}

// DashboardPath is the location of the dashboard entries file
func (c *Config) DashboardPath() string {
	return c.resolve(c.DashboardFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsLambda reports whether the process runs inside AWS Lambda
func (c *Config) IsLambda() bool {
	return c.LambdaFunctionName != ""
}
