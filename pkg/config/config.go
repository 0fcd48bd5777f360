package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opencourse/campus/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Auth holds identity-provider configuration
	Auth AuthConfig

	// Storage configuration (postgres + object storage)
	Storage StorageConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds identity-provider configuration. BaseURL and AnonKey are
// the two required values; the service refuses to start without them.
type AuthConfig struct {
	// BaseURL is the identity provider's issuer URL
	BaseURL string
	// AnonKey is the provider's publishable API key, used as the OAuth client ID
	AnonKey string
	// ClientSecret is the confidential OAuth client secret, if the provider issues one
	ClientSecret string
	// RedirectURL is the absolute URL of the callback endpoint
	RedirectURL string
	// Scopes requested during the authorization-code flow
	Scopes []string
}

// StorageConfig holds the relational store and object storage configuration
type StorageConfig struct {
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	// SignedURLTTL is the lifetime of timed access URLs for course files
	SignedURLTTL time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel observability.LogLevel

	MetricsEnabled bool

	TracingEnabled bool
	OTelEndpoint   string
	ServiceName    string
	ServiceVersion string
	OTelInsecure   bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Storage:       loadStorageConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CAMPUS_HOST", "0.0.0.0"),
		Port:            getEnv("CAMPUS_PORT", "8080"),
		ReadTimeout:     getEnvDuration("CAMPUS_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CAMPUS_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CAMPUS_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CAMPUS_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("CAMPUS_HEALTH_PORT", "9090"),
	}
}

// loadAuthConfig loads identity-provider configuration from environment
func loadAuthConfig() AuthConfig {
	scopes := strings.Split(getEnv("CAMPUS_AUTH_SCOPES", "openid,email,profile"), ",")
	for i := range scopes {
		scopes[i] = strings.TrimSpace(scopes[i])
	}

	return AuthConfig{
		BaseURL:      getEnv("CAMPUS_AUTH_BASE_URL", ""),
		AnonKey:      getEnv("CAMPUS_AUTH_ANON_KEY", ""),
		ClientSecret: getEnv("CAMPUS_AUTH_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("CAMPUS_AUTH_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		Scopes:       scopes,
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() StorageConfig {
	return StorageConfig{
		PostgresURL:      getEnv("CAMPUS_POSTGRES_URL", ""),
		PostgresMaxConns: getEnvInt("CAMPUS_POSTGRES_MAX_CONNS", 25),
		PostgresMinConns: getEnvInt("CAMPUS_POSTGRES_MIN_CONNS", 5),
		PostgresTimeout:  getEnvDuration("CAMPUS_POSTGRES_TIMEOUT", 10*time.Second),

		S3Endpoint:     getEnv("CAMPUS_S3_ENDPOINT", ""),
		S3Region:       getEnv("CAMPUS_S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("CAMPUS_S3_BUCKET", "course-files"),
		S3AccessKey:    getEnv("CAMPUS_S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("CAMPUS_S3_SECRET_KEY", ""),
		S3UsePathStyle: getEnvBool("CAMPUS_S3_USE_PATH_STYLE", false),

		SignedURLTTL: getEnvDuration("CAMPUS_SIGNED_URL_TTL", 30*time.Minute),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("CAMPUS_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("CAMPUS_METRICS_ENABLED", true),
		TracingEnabled: getEnvBool("CAMPUS_TRACING_ENABLED", false),
		OTelEndpoint:   getEnv("CAMPUS_OTEL_ENDPOINT", "localhost:4317"),
		ServiceName:    getEnv("CAMPUS_SERVICE_NAME", "campus"),
		ServiceVersion: getEnv("CAMPUS_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:   getEnvBool("CAMPUS_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid. A missing auth base URL or
// publishable key is fatal: nothing in the service can run without the
// identity provider and its backing store.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Auth.BaseURL == "" {
		return fmt.Errorf("CAMPUS_AUTH_BASE_URL is required")
	}
	if c.Auth.AnonKey == "" {
		return fmt.Errorf("CAMPUS_AUTH_ANON_KEY is required")
	}
	if c.Auth.RedirectURL == "" {
		return fmt.Errorf("auth redirect URL is required")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Storage.S3Bucket == "" {
		return fmt.Errorf("S3 bucket is required")
	}
	if c.Storage.SignedURLTTL <= 0 {
		return fmt.Errorf("signed URL TTL must be positive")
	}

	if c.Observability.TracingEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OTel endpoint is required when tracing is enabled")
		}
		if c.Observability.ServiceName == "" {
			return fmt.Errorf("service name is required when tracing is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
