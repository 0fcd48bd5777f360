package config

import (
	"os"
	"testing"
	"time"

	"github.com/opencourse/campus/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// validConfig returns a configuration that passes Validate
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "8080",
			HealthPort: "9090",
		},
		Auth: AuthConfig{
			BaseURL:     "https://auth.example.com",
			AnonKey:     "pk_test",
			RedirectURL: "http://localhost:8080/auth/callback",
		},
		Storage: StorageConfig{
			PostgresURL:  "postgres://localhost/campus",
			S3Bucket:     "course-files",
			SignedURLTTL: 30 * time.Minute,
		},
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing auth base URL is fatal",
			mutate:  func(c *Config) { c.Auth.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing anon key is fatal",
			mutate:  func(c *Config) { c.Auth.AnonKey = "" },
			wantErr: true,
		},
		{
			name:    "missing postgres URL",
			mutate:  func(c *Config) { c.Storage.PostgresURL = "" },
			wantErr: true,
		},
		{
			name:    "missing S3 bucket",
			mutate:  func(c *Config) { c.Storage.S3Bucket = "" },
			wantErr: true,
		},
		{
			name:    "zero signed URL TTL",
			mutate:  func(c *Config) { c.Storage.SignedURLTTL = 0 },
			wantErr: true,
		},
		{
			name:    "server and health port collision",
			mutate:  func(c *Config) { c.Server.HealthPort = "8080" },
			wantErr: true,
		},
		{
			name: "tracing enabled without endpoint",
			mutate: func(c *Config) {
				c.Observability.TracingEnabled = true
				c.Observability.OTelEndpoint = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfig_Defaults tests default values with required env set
func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("CAMPUS_AUTH_BASE_URL", "https://auth.example.com")
	os.Setenv("CAMPUS_AUTH_ANON_KEY", "pk_test")
	os.Setenv("CAMPUS_POSTGRES_URL", "postgres://localhost/campus")
	defer func() {
		os.Unsetenv("CAMPUS_AUTH_BASE_URL")
		os.Unsetenv("CAMPUS_AUTH_ANON_KEY")
		os.Unsetenv("CAMPUS_POSTGRES_URL")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.SignedURLTTL != 30*time.Minute {
		t.Errorf("default signed URL TTL = %v, want 30m", cfg.Storage.SignedURLTTL)
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("default log level = %v, want info", cfg.Observability.LogLevel)
	}
	if len(cfg.Auth.Scopes) != 3 {
		t.Errorf("default scopes = %v, want openid,email,profile", cfg.Auth.Scopes)
	}
}

// TestLoadConfig_MissingRequired tests that missing required values fail
func TestLoadConfig_MissingRequired(t *testing.T) {
	os.Unsetenv("CAMPUS_AUTH_BASE_URL")
	os.Unsetenv("CAMPUS_AUTH_ANON_KEY")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error with missing auth configuration")
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"bogus", observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
