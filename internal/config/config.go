package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	authvalidator "github.com/routerd/authgate/validator"
)

// Config is the configuration of the authgate server.
type Config struct {
	Auth   AuthConfig
	Server ServerConfig
	Log    LogConfig
}

// AuthConfig controls how tokens are validated.
type AuthConfig struct {
	KeyPath string        `validate:"required"`
	Backend string        `validate:"oneof=jwx jwtgo"`
	Leeway  time.Duration `validate:"gte=0"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr               string        `validate:"required"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
	CORSAllowedOrigins []string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Backend string `validate:"oneof=logrus zap zerolog"`
	Level   string `validate:"oneof=debug info warn error"`
	Format  string `validate:"oneof=text json"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if it exists; variables already set in
// the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	leeway, err := durationOr(getenv, "AUTHGATE_LEEWAY", authvalidator.DefaultLeeway)
	if err != nil {
		return nil, err
	}
	shutdown, err := durationOr(getenv, "HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Auth: AuthConfig{
			KeyPath: stringOr(getenv, "AUTHGATE_KEY_PATH", authvalidator.DefaultKeyPath),
			Backend: strings.ToLower(stringOr(getenv, "AUTHGATE_BACKEND", "jwx")),
			Leeway:  leeway,
		},
		Server: ServerConfig{
			Addr:               stringOr(getenv, "HTTP_ADDR", ":8080"),
			ShutdownTimeout:    shutdown,
			CORSAllowedOrigins: list(getenv("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Backend: strings.ToLower(stringOr(getenv, "AUTHGATE_LOGGER", "logrus")),
			Level:   strings.ToLower(stringOr(getenv, "AUTHGATE_LOG_LEVEL", "info")),
			Format:  strings.ToLower(stringOr(getenv, "AUTHGATE_LOG_FORMAT", "text")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func stringOr(getenv func(string) string, key, defaultValue string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func durationOr(getenv func(string) string, key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func list(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
