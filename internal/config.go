package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Env            string `validate:"oneof=dev prod"`
	LogLevel       string `validate:"oneof=debug info warn error"`
	Port           uint16 `validate:"min=1"`
	AddressService AddressServiceConfig
	Auth           AuthConfig
	NATS           NATSConfig
	RateLimit      RateLimitConfig
	Sentry         SentryConfig
}

// AddressServiceConfig points the client at the remote address service.
type AddressServiceConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

// AuthConfig holds bearer token settings.
//
// Token is the credential the CLI sends. JWTSecret and TokenTTL are used by
// the reference service to verify and issue tokens. DevTokens exposes the
// token endpoint and must stay off in production.
type AuthConfig struct {
	Token     string
	JWTSecret string        `validate:"required,min=16"`
	TokenTTL  time.Duration `validate:"gt=0"`
	DevTokens bool
}

// NATSConfig controls publishing of address change events.
type NATSConfig struct {
	Enabled bool
	URL     string `validate:"required_if=Enabled true"`
	Subject string `validate:"required_if=Enabled true"`
}

// RateLimitConfig throttles the reference service per token subject.
// A zero RequestsPerSecond disables throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=1"`
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN         string `validate:"required_if=Enabled true"`
	Enabled     bool
	Environment string
	Release     string
	SampleRate  float64 `validate:"gte=0,lte=1"`
	Debug       bool
}

var defaults = map[string]any{
	"ENV":                     "dev",
	"LOG_LEVEL":               "info",
	"PORT":                    3000,
	"ADDRESS_SERVICE_URL":     "http://localhost:3000",
	"ADDRESS_SERVICE_TIMEOUT": "10s",
	"ADDRESS_TOKEN":           "",
	"JWT_SECRET":              defaultJWTSecret,
	"JWT_TTL":                 "24h",
	"AUTH_DEV_TOKENS":         false,
	"NATS_ENABLED":            false,
	"NATS_URL":                "nats://127.0.0.1:4222",
	"NATS_SUBJECT_PREFIX":     "address",
	"RATE_LIMIT_RPS":          10,
	"RATE_LIMIT_BURST":        20,
	"SENTRY_DSN":              "",
	"SENTRY_ENABLED":          false, // Disabled by default for development
	"SENTRY_ENVIRONMENT":      "development",
	"SENTRY_RELEASE":          "",
	"SENTRY_SAMPLE_RATE":      1.0,
	"SENTRY_DEBUG":            false,
}

// ClientConfig is the part of the configuration the CLI reads. It carries
// no signing secret and skips the service's production guards.
type ClientConfig struct {
	Env            string `validate:"oneof=dev prod"`
	LogLevel       string `validate:"oneof=debug info warn error"`
	AddressService AddressServiceConfig
	Token          string
	Sentry         SentryConfig
}

func NewConfig() (*Config, error) {
	loadDotEnv()
	return configFrom(envViper())
}

func NewClientConfig() (*ClientConfig, error) {
	loadDotEnv()
	return clientConfigFrom(envViper())
}

func envViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func clientConfigFrom(v *viper.Viper) (*ClientConfig, error) {
	cfg := &ClientConfig{
		Env:            normalizeEnv(v.GetString("ENV")),
		LogLevel:       normalizeLogLevel(v.GetString("LOG_LEVEL")),
		AddressService: addressServiceFrom(v),
		Token:          v.GetString("ADDRESS_TOKEN"),
		Sentry:         sentryFrom(v),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:            normalizeEnv(v.GetString("ENV")),
		LogLevel:       normalizeLogLevel(v.GetString("LOG_LEVEL")),
		Port:           v.GetUint16("PORT"),
		AddressService: addressServiceFrom(v),
		Auth: AuthConfig{
			Token:     v.GetString("ADDRESS_TOKEN"),
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
			DevTokens: v.GetBool("AUTH_DEV_TOKENS"),
		},
		NATS: NATSConfig{
			Enabled: v.GetBool("NATS_ENABLED"),
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Sentry: sentryFrom(v),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Env == "prod" {
		if cfg.Auth.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production environment")
		}
		if cfg.Auth.DevTokens {
			return nil, fmt.Errorf("AUTH_DEV_TOKENS must be disabled in production environment")
		}
	}

	return cfg, nil
}

func addressServiceFrom(v *viper.Viper) AddressServiceConfig {
	return AddressServiceConfig{
		BaseURL: v.GetString("ADDRESS_SERVICE_URL"),
		Timeout: v.GetDuration("ADDRESS_SERVICE_TIMEOUT"),
	}
}

func sentryFrom(v *viper.Viper) SentryConfig {
	return SentryConfig{
		DSN:         v.GetString("SENTRY_DSN"),
		Enabled:     v.GetBool("SENTRY_ENABLED"),
		Environment: v.GetString("SENTRY_ENVIRONMENT"),
		Release:     v.GetString("SENTRY_RELEASE"),
		SampleRate:  v.GetFloat64("SENTRY_SAMPLE_RATE"),
		Debug:       v.GetBool("SENTRY_DEBUG"),
	}
}

func normalizeEnv(env string) string {
	env = strings.ToLower(env)
	if env == "production" {
		return "prod"
	}
	if env != "dev" && env != "prod" {
		log.Warn().Str("env", env).Msg("Invalid environment. Using default: prod")
		return "prod"
	}
	return env
}

func normalizeLogLevel(level string) string {
	level = strings.ToLower(level)
	switch level {
	case "debug", "info", "warn", "error":
		return level
	default:
		log.Warn().Str("value", level).Msg("Invalid log level. Using default: info")
		return "info"
	}
}

// loadDotEnv loads .env from the current directory, then walks up at most
// two parent directories.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	dir, _ := os.Getwd()
	for i := 0; i < 2; i++ {
		dir = filepath.Join(dir, "..")
		if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
			return
		}
	}
	log.Warn().Msg("Warning: .env file not found, using environment variables and defaults")
}
