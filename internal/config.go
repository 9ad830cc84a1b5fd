package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dukerupert/shopery/internal/telemetry"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        uint16
	DatabaseUrl string
	BaseURL     string

	// BaseDomain scopes the session and guest token cookies (e.g. "shopery.example").
	// Empty means host-only cookies.
	BaseDomain string

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string

	NatsURL   string
	Email     EmailConfig
	Admin     AdminConfig
	Sentry    telemetry.SentryConfig
	RateLimit RateLimitConfig
	Cart      CartConfig
	Codes     CodeConfig

	SessionTTL      time.Duration
	CleanupInterval time.Duration
	BcryptCost      int
}

// EmailConfig selects and configures the outbound mail provider.
type EmailConfig struct {
	Provider       string // "smtp", "sendgrid" or "log"
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	FromName       string
	SendGridAPIKey string
}

// AdminConfig contains initial admin user configuration.
// These values are only used on first startup to create the admin user.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type RateLimitConfig struct {
	RPS       float64
	Burst     int
	AuthRPS   float64
	AuthBurst int
}

type CartConfig struct {
	GuestTTL       time.Duration
	GuestActiveTTL time.Duration
}

// CodeConfig sets the lifetimes of emailed verification and reset codes.
type CodeConfig struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	ResendInterval  time.Duration
}

var (
	validEnvs      = map[string]bool{"dev": true, "prod": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validProviders = map[string]bool{"smtp": true, "sendgrid": true, "log": true}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 3000)
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("base_domain", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("cors_allowed_origins", "")

	v.SetDefault("email_provider", "log")
	v.SetDefault("smtp_host", "localhost")
	v.SetDefault("smtp_port", 1025)
	v.SetDefault("email_from", "noreply@shopery.local")
	v.SetDefault("email_from_name", "Shopery")

	v.SetDefault("sentry_enabled", false)
	v.SetDefault("sentry_environment", "development")
	v.SetDefault("sentry_sample_rate", 1.0)
	v.SetDefault("sentry_traces_sample_rate", 0.0)

	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("rate_limit_auth_rps", 0.5)
	v.SetDefault("rate_limit_auth_burst", 5)

	v.SetDefault("guest_cart_ttl", "168h")
	v.SetDefault("guest_cart_active_ttl", "720h")
	v.SetDefault("session_ttl", "720h")
	v.SetDefault("verification_code_ttl", "10m")
	v.SetDefault("reset_code_ttl", "15m")
	v.SetDefault("code_resend_interval", "60s")
	v.SetDefault("cleanup_interval", "1h")
	v.SetDefault("bcrypt_cost", 12)
}

// loadDotEnv loads .env from the working directory or up to two parents.
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
	log.Warn().Msg(".env file not found, using environment variables and defaults")
}

// NewConfig reads configuration from the environment (and .env when present).
func NewConfig() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return configFrom(v)
}

func configFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:         v.GetString("env"),
		LogLevel:    v.GetString("log_level"),
		Port:        v.GetUint16("port"),
		DatabaseUrl: v.GetString("database_url"),
		BaseURL:     v.GetString("base_url"),
		BaseDomain:  v.GetString("base_domain"),
		CORSOrigins: splitList(v.GetString("cors_allowed_origins")),
		NatsURL:     v.GetString("nats_url"),
		Email: EmailConfig{
			Provider:       strings.ToLower(v.GetString("email_provider")),
			Host:           v.GetString("smtp_host"),
			Port:           v.GetInt("smtp_port"),
			Username:       v.GetString("smtp_username"),
			Password:       v.GetString("smtp_password"),
			From:           v.GetString("email_from"),
			FromName:       v.GetString("email_from_name"),
			SendGridAPIKey: v.GetString("sendgrid_api_key"),
		},
		Admin: AdminConfig{
			Email:     v.GetString("shopery_admin_email"),
			Password:  v.GetString("shopery_admin_password"),
			FirstName: v.GetString("shopery_admin_first_name"),
			LastName:  v.GetString("shopery_admin_last_name"),
		},
		Sentry: telemetry.SentryConfig{
			DSN:              v.GetString("sentry_dsn"),
			Enabled:          v.GetBool("sentry_enabled"),
			Environment:      v.GetString("sentry_environment"),
			Release:          v.GetString("sentry_release"),
			SampleRate:       v.GetFloat64("sentry_sample_rate"),
			TracesSampleRate: v.GetFloat64("sentry_traces_sample_rate"),
			Debug:            v.GetBool("sentry_debug"),
		},
		RateLimit: RateLimitConfig{
			RPS:       v.GetFloat64("rate_limit_rps"),
			Burst:     v.GetInt("rate_limit_burst"),
			AuthRPS:   v.GetFloat64("rate_limit_auth_rps"),
			AuthBurst: v.GetInt("rate_limit_auth_burst"),
		},
		Cart: CartConfig{
			GuestTTL:       v.GetDuration("guest_cart_ttl"),
			GuestActiveTTL: v.GetDuration("guest_cart_active_ttl"),
		},
		Codes: CodeConfig{
			VerificationTTL: v.GetDuration("verification_code_ttl"),
			ResetTTL:        v.GetDuration("reset_code_ttl"),
			ResendInterval:  v.GetDuration("code_resend_interval"),
		},
		SessionTTL:      v.GetDuration("session_ttl"),
		CleanupInterval: v.GetDuration("cleanup_interval"),
		BcryptCost:      v.GetInt("bcrypt_cost"),
	}

	if !validEnvs[cfg.Env] {
		log.Warn().Str("env", cfg.Env).Msg("Invalid environment. Using default: prod")
		cfg.Env = "prod"
	}
	if !validLogLevels[cfg.LogLevel] {
		log.Warn().Str("value", cfg.LogLevel).Msg("Invalid log level. Using default: info")
		cfg.LogLevel = "info"
	}

	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !validProviders[cfg.Email.Provider] {
		return nil, fmt.Errorf("EMAIL_PROVIDER must be smtp, sendgrid or log, got %q", cfg.Email.Provider)
	}
	if cfg.Email.Provider == "sendgrid" && cfg.Email.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required when EMAIL_PROVIDER=sendgrid")
	}
	if cfg.CleanupInterval <= 0 {
		return nil, fmt.Errorf("CLEANUP_INTERVAL must be positive")
	}

	return cfg, nil
}

// splitList parses a comma-separated environment value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
