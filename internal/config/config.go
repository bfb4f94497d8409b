// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// ServerSite is the public base URL embedded in confirmation links (e.g. https://auth.example.com).
	ServerSite string `mapstructure:"SERVER_SITE"`
	// ProjectTag names the project in outbound mail (e.g. "demoauth").
	ProjectTag string `mapstructure:"PROJECT_TAG"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; signs session tokens.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTIssuer is the iss claim on session tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim on session tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// VerificationTTLRaw is the verification request lifetime (e.g. "5m").
	VerificationTTLRaw string `mapstructure:"VERIFICATION_TTL"`
	// SessionTTLRaw is the session token lifetime (e.g. "24h").
	SessionTTLRaw string `mapstructure:"SESSION_TTL"`
	// SMTPHost is the SMTP relay host for confirmation mail.
	SMTPHost string `mapstructure:"SMTP_HOST"`
	// SMTPPort is the SMTP relay port (default 587).
	SMTPPort int `mapstructure:"SMTP_PORT"`
	// SMTPEmail is the sender address and SMTP auth identity.
	SMTPEmail string `mapstructure:"SMTP_EMAIL"`
	// SMTPPassword is the SMTP auth password.
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	// OTLPEndpoint is the OTLP collector endpoint for traces/metrics/logs; empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export (standard OTEL_EXPORTER_OTLP_INSECURE behavior).
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SERVER_SITE", "http://localhost:8080")
	v.SetDefault("PROJECT_TAG", "demoauth")
	v.SetDefault("JWT_ISSUER", "serverless-auth")
	v.SetDefault("JWT_AUDIENCE", "serverless-auth-clients")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("VERIFICATION_TTL", "5m")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_EMAIL", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.ServerSite == "" {
		return nil, errors.New("config: SERVER_SITE must be set")
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return nil, errors.New("config: SMTP_PORT must be a valid port")
	}

	return &cfg, nil
}

// VerificationTTL parses VerificationTTLRaw as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) VerificationTTL() time.Duration {
	d, err := time.ParseDuration(c.VerificationTTLRaw)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// SessionTTL parses SessionTTLRaw as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTLRaw)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
