// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading. Values are
// layered: built-in defaults, then an optional YAML file, then environment
// variables. It provides a centralized Config struct used across the
// application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the environment variable that points at a YAML config file.
const PathEnvVar = "CONFIG_PATH"

// DefaultPath is used when CONFIG_PATH is unset and the file exists.
const DefaultPath = "config.yaml"

// defaultDBPassword is rejected outside development.
const defaultDBPassword = "changeme"

// Config holds all application configuration values.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Valkey    ValkeyConfig    `koanf:"valkey"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Cache     CacheConfig     `koanf:"cache"`
}

// AppConfig holds server settings.
type AppConfig struct {
	Host        string   `koanf:"host"`
	Port        string   `koanf:"port"`
	Env         string   `koanf:"env"` // "development", "production", "testing"
	LogLevel    string   `koanf:"log_level"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// PostgresConfig holds the PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DB       string `koanf:"db"`
	SSLMode  string `koanf:"sslmode"`
}

// ValkeyConfig holds the Valkey (Redis-compatible) connection settings.
type ValkeyConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
}

// SMTPConfig holds outgoing mail settings. An empty Host disables delivery
// and reset mails are logged instead.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// AuthConfig holds account recovery settings.
type AuthConfig struct {
	ResetTokenTTL time.Duration `koanf:"reset_token_ttl"`
	// ResetURL is the front-end page that receives ?token=...
	ResetURL string `koanf:"reset_url"`
}

// RateLimitConfig holds per-IP request budgets for abuse-prone endpoints.
type RateLimitConfig struct {
	Login          int           `koanf:"login"`
	ForgotPassword int           `koanf:"forgot_password"`
	Submissions    int           `koanf:"submissions"`
	Window         time.Duration `koanf:"window"`
}

// CacheConfig holds public response cache settings.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// defaultConfig returns the built-in development defaults.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			Env:         "development",
			LogLevel:    "info",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "bizdir",
			Password: defaultDBPassword,
			DB:       "bizdir",
			SSLMode:  "disable",
		},
		Valkey: ValkeyConfig{
			Host: "localhost",
			Port: "6379",
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "BizDir <no-reply@bizdir.local>",
		},
		Auth: AuthConfig{
			ResetTokenTTL: 30 * time.Minute,
			ResetURL:      "http://localhost:5173/reset-password",
		},
		RateLimit: RateLimitConfig{
			Login:          10,
			ForgotPassword: 5,
			Submissions:    20,
			Window:         time.Minute,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// envMappings maps the flat environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"APP_HOST":               "app.host",
	"APP_PORT":               "app.port",
	"APP_ENV":                "app.env",
	"LOG_LEVEL":              "app.log_level",
	"CORS_ORIGINS":           "app.cors_origins",
	"POSTGRES_HOST":          "postgres.host",
	"POSTGRES_PORT":          "postgres.port",
	"POSTGRES_USER":          "postgres.user",
	"POSTGRES_PASSWORD":      "postgres.password",
	"POSTGRES_DB":            "postgres.db",
	"POSTGRES_SSLMODE":       "postgres.sslmode",
	"VALKEY_HOST":            "valkey.host",
	"VALKEY_PORT":            "valkey.port",
	"VALKEY_PASSWORD":        "valkey.password",
	"SMTP_HOST":              "smtp.host",
	"SMTP_PORT":              "smtp.port",
	"SMTP_USER":              "smtp.user",
	"SMTP_PASSWORD":          "smtp.password",
	"SMTP_FROM":              "smtp.from",
	"RESET_TOKEN_TTL":        "auth.reset_token_ttl",
	"RESET_URL":              "auth.reset_url",
	"RATE_LIMIT_LOGIN":       "rate_limit.login",
	"RATE_LIMIT_FORGOT":      "rate_limit.forgot_password",
	"RATE_LIMIT_SUBMISSIONS": "rate_limit.submissions",
	"RATE_LIMIT_WINDOW":      "rate_limit.window",
	"CACHE_TTL":              "cache.ttl",
}

// sliceKeys are koanf paths given as comma-separated strings in the environment.
var sliceKeys = []string{"app.cors_origins"}

// Load reads configuration from defaults, the optional YAML file and the
// environment, in increasing priority. Returns an error if the result
// fails validation.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey translates an environment variable name into a koanf path, or ""
// to skip it. Empty values are skipped so they fall through to defaults.
func envKey(key string) string {
	if os.Getenv(key) == "" {
		return ""
	}
	return envMappings[key]
}

// configFile returns the YAML file to load, or "" when none exists.
func configFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// splitSlices turns comma-separated string values into string slices.
func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects configurations that are unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error

	switch c.App.Env {
	case "development", "production", "testing":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be development, production or testing, got %q", c.App.Env))
	}
	if c.App.Env == "production" && c.Postgres.Password == defaultDBPassword {
		errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
	}
	if c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Postgres.User, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port,
		c.Postgres.DB, c.Postgres.SSLMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.App.Host, c.App.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.Valkey.Host, c.Valkey.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}

// SMTPEnabled reports whether outgoing mail is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}
