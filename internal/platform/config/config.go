// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file
is read first when present (joho/godotenv); variables already set in the
process environment win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mail drivers accepted by MAIL_DRIVER.
const (
	MailDriverLog     = "log"
	MailDriverMailgun = "mailgun"
	MailDriverQueue   = "queue"
)

// # Configuration Schema

// Config holds all runtime configuration for the YaMDb processes.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SecretKey is the master secret confirmation codes are derived from.
	SecretKey      string `env:"SECRET_KEY,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Token lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"      envDefault:"24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// Outgoing mail
	MailDriver     string `env:"MAIL_DRIVER"     envDefault:"log"`
	MailFrom       string `env:"MAIL_FROM"       envDefault:"noreply@yamdb.local"`
	MailgunDomain  string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY"`
	MailgunBaseURL string `env:"MAILGUN_API_BASE"`
	RabbitMQURL    string `env:"RABBITMQ_URL"`
	MailQueue      string `env:"MAIL_QUEUE"      envDefault:"yamdb.mail"`

	// Cross-Origin Resource Sharing (comma separated)
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	// CSVDir is where `manage import-csv` resolves relative file names.
	CSVDir string `env:"CSV_DIR" envDefault:"./data/static"`
}

// Tooling holds the subset of settings `manage` needs. It omits the server's
// secrets so migrations and imports run with only DATABASE_URL set.
type Tooling struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	CSVDir        string `env:"CSV_DIR"        envDefault:"./data/static"`
}

// MailWorker holds the settings of cmd/mailworker.
type MailWorker struct {
	RabbitMQURL    string `env:"RABBITMQ_URL,required"`
	MailQueue      string `env:"MAIL_QUEUE"       envDefault:"yamdb.mail"`
	MailFrom       string `env:"MAIL_FROM"        envDefault:"noreply@yamdb.local"`
	MailgunDomain  string `env:"MAILGUN_DOMAIN,notEmpty"`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY,notEmpty"`
	MailgunBaseURL string `env:"MAILGUN_API_BASE"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg, err := parse[Config]()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadTooling parses the [Tooling] settings.
func LoadTooling() (*Tooling, error) {
	return parse[Tooling]()
}

// LoadMailWorker parses the [MailWorker] settings.
func LoadMailWorker() (*MailWorker, error) {
	return parse[MailWorker]()
}

func parse[T any]() (*T, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := new(T)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// Validate checks settings whose requirement depends on other settings.
func (c *Config) Validate() error {
	switch c.MailDriver {
	case MailDriverLog:
	case MailDriverMailgun:
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" {
			return errors.New("config: MAILGUN_DOMAIN and MAILGUN_API_KEY are required when MAIL_DRIVER=mailgun")
		}
	case MailDriverQueue:
		if c.RabbitMQURL == "" {
			return errors.New("config: RABBITMQ_URL is required when MAIL_DRIVER=queue")
		}
	default:
		return fmt.Errorf("config: unknown MAIL_DRIVER %q", c.MailDriver)
	}

	if c.AccessTokenTTL <= 0 || c.ConfirmationCodeTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}

	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
