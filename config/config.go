// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all application configuration.
type Config struct {
	// Database – either set DatabaseURL directly, or the individual fields.
	DBDriver    string
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	DBMaxOpenConns     int
	DBDialTimeout      time.Duration
	DBStatementTimeout time.Duration

	// Work factor for password hashes. Never below bcrypt.DefaultCost.
	BcryptCost int

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Legacy MySQL database of the first deployment – used only by cmd/migrate.
	LegacyMySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := load(newViper())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func load(v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_USER", "drivetrainer")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_NAME", "arduino_drive_trainer")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_DIAL_TIMEOUT", "5s")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "10s")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("PORT", ":8000")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DBDriver:           strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBUser:             v.GetString("DB_USER"),
		DBPass:             v.GetString("DB_PASS"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		DBDialTimeout:      v.GetDuration("DB_DIAL_TIMEOUT"),
		DBStatementTimeout: v.GetDuration("DB_STATEMENT_TIMEOUT"),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		Debug:              v.GetBool("DEBUG"),
		Port:               v.GetString("PORT"),
		TLSDomains:         splitTrimmed(v.GetString("TLS_DOMAINS")),
		LegacyMySQLDSN:     v.GetString("LEGACY_MYSQL_DSN"),
	}
	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort(cfg.DBDriver)
	}
	if cfg.BcryptCost < bcrypt.DefaultCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.PathEscape(c.DBUser),
		url.PathEscape(c.DBPass),
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// MySQLDSN returns a go-sql-driver/mysql DSN.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) MySQLDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverMySQL)
	}
	if c.DatabaseURL == "" && c.DBPass == "" {
		return errors.New("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.DBStatementTimeout <= 0 || c.DBDialTimeout <= 0 {
		return errors.New("config: DB_DIAL_TIMEOUT and DB_STATEMENT_TIMEOUT must be positive")
	}
	if c.DBMaxOpenConns <= 0 {
		return errors.New("config: DB_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

func defaultPort(driver string) string {
	if driver == DriverMySQL {
		return "3306"
	}
	return "5432"
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
