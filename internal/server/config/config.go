// Package config assembles the server configuration from defaults, an
// optional JSON or YAML file, environment variables (including a .env file)
// and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/MLowen1/basicwebapp/internal/logging"
)

// DefaultSecretKey is only suitable for local development.
const DefaultSecretKey = "change-me-in-production"

// Config holds runtime settings for the API server.
type Config struct {
	HTTPAddr       string
	GRPCHealthAddr string // empty disables the gRPC health endpoint
	DatabaseDSN    string

	SecretKey      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	BcryptCost     int

	// BlocklistPruneInterval of 0 keeps every revoked entry forever.
	BlocklistPruneInterval time.Duration

	CORSAllowedOrigin string

	OpenverseBaseURL      string
	OpenverseAPIKey       string
	OpenverseClientID     string
	OpenverseClientSecret string
	OpenverseTimeout      time.Duration

	LogBackend string
	LogFormat  string
	LogLevel   string

	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCHealthAddr = ":9090"
	c.DatabaseDSN = "sqlite://appdatabase.db"
	c.SecretKey = DefaultSecretKey
	c.AccessTokenTTL = time.Hour
	c.ResetTokenTTL = 30 * time.Minute
	c.BcryptCost = 0
	c.BlocklistPruneInterval = 0
	c.CORSAllowedOrigin = "*"
	c.OpenverseBaseURL = "https://api.openverse.org/v1"
	c.OpenverseTimeout = 10 * time.Second
	c.LogBackend = logging.BackendSlog
	c.LogFormat = logging.FormatJSON
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("access token ttl must be positive, got %s", c.AccessTokenTTL))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("reset token ttl must be positive, got %s", c.ResetTokenTTL))
	}
	if c.BlocklistPruneInterval < 0 {
		errs = append(errs, fmt.Errorf("blocklist prune interval must not be negative, got %s", c.BlocklistPruneInterval))
	}
	if c.LogBackend != logging.BackendSlog && c.LogBackend != logging.BackendZap {
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying the
// config file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, osLookupEnv); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
