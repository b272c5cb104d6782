package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MLowen1/basicwebapp/internal/flagx"
	"github.com/MLowen1/basicwebapp/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept
// strings such as "1h" or integer nanoseconds. Zero values leave the
// current setting untouched.
type FileConfig struct {
	HTTPAddr               string         `json:"http_addr" yaml:"http_addr"`
	GRPCHealthAddr         string         `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	DatabaseDSN            string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey              string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenTTL         timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`
	ResetTokenTTL          timex.Duration `json:"reset_token_ttl" yaml:"reset_token_ttl"`
	BcryptCost             int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	BlocklistPruneInterval timex.Duration `json:"blocklist_prune_interval" yaml:"blocklist_prune_interval"`
	CORSAllowedOrigin      string         `json:"cors_allowed_origin" yaml:"cors_allowed_origin"`
	Openverse              struct {
		BaseURL      string         `json:"base_url" yaml:"base_url"`
		APIKey       string         `json:"api_key" yaml:"api_key"`
		ClientID     string         `json:"client_id" yaml:"client_id"`
		ClientSecret string         `json:"client_secret" yaml:"client_secret"`
		Timeout      timex.Duration `json:"timeout" yaml:"timeout"`
	} `json:"openverse" yaml:"openverse"`
	Log struct {
		Backend string `json:"backend" yaml:"backend"`
		Format  string `json:"format" yaml:"format"`
		Level   string `json:"level" yaml:"level"`
	} `json:"log" yaml:"log"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays cfg with the file named by -c/-config, if any. The
// format is chosen by extension: .yaml/.yml is YAML, anything else JSON.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setDuration(&cfg.AccessTokenTTL, fc.AccessTokenTTL)
	setDuration(&cfg.ResetTokenTTL, fc.ResetTokenTTL)
	if fc.BcryptCost != 0 {
		cfg.BcryptCost = fc.BcryptCost
	}
	setDuration(&cfg.BlocklistPruneInterval, fc.BlocklistPruneInterval)
	setString(&cfg.CORSAllowedOrigin, fc.CORSAllowedOrigin)
	setString(&cfg.OpenverseBaseURL, fc.Openverse.BaseURL)
	setString(&cfg.OpenverseAPIKey, fc.Openverse.APIKey)
	setString(&cfg.OpenverseClientID, fc.Openverse.ClientID)
	setString(&cfg.OpenverseClientSecret, fc.Openverse.ClientSecret)
	setDuration(&cfg.OpenverseTimeout, fc.Openverse.Timeout)
	setString(&cfg.LogBackend, fc.Log.Backend)
	setString(&cfg.LogFormat, fc.Log.Format)
	setString(&cfg.LogLevel, fc.Log.Level)
	setDuration(&cfg.ShutdownTimeout, fc.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
