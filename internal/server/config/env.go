package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "BASICWEBAPP_"

var osLookupEnv = os.LookupEnv

// loadDotEnv copies variables from path into the process environment
// without overriding variables that are already set. A missing file is
// not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with environment variables. DATABASE_URL and
// JWT_SECRET_KEY are accepted as aliases; the prefixed names win.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(dst *string, names ...string) {
		for _, n := range names {
			if v, ok := lookup(n); ok && v != "" {
				*dst = v
			}
		}
	}
	dur := func(dst *time.Duration, name string) error {
		v, ok := lookup(name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
		return nil
	}

	str(&cfg.HTTPAddr, envPrefix+"HTTP_ADDR")
	str(&cfg.GRPCHealthAddr, envPrefix+"GRPC_HEALTH_ADDR")
	str(&cfg.DatabaseDSN, "DATABASE_URL", envPrefix+"DATABASE_DSN")
	str(&cfg.SecretKey, "JWT_SECRET_KEY", envPrefix+"SECRET_KEY")
	str(&cfg.CORSAllowedOrigin, envPrefix+"CORS_ALLOWED_ORIGIN")
	str(&cfg.OpenverseBaseURL, "OPENVERSE_BASE_URL")
	str(&cfg.OpenverseAPIKey, "OPENVERSE_API_KEY")
	str(&cfg.OpenverseClientID, "OPENVERSE_CLIENT_ID")
	str(&cfg.OpenverseClientSecret, "OPENVERSE_CLIENT_SECRET")
	str(&cfg.LogBackend, envPrefix+"LOG_BACKEND")
	str(&cfg.LogFormat, envPrefix+"LOG_FORMAT")
	str(&cfg.LogLevel, envPrefix+"LOG_LEVEL")

	for name, dst := range map[string]*time.Duration{
		envPrefix + "ACCESS_TOKEN_TTL":         &cfg.AccessTokenTTL,
		envPrefix + "RESET_TOKEN_TTL":          &cfg.ResetTokenTTL,
		envPrefix + "BLOCKLIST_PRUNE_INTERVAL": &cfg.BlocklistPruneInterval,
		envPrefix + "SHUTDOWN_TIMEOUT":         &cfg.ShutdownTimeout,
		"OPENVERSE_TIMEOUT":                    &cfg.OpenverseTimeout,
	} {
		if err := dur(dst, name); err != nil {
			return err
		}
	}

	if v, ok := lookup(envPrefix + "BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBCRYPT_COST: %w", envPrefix, err)
		}
		cfg.BcryptCost = cost
	}

	return nil
}
