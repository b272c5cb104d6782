package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_JSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "server.json", map[string]any{
		"http_addr":                ":9000",
		"database_dsn":             "postgres://db/app",
		"secret_key":               "my_secret_key",
		"access_token_ttl":         "45m",
		"reset_token_ttl":          int64(10 * time.Minute),
		"bcrypt_cost":              4,
		"blocklist_prune_interval": "1h",
		"openverse": map[string]any{
			"client_id":     "id",
			"client_secret": "secret",
			"timeout":       "3s",
		},
		"log": map[string]any{"backend": "zap", "format": "text"},
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg))

		assert.Equal(t, ":9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres://db/app", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 45*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
		assert.Equal(t, 4, cfg.BcryptCost)
		assert.Equal(t, time.Hour, cfg.BlocklistPruneInterval)
		assert.Equal(t, "id", cfg.OpenverseClientID)
		assert.Equal(t, "secret", cfg.OpenverseClientSecret)
		assert.Equal(t, 3*time.Second, cfg.OpenverseTimeout)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "text", cfg.LogFormat)

		// absent keys keep their defaults
		assert.Equal(t, ":9090", cfg.GRPCHealthAddr)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234", AccessTokenTTL: 2 * time.Minute}
		require.NoError(t, parseFile(cfg))

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Error(t, parseFile(&Config{}))
	})
}

func Test_loadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
grpc_health_addr: ":9191"
cors_allowed_origin: "http://localhost:5173"
openverse:
  base_url: "http://openverse.local/v1"
  api_key: "key"
shutdown_timeout: 5s
`), 0o600))

	cfg := &Config{}
	require.NoError(t, loadFile(cfg, path))

	assert.Equal(t, ":9191", cfg.GRPCHealthAddr)
	assert.Equal(t, "http://localhost:5173", cfg.CORSAllowedOrigin)
	assert.Equal(t, "http://openverse.local/v1", cfg.OpenverseBaseURL)
	assert.Equal(t, "key", cfg.OpenverseAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func Test_loadFile_BadYAMLDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token_ttl: forever\n"), 0o600))

	require.Error(t, loadFile(&Config{}, path))
}
