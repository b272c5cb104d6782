package config

import (
	"os"
	"time"
)

const serverURLEnv = "BASICWEBAPP_SERVER_URL"

type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(serverURLEnv); ok && v != "" {
		cfg.ServerURL = v
	}
}

// LoadConfig applies defaults, the JSON file, the environment and flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
