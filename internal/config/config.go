package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Config struct {
	APIToken          string `json:"api_token"`
	BaseURL           string `json:"base_url"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	Format            string `json:"format"`
}

func Default() Config {
	return Config{
		RequestTimeoutSec: 15,
		Format:            "table",
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields
// for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("EODHD_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("EODHD_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("OUTPUT_FORMAT"); v != "" {
		cfg.Format = v
	}
}
