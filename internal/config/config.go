// Package config loads client configuration: built-in defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL        string
	TokenPath      string
	Locale         string
	RequestTimeout time.Duration
}

func defaults() *Config {
	cfg := &Config{
		BaseURL:        "http://localhost:3000",
		Locale:         "pt-BR",
		RequestTimeout: 30 * time.Second,
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.TokenPath = filepath.Join(dir, "deathstore", "token")
	} else {
		cfg.TokenPath = filepath.Join(".", ".deathstore-token")
	}
	return cfg
}

// fileConfig is the YAML shape; durations come in as strings ("30s").
type fileConfig struct {
	BaseURL        string `yaml:"base_url"`
	TokenPath      string `yaml:"token_path"`
	Locale         string `yaml:"locale"`
	RequestTimeout string `yaml:"request_timeout"`
}

// Load reads path when it exists (a missing file is not an error), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			if fc.BaseURL != "" {
				cfg.BaseURL = fc.BaseURL
			}
			if fc.TokenPath != "" {
				cfg.TokenPath = fc.TokenPath
			}
			if fc.Locale != "" {
				cfg.Locale = fc.Locale
			}
			if fc.RequestTimeout != "" {
				d, err := time.ParseDuration(fc.RequestTimeout)
				if err != nil {
					return nil, fmt.Errorf("parse config %s: request_timeout: %w", path, err)
				}
				cfg.RequestTimeout = d
			}
		}
	}

	if v := os.Getenv("DEATHSTORE_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DEATHSTORE_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("DEATHSTORE_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("DEATHSTORE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse DEATHSTORE_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}
