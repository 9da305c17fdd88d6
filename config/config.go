// Package config resolves client settings from a YAML file and the
// environment. Precedence: environment > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultBackendURL = "http://localhost:8000"
	defaultTimeout    = 12 * time.Second
)

type Config struct {
	BackendURL     string `yaml:"backend_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogFile        string `yaml:"log_file"`
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration. Search order for the file: customPath ->
// <user config dir>/neon-cinema-cli/config.yaml -> ./config.yaml ->
// defaults. A .env file in the working directory is loaded first so
// NEON_CINEMA_BACKEND_URL can live there.
func Load(customPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{BackendURL: defaultBackendURL}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return applyEnv(cfg), nil
	}

	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", userPath, err)
			}
			return applyEnv(cfg), nil
		}
	}

	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config.yaml: %w", err)
		}
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if url := os.Getenv("NEON_CINEMA_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if raw := os.Getenv("NEON_CINEMA_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.TimeoutSeconds = secs
		}
	}
	if file := os.Getenv("NEON_CINEMA_LOG_FILE"); file != "" {
		cfg.LogFile = file
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultBackendURL
	}
	return cfg
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "neon-cinema-cli", "config.yaml")
}
