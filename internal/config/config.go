// Package config loads service configuration from a TOML file with an
// environment override for the listen port.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Config is the full service configuration.
type Config struct {
	Port           string `toml:"port"`
	DefaultBackend string `toml:"default_backend"`

	Local  LocalConfig  `toml:"local"`
	Remote RemoteConfig `toml:"remote"`
	Run    RunConfig    `toml:"run"`
}

// LocalConfig configures the in-process statevector simulator.
type LocalConfig struct {
	Enabled   bool `toml:"enabled"`
	MaxQubits int  `toml:"max_qubits"`
}

// RemoteConfig configures the remote Aer-style simulation service.
type RemoteConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	DeviceName     string `toml:"device_name"`
	MaxQubits      int    `toml:"max_qubits"`
	PollingSeconds int    `toml:"polling_seconds"`
}

// RunConfig bounds simulation requests.
type RunConfig struct {
	DefaultShots   int `toml:"default_shots"`
	MaxShots       int `toml:"max_shots"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Port:           "8080",
		DefaultBackend: "local_statevector",
		Local: LocalConfig{
			Enabled:   true,
			MaxQubits: 20,
		},
		Remote: RemoteConfig{
			DeviceName:     "aer_statevector",
			MaxQubits:      29,
			PollingSeconds: 2,
		},
		Run: RunConfig{
			DefaultShots:   1024,
			MaxShots:       100000,
			TimeoutSeconds: 60,
		},
	}
}

// Load reads the configuration at path, falling back to defaults when the
// file does not exist. A PORT environment variable overrides the configured
// port. A file that exists but cannot be decoded is an error.
func Load(path string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()

	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", zap.String("path", path))
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if _, err := toml.Decode(string(blob), cfg); err != nil {
			return nil, fmt.Errorf("decoding config file %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if cfg.Run.MaxShots > 0 && cfg.Run.DefaultShots > cfg.Run.MaxShots {
		return nil, fmt.Errorf("default_shots %d exceeds max_shots %d", cfg.Run.DefaultShots, cfg.Run.MaxShots)
	}

	return cfg, nil
}
