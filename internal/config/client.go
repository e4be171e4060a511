package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// ClientConfig configures the terminal client.
type ClientConfig struct {
	ServerURL string        `yaml:"server_url"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// DefaultClientPath returns ~/.config/tasktracker/config.yaml.
func DefaultClientPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "tasktracker.yaml")
	}
	return filepath.Join(dir, "tasktracker", "config.yaml")
}

// LoadClient reads the client config at path. A missing file yields defaults.
// A zero Timeout leaves the client default in place.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{ServerURL: defaultServerURL}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read client config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse client config %s: %w", path, err)
	}

	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("client config %s: timeout must not be negative", path)
	}
	return cfg, nil
}

// SaveClient writes cfg to path, creating parent directories.
func SaveClient(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode client config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
