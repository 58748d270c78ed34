// Package config loads the widget server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lumine-ai/widget/pkg/branding"
)

// ServerConfig configures the widget server.
type ServerConfig struct {
	Port      int             `yaml:"port"`
	PublicURL string          `yaml:"public_url"` // externally visible base URL, used in the loader script
	Branding  branding.Config `yaml:"branding"`
}

const defaultPort = 8321

// GetConfigDir returns the lumine config directory.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lumine"), nil
}

// GetConfigPath returns the default server config file path.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadServerConfig reads the server config from path, or from the default
// location when path is empty. A missing file yields defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &ServerConfig{Port: defaultPort}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	return cfg, nil
}
