package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrTradingDisabled is returned when an order command runs while the
// config kill switch is off.
var ErrTradingDisabled = errors.New("trading is disabled in config (set trading_enabled: true to enable)")

const (
	// DefaultAPIBaseURL is the production brokerage API.
	DefaultAPIBaseURL = "https://api.tastyworks.com"

	// SandboxAPIBaseURL is the certification environment used for paper
	// trading and integration testing.
	SandboxAPIBaseURL = "https://api.cert.tastyworks.com"
)

// Config holds the CLI configuration.
type Config struct {
	AccountNumber  string `yaml:"account_number"`
	APIBaseURL     string `yaml:"api_base_url"`
	Sandbox        bool   `yaml:"sandbox"`
	TradingEnabled bool   `yaml:"trading_enabled"`
	DryRunDefault  bool   `yaml:"dry_run_default"`
}

// DefaultConfig returns the defaults merged under any loaded file;
// BaseURL resolves the endpoint.
func DefaultConfig() *Config {
	return &Config{TradingEnabled: true}
}

// BaseURL resolves the API endpoint, preferring an explicit override and
// falling back to the environment selected by the sandbox flag.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.Sandbox {
		return SandboxAPIBaseURL
	}
	return DefaultAPIBaseURL
}

// ConfigDir returns the directory holding the CLI's config files,
// honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasty")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tasty")
	}
	return filepath.Join(home, ".config", "tasty")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config at path. A missing file is not an error; defaults
// are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
