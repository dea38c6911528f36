// Package config loads netdash configuration from YAML files and the
// environment. The backend base URL is resolved once here at startup and
// injected into the API client; nothing recomputes it per call.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/netdash/netdash/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".netdash.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/netdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Config holds all netdash settings.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Refresh RefreshConfig `mapstructure:"refresh" yaml:"refresh"`
	Memory  MemoryConfig  `mapstructure:"memory" yaml:"memory"`
}

// APIConfig describes how to reach the monitoring backend.
type APIConfig struct {
	// URL is the backend base URL, e.g. "http://monitor.local:8000".
	URL string `mapstructure:"url" yaml:"url"`
	// Timeout bounds every request; a hung backend fails the request
	// instead of leaving the UI loading forever.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RefreshConfig controls background polling.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// MemoryConfig holds chart-scale settings.
type MemoryConfig struct {
	// FallbackGB is the memory-chart capacity used when no sample in the
	// series reports a total.
	FallbackGB float64 `mapstructure:"fallback_gb" yaml:"fallback_gb"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Refresh: RefreshConfig{Interval: 60 * time.Second},
		Memory:  MemoryConfig{FallbackGB: 16},
	}
}

// Load reads config from the given path, or from the search path when path
// is empty. A missing file yields defaults, not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NETDASH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		found := Find()
		if found == "" {
			cfg := DefaultConfig()
			if err := validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		v.SetConfigFile(found)
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'netdash init' to create one, or pass --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+v.ConfigFileUsed())
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find locates the config file: .netdash.yaml in the current directory, then
// ~/.config/netdash/config.yaml. Returns empty string when neither exists.
func Find() string {
	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global
		}
	}

	return ""
}

// Write saves the config as YAML to the given path, creating parent
// directories as needed.
func Write(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot encode config", "")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file",
			"Check permissions on "+path)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("refresh.interval", "60s")
	v.SetDefault("memory.fallback_gb", 16)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid backend URL %q", cfg.API.URL),
			"Set api.url to a full URL like http://monitor.local:8000")
	}
	if cfg.API.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"api.timeout must be positive",
			"Use a duration like 10s")
	}
	if cfg.Refresh.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			"refresh.interval must be positive",
			"Use a duration like 60s")
	}
	if cfg.Memory.FallbackGB <= 0 {
		return errors.New(errors.ErrConfig,
			"memory.fallback_gb must be positive",
			"Use the machine's RAM size in GB, e.g. 16")
	}
	return nil
}
