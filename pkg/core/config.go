// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// RepositoryRootEnv overrides the configured repository root
	RepositoryRootEnv = "LLVMBOOT_REPOSITORY_ROOT"

	// FoundationRootEnv is the fallback for the foundation repository root
	FoundationRootEnv = "DE_FOUNDATION_ROOT"
)

// Config holds llvmboot configuration
type Config struct {
	RepositoryRoot  string        `yaml:"repository_root"`
	ToolsSubdir     string        `yaml:"tools_subdir"`
	FoundationRoot  string        `yaml:"foundation_root"`
	GeneratedDir    string        `yaml:"generated_dir"`
	CachePath       string        `yaml:"cache_path"`
	Debug           bool          `yaml:"debug"`
	Shell           string        `yaml:"shell"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return fmt.Errorf("no home directory for the default config path")
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ToolsDir is the repository's tools directory
func (c *Config) ToolsDir() string {
	return filepath.Join(c.RepositoryRoot, c.ToolsSubdir)
}

func (c *Config) applyDefaults() {
	if root := os.Getenv(RepositoryRootEnv); root != "" {
		c.RepositoryRoot = root
	}
	if c.RepositoryRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			c.RepositoryRoot = wd
		}
	}
	if c.ToolsSubdir == "" {
		c.ToolsSubdir = "Tools"
	}
	if c.FoundationRoot == "" {
		c.FoundationRoot = os.Getenv(FoundationRootEnv)
	}
	if c.GeneratedDir == "" {
		c.GeneratedDir = filepath.Join(c.RepositoryRoot, "Generated")
	}
	if c.CachePath == "" {
		c.CachePath = getDefaultCachePath()
	}
	if c.DownloadTimeout == 0 {
		c.DownloadTimeout = 30 * time.Minute
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "llvmboot", "config.yaml")
}

func getDefaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "llvmboot")
	}
	return filepath.Join(os.TempDir(), "llvmboot")
}
