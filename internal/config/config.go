// Package config loads and validates the optional .localeshell YAML file.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/deixis/localeshell/locale"
	"github.com/deixis/localeshell/shell"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = ".localeshell"

// Default values for fields left unset.
const (
	DefaultTimeout     = shell.DefaultTimeout
	DefaultMaxOutput   = 64 << 10 // 64 KB shown inline by the MCP server
	DefaultHistorySize = 16
)

// Config holds the parsed .localeshell configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int               `yaml:"version"`
	RawLocale    string            `yaml:"locale"`     // e.g. "italian"
	RawTimeout   string            `yaml:"timeout"`    // e.g. "90s", "5m"
	RawKeys      map[string]string `yaml:"keys"`       // merged over shell.DefaultKeys
	RawMaxOutput int               `yaml:"max_output"` // bytes
	RawHistory   int               `yaml:"history"`    // number of runs kept in memory
}

// Timeout returns the configured timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// Locale returns the configured locale, English when unset.
func (c *Config) Locale() (locale.Locale, error) {
	if c.RawLocale == "" {
		return locale.English, nil
	}
	return locale.Parse(c.RawLocale)
}

// Keys returns the default key table with the configured keys merged in.
func (c *Config) Keys() map[string]string {
	keys := shell.DefaultKeys()
	maps.Copy(keys, c.RawKeys)
	return keys
}

// MaxOutputBytes returns the configured inline output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// HistorySize returns the configured in-memory history size or the default.
func (c *Config) HistorySize() int {
	if c.RawHistory > 0 {
		return c.RawHistory
	}
	return DefaultHistorySize
}

// Validate reports settings that cannot be applied.
func (c *Config) Validate() error {
	if _, err := c.Locale(); err != nil {
		return err
	}
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
	}
	return nil
}

// Shell builds a shell from the configuration.
func (c *Config) Shell(log logrus.FieldLogger) (*shell.Shell, error) {
	l, err := c.Locale()
	if err != nil {
		return nil, err
	}
	return shell.New(
		shell.WithLocale(l),
		shell.WithKeys(c.Keys()),
		shell.WithDefaultTimeout(c.Timeout()),
		shell.WithLogger(log),
	), nil
}

// LoadResult holds the parsed config and the file it came from.
type LoadResult struct {
	Config *Config
	Path   string // empty when no file was found
}

// Load looks for a .localeshell file in dir and each of its parents.
// If none exists, a default Config is returned.
func Load(dir string) (*LoadResult, error) {
	path, err := findFile(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &LoadResult{Config: &Config{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Path: path}, nil
}

// findFile walks upward from dir looking for FileName.
func findFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
