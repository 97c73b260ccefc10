package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/docscrawl/crawler"
)

const (
	appName        = "docscrawl"
	configFileName = "config.yaml"
)

// Output formats accepted by --format.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

var validFormats = []string{formatText, formatJSON, formatCSV, formatMarkdown}

// errConfigNotFound is returned when an explicitly named config file does not exist.
var errConfigNotFound = errors.New("configuration file not found")

// Config holds the settings of one docscrawl run.
type Config struct {
	StartURL  string
	MaxDepth  int // negative means unbounded
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Format    string
	Output    string
	NoTUI     bool
	Bloom     bool
	Verbose   bool
}

// FileConfig is the YAML configuration file. Absent keys keep the defaults.
type FileConfig struct {
	MaxDepth  *int           `yaml:"max_depth,omitempty"`
	UserAgent string         `yaml:"user_agent,omitempty"`
	Timeout   time.Duration  `yaml:"timeout,omitempty"`
	Delay     *time.Duration `yaml:"delay,omitempty"`
	Format    string         `yaml:"format,omitempty"`
	Output    string         `yaml:"output,omitempty"`
	NoTUI     bool           `yaml:"no_tui,omitempty"`
	Bloom     bool           `yaml:"bloom,omitempty"`
}

// NewConfig returns a Config populated with the built-in defaults.
func NewConfig() Config {
	return Config{
		MaxDepth:  -1,
		UserAgent: crawler.DefaultUserAgent,
		Timeout:   crawler.DefaultRequestTimeout,
		Delay:     crawler.DefaultDelay,
		Format:    formatText,
	}
}

// Apply overlays the values set in fc.
func (c *Config) Apply(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.MaxDepth != nil {
		c.MaxDepth = *fc.MaxDepth
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
	if fc.Delay != nil {
		c.Delay = *fc.Delay
	}
	if fc.Format != "" {
		c.Format = fc.Format
	}
	if fc.Output != "" {
		c.Output = fc.Output
	}
	c.NoTUI = c.NoTUI || fc.NoTUI
	c.Bloom = c.Bloom || fc.Bloom
}

// Validate checks the settings that cannot be checked by flag parsing.
func (c Config) Validate() error {
	if c.StartURL == "" {
		return errors.New("no start URL provided")
	}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", c.Format, validFormats)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %v", c.Delay)
	}
	return nil
}

// FindConfigFile resolves the config file to load. An explicit path must
// exist. Otherwise $XDG_CONFIG_HOME/docscrawl/config.yaml and the XDG config
// dirs are searched, and an empty string means no file was found.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", errConfigNotFound, explicit)
		}
		return explicit, nil
	}

	path, err := xdg.SearchConfigFile(filepath.Join(appName, configFileName))
	if err != nil {
		return "", nil
	}
	return path, nil
}

// LoadConfigFile reads and decodes a YAML config file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}
