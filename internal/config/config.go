package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/source"
)

// ErrConfigNotFound is returned when no configuration is found
var ErrConfigNotFound = errors.New("configuration not found")

// DefaultTimeout is the fetch timeout in seconds
const DefaultTimeout = 30

// Config holds the application configuration
type Config struct {
	Source SourceConfig `mapstructure:"source" yaml:"source"`
	Site   SiteConfig   `mapstructure:"site" yaml:"site"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	UI     UIConfig     `mapstructure:"ui" yaml:"ui"`
}

// SourceConfig says where the minutes come from
type SourceConfig struct {
	Kind     string `mapstructure:"kind" yaml:"kind"`         // json, html or markdown
	Location string `mapstructure:"location" yaml:"location"` // path or http(s) URL
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"`   // timeout in seconds
}

// SiteConfig holds settings of the published site
type SiteConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// CacheConfig holds cache-specific settings
type CacheConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// SearchConfig selects the index backend
type SearchConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// UIConfig holds display settings
type UIConfig struct {
	DefaultView string `mapstructure:"default_view" yaml:"default_view"`
}

// ConfigDir returns the directory holding config.yaml
func ConfigDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "minutes")
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ConfigDir())
	viper.AddConfigPath(".") // Also check current directory

	// MINUTES_SOURCE_LOCATION overrides source.location, and so on
	viper.SetEnvPrefix("MINUTES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{"source.kind", "source.location", "source.timeout", "site.base_url", "cache.dir", "search.backend", "ui.default_view"} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("source.kind", string(source.KindJSON))
	viper.SetDefault("source.timeout", DefaultTimeout)
	viper.SetDefault("cache.dir", filepath.Join(os.Getenv("HOME"), ".cache", "minutes"))
	viper.SetDefault("search.backend", string(index.BackendAuto))
	viper.SetDefault("ui.default_view", string(model.DefaultViewMode))

	// Try to read config file (it's okay if it doesn't exist)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	}

	if strings.TrimSpace(cfg.Source.Location) == "" {
		return nil, ErrConfigNotFound
	}
	if !cfg.Source.Remote() {
		cfg.Source.Location = expandPath(cfg.Source.Location)
	}

	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = DefaultTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var err error

	if _, ok := source.ParseKind(c.Source.Kind); !ok {
		err = multierror.Append(err, fmt.Errorf("source.kind %q must be one of json, html, markdown", c.Source.Kind))
	}
	if c.Source.Kind == string(source.KindMarkdown) && c.Source.Remote() {
		err = multierror.Append(err, fmt.Errorf("source.location must be a local directory for markdown sources"))
	}
	if _, ok := index.ParseBackend(c.Search.Backend); !ok {
		err = multierror.Append(err, fmt.Errorf("search.backend %q must be one of auto, bleve, literal", c.Search.Backend))
	}
	if _, ok := model.ParseViewMode(c.UI.DefaultView); !ok {
		err = multierror.Append(err, fmt.Errorf("ui.default_view %q must be card or list", c.UI.DefaultView))
	}
	if c.Site.BaseURL != "" && !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		err = multierror.Append(err, fmt.Errorf("site.base_url %q must be an http(s) URL", c.Site.BaseURL))
	}

	return err
}

// Remote reports whether the location is fetched over HTTP
func (s *SourceConfig) Remote() bool {
	lower := strings.ToLower(s.Location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// GetTimeout returns the fetch timeout as time.Duration
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// SourceOptions converts the settings for source.New
func (c *Config) SourceOptions() source.Options {
	kind, _ := source.ParseKind(c.Source.Kind)
	return source.Options{
		Kind:     kind,
		Location: c.Source.Location,
		Timeout:  c.Source.GetTimeout(),
		BaseURL:  c.Site.BaseURL,
	}
}

// Backend returns the configured index backend
func (c *Config) Backend() index.Backend {
	b, ok := index.ParseBackend(c.Search.Backend)
	if !ok {
		return index.BackendAuto
	}
	return b
}

// DefaultView returns the configured fallback view mode
func (c *Config) DefaultView() model.ViewMode {
	v, ok := model.ParseViewMode(c.UI.DefaultView)
	if !ok {
		return model.DefaultViewMode
	}
	return v
}

// expandPath expands ~ to home directory in paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home := os.Getenv("HOME")
		if len(path) == 1 {
			return home
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// ConfigPath returns the path of the config file written by Save
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ExampleConfigPath returns the path where the example config should be created
func ExampleConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml.example")
}

// Save saves the current configuration to file
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("source.kind", c.Source.Kind)
	viper.Set("source.location", c.Source.Location)
	viper.Set("source.timeout", c.Source.Timeout)
	viper.Set("site.base_url", c.Site.BaseURL)
	viper.Set("cache.dir", c.Cache.Dir)
	viper.Set("search.backend", c.Search.Backend)
	viper.Set("ui.default_view", c.UI.DefaultView)

	if err := viper.WriteConfigAs(ConfigPath()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateExampleConfig creates an example configuration file
func CreateExampleConfig() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	exampleConfig := `# minutes configuration file
# Place this file at ~/.config/minutes/config.yaml

source:
  # json: the site's search index (index.json)
  # html: a rendered minutes listing page
  # markdown: a Hugo content directory
  kind: json

  # Path or URL of the source (required)
  location: "https://cclub.example.org/index.json"

  # Fetch timeout in seconds (optional, defaults to 30)
  timeout: 30

site:
  # Joined with relative minutes links (optional)
  base_url: "https://cclub.example.org"

cache:
  # Cache directory (optional, defaults to ~/.cache/minutes)
  dir: "~/.cache/minutes"

search:
  # auto, bleve or literal (optional, defaults to auto)
  backend: auto

ui:
  # View used until you pick one with Ctrl+V: card or list
  default_view: card

# Environment variables can also be used:
# MINUTES_SOURCE_LOCATION=https://cclub.example.org/index.json
# MINUTES_SEARCH_BACKEND=literal
`

	return os.WriteFile(ExampleConfigPath(), []byte(exampleConfig), 0644)
}
