package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/feedreader/pkg/filesystem"
	httputil "github.com/lepinkainen/feedreader/pkg/http"
	"github.com/lepinkainen/feedreader/pkg/registry"
)

// DefaultPath is the configuration file looked up when none is given
const DefaultPath = "feedreader.yaml"

// Config holds the central application configuration
type Config struct {
	// Feeds replaces the built-in feed list when non-empty
	Feeds []registry.FeedDescriptor `mapstructure:"feeds"`

	// HTTP transport settings used when fetching feeds
	HTTP struct {
		Timeout         time.Duration `mapstructure:"timeout"`
		MaxRetries      int           `mapstructure:"max_retries"`
		RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
		UserAgent       string        `mapstructure:"user_agent"`
		MinHostInterval time.Duration `mapstructure:"min_host_interval"`
	} `mapstructure:"http"`
}

// LoadConfig loads the configuration from a file. A missing file is not an
// error; defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	path = filesystem.ResolvePath(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := httputil.DefaultConfig()
	v.SetDefault("http.timeout", defaults.Timeout)
	v.SetDefault("http.max_retries", defaults.MaxRetries)
	v.SetDefault("http.retry_backoff", defaults.RetryBackoff)
	v.SetDefault("http.user_agent", defaults.UserAgent)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Registry builds the feed registry: the configured feeds, or the built-in
// list when the configuration names none
func (c *Config) Registry() (*registry.Registry, error) {
	if len(c.Feeds) == 0 {
		return registry.Default()
	}
	return registry.New(c.Feeds)
}

// ClientConfig returns the HTTP client settings
func (c *Config) ClientConfig() *httputil.ClientConfig {
	cfg := httputil.DefaultConfig()
	if c.HTTP.Timeout > 0 {
		cfg.Timeout = c.HTTP.Timeout
	}
	if c.HTTP.MaxRetries >= 0 {
		cfg.MaxRetries = c.HTTP.MaxRetries
	}
	if c.HTTP.RetryBackoff > 0 {
		cfg.RetryBackoff = c.HTTP.RetryBackoff
	}
	if c.HTTP.UserAgent != "" {
		cfg.UserAgent = c.HTTP.UserAgent
	}
	cfg.MinHostInterval = c.HTTP.MinHostInterval
	return cfg
}
