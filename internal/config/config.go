package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Browser BrowserConfig `yaml:"browser"`
	Proxies ProxyConfig   `yaml:"proxies"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig describes the class search query sent to the catalog
type CatalogConfig struct {
	BaseURL    string `yaml:"base_url"`
	Campus     string `yaml:"campus"`
	Honors     string `yaml:"honors"`
	Promod     string `yaml:"promod"`
	SearchType string `yaml:"search_type"`
	Term       string `yaml:"term"`
}

// BrowserConfig holds the headless browser settings
type BrowserConfig struct {
	Headless      bool          `yaml:"headless"`
	ExecPath      string        `yaml:"exec_path"`
	UserAgent     string        `yaml:"user_agent"`
	WindowWidth   int           `yaml:"window_width"`
	WindowHeight  int           `yaml:"window_height"`
	Timeout       time.Duration `yaml:"timeout"`
	WaitTimeout   time.Duration `yaml:"wait_timeout"`
	FallbackDelay time.Duration `yaml:"fallback_delay"`
	ProfilePrefix string        `yaml:"profile_prefix"`
	ProfileRoot   string        `yaml:"profile_root"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
}

// LogConfig controls diagnostic output on stderr
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads the configuration from a YAML file on top of the defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if config.Browser.UserAgent == "" {
		config.Browser.UserAgent = DefaultUserAgent
	}

	return config, nil
}

// Default creates the configuration matching the catalog's fixed query
func Default() *AppConfig {
	return &AppConfig{
		Catalog: CatalogConfig{
			BaseURL:    DefaultCatalogURL,
			Campus:     "A",
			Honors:     "F",
			Promod:     "F",
			SearchType: "all",
			Term:       DefaultTerm,
		},
		Browser: BrowserConfig{
			Headless:      true,
			UserAgent:     DefaultUserAgent,
			WindowWidth:   1920,
			WindowHeight:  1080,
			Timeout:       30 * time.Second,
			WaitTimeout:   15 * time.Second,
			FallbackDelay: 2 * time.Second,
			ProfilePrefix: DefaultProfilePrefix,
		},
		Proxies: ProxyConfig{
			Enabled: false,
			Rotate:  true,
			List:    []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports settings the scraper cannot run with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url is empty"))
	}
	if c.Catalog.Term == "" {
		errs = append(errs, errors.New("catalog.term is empty"))
	}
	if c.Browser.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("browser.timeout must be positive, got %s", c.Browser.Timeout))
	}
	if c.Browser.WaitTimeout <= 0 {
		errs = append(errs, fmt.Errorf("browser.wait_timeout must be positive, got %s", c.Browser.WaitTimeout))
	}
	if c.Browser.FallbackDelay < 0 {
		errs = append(errs, fmt.Errorf("browser.fallback_delay is negative: %s", c.Browser.FallbackDelay))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
