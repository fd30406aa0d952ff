package config

import (
	"fmt"
	"time"

	"github.com/mstoykov/envconfig"
)

type envConfig struct {
	CatalogURL string        `envconfig:"CLASSINFO_CATALOG_URL"`
	Term       string        `envconfig:"CLASSINFO_TERM"`
	Campus     string        `envconfig:"CLASSINFO_CAMPUS"`
	ChromePath string        `envconfig:"CLASSINFO_CHROME_PATH"`
	Timeout    time.Duration `envconfig:"CLASSINFO_TIMEOUT"`
	LogLevel   string        `envconfig:"CLASSINFO_LOG_LEVEL"`
}

// ApplyEnv overlays CLASSINFO_* environment variables on the config.
// A nil lookup reads the process environment.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	var env envConfig
	var err error
	if lookup == nil {
		err = envconfig.Process("", &env)
	} else {
		err = envconfig.Process("", &env, lookup)
	}
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.CatalogURL != "" {
		c.Catalog.BaseURL = env.CatalogURL
	}
	if env.Term != "" {
		c.Catalog.Term = env.Term
	}
	if env.Campus != "" {
		c.Catalog.Campus = env.Campus
	}
	if env.ChromePath != "" {
		c.Browser.ExecPath = env.ChromePath
	}
	if env.Timeout > 0 {
		c.Browser.Timeout = env.Timeout
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	return nil
}
