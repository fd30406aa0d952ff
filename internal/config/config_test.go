package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.BaseURL)
	assert.Equal(t, "2257", cfg.Catalog.Term)
	assert.Equal(t, "A", cfg.Catalog.Campus)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Browser.WaitTimeout)
	assert.Equal(t, 2*time.Second, cfg.Browser.FallbackDelay)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, 1080, cfg.Browser.WindowHeight)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classinfo.yaml")
	data := `
catalog:
  term: "2261"
browser:
  wait_timeout: 5s
  user_agent: ""
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2261", cfg.Catalog.Term)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Browser.WaitTimeout)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.Browser.UserAgent)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [oops"), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "parse")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CLASSINFO_TERM":        "2264",
		"CLASSINFO_CHROME_PATH": "/usr/bin/chromium",
		"CLASSINFO_TIMEOUT":     "45s",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}))

	assert.Equal(t, "2264", cfg.Catalog.Term)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.ExecPath)
	assert.Equal(t, 45*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Term = ""
	cfg.Browser.Timeout = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.term")
	assert.Contains(t, err.Error(), "browser.timeout")
	assert.Contains(t, err.Error(), "log.format")
}
