package proxy

import (
	"fmt"
	"math/rand"
	"net/url"

	"github.com/chromedp/chromedp"
	"github.com/williampepple1/classinfo/internal/config"
)

// Manager handles proxy configuration and rotation
type Manager struct {
	Config *config.ProxyConfig
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// GetProxyURL returns a proxy URL from the configuration, or nil when
// proxying is disabled
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Config.Enabled || len(m.Config.List) == 0 {
		return nil, nil
	}

	// Select a proxy
	proxyStr := m.Config.List[0]
	if m.Config.Rotate && len(m.Config.List) > 1 {
		proxyStr = m.Config.List[rand.Intn(len(m.Config.List))]
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy %q has no host", proxyStr)
	}
	if proxyURL.User != nil {
		// Chrome ignores credentials in --proxy-server
		return nil, fmt.Errorf("proxy %q: credentials are not supported", proxyURL.Redacted())
	}

	return proxyURL, nil
}

// AllocatorOptions returns the browser flags for the selected proxy
func (m *Manager) AllocatorOptions() ([]chromedp.ExecAllocatorOption, string, error) {
	proxyURL, err := m.GetProxyURL()
	if err != nil {
		return nil, "", err
	}

	if proxyURL != nil {
		server := proxyURL.String()
		return []chromedp.ExecAllocatorOption{chromedp.ProxyServer(server)}, server, nil
	}

	return nil, "", nil
}
