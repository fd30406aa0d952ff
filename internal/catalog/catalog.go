// Package catalog builds class search URLs for the university catalog.
package catalog

import (
	"fmt"
	"net/url"

	"github.com/williampepple1/classinfo/internal/config"
)

// QueryURL returns the class list search URL for a class number
func QueryURL(cfg *config.CatalogConfig, classNumber string) (string, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse catalog url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("catalog url %q is not absolute", cfg.BaseURL)
	}

	// url.Values.Encode sorts keys, which matches the catalog's own ordering
	q := url.Values{}
	q.Set("campusOrOnlineSelection", cfg.Campus)
	q.Set("honors", cfg.Honors)
	q.Set("keywords", classNumber)
	q.Set("promod", cfg.Promod)
	q.Set("searchType", cfg.SearchType)
	q.Set("term", cfg.Term)
	base.RawQuery = q.Encode()

	return base.String(), nil
}
