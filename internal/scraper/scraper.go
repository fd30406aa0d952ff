package scraper

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/williampepple1/classinfo/internal/catalog"
	"github.com/williampepple1/classinfo/internal/config"
	"github.com/williampepple1/classinfo/internal/extraction"
	"github.com/williampepple1/classinfo/internal/proxy"
	"github.com/williampepple1/classinfo/internal/telemetry"
	"github.com/williampepple1/classinfo/pkg/models"
)

// Session is a single browser page owned by one lookup
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	// Close must tolerate a session that is already gone.
	Close() error
}

// Launcher starts a browser bound to a profile directory
type Launcher interface {
	Launch(ctx context.Context, profileDir string) (Session, error)
}

// ClassScraper looks up one class section in the catalog per call
type ClassScraper struct {
	Config    *config.AppConfig
	Launcher  Launcher
	Fs        afero.Fs
	Extractor *extraction.Extractor
	Log       logrus.FieldLogger
}

// New creates a scraper driving a local headless Chrome
func New(cfg *config.AppConfig, log logrus.FieldLogger) *ClassScraper {
	return &ClassScraper{
		Config:    cfg,
		Launcher:  NewChromeLauncher(&cfg.Browser, proxy.NewManager(&cfg.Proxies), log),
		Fs:        afero.NewOsFs(),
		Extractor: extraction.NewExtractor(log),
		Log:       log,
	}
}

// Lookup fetches and extracts the class. It never fails: every error, and
// any panic, is logged and reported as NotFound. The browser and its profile
// directory are released before Lookup returns.
func (s *ClassScraper) Lookup(ctx context.Context, classNumber string) (result models.Result) {
	start := time.Now()
	log := s.Log.WithField("class", classNumber)
	telemetry.Stage(log, "START").Infof("Processing class %s", classNumber)
	telemetry.TrackMemory(log, "Before browser init")

	var session Session
	var profileDir string
	defer func() {
		if r := recover(); r != nil {
			telemetry.Stage(log, "ERROR").
				WithField("stack", string(debug.Stack())).
				Errorf("Panic in lookup: %v", r)
			result = models.NotFound()
		}
		s.teardown(log, session, profileDir)
	}()

	record, found, err := s.run(ctx, log, classNumber, &session, &profileDir)
	if err != nil {
		telemetry.Stage(log, "ERROR").
			WithField("stack", string(debug.Stack())).
			Errorf("Error in lookup: %v", err)
		return models.NotFound()
	}
	if !found {
		return models.NotFound()
	}

	telemetry.Stage(log, "SUCCESS").
		WithField("duration", time.Since(start)).
		Info("Class data extracted successfully")
	return models.Found(record)
}

// run records the session and profile directory as soon as they exist so
// the caller can release them on every exit path.
func (s *ClassScraper) run(ctx context.Context, log logrus.FieldLogger, classNumber string, session *Session, profileDir *string) (models.ClassRecord, bool, error) {
	browserCfg := &s.Config.Browser

	dir, err := afero.TempDir(s.Fs, browserCfg.ProfileRoot, browserCfg.ProfilePrefix)
	if err != nil {
		return models.ClassRecord{}, false, fmt.Errorf("create profile dir: %w", err)
	}
	*profileDir = dir
	telemetry.Stage(log, "CHROME_SETUP").Infof("User data dir: %s", dir)

	sess, err := s.Launcher.Launch(ctx, dir)
	if err != nil {
		return models.ClassRecord{}, false, fmt.Errorf("launch browser: %w", err)
	}
	*session = sess
	telemetry.Stage(log, "DRIVER_SUCCESS").Info("Browser session created")
	telemetry.TrackMemory(log, "After browser init")

	url, err := catalog.QueryURL(&s.Config.Catalog, classNumber)
	if err != nil {
		return models.ClassRecord{}, false, err
	}

	telemetry.Stage(log, "URL_FETCH").Infof("Fetching: %s", url)
	navCtx, cancel := context.WithTimeout(ctx, browserCfg.Timeout)
	err = sess.Navigate(navCtx, url)
	cancel()
	if err != nil {
		return models.ClassRecord{}, false, fmt.Errorf("navigate: %w", err)
	}

	// The page sometimes renders without the marker within the wait window,
	// so a failed wait only delays the fetch.
	waitCtx, cancel := context.WithTimeout(ctx, browserCfg.WaitTimeout)
	err = sess.WaitReady(waitCtx, extraction.ResultCellSelector)
	cancel()
	if err != nil {
		telemetry.Stage(log, "PAGE_TIMEOUT").Warnf("Explicit wait timeout: %v", err)
		if err := sleep(ctx, browserCfg.FallbackDelay); err != nil {
			return models.ClassRecord{}, false, err
		}
	} else {
		telemetry.Stage(log, "PAGE_LOADED").Info("Page loaded successfully")
	}
	telemetry.TrackMemory(log, "After navigation and wait")

	htmlCtx, cancel := context.WithTimeout(ctx, browserCfg.Timeout)
	html, err := sess.HTML(htmlCtx)
	cancel()
	if err != nil {
		return models.ClassRecord{}, false, fmt.Errorf("read page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ClassRecord{}, false, fmt.Errorf("parse page content: %w", err)
	}

	record, found := s.Extractor.Extract(doc, classNumber)
	return record, found, nil
}

func (s *ClassScraper) teardown(log logrus.FieldLogger, session Session, profileDir string) {
	if session != nil {
		if err := session.Close(); err != nil {
			telemetry.Stage(log, "CLEANUP_ERROR").Warnf("Error closing browser session: %v", err)
		} else {
			telemetry.Stage(log, "CLEANUP").Info("Browser session closed successfully")
		}
	}

	if profileDir != "" {
		exists, err := afero.DirExists(s.Fs, profileDir)
		switch {
		case err != nil:
			telemetry.Stage(log, "CLEANUP_ERROR").Warnf("Error checking temp dir: %v", err)
		case exists:
			if err := s.Fs.RemoveAll(profileDir); err != nil {
				telemetry.Stage(log, "CLEANUP_ERROR").Warnf("Error cleaning temp dir: %v", err)
			} else {
				telemetry.Stage(log, "CLEANUP").Infof("Temp directory cleaned: %s", profileDir)
			}
		}
	}

	telemetry.TrackMemory(log, "After cleanup")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
