package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
	"github.com/williampepple1/classinfo/internal/config"
	"github.com/williampepple1/classinfo/internal/proxy"
	"github.com/williampepple1/classinfo/internal/telemetry"
)

// ChromeLauncher starts headless Chrome through chromedp
type ChromeLauncher struct {
	Config *config.BrowserConfig
	Proxy  *proxy.Manager
	Log    logrus.FieldLogger
}

// NewChromeLauncher creates a new browser launcher
func NewChromeLauncher(config *config.BrowserConfig, proxy *proxy.Manager, log logrus.FieldLogger) *ChromeLauncher {
	return &ChromeLauncher{
		Config: config,
		Proxy:  proxy,
		Log:    log,
	}
}

// AllocatorOptions returns the Chrome flags for a session using profileDir
func (l *ChromeLauncher) AllocatorOptions(profileDir string) ([]chromedp.ExecAllocatorOption, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Config.Headless),
		chromedp.UserDataDir(profileDir),
		chromedp.UserAgent(l.Config.UserAgent),
		chromedp.WindowSize(l.Config.WindowWidth, l.Config.WindowHeight),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins-discovery", true),
		chromedp.Flag("disable-features", "TranslateUI"),
		chromedp.Flag("memory-pressure-off", true),
		chromedp.Flag("aggressive-cache-discard", true),
	)

	if l.Config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.Config.ExecPath))
	}

	if l.Proxy != nil {
		proxyOpts, server, err := l.Proxy.AllocatorOptions()
		if err != nil {
			return nil, fmt.Errorf("proxy: %w", err)
		}
		if server != "" {
			telemetry.Stage(l.Log, "CHROME_SETUP").Infof("Using proxy %s", server)
		}
		opts = append(opts, proxyOpts...)
	}

	return opts, nil
}

// Launch starts a browser process and opens its first page
func (l *ChromeLauncher) Launch(ctx context.Context, profileDir string) (Session, error) {
	opts, err := l.AllocatorOptions(profileDir)
	if err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(telemetry.Stage(l.Log, "CHROME").Debugf),
	)

	// An empty Run allocates the browser so later timeouts only bound
	// their own actions, not the browser's lifetime.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &chromeSession{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) WaitReady(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close shuts the browser down gracefully and waits for the process to
// exit, so the profile directory can be removed afterwards.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		err := chromedp.Cancel(s.ctx)
		s.cancel()
		s.allocCancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// run executes actions on the browser page, bounded by ctx's deadline and
// cancellation.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
