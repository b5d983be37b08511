// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// BrowserFetcher renders pages in headless Chrome and returns the DOM after
// the load event. Chrome is started on the first Fetch, or reached over
// Config.BrowserURL when set.
type BrowserFetcher struct {
	Config types.FetchConfig
	Logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewBrowserFetcher returns a BrowserFetcher with defaults applied to cfg.
func NewBrowserFetcher(cfg types.FetchConfig, logger *zap.Logger) *BrowserFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserFetcher{Config: withDefaults(cfg), Logger: logger}
}

// Name returns the fetcher identifier.
func (f *BrowserFetcher) Name() string { return FetcherBrowser }

// Fetch opens a stealth tab, navigates to url and returns the rendered
// HTML. The tab is closed before returning.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b, err := f.connect()
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, withDefaults(f.Config).Timeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		// A page that never fires load may still have useful content.
		f.Logger.Warn("browser: wait load", zap.String("url", url), zap.Error(err))
	}

	html, err := page.Context(navCtx).HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: read DOM of %s: %w", url, err)
	}
	if limit := withDefaults(f.Config).MaxBytes; int64(len(html)) > limit {
		html = html[:limit]
	}
	return []byte(html), nil
}

// Close shuts down the browser and, when it was launched locally, removes
// the launcher's user data.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.lnch != nil {
		f.lnch.Cleanup()
		f.lnch = nil
	}
	return err
}

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	wsURL := f.Config.BrowserURL
	if wsURL != "" {
		f.Logger.Info("browser: connecting to remote", zap.String("url", wsURL))
	} else {
		l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		f.lnch = l
		f.Logger.Info("browser: launched local chrome", zap.String("url", wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if f.lnch != nil {
			f.lnch.Cleanup()
			f.lnch = nil
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	f.browser = b
	return b, nil
}
