// Package pwdriver implements the driver capability with Playwright.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/staycheck/driver"
)

// Options configures a Launcher.
type Options struct {
	// BaseURL is used to resolve relative navigation targets.
	BaseURL string
	// Browser is one of "chromium", "firefox" or "webkit".
	// Default: "chromium"
	Browser string
	// Headless runs the browser without a window.
	Headless bool
	// Timeout is the default timeout for actions and navigation.
	// Default: 30s
	Timeout time.Duration
}

// Launcher owns a Playwright driver process and one browser.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

var _ driver.Launcher = (*Launcher)(nil)

// Install downloads the Playwright driver and the given browsers.
func Install(browsers ...string) error {
	return playwright.Install(&playwright.RunOptions{Browsers: browsers})
}

// Launch starts Playwright and the configured browser.
func Launch(opts Options) (*Launcher, error) {
	if opts.Browser == "" {
		opts.Browser = "chromium"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "chromium":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unknown browser %q", opts.Browser)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching %s: %w", opts.Browser, err)
	}

	return &Launcher{pw: pw, browser: browser, opts: opts}, nil
}

func (l *Launcher) Name() string { return "playwright" }

// NewSession creates a browser context with isolated cookies and storage and
// opens one page in it.
func (l *Launcher) NewSession(ctx context.Context) (driver.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(l.opts.BaseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	ms := float64(l.opts.Timeout.Milliseconds())
	page.SetDefaultTimeout(ms)
	page.SetDefaultNavigationTimeout(ms)

	s := &Session{bctx: bctx, page: page}
	page.OnPageError(s.recordAppError)

	return s, nil
}

// Close releases the browser and stops Playwright.
func (l *Launcher) Close() error {
	return errors.Join(l.browser.Close(), l.pw.Stop())
}

// Session is one Playwright browser context with a single page.
type Session struct {
	bctx playwright.BrowserContext
	page playwright.Page

	mu        sync.Mutex
	appErrors []error
}

var _ driver.Session = (*Session)(nil)

// Page exposes the underlying Playwright page for diagnostics such as screenshots.
func (s *Session) Page() playwright.Page {
	return s.page
}

func (s *Session) recordAppError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appErrors = append(s.appErrors, err)
}

func (s *Session) AppErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := s.appErrors
	s.appErrors = nil
	return errs
}

func (s *Session) Navigate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := s.page.Goto(path)
	if err != nil {
		return fmt.Errorf("navigate %s: %w: %w", path, driver.ErrUnreachable, err)
	}
	if resp != nil && !resp.Ok() {
		return fmt.Errorf("navigate %s: status %d: %w", path, resp.Status(), driver.ErrUnreachable)
	}
	return nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	return s.page.URL(), ctx.Err()
}

func (s *Session) Find(sel driver.Selector) driver.Element {
	return &Element{loc: pageLocator(s.page, sel), desc: sel.String()}
}

func (s *Session) Close() error {
	return errors.Join(s.page.Close(), s.bctx.Close())
}
