// Package cdpdriver implements the driver capability on the Chrome DevTools
// Protocol with chromedp.
package cdpdriver

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/networkteam/staycheck/driver"
)

// Options configures a Launcher.
type Options struct {
	// BaseURL is used to resolve relative navigation targets.
	BaseURL string
	// Headless runs Chrome without a window.
	Headless bool
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
	// Timeout bounds every wait for elements.
	// Default: 30s
	Timeout time.Duration
}

// Launcher owns one Chrome process. Sessions are tabs in separate browser
// contexts, so cookies and storage are isolated between them.
type Launcher struct {
	base *url.URL
	opts Options

	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

var _ driver.Launcher = (*Launcher)(nil)

// Launch starts Chrome.
func Launch(opts Options) (*Launcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1440, 900),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	return &Launcher{
		base:          base,
		opts:          opts,
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

func (l *Launcher) Name() string { return "chromedp" }

// NewSession opens a tab in a fresh browser context.
func (l *Launcher) NewSession(ctx context.Context) (driver.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(l.browserCtx, chromedp.WithNewBrowserContext())
	s := &Session{
		base:    l.base,
		timeout: l.opts.Timeout,
		tabCtx:  tabCtx,
		cancel:  cancel,
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*runtime.EventExceptionThrown); ok {
			s.recordAppError(ev.ExceptionDetails)
		}
	})

	if err := s.run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	return s, nil
}

// Close shuts Chrome down.
func (l *Launcher) Close() error {
	err := chromedp.Cancel(l.browserCtx)
	l.cancelBrowser()
	l.cancelAlloc()
	return err
}

// Session is one tab in its own browser context.
type Session struct {
	base    *url.URL
	timeout time.Duration
	tabCtx  context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	appErrors []error
}

var _ driver.Session = (*Session)(nil)

func (s *Session) recordAppError(details *runtime.ExceptionDetails) {
	if details == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appErrors = append(s.appErrors, details)
}

func (s *Session) AppErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := s.appErrors
	s.appErrors = nil
	return errs
}

// run executes actions on the tab, aborting when ctx is done.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, path string) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", path, err)
	}
	target := s.base.ResolveReference(ref).String()

	runCtx, cancel := context.WithTimeout(s.tabCtx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(target))
	if err != nil {
		return fmt.Errorf("navigate %s: %w: %w", target, driver.ErrUnreachable, err)
	}
	if resp != nil && resp.Status >= 400 {
		return fmt.Errorf("navigate %s: status %d: %w", target, resp.Status, driver.ErrUnreachable)
	}
	return nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return location, nil
}

func (s *Session) Find(sel driver.Selector) driver.Element {
	return &Element{session: s, chain: []link{{Sel: sel}}, desc: sel.String()}
}

func (s *Session) Close() error {
	err := chromedp.Cancel(s.tabCtx)
	s.cancel()
	return err
}
