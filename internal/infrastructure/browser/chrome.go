// Package browser drives headless Chrome through the DevTools protocol.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

const defaultActionTimeout = 30 * time.Second

// ChromeSession owns one Chrome process with a single tab.
type ChromeSession struct {
	ctx           context.Context
	cancelTab     context.CancelFunc
	cancelAlloc   context.CancelFunc
	actionTimeout time.Duration
	logger        *slog.Logger
}

var _ ports.BrowserSession = (*ChromeSession)(nil)

// Start launches Chrome and opens a blank tab. The session lives until Close or until parent is done.
func Start(parent context.Context, cfg config.BrowserConfig, userAgent string, logger *slog.Logger) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run forces the browser to start so failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("%w: start chrome: %v", domain.ErrResourceInit, err)
	}

	timeout := cfg.ActionTimeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}

	if logger != nil {
		logger.Debug("chrome session started", "headless", cfg.Headless)
	}

	return &ChromeSession{
		ctx:           tabCtx,
		cancelTab:     cancelTab,
		cancelAlloc:   cancelAlloc,
		actionTimeout: timeout,
		logger:        logger,
	}, nil
}

// Navigate loads url and waits for the load event.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// Submit focuses the element matched by selector, types text and presses Enter.
func (s *ChromeSession) Submit(ctx context.Context, selector, text string) error {
	return s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text+kb.Enter, chromedp.ByQuery),
	)
}

// PageSource returns the serialized DOM of the current page.
func (s *ChromeSession) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// ScrollHeight reports document.body.scrollHeight.
func (s *ChromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := s.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, err
	}
	return height, nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (s *ChromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
}

// CurrentURL returns the location after any redirects.
func (s *ChromeSession) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}

// Close shuts the tab and the browser process.
func (s *ChromeSession) Close() error {
	if s == nil || s.cancelTab == nil {
		return nil
	}
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	s.cancelTab = nil
	if s.logger != nil {
		s.logger.Debug("chrome session closed")
	}
	return err
}

// run executes actions on the tab, bounded by the action timeout and the caller's ctx.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	actionCtx, cancel := context.WithTimeout(s.ctx, s.actionTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(actionCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
