package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/waits"
)

// Page wraps the shared browser context with the primitives every screen
// driver needs: navigate, read, click, type, wait. All timing comes from the
// run configuration so pacing is adjustable in one place.
type Page struct {
	ctx context.Context
	cfg *common.Config
	log *harness.RunLogger
}

func NewPage(ctx context.Context, cfg *common.Config, log *harness.RunLogger) *Page {
	return &Page{ctx: ctx, cfg: cfg, log: log}
}

// Ctx exposes the browser context for screenshot capture.
func (p *Page) Ctx() context.Context { return p.ctx }

// Navigate loads a path relative to the configured UI base URL, waits for the
// readiness selector to become visible and then pauses for the page-load
// settle time.
func (p *Page) Navigate(path, readySelector string) error {
	url := strings.TrimRight(p.cfg.Target.UIBaseURL, "/") + path
	p.log.Verbose("Navigating to %s", url)

	timeout := p.cfg.Paced(p.cfg.Timing.WaitTimeout)
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &waits.TimeoutError{Op: fmt.Sprintf("navigate %s", path), Elapsed: timeout}
		}
		return fmt.Errorf("failed to navigate to %s: %w", path, err)
	}
	return waits.Delay(p.ctx, p.cfg.Paced(p.cfg.Timing.PageLoadWait))
}

// Text reads the trimmed text content of the first element matching the
// selector.
func (p *Page) Text(selector string) (string, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Paced(p.cfg.Timing.WaitTimeout))
	defer cancel()

	var text string
	if err := chromedp.Run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read text of %q: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

// Number reads the element's text and parses it as a float after stripping
// the display adornments the UI adds to financial values.
func (p *Page) Number(selector string) (float64, error) {
	text, err := p.Text(selector)
	if err != nil {
		return 0, err
	}
	value, err := ParseNumber(text)
	if err != nil {
		return 0, fmt.Errorf("element %q: %w", selector, err)
	}
	return value, nil
}

// ParseNumber converts a rendered financial value ("$1,234.56", "+2.4%",
// "-0.5") into a float64.
func ParseNumber(text string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "", "+", "", " ", "").Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", text)
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as number: %w", text, err)
	}
	return value, nil
}

// Click waits for the element, clicks it and pauses for the animation settle
// time so follow-up reads see the post-click state.
func (p *Page) Click(selector string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Paced(p.cfg.Timing.WaitTimeout))
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return waits.Delay(p.ctx, p.cfg.Paced(p.cfg.Timing.AnimationWait))
}

// Type clears the input and sends the value as keystrokes.
func (p *Page) Type(selector, value string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Paced(p.cfg.Timing.WaitTimeout))
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}
	return nil
}

// WaitVisible blocks until the selector is visible or the timeout elapses,
// returning a typed timeout so callers can distinguish "UI never got there"
// from an action error.
func (p *Page) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &waits.TimeoutError{Op: fmt.Sprintf("wait for %q", selector), Elapsed: timeout}
		}
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// evaluate runs a script in the page and unmarshals the result.
func (p *Page) evaluate(script string, out interface{}) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Paced(p.cfg.Timing.WaitTimeout))
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("failed to evaluate page script: %w", err)
	}
	return nil
}

// Visible checks whether the selector currently matches a rendered element.
// A failed check reports Unknown rather than Absent so callers can tell the
// two apart.
func (p *Page) Visible(selector string) waits.Presence {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timing.PollInterval.Std()*4)
	defer cancel()

	var found bool
	script := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el !== null && el.offsetParent !== null; })()`,
		selector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return waits.PresenceUnknown
	}
	if found {
		return waits.PresenceFound
	}
	return waits.PresenceAbsent
}

// WaitLoadingGone waits for the shared loading overlay to disappear. Screens
// without an overlay pass immediately.
func (p *Page) WaitLoadingGone() error {
	return waits.ForLoadingGone(p.ctx,
		p.cfg.Paced(p.cfg.Timing.WaitTimeout),
		p.cfg.Timing.PollInterval.Std(),
		func(ctx context.Context) waits.Presence {
			return p.Visible(`.loading-indicator`)
		})
}
