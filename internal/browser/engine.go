// Package browser wraps one shared Chromium automation session for the
// duration of a scrape run. Adapters borrow isolated pages from it; they
// never own the session.
package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"jobsearch-engine/internal/scrape"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Engine struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Start launches Chromium. Callers must Stop the engine when the run
// ends; pages created in between die with it.
func Start(headless bool) (*Engine, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Engine{pw: pw, browser: b}, nil
}

// NewPage hands out a fresh page in its own browser context, plus a
// cleanup func the caller runs when the source is done with it.
func (e *Engine) NewPage(ctx context.Context) (scrape.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	page, err := e.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("new page: %w", err)
	}
	cleanup := func() { _ = page.Close() }
	return &pwPage{page: page}, cleanup, nil
}

func (e *Engine) Stop() error {
	if e.browser != nil {
		_ = e.browser.Close()
		e.browser = nil
	}
	if e.pw != nil {
		err := e.pw.Stop()
		e.pw = nil
		return err
	}
	return nil
}
