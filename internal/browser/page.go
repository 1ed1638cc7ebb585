package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"jobsearch-engine/internal/scrape"
)

// settleMillis is how long a page gets to attach new content after an
// interactive click before we read the DOM back.
const settleMillis = 1500

// pwPage adapts a playwright page to the narrow capability adapters
// consume. Navigation and click failures come back as plain errors; the
// adapter translates them into source-level failures.
type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Goto(ctx context.Context, url string, wait scrape.WaitStrategy) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(wait),
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("goto %s: %w", url, err)
	}

	dismissCookieBanner(p.page)

	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return html, nil
}

func (p *pwPage) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc := p.page.Locator(selector).First()
	visible, err := loc.IsVisible()
	if err != nil || !visible {
		return scrape.ErrNoSuchControl
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	p.page.WaitForTimeout(settleMillis)
	return nil
}

func (p *pwPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Content()
}

func waitUntil(wait scrape.WaitStrategy) *playwright.WaitUntilState {
	switch wait {
	case scrape.WaitNetworkIdle:
		return playwright.WaitUntilStateNetworkidle
	case scrape.WaitLoad:
		return playwright.WaitUntilStateLoad
	default:
		return playwright.WaitUntilStateDomcontentloaded
	}
}

var cookieSelectors = []string{
	"button[id*='accept']",
	"button[class*='accept']",
	"button[data-testid*='accept']",
	"#onetrust-accept-btn-handler",
}

// dismissCookieBanner clicks the first visible consent button. Fails
// silently; a lingering banner only costs us the content behind it.
func dismissCookieBanner(page playwright.Page) {
	for _, sel := range cookieSelectors {
		loc := page.Locator(sel).First()
		visible, err := loc.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := loc.Click(); err == nil {
			return
		}
	}
}
