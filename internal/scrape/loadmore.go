package scrape

import (
	"context"
	"errors"

	"jobsearch-engine/internal/domain"
)

// LoadMoreAdapter drives sources where more results appear by clicking a
// control. Bounded by a maximum number of interactions, not page count;
// pagination stops as soon as a click yields no content growth.
type LoadMoreAdapter struct {
	site SiteConfig
}

func NewLoadMore(site SiteConfig) (*LoadMoreAdapter, error) {
	site.NeedsBrowser = true
	if site.MaxPages == 0 {
		site.MaxPages = 1 // ceiling lives in MaxClicks for this variant
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	var errs []string
	if site.MaxClicks <= 0 {
		errs = append(errs, "max clicks must be positive")
	}
	if site.LoadMore == "" {
		errs = append(errs, "load-more selector is required")
	}
	errs = append(errs, site.Selectors.validate()...)
	if len(errs) > 0 {
		return nil, &SourceError{Source: site.Name, Kind: FailConfiguration, Err: errorList(errs)}
	}
	if site.SearchURL == "" {
		site.SearchURL = site.BaseURL
	}
	return &LoadMoreAdapter{site: site}, nil
}

func (a *LoadMoreAdapter) Name() string     { return a.site.Name }
func (a *LoadMoreAdapter) Site() SiteConfig { return a.site }

// Fetch returns a single aggregated payload: load-more sources grow one
// DOM in place, so the final snapshot contains every card loaded so far.
func (a *LoadMoreAdapter) Fetch(ctx context.Context, pg Page) ([]string, error) {
	html, err := pg.Goto(ctx, a.site.SearchURL, a.site.wait())
	if err != nil {
		return nil, sourceUnavailable(a.site.Name, err)
	}

	_, stats := parseCards(a.site, html)
	prev := stats.Cards

	for i := 0; i < a.site.MaxClicks; i++ {
		if err := pg.Click(ctx, a.site.LoadMore); err != nil {
			if errors.Is(err, ErrNoSuchControl) {
				break // control gone: everything is loaded
			}
			// interaction failure mid-sequence: keep what we have
			break
		}

		grown, err := pg.Content(ctx)
		if err != nil {
			break
		}
		_, stats := parseCards(a.site, grown)
		if stats.Cards <= prev {
			break // click produced no growth
		}
		prev = stats.Cards
		html = grown
	}

	return []string{html}, nil
}

func (a *LoadMoreAdapter) Parse(html string) ([]domain.Listing, ParseStats) {
	return parseCards(a.site, html)
}
