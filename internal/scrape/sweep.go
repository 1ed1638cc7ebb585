package scrape

import (
	"context"
	"net/url"

	"jobsearch-engine/internal/domain"
)

// SweepAdapter runs a cross product of independent search parameters
// (keyword x city, plus fixed extras like a full-remote search) as
// separate logical fetches against the same source. The pagination
// ceiling applies per combination, not globally; one failing combination
// does not abort its siblings.
type SweepAdapter struct {
	site   SiteConfig
	combos []url.Values
}

func NewSweep(site SiteConfig, combos []url.Values) (*SweepAdapter, error) {
	site.NeedsBrowser = true
	if err := site.Validate(); err != nil {
		return nil, err
	}
	var errs []string
	if len(combos) == 0 {
		errs = append(errs, "sweep needs at least one search combination")
	}
	errs = append(errs, site.Selectors.validate()...)
	if len(errs) > 0 {
		return nil, &SourceError{Source: site.Name, Kind: FailConfiguration, Err: errorList(errs)}
	}
	if site.PageParam == "" {
		site.PageParam = "page"
	}
	if site.SearchURL == "" {
		site.SearchURL = site.BaseURL
	}
	return &SweepAdapter{site: site, combos: combos}, nil
}

func (a *SweepAdapter) Name() string     { return a.site.Name }
func (a *SweepAdapter) Site() SiteConfig { return a.site }

func (a *SweepAdapter) Fetch(ctx context.Context, pg Page) ([]string, error) {
	var payloads []string
	var lastErr error

	for _, combo := range a.combos {
		if ctx.Err() != nil {
			return payloads, sourceUnavailable(a.site.Name, ctx.Err())
		}

		pages, err := fetchPagedSequence(ctx, pg, a.site, comboURL(a.site.SearchURL, combo))
		payloads = append(payloads, pages...)
		if err != nil {
			// one axis combination down; sweep the rest
			lastErr = err
			continue
		}
	}

	if len(payloads) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return payloads, nil
}

func (a *SweepAdapter) Parse(html string) ([]domain.Listing, ParseStats) {
	return parseCards(a.site, html)
}

func comboURL(raw string, params url.Values) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SweepCombos builds the keyword x city cross product plus one
// full-remote search, the way aggregator sweeps are configured.
func SweepCombos(keywordParam, cityParam string, keywords, cities []string, extra []url.Values) []url.Values {
	var out []url.Values
	for _, kw := range keywords {
		for _, city := range cities {
			v := url.Values{}
			v.Set(keywordParam, kw)
			v.Set(cityParam, city)
			out = append(out, v)
		}
	}
	out = append(out, extra...)
	return out
}
