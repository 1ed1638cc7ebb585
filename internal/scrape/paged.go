package scrape

import (
	"context"
	"net/url"
	"strconv"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape/util"
)

// overlapThreshold: two consecutive pages sharing at least this fraction
// of record identities mean the source is silently repeating page 1.
const overlapThreshold = 0.9

// PagedAdapter drives sources with a page index in the query string.
type PagedAdapter struct {
	site SiteConfig
}

func NewPaged(site SiteConfig) (*PagedAdapter, error) {
	site.NeedsBrowser = true
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if errs := site.Selectors.validate(); len(errs) > 0 {
		return nil, &SourceError{Source: site.Name, Kind: FailConfiguration, Err: errorList(errs)}
	}
	if site.PageParam == "" {
		site.PageParam = "page"
	}
	if site.SearchURL == "" {
		site.SearchURL = site.BaseURL
	}
	return &PagedAdapter{site: site}, nil
}

func (a *PagedAdapter) Name() string     { return a.site.Name }
func (a *PagedAdapter) Site() SiteConfig { return a.site }

func (a *PagedAdapter) Fetch(ctx context.Context, pg Page) ([]string, error) {
	return fetchPagedSequence(ctx, pg, a.site, a.site.SearchURL)
}

func (a *PagedAdapter) Parse(html string) ([]domain.Listing, ParseStats) {
	return parseCards(a.site, html)
}

// fetchPagedSequence walks page 1..MaxPages of startURL, verifying after
// every page that the source actually advanced: when two consecutive
// pages share >= 90% of their record identities the sequence truncates
// to what was already collected. A navigation failure surfaces as
// SourceUnavailable, keeping any pages fetched before it.
func fetchPagedSequence(ctx context.Context, pg Page, site SiteConfig, startURL string) ([]string, error) {
	var payloads []string
	var prev map[string]bool

	for page := 1; page <= site.MaxPages; page++ {
		html, err := pg.Goto(ctx, pageURL(startURL, site.PageParam, page), site.wait())
		if err != nil {
			return payloads, sourceUnavailable(site.Name, err)
		}

		listings, _ := parseCards(site, html)
		if len(listings) == 0 {
			// an empty page ends the sequence; an empty first page still
			// counts as the fetch result so malformed cards get reported
			if page == 1 {
				payloads = append(payloads, html)
			}
			break
		}

		ids := identitySet(listings)
		if page > 1 && overlapRatio(prev, ids) >= overlapThreshold {
			// page N repeated page N-1: single-page source, stop paginating
			break
		}

		payloads = append(payloads, html)
		prev = ids
	}
	return payloads, nil
}

func pageURL(raw, param string, page int) string {
	if page <= 1 {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func identitySet(listings []domain.Listing) map[string]bool {
	ids := make(map[string]bool, len(listings))
	for _, l := range listings {
		ids[util.CanonicalizeURL(l.URL)] = true
	}
	return ids
}

func overlapRatio(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	shared := 0
	for id := range small {
		if big[id] {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
