// Package sites holds the built-in source definitions. Each site is a
// selector table plus pagination parameters handed to one of the generic
// adapter variants; there is no per-site code.
package sites

import (
	"net/url"
	"time"

	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/scrape"
)

// Register builds every enabled built-in adapter and registers it.
// Config overrides apply before validation, so a bad override fails
// here, not mid-run.
func Register(reg *scrape.Registry, cfg config.Config) error {
	enabled := enabledSet(cfg)

	for _, def := range builtins(cfg) {
		override := cfg.Sites.Overrides[def.site.Name]
		if !enabled(def.site.Name) || override.Disabled {
			continue
		}
		site := applyOverride(def.site, override)

		var (
			a   scrape.Adapter
			err error
		)
		switch def.kind {
		case kindPaged:
			a, err = scrape.NewPaged(site)
		case kindLoadMore:
			a, err = scrape.NewLoadMore(site)
		case kindSweep:
			a, err = scrape.NewSweep(site, def.combos)
		}
		if err != nil {
			return err
		}
		if err := reg.Register(a); err != nil {
			return err
		}
	}
	return nil
}

type paginationKind int

const (
	kindPaged paginationKind = iota
	kindLoadMore
	kindSweep
)

type definition struct {
	kind   paginationKind
	site   scrape.SiteConfig
	combos []url.Values // sweep only
}

func builtins(cfg config.Config) []definition {
	return []definition{
		{
			// dynamic load-more board; URL location params are unreliable,
			// so downstream location filtering does the work
			kind: kindLoadMore,
			site: scrape.SiteConfig{
				Name:      "amazon",
				BaseURL:   "https://www.amazon.jobs/en/search",
				Company:   "Amazon",
				Strategy:  scrape.LocationGlobal,
				Wait:      scrape.WaitDOMReady,
				MaxClicks: 5,
				MinDelay:  2 * time.Second,
				LoadMore:  ".load-more",
				Selectors: scrape.SelectorSet{
					Card:        ".job[data-job-id]",
					Title:       ".job-title a.job-link",
					Link:        ".job-title a.job-link",
					Location:    ".location-and-id ul li:first-child",
					Posted:      ".posting-date",
					Description: ".description .qualifications-preview",
				},
			},
		},
		{
			kind: kindPaged,
			site: scrape.SiteConfig{
				Name:      "apple",
				BaseURL:   "https://jobs.apple.com/de-de/search",
				SearchURL: "https://jobs.apple.com/de-de/search?location=germany-DEU&sort=newest",
				Company:   "Apple",
				Strategy:  scrape.LocationLocal,
				Wait:      scrape.WaitNetworkIdle,
				MaxPages:  3,
				MinDelay:  1500 * time.Millisecond,
				PageParam: "page",
				Selectors: scrape.SelectorSet{
					Card:     "li.rc-accordion-item",
					Title:    "a.link-inline.t-intro",
					Link:     "a.link-inline.t-intro",
					Location: "span.table--advanced-search__location-sub",
					Posted:   "span.job-posted-date",
				},
			},
		},
		{
			kind: kindPaged,
			site: scrape.SiteConfig{
				Name:      "google",
				BaseURL:   "https://www.google.com/about/careers/applications/",
				SearchURL: "https://www.google.com/about/careers/applications/jobs/results/?location=Germany&employment_type=FULL_TIME",
				Company:   "Google",
				Strategy:  scrape.LocationLocal,
				Wait:      scrape.WaitNetworkIdle,
				MaxPages:  3,
				MinDelay:  2 * time.Second,
				PageParam: "page",
				Selectors: scrape.SelectorSet{
					Card:     "li.lLd3Je",
					Title:    "h3.QJPWVe",
					Link:     "a[jsname]",
					Location: "span.r0wTof",
					JobType:  "span.RP7SMd",
				},
			},
		},
		{
			// aggregator swept city x keyword, plus one full-remote search
			kind: kindSweep,
			site: scrape.SiteConfig{
				Name:      "xing",
				BaseURL:   "https://www.xing.com/jobs/search",
				Strategy:  scrape.LocationLocal,
				Wait:      scrape.WaitDOMReady,
				MaxPages:  5,
				MinDelay:  2 * time.Second,
				PageParam: "page",
				Selectors: scrape.SelectorSet{
					Card:     "article[data-testid='job-search-result']",
					Title:    "h2",
					Link:     "a[data-testid='job-teaser-list-item']",
					Company:  "p[data-xds='BodyCopy']",
					Location: "p[data-testid='job-location']",
					Salary:   "p[data-testid='job-salary']",
					Posted:   "p[data-testid='job-date']",
				},
			},
			combos: scrape.SweepCombos(
				"keywords", "location",
				cfg.Search.Keywords, cfg.Search.Cities,
				[]url.Values{{"workplace": []string{"full-remote"}}},
			),
		},
	}
}

func enabledSet(cfg config.Config) func(string) bool {
	if len(cfg.Sites.Enabled) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(cfg.Sites.Enabled))
	for _, n := range cfg.Sites.Enabled {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func applyOverride(site scrape.SiteConfig, o config.SiteOverride) scrape.SiteConfig {
	if o.MaxPages > 0 {
		site.MaxPages = o.MaxPages
	}
	if o.MaxClicks > 0 {
		site.MaxClicks = o.MaxClicks
	}
	if o.MinDelayMS > 0 {
		site.MinDelay = time.Duration(o.MinDelayMS) * time.Millisecond
	}
	return site
}
