// Package scrape contains the orchestration core: the adapter contract,
// the site registry, and the runner that drives adapters through fetch,
// parse, filter, and persistence.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobsearch-engine/internal/domain"
)

// WaitStrategy tells the fetch capability how long to consider a
// navigation settled.
type WaitStrategy string

const (
	WaitDOMReady    WaitStrategy = "domcontentloaded"
	WaitNetworkIdle WaitStrategy = "networkidle"
	WaitLoad        WaitStrategy = "load"
)

// ErrNoSuchControl is returned by Page.Click when the control is not
// present or not visible. Load-more adapters treat it as "no more pages".
var ErrNoSuchControl = errors.New("control not found")

// Page is the borrowed browser capability an adapter drives during one
// fetch. The orchestrator owns the underlying session; adapters must not
// keep a Page across runs. Implementations are for sequential use only.
type Page interface {
	// Goto navigates to url and returns the rendered HTML.
	Goto(ctx context.Context, url string, wait WaitStrategy) (string, error)
	// Click triggers a visible control matching selector.
	Click(ctx context.Context, selector string) error
	// Content returns the current rendered HTML without navigating.
	Content(ctx context.Context) (string, error)
}

// Adapter is the per-source strategy: fetch raw pages, parse them into
// listings. Fetch may run many round trips (pagination, sweeps, load-more
// clicks) but returns one raw payload per logical page; the orchestrator
// passes each payload to Parse independently and never learns the
// source's pagination details.
type Adapter interface {
	Name() string
	Site() SiteConfig
	Fetch(ctx context.Context, pg Page) ([]string, error)
	Parse(html string) ([]domain.Listing, ParseStats)
}

// ParseStats accounts for every card seen during one Parse call.
type ParseStats struct {
	Cards     int // raw cards matched by the card selector
	Malformed int // skipped: missing a required field
}

// LocationStrategy says whether a source pre-filters by location via its
// URL (local) or returns everything and relies on the filter engine
// (global).
type LocationStrategy string

const (
	LocationLocal  LocationStrategy = "local"
	LocationGlobal LocationStrategy = "global"
)

// SiteConfig is the static per-source configuration. Selector tables are
// data consumed by the generic card extractor, not code branches.
type SiteConfig struct {
	Name      string
	BaseURL   string
	SearchURL string
	Company   string // static company name for career pages; empty for aggregators
	Strategy  LocationStrategy
	Wait      WaitStrategy

	MaxPages  int           // pagination ceiling (per sweep combination for sweeps)
	MaxClicks int           // interaction ceiling for load-more sources
	MinDelay  time.Duration // minimum pause between requests to this source

	NeedsBrowser bool

	PageParam string // query parameter for URL pagination
	LoadMore  string // selector of the load-more control

	Selectors SelectorSet
}

// Validate fails fast on a misconfigured source so it is rejected at
// registration, never mid-run.
func (c SiteConfig) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, "base URL is required")
	}
	if c.MaxPages <= 0 && c.MaxClicks <= 0 {
		errs = append(errs, "pagination ceiling must be positive")
	}
	if c.MaxPages < 0 || c.MaxClicks < 0 {
		errs = append(errs, "pagination ceiling must not be negative")
	}
	if c.MinDelay <= 0 {
		errs = append(errs, "min delay must be positive")
	}
	if c.Strategy != LocationLocal && c.Strategy != LocationGlobal {
		errs = append(errs, fmt.Sprintf("unknown location strategy %q", c.Strategy))
	}
	if len(errs) > 0 {
		return &SourceError{
			Source: c.Name,
			Kind:   FailConfiguration,
			Err:    errors.New(strings.Join(errs, "; ")),
		}
	}
	return nil
}

func (c SiteConfig) wait() WaitStrategy {
	if c.Wait == "" {
		return WaitDOMReady
	}
	return c.Wait
}
