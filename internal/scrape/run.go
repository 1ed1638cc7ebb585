package scrape

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/rules"
	"jobsearch-engine/internal/scrape/util"
)

// Gateway is the persistence boundary. Submit must be an idempotent
// insert keyed by the listing's normalized URL: calling it twice with the
// same identity never creates a second stored entry.
type Gateway interface {
	// Submit stores the listing unless its identity already exists.
	// Returns true when the listing was newly stored.
	Submit(ctx context.Context, l domain.Listing, filterMode string) (bool, error)
	// RecordRun persists a closed run summary.
	RecordRun(ctx context.Context, r *domain.RunSummary) error
}

// SessionProvider hands out browser pages from the one automation session
// the runner owns for the duration of a run.
type SessionProvider interface {
	NewPage(ctx context.Context) (Page, func(), error)
}

// Options selects what a run covers.
type Options struct {
	Sources []string // empty = every registered source
	DryRun  bool     // fetch/parse/filter only; storage untouched
	Trigger domain.RunTrigger
}

// Runner drives registered adapters through fetch, parse, filter, and
// persistence, one source at a time. Sources are strictly sequential:
// the shared browser session is the dominant resource and parallel
// requests against one source trip anti-bot defenses.
type Runner struct {
	Registry *Registry
	Gateway  Gateway
	Browser  SessionProvider
	Rules    rules.RuleSet
	Log      zerolog.Logger

	// OnNewJob fires for every newly stored listing; OnRunFinished for
	// every closed summary. Both optional.
	OnNewJob      func(domain.Listing)
	OnRunFinished func(domain.RunSummary)
}

// Run executes one batch. It always returns a closed summary per
// attempted source, even when every source fails; the error return is
// reserved for being unable to run at all (unknown source name).
func (r *Runner) Run(ctx context.Context, opts Options) ([]domain.RunSummary, error) {
	adapters, err := r.selectAdapters(opts.Sources)
	if err != nil {
		return nil, err
	}
	if opts.Trigger == "" {
		opts.Trigger = domain.TriggerManual
	}

	summaries := make([]domain.RunSummary, 0, len(adapters))
	for _, a := range adapters {
		if ctx.Err() != nil {
			// coarse-grained abort between sources; completed summaries
			// stay closed and untouched
			break
		}
		summary := r.runSource(ctx, a, opts)
		summaries = append(summaries, summary)
		if r.OnRunFinished != nil {
			r.OnRunFinished(summary)
		}
	}
	return summaries, nil
}

func (r *Runner) selectAdapters(names []string) ([]Adapter, error) {
	if len(names) == 0 {
		return r.Registry.All(), nil
	}
	out := make([]Adapter, 0, len(names))
	for _, n := range names {
		a, err := r.Registry.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// runSource walks one source through the per-run state machine:
// pending -> fetching -> parsing -> filtering -> persisting -> done,
// with failed absorbing fetch-level outages. The summary always closes.
func (r *Runner) runSource(ctx context.Context, a Adapter, opts Options) domain.RunSummary {
	site := a.Site()
	log := r.Log.With().Str("source", site.Name).Logger()

	summary := domain.RunSummary{
		Source:    site.Name,
		Trigger:   opts.Trigger,
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}

	log.Info().Str("state", "fetching").Bool("dry_run", opts.DryRun).Msg("run started")

	payloads, fetchErr := r.fetch(ctx, a, site)
	if fetchErr != nil {
		summary.Errors = append(summary.Errors, fetchErr.Error())
		log.Warn().Err(fetchErr).Msg("fetch failed")
	}
	if len(payloads) == 0 {
		if fetchErr != nil {
			summary.Close(domain.RunFailed)
		} else {
			// zero records is a reportable outcome, not an error
			summary.Close(domain.RunSuccess)
		}
		r.record(ctx, &summary, log)
		return summary
	}

	aborted := r.process(ctx, a, payloads, opts, &summary, log)

	switch {
	case aborted:
		summary.Close(domain.RunPartial)
	case fetchErr != nil:
		// some pages arrived before the source went away
		summary.Close(domain.RunPartial)
	case summary.SubmitErrors > 0:
		summary.Close(domain.RunPartial)
	default:
		summary.Close(domain.RunSuccess)
	}

	r.record(ctx, &summary, log)

	log.Info().
		Str("status", string(summary.Status)).
		Int("found", summary.Found).
		Int("excluded", summary.Excluded).
		Int("new", summary.New).
		Int("dupes", summary.Dupes).
		Int("malformed", summary.Malformed).
		Msg("run finished")
	return summary
}

func (r *Runner) fetch(ctx context.Context, a Adapter, site SiteConfig) ([]string, error) {
	pacer := util.NewPacer(site.MinDelay)

	var pg Page
	if site.NeedsBrowser {
		if r.Browser == nil {
			return nil, sourceUnavailable(site.Name, ErrNoBrowser)
		}
		raw, closePage, err := r.Browser.NewPage(ctx)
		if err != nil {
			return nil, sourceUnavailable(site.Name, err)
		}
		defer closePage()
		pg = &pacedPage{inner: raw, pacer: pacer}
	}

	return a.Fetch(ctx, pg)
}

// process feeds every parsed record through the filter engine and, for
// survivors, the persistence gateway. Returns true when the context was
// cancelled mid-source.
func (r *Runner) process(ctx context.Context, a Adapter, payloads []string, opts Options, summary *domain.RunSummary, log zerolog.Logger) (aborted bool) {
	filterMode := r.Rules.Mode()

	for _, payload := range payloads {
		listings, stats := a.Parse(payload)
		summary.Found += len(listings)
		summary.Malformed += stats.Malformed

		for _, l := range listings {
			if ctx.Err() != nil {
				return true
			}

			decision := rules.Classify(r.Rules, l)
			if !decision.Accepted {
				summary.Excluded++
				log.Debug().Str("reason", string(decision.Reason)).Str("title", l.Title).Msg("rejected")
				continue
			}

			if opts.DryRun {
				// projected as new; storage is never consulted in a dry run
				summary.New++
				continue
			}

			added, err := r.Gateway.Submit(ctx, l, filterMode)
			if err != nil {
				// one failed submission does not abort the batch
				summary.SubmitErrors++
				summary.Errors = append(summary.Errors, (&SourceError{Source: l.Source, Kind: FailPersistence, Err: err}).Error())
				log.Error().Err(err).Str("url", l.URL).Msg("submit failed")
				continue
			}
			if added {
				summary.New++
				if r.OnNewJob != nil {
					r.OnNewJob(l)
				}
			} else {
				summary.Dupes++
			}
		}
	}
	return false
}

func (r *Runner) record(ctx context.Context, summary *domain.RunSummary, log zerolog.Logger) {
	if summary.DryRun {
		return
	}
	if err := r.Gateway.RecordRun(ctx, summary); err != nil {
		log.Error().Err(err).Msg("record run summary")
	}
}

// pacedPage enforces the source's minimum inter-request delay on every
// round trip the adapter makes with the borrowed page.
type pacedPage struct {
	inner Page
	pacer *util.Pacer
}

func (p *pacedPage) Goto(ctx context.Context, url string, wait WaitStrategy) (string, error) {
	if err := p.pacer.Wait(ctx); err != nil {
		return "", err
	}
	return p.inner.Goto(ctx, url, wait)
}

func (p *pacedPage) Click(ctx context.Context, selector string) error {
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}
	return p.inner.Click(ctx, selector)
}

func (p *pacedPage) Content(ctx context.Context) (string, error) {
	return p.inner.Content(ctx)
}
