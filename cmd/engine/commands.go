package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"jobsearch-engine/internal/browser"
	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/events"
	"jobsearch-engine/internal/httpapi"
	"jobsearch-engine/internal/rules"
	"jobsearch-engine/internal/scheduler"
	"jobsearch-engine/internal/scrape"
	"jobsearch-engine/internal/scrape/email"
	"jobsearch-engine/internal/scrape/sites"
	"jobsearch-engine/internal/secrets"
	"jobsearch-engine/internal/store"
)

type ScrapeCmd struct {
	Site   []string `help:"Limit the run to these sources."`
	DryRun bool     `help:"Fetch, parse, and filter without touching storage."`
}

func (c *ScrapeCmd) Run(ctx *Context) error {
	rs, err := compileRules(ctx.Cfg)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ctx.Cfg)
	if err != nil {
		return err
	}

	runner := &scrape.Runner{
		Registry: reg,
		Rules:    rs,
		Log:      ctx.Log,
		OnRunFinished: func(s domain.RunSummary) {
			ctx.UI.RunSummary(s)
		},
	}

	if !c.DryRun {
		db, err := store.Open(ctx.DataDir)
		if err != nil {
			return err
		}
		defer db.Close()
		runner.Gateway = db
	}

	if needsBrowser(reg, c.Site) {
		eng, err := browser.Start(!ctx.Headful)
		if err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer eng.Stop()
		runner.Browser = eng
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := runner.Run(sigCtx, scrape.Options{
		Sources: c.Site,
		DryRun:  c.DryRun,
		Trigger: domain.TriggerManual,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, s := range summaries {
		if s.Status == domain.RunFailed {
			failed++
		}
	}
	if len(summaries) > 0 && failed == len(summaries) {
		return errors.New("every source failed")
	}
	return nil
}

type SitesCmd struct{}

func (c *SitesCmd) Run(ctx *Context) error {
	reg, err := buildRegistry(ctx.Cfg)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(ctx.UI.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTRATEGY\tBROWSER\tPAGES\tBASE URL")
	for _, a := range reg.All() {
		site := a.Site()
		fmt.Fprintf(tw, "%s\t%s\t%v\t%d\t%s\n",
			site.Name, site.Strategy, site.NeedsBrowser, site.MaxPages, site.BaseURL)
	}
	return tw.Flush()
}

type JobsCmd struct {
	Limit int `help:"Maximum rows to show." default:"50"`
}

func (c *JobsCmd) Run(ctx *Context) error {
	db, err := store.Open(ctx.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.ListJobs(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	ctx.UI.JobTable(jobs)
	return nil
}

type RunsCmd struct {
	Limit int `help:"Maximum rows to show." default:"20"`
}

func (c *RunsCmd) Run(ctx *Context) error {
	db, err := store.Open(ctx.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.LatestRuns(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	ctx.UI.RunTable(runs)
	return nil
}

type ServeCmd struct {
	Addr string `help:"Listen address; defaults to app.addr from the config."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Cfg.App.Addr
	}

	rs, err := compileRules(ctx.Cfg)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ctx.Cfg)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := events.NewHub()
	runner := &scrape.Runner{
		Registry: reg,
		Gateway:  db,
		Rules:    rs,
		Log:      ctx.Log,
		OnNewJob: func(l domain.Listing) {
			hub.Publish(events.JobCreated(l))
		},
		OnRunFinished: func(s domain.RunSummary) {
			hub.Publish(events.RunFinished(s))
		},
	}

	if needsBrowser(reg, nil) {
		eng, err := browser.Start(!ctx.Headful)
		if err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer eng.Stop()
		runner.Browser = eng
	}

	// One browser session, so concurrent triggers (API vs cron) queue up
	// here instead of sharing pages.
	var runMu sync.Mutex
	runOnce := func(rctx context.Context, opts scrape.Options) ([]domain.RunSummary, error) {
		runMu.Lock()
		defer runMu.Unlock()
		hub.Publish(events.RunStarted(opts.Sources, opts.Trigger))
		return runner.Run(rctx, opts)
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Store:    db,
		Hub:      hub,
		Registry: reg,
		Run:      runOnce,
		Log:      ctx.Log,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	if ctx.Cfg.Schedule.Enabled {
		sched := scheduler.New(ctx.Cfg.Schedule.Spec, func(tctx context.Context) error {
			_, err := runOnce(tctx, scrape.Options{Trigger: domain.TriggerScheduled})
			return err
		}, ctx.Log)
		if err := sched.Start(gctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	g.Go(func() error {
		ctx.Log.Info().Str("addr", addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

type SecretCmd struct {
	SetImap    SecretSetImapCmd    `cmd:"" name:"set-imap" help:"Store the IMAP password in the keychain."`
	DeleteImap SecretDeleteImapCmd `cmd:"" name:"delete-imap" help:"Remove the IMAP password from the keychain."`
}

type SecretSetImapCmd struct {
	Password string `help:"Password value; read from stdin when omitted."`
}

func (c *SecretSetImapCmd) Run(ctx *Context) error {
	pw := c.Password
	if pw == "" {
		fmt.Fprint(ctx.UI.Out, "IMAP password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		pw = strings.TrimSpace(line)
	}
	account := secrets.IMAPKeyringAccount(ctx.Cfg)
	if err := secrets.SetIMAPPassword(account, pw); err != nil {
		return err
	}
	ctx.UI.Successf("stored password for %s", account)
	return nil
}

type SecretDeleteImapCmd struct{}

func (c *SecretDeleteImapCmd) Run(ctx *Context) error {
	account := secrets.IMAPKeyringAccount(ctx.Cfg)
	if err := secrets.DeleteIMAPPassword(account); err != nil {
		return err
	}
	ctx.UI.Successf("removed password for %s", account)
	return nil
}

func compileRules(cfg config.Config) (rules.RuleSet, error) {
	exclude := cfg.Filters.Exclude
	if len(exclude) == 0 {
		exclude = rules.DefaultExclude()
	}
	include := cfg.Filters.Include
	if len(include) == 0 {
		include = rules.DefaultInclude()
	}
	remote := cfg.Filters.Remote
	if len(remote) == 0 {
		remote = rules.DefaultRemote()
	}
	local := cfg.Filters.Local
	if len(local) == 0 {
		local = rules.DefaultLocal()
	}
	return rules.Compile(exclude, include, remote, local, cfg.Filters.IncludeEnabled)
}

func buildRegistry(cfg config.Config) (*scrape.Registry, error) {
	reg := scrape.NewRegistry()
	if err := sites.Register(reg, cfg); err != nil {
		return nil, err
	}
	if cfg.Email.Enabled {
		adapter := email.New(cfg, func() (string, error) {
			if pw := os.Getenv("JOBSEARCH_IMAP_PASSWORD"); pw != "" {
				return pw, nil
			}
			return secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
		})
		if err := reg.Register(adapter); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// needsBrowser reports whether any source in scope drives the browser.
func needsBrowser(reg *scrape.Registry, selected []string) bool {
	inScope := func(name string) bool {
		if len(selected) == 0 {
			return true
		}
		for _, s := range selected {
			if s == name {
				return true
			}
		}
		return false
	}
	for _, a := range reg.All() {
		site := a.Site()
		if site.NeedsBrowser && inScope(site.Name) {
			return true
		}
	}
	return false
}
