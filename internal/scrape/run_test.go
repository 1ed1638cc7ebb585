package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/rules"
	"jobsearch-engine/internal/scrape/util"
)

type stubAdapter struct {
	site     SiteConfig
	payloads []string
	fetchErr error
	parsed   map[string][]domain.Listing
}

func (s *stubAdapter) Name() string     { return s.site.Name }
func (s *stubAdapter) Site() SiteConfig { return s.site }

func (s *stubAdapter) Fetch(context.Context, Page) ([]string, error) {
	return s.payloads, s.fetchErr
}

func (s *stubAdapter) Parse(html string) ([]domain.Listing, ParseStats) {
	listings := s.parsed[html]
	return listings, ParseStats{Cards: len(listings)}
}

type fakeGateway struct {
	seen      map[string]bool
	failURL   string
	submitted int
	runs      []domain.RunSummary
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{seen: map[string]bool{}}
}

func (g *fakeGateway) Submit(_ context.Context, l domain.Listing, _ string) (bool, error) {
	if l.URL == g.failURL {
		return false, errors.New("disk full")
	}
	key := util.CanonicalizeURL(l.URL)
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	g.submitted++
	return true, nil
}

func (g *fakeGateway) RecordRun(_ context.Context, r *domain.RunSummary) error {
	g.runs = append(g.runs, *r)
	return nil
}

func runnerRules(t *testing.T) rules.RuleSet {
	t.Helper()
	rs, err := rules.Compile([]string{`senior`}, nil, []string{`remote`}, []string{`koln`}, false)
	require.NoError(t, err)
	return rs
}

func listing(title, loc, u string) domain.Listing {
	return domain.Listing{Source: "stub", Title: title, Company: "Firma", Location: loc, URL: u}
}

func stubWithListings(name string, ls ...domain.Listing) *stubAdapter {
	return &stubAdapter{
		site:     testSite(name),
		payloads: []string{"p1"},
		parsed:   map[string][]domain.Listing{"p1": ls},
	}
}

func TestRunnerAccounting(t *testing.T) {
	gw := newFakeGateway()
	gw.failURL = "https://jobs.example.de/poison"

	a := stubWithListings("stub",
		listing("Senior Engineer", "Köln", "https://jobs.example.de/1"),   // excluded
		listing("Data Engineer", "Köln", "https://jobs.example.de/2"),     // new
		listing("Data Engineer", "Köln", "https://jobs.example.de/2?utm_source=x"), // dupe of /2
		listing("Data Analyst", "Köln", "https://jobs.example.de/poison"), // submit error
	)

	reg := NewRegistry()
	require.NoError(t, reg.Register(a))

	r := &Runner{Registry: reg, Gateway: gw, Rules: runnerRules(t), Log: zerolog.Nop()}
	summaries, err := r.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 4, s.Found)
	assert.Equal(t, 1, s.Excluded)
	assert.Equal(t, 1, s.New)
	assert.Equal(t, 1, s.Dupes)
	assert.Equal(t, 1, s.SubmitErrors)
	assert.True(t, s.Accounted())
	assert.Equal(t, domain.RunPartial, s.Status)
	assert.Equal(t, domain.TriggerManual, s.Trigger)
	assert.False(t, s.FinishedAt.IsZero())

	// the closed summary itself was recorded
	require.Len(t, gw.runs, 1)
}

func TestRunnerDryRunTouchesNoStorage(t *testing.T) {
	gw := newFakeGateway()
	a := stubWithListings("stub",
		listing("Data Engineer", "Köln", "https://jobs.example.de/2"),
	)
	reg := NewRegistry()
	require.NoError(t, reg.Register(a))

	r := &Runner{Registry: reg, Gateway: gw, Rules: runnerRules(t), Log: zerolog.Nop()}
	summaries, err := r.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, 1, summaries[0].New)
	assert.Equal(t, domain.RunSuccess, summaries[0].Status)
	assert.Zero(t, gw.submitted)
	assert.Empty(t, gw.runs)
}

func TestRunnerSourceFailureDoesNotAbortSiblings(t *testing.T) {
	gw := newFakeGateway()
	broken := &stubAdapter{site: testSite("broken"), fetchErr: sourceUnavailable("broken", errors.New("timeout"))}
	healthy := stubWithListings("healthy",
		listing("Data Engineer", "Köln", "https://jobs.example.de/2"),
	)

	reg := NewRegistry()
	require.NoError(t, reg.Register(broken))
	require.NoError(t, reg.Register(healthy))

	r := &Runner{Registry: reg, Gateway: gw, Rules: runnerRules(t), Log: zerolog.Nop()}
	summaries, err := r.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, domain.RunFailed, summaries[0].Status)
	assert.NotEmpty(t, summaries[0].Errors)
	assert.Equal(t, domain.RunSuccess, summaries[1].Status)
	assert.Equal(t, 1, summaries[1].New)
}

func TestRunnerZeroRecordsIsSuccess(t *testing.T) {
	gw := newFakeGateway()
	empty := &stubAdapter{site: testSite("empty")}
	reg := NewRegistry()
	require.NoError(t, reg.Register(empty))

	r := &Runner{Registry: reg, Gateway: gw, Rules: runnerRules(t), Log: zerolog.Nop()}
	summaries, err := r.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.RunSuccess, summaries[0].Status)
	assert.Zero(t, summaries[0].Found)
}

func TestRunnerUnknownSource(t *testing.T) {
	r := &Runner{Registry: NewRegistry(), Gateway: newFakeGateway(), Rules: runnerRules(t), Log: zerolog.Nop()}
	_, err := r.Run(context.Background(), Options{Sources: []string{"ghost"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestRunnerBrowserSourceWithoutSession(t *testing.T) {
	site := testSite("needsbrowser")
	site.NeedsBrowser = true
	a := &stubAdapter{site: site}

	reg := NewRegistry()
	require.NoError(t, reg.Register(a))

	r := &Runner{Registry: reg, Gateway: newFakeGateway(), Rules: runnerRules(t), Log: zerolog.Nop()}
	summaries, err := r.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.RunFailed, summaries[0].Status)
	require.NotEmpty(t, summaries[0].Errors)
	assert.Contains(t, summaries[0].Errors[0], "no browser session")
}

func TestRunnerNewJobCallback(t *testing.T) {
	gw := newFakeGateway()
	a := stubWithListings("stub",
		listing("Data Engineer", "Köln", "https://jobs.example.de/2"),
		listing("Data Engineer", "Köln", "https://jobs.example.de/2"),
	)
	reg := NewRegistry()
	require.NoError(t, reg.Register(a))

	var newJobs []string
	r := &Runner{
		Registry: reg, Gateway: gw, Rules: runnerRules(t), Log: zerolog.Nop(),
		OnNewJob: func(l domain.Listing) { newJobs = append(newJobs, l.URL) },
	}
	summaries, err := r.Run(context.Background(), Options{})
	require.NoError(t, err)

	// first sighting stored and announced once; the repeat is a dupe
	assert.Equal(t, []string{"https://jobs.example.de/2"}, newJobs)
	assert.Equal(t, 1, summaries[0].New)
	assert.Equal(t, 1, summaries[0].Dupes)
}
