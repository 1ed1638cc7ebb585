package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/events"
	"jobsearch-engine/internal/scrape"
	"jobsearch-engine/internal/store"
)

func testDeps(t *testing.T, run RunFunc) Deps {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := scrape.NewRegistry()
	adapter, err := scrape.NewPaged(scrape.SiteConfig{
		Name:      "example",
		BaseURL:   "https://jobs.example.de",
		Strategy:  scrape.LocationLocal,
		MaxPages:  1,
		MinDelay:  time.Millisecond,
		Selectors: scrape.SelectorSet{Card: ".card", Title: ".title"},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(adapter))

	return Deps{
		Store:    db,
		Hub:      events.NewHub(),
		Registry: reg,
		Run:      run,
		Log:      zerolog.Nop(),
		Status:   &atomic.Value{},
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHandler(testDeps(t, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestJobsAndRunsEmpty(t *testing.T) {
	h := NewHandler(testDeps(t, nil))

	for _, path := range []string{"/jobs", "/runs"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]\n", rec.Body.String(), path)
	}
}

func TestSitesEndpoint(t *testing.T) {
	h := NewHandler(testDeps(t, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sites", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sites []siteInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sites))
	require.Len(t, sites, 1)
	assert.Equal(t, "example", sites[0].Name)
}

func TestScrapeTriggerRunsAsync(t *testing.T) {
	done := make(chan struct{})
	deps := testDeps(t, func(ctx context.Context, opts scrape.Options) ([]domain.RunSummary, error) {
		defer close(done)
		return []domain.RunSummary{{Source: "example", New: 3, Trigger: opts.Trigger}}, nil
	})
	h := NewHandler(deps)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape/run", strings.NewReader(`{"dry_run":true}`)))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run never executed")
	}

	// poll status until the goroutine published its result
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var st RunStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		if !st.Running && st.LastNew == 3 {
			assert.Empty(t, st.LastError)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("status never settled: %+v", st)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScrapeTriggerRejectsConcurrentRun(t *testing.T) {
	block := make(chan struct{})
	deps := testDeps(t, func(context.Context, scrape.Options) ([]domain.RunSummary, error) {
		<-block
		return nil, nil
	})
	h := NewHandler(deps)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape/run", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape/run", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	close(block)
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(testDeps(t, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
