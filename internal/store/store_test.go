package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testListing(url string) domain.Listing {
	return domain.Listing{
		Source:   "example",
		Title:    "Data Engineer",
		Company:  "Firma GmbH",
		Location: "Köln",
		URL:      url,
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	added, err := db.Submit(ctx, testListing("https://jobs.example.de/1"), "include")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = db.Submit(ctx, testListing("https://jobs.example.de/1"), "include")
	require.NoError(t, err)
	assert.False(t, added)

	n, err := db.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmitDedupesOnCanonicalURL(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	added, err := db.Submit(ctx, testListing("https://jobs.example.de/1?utm_source=alert"), "include")
	require.NoError(t, err)
	assert.True(t, added)

	// same identity after normalization: tracking params, case, slash
	added, err = db.Submit(ctx, testListing("https://JOBS.example.de/1/"), "include")
	require.NoError(t, err)
	assert.False(t, added)

	n, err := db.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmitRejectsInvalidListing(t *testing.T) {
	db := testDB(t)
	l := testListing("https://jobs.example.de/1")
	l.Company = ""
	_, err := db.Submit(context.Background(), l, "include")
	require.Error(t, err)
}

func TestSubmitStoresPostedDateAndFilterMode(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	posted := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	l := testListing("https://jobs.example.de/1")
	l.PostedAt = &posted

	_, err := db.Submit(ctx, l, "exclude_only")
	require.NoError(t, err)

	jobs, err := db.ListJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "2026-08-12", jobs[0].PostedDate)
	assert.Equal(t, "exclude_only", jobs[0].FilterMode)
	assert.Equal(t, "https://jobs.example.de/1", jobs[0].URL)
}

func TestRecordRunRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	r := domain.RunSummary{
		Source:    "example",
		Trigger:   domain.TriggerScheduled,
		StartedAt: now,
		Found:     7,
		Excluded:  3,
		New:       2,
		Dupes:     2,
		Errors:    []string{"example: source_unavailable: timeout"},
	}
	r.Close(domain.RunPartial)

	require.NoError(t, db.RecordRun(ctx, &r))
	assert.NotZero(t, r.ID)

	runs, err := db.LatestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "scheduled", got.Trigger)
	assert.Equal(t, "partial", got.Status)
	assert.Equal(t, 7, got.Found)
	assert.Equal(t, 2, got.New)
	assert.Equal(t, []string{"example: source_unavailable: timeout"}, got.Errors)
}

func TestLatestRunsNewestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	old := domain.RunSummary{Source: "a", Trigger: domain.TriggerManual, StartedAt: time.Now().UTC().Add(-time.Hour)}
	old.Close(domain.RunSuccess)
	recent := domain.RunSummary{Source: "b", Trigger: domain.TriggerManual, StartedAt: time.Now().UTC()}
	recent.Close(domain.RunSuccess)

	require.NoError(t, db.RecordRun(ctx, &old))
	require.NoError(t, db.RecordRun(ctx, &recent))

	runs, err := db.LatestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].Source)
}
