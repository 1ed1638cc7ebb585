package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobsearch-engine/internal/domain"
)

// RecordRun persists a closed run summary and backfills its storage ID.
func (d *DB) RecordRun(ctx context.Context, r *domain.RunSummary) error {
	errsJSON, _ := json.Marshal(r.Errors)
	if r.Errors == nil {
		errsJSON = []byte("[]")
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT INTO scrape_runs
  (source, trigger_kind, started_at, finished_at, status, found, malformed, excluded, new_jobs, dupes, submit_errors, errors)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?);`,
		r.Source,
		string(r.Trigger),
		r.StartedAt.Format(time.RFC3339),
		r.FinishedAt.Format(time.RFC3339),
		string(r.Status),
		r.Found,
		r.Malformed,
		r.Excluded,
		r.New,
		r.Dupes,
		r.SubmitErrors,
		string(errsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
	}
	return nil
}

// RunRow is the stored run shape handed to the API/CLI layers.
type RunRow struct {
	ID           int64    `json:"id"`
	Source       string   `json:"source"`
	Trigger      string   `json:"trigger"`
	StartedAt    string   `json:"startedAt"`
	FinishedAt   string   `json:"finishedAt"`
	Status       string   `json:"status"`
	Found        int      `json:"found"`
	Malformed    int      `json:"malformed"`
	Excluded     int      `json:"excluded"`
	New          int      `json:"new"`
	Dupes        int      `json:"dupes"`
	SubmitErrors int      `json:"submitErrors"`
	Errors       []string `json:"errors"`
}

// LatestRuns returns the most recent run summaries, newest first.
func (d *DB) LatestRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, source, trigger_kind, started_at, finished_at, status,
       found, malformed, excluded, new_jobs, dupes, submit_errors, errors
FROM scrape_runs
ORDER BY started_at DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var errsJSON string
		if err := rows.Scan(&r.ID, &r.Source, &r.Trigger, &r.StartedAt, &r.FinishedAt, &r.Status,
			&r.Found, &r.Malformed, &r.Excluded, &r.New, &r.Dupes, &r.SubmitErrors, &errsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(errsJSON), &r.Errors)
		out = append(out, r)
	}
	return out, rows.Err()
}
