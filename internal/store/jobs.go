package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape/util"
)

// Submit inserts the listing unless a row with the same normalized URL
// already exists. INSERT OR IGNORE on the unique url column makes the
// call idempotent: first-seen wins, later submissions report duplicate.
func (d *DB) Submit(ctx context.Context, l domain.Listing, filterMode string) (bool, error) {
	if !l.Valid() {
		return false, errors.New("listing missing required fields")
	}

	var posted any
	if l.PostedAt != nil {
		posted = l.PostedAt.Format("2006-01-02")
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs
  (source, title, company, location, url, description, salary, job_type, remote, posted_date, filter_mode, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.Source,
		l.Title,
		l.Company,
		l.Location,
		util.CanonicalizeURL(l.URL),
		l.Description,
		l.Salary,
		l.JobType,
		string(l.Remote),
		posted,
		filterMode,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert job rows affected: %w", err)
	}
	return n > 0, nil
}

// JobRow is the stored shape handed to the API layer.
type JobRow struct {
	ID         int64  `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	URL        string `json:"url"`
	Salary     string `json:"salary,omitempty"`
	JobType    string `json:"jobType,omitempty"`
	Remote     string `json:"remote,omitempty"`
	PostedDate string `json:"postedDate,omitempty"`
	FilterMode string `json:"filterMode"`
	CreatedAt  string `json:"createdAt"`
}

func (d *DB) ListJobs(ctx context.Context, limit int) ([]JobRow, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, source, title, company, location, url, salary, job_type, remote,
       COALESCE(posted_date, ''), filter_mode, created_at
FROM jobs
ORDER BY created_at DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobRow
	for rows.Next() {
		var j JobRow
		if err := rows.Scan(&j.ID, &j.Source, &j.Title, &j.Company, &j.Location, &j.URL,
			&j.Salary, &j.JobType, &j.Remote, &j.PostedDate, &j.FilterMode, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// CountJobs is used by the health endpoint.
func (d *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
