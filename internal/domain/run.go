package domain

import "time"

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// RunTrigger records what started a run.
type RunTrigger string

const (
	TriggerManual    RunTrigger = "manual"
	TriggerScheduled RunTrigger = "scheduled"
	TriggerAPI       RunTrigger = "api"
)

// RunSummary is the accounting record for one source within one scrape
// invocation. The orchestrator owns it while the run is open; Close seals
// the counts and status.
type RunSummary struct {
	ID         int64
	Source     string
	Trigger    RunTrigger
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus

	Found        int // valid records parsed from raw pages
	Malformed    int // cards skipped for missing required fields
	Excluded     int // rejected by the filter engine
	New          int // inserted, not duplicates
	Dupes        int // submitted but already stored
	SubmitErrors int // gateway rejections (record kept in the loop, counted here)
	Errors       []string
	DryRun       bool
}

// Close seals the summary with the given status. A zero-record run closes
// as success; zero is a reportable outcome, not an error.
func (r *RunSummary) Close(status RunStatus) {
	r.FinishedAt = time.Now().UTC()
	r.Status = status
}

// Accounted reports whether every parsed record's fate shows up in the
// counts: found == excluded + new + duplicate + failed submissions.
func (r *RunSummary) Accounted() bool {
	return r.Found == r.Excluded+r.New+r.Dupes+r.SubmitErrors
}
