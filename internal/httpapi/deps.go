// Package httpapi exposes the engine over a local HTTP surface: job
// queries, run history, a trigger endpoint, and an SSE event stream.
package httpapi

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/events"
	"jobsearch-engine/internal/scrape"
	"jobsearch-engine/internal/store"
)

// RunFunc executes one scrape batch. Injected so handlers are testable
// without a browser or a mailbox.
type RunFunc func(ctx context.Context, opts scrape.Options) ([]domain.RunSummary, error)

type Deps struct {
	Store    *store.DB
	Hub      *events.Hub
	Registry *scrape.Registry
	Run      RunFunc
	Log      zerolog.Logger

	// Status holds a RunStatus; handlers swap it atomically so /scrape/run
	// and /scrape/status never race.
	Status *atomic.Value
}

// RunStatus is the trigger endpoint's view of the engine.
type RunStatus struct {
	Running   bool   `json:"running"`
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastNew   int    `json:"last_new"`
}
