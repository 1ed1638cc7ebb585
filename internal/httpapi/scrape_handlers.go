package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape"
)

type ScrapeHandler struct {
	Run    RunFunc
	Status *atomic.Value
	Log    zerolog.Logger
}

type triggerRequest struct {
	Sources []string `json:"sources"`
	DryRun  bool     `json:"dry_run"`
}

// Trigger kicks off an asynchronous run. A second trigger while one is
// in flight is rejected rather than queued.
func (h ScrapeHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
	}

	st := h.Status.Load().(RunStatus)
	if st.Running {
		WriteError(w, r, http.StatusConflict, "already_running", "a scrape run is already in flight")
		return
	}
	h.Status.Store(RunStatus{
		Running:   true,
		LastRunAt: time.Now().UTC().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		summaries, err := h.Run(context.Background(), scrape.Options{
			Sources: req.Sources,
			DryRun:  req.DryRun,
			Trigger: domain.TriggerAPI,
		})

		now := time.Now().UTC().Format(time.RFC3339)
		next := h.Status.Load().(RunStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastNew = 0
		for _, s := range summaries {
			next.LastNew += s.New
		}
		if err != nil {
			next.LastError = err.Error()
			h.Log.Error().Err(err).Msg("triggered run failed")
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.Status.Store(next)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

func (h ScrapeHandler) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Status.Load().(RunStatus))
}
