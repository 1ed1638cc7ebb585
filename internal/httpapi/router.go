package httpapi

import (
	"net/http"
	"sync/atomic"
)

// NewHandler builds the full API surface with middleware applied.
func NewHandler(d Deps) http.Handler {
	if d.Status == nil {
		d.Status = &atomic.Value{}
	}
	if d.Status.Load() == nil {
		d.Status.Store(RunStatus{})
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: health,
	}))

	jh := JobsHandler{Store: d.Store}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))

	rh := RunsHandler{Store: d.Store}
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))

	sh := SitesHandler{Registry: d.Registry}
	mux.HandleFunc("/sites", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.List,
	}))

	sch := ScrapeHandler{Run: d.Run, Status: d.Status, Log: d.Log}
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Trigger,
	}))
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.CurrentStatus,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return Chain(mux, RequestID, Recover(d.Log), AccessLog(d.Log), Cors)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}
