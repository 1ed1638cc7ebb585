package httpapi

import (
	"net/http"
	"strconv"

	"jobsearch-engine/internal/scrape"
	"jobsearch-engine/internal/store"
)

func health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type JobsHandler struct {
	Store *store.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	jobs, err := h.Store.ListJobs(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.JobRow{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

type RunsHandler struct {
	Store *store.DB
}

func (h RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	runs, err := h.Store.LatestRuns(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	if runs == nil {
		runs = []store.RunRow{}
	}
	WriteJSON(w, http.StatusOK, runs)
}

type SitesHandler struct {
	Registry *scrape.Registry
}

type siteInfo struct {
	Name     string `json:"name"`
	BaseURL  string `json:"base_url"`
	Strategy string `json:"strategy"`
	MaxPages int    `json:"max_pages"`
}

func (h SitesHandler) List(w http.ResponseWriter, r *http.Request) {
	out := []siteInfo{}
	for _, a := range h.Registry.All() {
		site := a.Site()
		out = append(out, siteInfo{
			Name:     site.Name,
			BaseURL:  site.BaseURL,
			Strategy: string(site.Strategy),
			MaxPages: site.MaxPages,
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
