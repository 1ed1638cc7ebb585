// Package events fans run lifecycle notifications out to SSE
// subscribers. Payloads are pre-serialized so slow clients never hold
// a scrape run hostage.
package events

import (
	"encoding/json"
	"time"

	"jobsearch-engine/internal/domain"
)

const (
	TypeRunStarted  = "run_started"
	TypeJobCreated  = "job_created"
	TypeRunFinished = "run_finished"
)

type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

func encode(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{Type: typ, At: time.Now().UTC(), Data: raw})
	return string(b)
}

func RunStarted(sources []string, trigger domain.RunTrigger) string {
	return encode(TypeRunStarted, map[string]any{
		"sources": sources,
		"trigger": trigger,
	})
}

func JobCreated(l domain.Listing) string {
	return encode(TypeJobCreated, map[string]any{
		"source":  l.Source,
		"title":   l.Title,
		"company": l.Company,
		"url":     l.URL,
	})
}

func RunFinished(r domain.RunSummary) string {
	return encode(TypeRunFinished, r)
}
