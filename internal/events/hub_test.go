package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish("one")
	assert.Equal(t, "one", <-a)
	assert.Equal(t, "one", <-b)

	h.Unsubscribe(a)
	h.Publish("two")
	assert.Equal(t, "two", <-b)

	_, open := <-a
	assert.False(t, open)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish("evt")
	}
	// overflow dropped, publisher never blocked
	assert.Len(t, ch, subscriberBuffer)
}

func TestEventEncoding(t *testing.T) {
	raw := RunFinished(domain.RunSummary{Source: "example", Status: domain.RunPartial, New: 2})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, TypeRunFinished, e.Type)
	assert.False(t, e.At.IsZero())

	var payload struct {
		Source string          `json:"Source"`
		New    int             `json:"New"`
		Status domain.RunStatus `json:"Status"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &payload))
	assert.Equal(t, "example", payload.Source)
	assert.Equal(t, 2, payload.New)
}
