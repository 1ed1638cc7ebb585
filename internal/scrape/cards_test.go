package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	site := testSite("example")
	html := cardHTML(
		[2]string{"Data Engineer", "/jobs/1"},
		[2]string{"Data Analyst", "https://jobs.example.de/jobs/2"},
	)

	listings, stats := parseCards(site, html)
	require.Len(t, listings, 2)
	assert.Equal(t, 2, stats.Cards)
	assert.Equal(t, 0, stats.Malformed)

	assert.Equal(t, "example", listings[0].Source)
	assert.Equal(t, "Data Engineer", listings[0].Title)
	assert.Equal(t, "https://jobs.example.de/jobs/1", listings[0].URL)
	assert.Equal(t, "Köln", listings[0].Location)
	// career page: company comes from the site definition
	assert.Equal(t, "Example GmbH", listings[0].Company)
}

func TestParseCardsMalformedIsolation(t *testing.T) {
	site := testSite("example")
	// second card has no link: the promo tile problem
	html := `<html><body>
<div class="card"><a class="title" href="/jobs/1">Data Engineer</a></div>
<div class="card"><span class="title">Mehr Jobs entdecken!</span></div>
<div class="card"><a class="title" href="/jobs/3">Data Analyst</a></div>
</body></html>`

	listings, stats := parseCards(site, html)
	assert.Equal(t, 3, stats.Cards)
	assert.Equal(t, 1, stats.Malformed)
	require.Len(t, listings, 2)
	assert.Equal(t, "https://jobs.example.de/jobs/1", listings[0].URL)
	assert.Equal(t, "https://jobs.example.de/jobs/3", listings[1].URL)
}

func TestParseCardsMissingCompanyAndSiteFallback(t *testing.T) {
	site := testSite("example")
	site.Company = ""

	listings, stats := parseCards(site, cardHTML([2]string{"Data Engineer", "/jobs/1"}))
	// no company selector, no static fallback: card is invalid
	assert.Equal(t, 1, stats.Malformed)
	assert.Empty(t, listings)
}

func TestParseCardsGarbageHTML(t *testing.T) {
	listings, stats := parseCards(testSite("example"), "no cards here")
	assert.Empty(t, listings)
	assert.Equal(t, 0, stats.Cards)
}
