package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
)

func testRuleSet(t *testing.T, includeEnabled bool) RuleSet {
	t.Helper()
	rs, err := Compile(
		[]string{`senior`, `praktikum`},
		[]string{`data`, `analytics`},
		[]string{`remote`, `home\s*office`},
		[]string{`koln`, `dusseldorf`, `monheim`},
		includeEnabled,
	)
	require.NoError(t, err)
	return rs
}

func TestClassifyStageOrder(t *testing.T) {
	rs := testRuleSet(t, true)

	tests := []struct {
		name     string
		listing  domain.Listing
		accepted bool
		reason   Reason
	}{
		{
			name: "exclude wins over include and remote",
			listing: domain.Listing{
				Title:    "Senior Data Engineer",
				Location: "Remote",
			},
			accepted: false,
			reason:   ReasonExcluded,
		},
		{
			name: "include miss",
			listing: domain.Listing{
				Title:    "Vertriebsmitarbeiter",
				Location: "Köln",
			},
			accepted: false,
			reason:   ReasonNotRelevant,
		},
		{
			name: "remote accepts regardless of city",
			listing: domain.Listing{
				Title:    "Data Engineer (Remote)",
				Location: "Berlin",
			},
			accepted: true,
			reason:   ReasonRemoteAccept,
		},
		{
			name: "local accept",
			listing: domain.Listing{
				Title:    "Data Analyst",
				Location: "Düsseldorf",
			},
			accepted: true,
			reason:   ReasonLocalAccept,
		},
		{
			name: "out of area",
			listing: domain.Listing{
				Title:    "Data Analyst",
				Location: "München",
			},
			accepted: false,
			reason:   ReasonOutOfArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(rs, tt.listing)
			assert.Equal(t, tt.accepted, d.Accepted)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestClassifyDiacriticFolding(t *testing.T) {
	rs := testRuleSet(t, true)

	// patterns are authored folded; accented and plain spellings both match
	for _, loc := range []string{"Köln", "Koln", "KÖLN"} {
		d := Classify(rs, domain.Listing{Title: "Data Engineer", Location: loc})
		assert.True(t, d.Accepted, "location %q", loc)
		assert.Equal(t, ReasonLocalAccept, d.Reason)
	}
}

func TestClassifyIncludeToggle(t *testing.T) {
	rs := testRuleSet(t, false)
	assert.Equal(t, "exclude_only", rs.Mode())

	// no include match, but the stage is disabled, so the listing moves on
	d := Classify(rs, domain.Listing{Title: "Vertriebsmitarbeiter", Location: "Köln"})
	assert.True(t, d.Accepted)
	assert.Equal(t, ReasonLocalAccept, d.Reason)

	enabled := testRuleSet(t, true)
	assert.Equal(t, "include", enabled.Mode())
}

func TestClassifyFailsClosedOnEmptyLocation(t *testing.T) {
	rs := testRuleSet(t, true)

	d := Classify(rs, domain.Listing{Title: "Data Engineer"})
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonOutOfArea, d.Reason)
}

func TestClassifyRemoteModeAcceptsWithoutPatternHit(t *testing.T) {
	rs := testRuleSet(t, true)

	// no "remote" token anywhere in the text; the adapter already knew
	d := Classify(rs, domain.Listing{
		Title:    "Data Engineer",
		Location: "Hamburg",
		Remote:   domain.RemoteFull,
	})
	assert.True(t, d.Accepted)
	assert.Equal(t, ReasonRemoteAccept, d.Reason)
}

func TestCompileRejectsBadPattern(t *testing.T) {
	_, err := Compile([]string{`(`}, nil, nil, nil, false)
	require.Error(t, err)
}

func TestDefaultsCompile(t *testing.T) {
	_, err := Compile(DefaultExclude(), DefaultInclude(), DefaultRemote(), DefaultLocal(), true)
	require.NoError(t, err)
}
