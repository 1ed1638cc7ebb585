package domain

import "time"

// RemoteMode is the tri-state (plus unknown) work-location classification.
type RemoteMode string

const (
	RemoteUnknown RemoteMode = ""
	RemoteOnSite  RemoteMode = "on-site"
	RemoteHybrid  RemoteMode = "hybrid"
	RemoteFull    RemoteMode = "remote"
)

// Listing is one observed job posting at scrape time. It is built by an
// adapter's parse step from a single card and never mutated afterwards.
type Listing struct {
	Source      string // adapter name that produced it
	Title       string
	Company     string
	URL         string // absolute; canonicalized before any dedup comparison
	Location    string // free text, possibly several comma-joined places
	Description string // short preview text from the card
	Salary      string
	JobType     string // full-time, part-time, contract, internship, freelance
	Remote      RemoteMode
	PostedAt    *time.Time
}

// Valid reports whether the listing carries every required field.
// Cards missing any of these are dropped before filtering.
func (l Listing) Valid() bool {
	return l.Title != "" && l.Company != "" && l.URL != "" && l.Source != ""
}

// SearchText is the concatenated text the filter stages match against.
func (l Listing) SearchText() string {
	return l.Title + " " + l.Description + " " + l.Location
}
