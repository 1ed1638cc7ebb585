package rules

import (
	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape/util"
)

// Reason identifies which rule stage decided a listing's fate.
type Reason string

const (
	ReasonExcluded     Reason = "excluded"
	ReasonNotRelevant  Reason = "not_relevant"
	ReasonRemoteAccept Reason = "remote_accept"
	ReasonLocalAccept  Reason = "local_accept"
	ReasonOutOfArea    Reason = "out_of_area"
)

// Decision is the outcome of classifying one listing. It is recomputable
// from the listing and rule set at any time and never persisted.
type Decision struct {
	Accepted bool
	Reason   Reason
}

// Classify runs the stages in their fixed order. Order is load-bearing: a
// record reaches a stage only by surviving every earlier one, so an
// exclude hit always wins over an include hit, and a remote hit accepts
// before the location allow-list is consulted.
func Classify(rs RuleSet, l domain.Listing) Decision {
	text := util.Fold(l.SearchText())

	// 1) Exclude
	if matchAny(rs.Exclude, text) {
		return Decision{Accepted: false, Reason: ReasonExcluded}
	}

	// 2) Include (only when configured and non-empty)
	if rs.IncludeEnabled && len(rs.Include) > 0 && !matchAny(rs.Include, text) {
		return Decision{Accepted: false, Reason: ReasonNotRelevant}
	}

	// 3) Remote: an explicit remote indicator accepts regardless of location
	if l.Remote == domain.RemoteFull || matchAny(rs.Remote, text) {
		return Decision{Accepted: true, Reason: ReasonRemoteAccept}
	}

	// 4) Local: fail closed on empty location
	loc := util.Fold(l.Location)
	if loc != "" && matchAny(rs.Local, loc) {
		return Decision{Accepted: true, Reason: ReasonLocalAccept}
	}
	return Decision{Accepted: false, Reason: ReasonOutOfArea}
}
