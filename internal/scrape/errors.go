package scrape

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies source-level failures for Run Summaries. Error
// kind, not a stack trace, is what the operator sees.
type FailureKind string

const (
	FailConfiguration     FailureKind = "configuration"
	FailSourceUnavailable FailureKind = "source_unavailable"
	FailPersistence       FailureKind = "persistence"
)

// ErrUnknownSource is wrapped by Registry.Get for unregistered names.
var ErrUnknownSource = errors.New("unknown source")

// ErrNoBrowser tells a browser-driven source apart from a missing
// automation session.
var ErrNoBrowser = errors.New("no browser session available")

// SourceError scopes a failure to one source without aborting siblings.
type SourceError struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func sourceUnavailable(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: FailSourceUnavailable, Err: err}
}

func errorList(msgs []string) error {
	return errors.New(strings.Join(msgs, "; "))
}
