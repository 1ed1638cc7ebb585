// Package rules implements the layered accept/reject classification for
// scraped listings: Exclude, then (optionally) Include, then Remote, then
// Local. Rule sets are passed in explicitly; nothing here holds state.
package rules

import (
	"fmt"
	"regexp"
)

// RuleSet holds the compiled patterns for all four stages plus the
// include-stage toggle. Built once per run from configuration.
type RuleSet struct {
	Exclude []*regexp.Regexp
	Include []*regexp.Regexp
	Remote  []*regexp.Regexp
	Local   []*regexp.Regexp

	// IncludeEnabled toggles the Include stage. Off means broad-collect:
	// everything that survives Exclude goes on to the location stages.
	IncludeEnabled bool
}

// Mode names the active rule-set mode, stored with each accepted record
// so later refinement passes can tell broad rows from precision rows.
func (rs RuleSet) Mode() string {
	if rs.IncludeEnabled && len(rs.Include) > 0 {
		return "include"
	}
	return "exclude_only"
}

// Compile builds a RuleSet from raw pattern strings. Patterns are matched
// case-insensitively against diacritic-folded text, so author them in
// plain ASCII ("dusseldorf", not "düsseldorf"). A bad pattern is a
// configuration error and fails the whole set.
func Compile(exclude, include, remote, local []string, includeEnabled bool) (RuleSet, error) {
	rs := RuleSet{IncludeEnabled: includeEnabled}

	compile := func(stage string, pats []string) ([]*regexp.Regexp, error) {
		out := make([]*regexp.Regexp, 0, len(pats))
		for _, p := range pats {
			if p == "" {
				continue
			}
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%s pattern %q: %w", stage, p, err)
			}
			out = append(out, re)
		}
		return out, nil
	}

	var err error
	if rs.Exclude, err = compile("exclude", exclude); err != nil {
		return RuleSet{}, err
	}
	if rs.Include, err = compile("include", include); err != nil {
		return RuleSet{}, err
	}
	if rs.Remote, err = compile("remote", remote); err != nil {
		return RuleSet{}, err
	}
	if rs.Local, err = compile("local", local); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

func matchAny(pats []*regexp.Regexp, text string) bool {
	for _, re := range pats {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
