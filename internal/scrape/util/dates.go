package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	reAgoHours  = regexp.MustCompile(`(?i)(\d+)\s*(?:hour|stunde)\w*\s*ago|vor\s*(\d+)\s*stunde`)
	reAgoDays   = regexp.MustCompile(`(?i)(\d+)\s*(?:day|tag)\w*\s*ago|vor\s*(\d+)\s*tag`)
	reAgoWeeks  = regexp.MustCompile(`(?i)(\d+)\s*(?:week|woche)\w*\s*ago|vor\s*(\d+)\s*woche`)
	reToday     = regexp.MustCompile(`(?i)\b(?:today|heute)\b`)
	reYesterday = regexp.MustCompile(`(?i)\b(?:yesterday|gestern)\b`)
)

// ParsePostedDate turns absolute or relative posting phrases ("2026-08-12",
// "3 days ago", "vor 2 Wochen", "heute") into a calendar date relative to
// now. Returns nil when nothing derivable.
func ParsePostedDate(raw string, now time.Time) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if m := reISODate.FindString(raw); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return &t
		}
	}

	day := func(t time.Time) *time.Time {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}

	if reToday.MatchString(raw) {
		return day(now)
	}
	if reYesterday.MatchString(raw) {
		return day(now.AddDate(0, 0, -1))
	}
	if n, ok := firstNumber(reAgoHours, raw); ok {
		return day(now.Add(-time.Duration(n) * time.Hour))
	}
	if n, ok := firstNumber(reAgoDays, raw); ok {
		return day(now.AddDate(0, 0, -n))
	}
	if n, ok := firstNumber(reAgoWeeks, raw); ok {
		return day(now.AddDate(0, 0, -7*n))
	}
	return nil
}

func firstNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}
