package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"jobsearch-engine/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Fold lowercases and strips diacritics so bilingual patterns match
// "Köln" and "Koln" the same way.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// NormalizeLocation trims labels and collapses duplicate comma-joined places.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "Standort:")
	loc = strings.TrimSpace(loc)

	parts := strings.FieldsFunc(loc, func(r rune) bool { return r == ',' || r == ';' })
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// InferRemote classifies free text into the remote tri-state.
func InferRemote(texts ...string) domain.RemoteMode {
	blob := Fold(strings.Join(texts, " "))

	switch {
	case strings.Contains(blob, "remote") || strings.Contains(blob, "home office") || strings.Contains(blob, "homeoffice"):
		if strings.Contains(blob, "hybrid") || strings.Contains(blob, "teilweise") {
			return domain.RemoteHybrid
		}
		return domain.RemoteFull
	case strings.Contains(blob, "hybrid"):
		return domain.RemoteHybrid
	case strings.Contains(blob, "on-site") || strings.Contains(blob, "onsite") ||
		strings.Contains(blob, "on site") || strings.Contains(blob, "vor ort") ||
		strings.Contains(blob, "prasenz"):
		return domain.RemoteOnSite
	default:
		return domain.RemoteUnknown
	}
}

// ClassifyJobType maps raw text to one of: full-time, part-time, contract,
// internship, freelance. Empty string when nothing matches.
func ClassifyJobType(raw string) string {
	if raw == "" {
		return ""
	}
	blob := Fold(raw)
	switch {
	case strings.Contains(blob, "internship") || strings.Contains(blob, "praktikum") || strings.Contains(blob, "werkstudent"):
		return "internship"
	case strings.Contains(blob, "part-time") || strings.Contains(blob, "part time") || strings.Contains(blob, "teilzeit"):
		return "part-time"
	case strings.Contains(blob, "full-time") || strings.Contains(blob, "full time") ||
		strings.Contains(blob, "vollzeit") || strings.Contains(blob, "unbefristet"):
		return "full-time"
	case strings.Contains(blob, "contract") || strings.Contains(blob, "befristet") || strings.Contains(blob, "zeitarbeit"):
		return "contract"
	case strings.Contains(blob, "freelance") || strings.Contains(blob, "freiberuf"):
		return "freelance"
	default:
		return ""
	}
}
