package email

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape/util"
)

var (
	reSalary = regexp.MustCompile(`(?:\$|€)\s?\d[\d.,]*(?:K|M)?\s*(?:-\s*(?:\$|€)\s?\d[\d.,]*(?:K|M)?)?\s*/\s*(?:year|Jahr)`)
	reJobID  = regexp.MustCompile(`/jobs/view/(\d+)`)
)

// parseAlertHTML extracts listings from one job-alert mail body.
// Several anchors usually point at the same posting (logo, title,
// footer button), so candidates are merged per job id before any of
// them is emitted; otherwise whichever anchor happens to come first
// decides whether a title survives.
func parseAlertHTML(body string) ([]domain.Listing, int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, 0
	}

	type candidate struct {
		listing domain.Listing
		card    string
	}
	byID := map[string]*candidate{}
	order := []string{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}

		// unwrap before filtering: tracking wrappers percent-encode the
		// posting path, hiding it from a raw substring check
		jobURL := unwrapRedirect(href)
		if jobURL == "" || !strings.Contains(strings.ToLower(jobURL), "/jobs/view/") {
			return
		}
		key := jobURL
		if m := reJobID.FindStringSubmatch(jobURL); len(m) == 2 {
			key = m[1]
		}

		c, ok := byID[key]
		if !ok {
			c = &candidate{listing: domain.Listing{Source: "email", URL: jobURL}}
			byID[key] = c
			order = append(order, key)
		}

		if t := alertTitle(a.Text()); betterTitle(t, c.listing.Title) {
			c.listing.Title = t
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}

		// "Company · Location" lives in a <p> next to the title anchor.
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := util.CleanText(p.Text())
			if t == "" {
				return
			}
			if c.listing.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				c.listing.Company = strings.TrimSpace(parts[0])
				c.listing.Location = util.NormalizeLocation(parts[1])
			}
			if t2 := alertTitle(t); betterTitle(t2, c.listing.Title) && !strings.Contains(t2, " · ") {
				c.listing.Title = t2
			}
		})

		if blob := util.CleanText(card.Text()); blob != "" {
			if c.listing.Salary == "" {
				c.listing.Salary = strings.TrimSpace(reSalary.FindString(blob))
			}
			if len(blob) > len(c.card) {
				c.card = blob
			}
		}
	})

	var (
		out       []domain.Listing
		malformed int
	)
	for _, key := range order {
		c := byID[key]
		l := c.listing
		l.Remote = util.InferRemote(l.Title, l.Location, c.card)
		l.JobType = util.ClassifyJobType(l.Title + " " + c.card)
		if !l.Valid() {
			malformed++
			continue
		}
		out = append(out, l)
	}
	return out, malformed
}

// unwrapRedirect resolves tracking wrappers (?url=... and google
// /url?q=...) down to the real posting URL.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	if strings.Contains(strings.ToLower(u.Host), "google.") && strings.HasPrefix(u.Path, "/url") {
		if q := u.Query().Get("q"); q != "" {
			if uu, err := url.Parse(q); err == nil && uu.Host != "" {
				return uu.String()
			}
		}
	}
	if u.Host != "" {
		return u.String()
	}
	return ""
}

// alertTitle cleans anchor text and rejects the boilerplate labels
// alert templates attach to job links.
func alertTitle(s string) string {
	s = util.CleanText(s)
	for _, junk := range []string{"Actively recruiting", "Easy Apply", "Promoted"} {
		s = strings.TrimSpace(strings.ReplaceAll(s, junk, ""))
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "alumni") ||
		strings.Contains(low, "connections") ||
		strings.Contains(low, "applicants") ||
		strings.Contains(low, "see all jobs") {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

func betterTitle(candidate, current string) bool {
	c := strings.TrimSpace(candidate)
	if c == "" {
		return false
	}
	return len(c) > len(strings.TrimSpace(current))
}
