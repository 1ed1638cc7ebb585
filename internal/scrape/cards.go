package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape/util"
)

// SelectorSet maps listing fields to CSS extraction paths within one
// card. Only Card, Title, and Link are required; the rest degrade to
// empty fields.
type SelectorSet struct {
	Card        string
	Title       string
	Link        string // anchor carrying the listing URL; empty = Title selector
	LinkAttr    string // default "href"
	Company     string
	Location    string
	Description string
	Salary      string
	JobType     string
	Posted      string
}

func (s SelectorSet) validate() []string {
	var errs []string
	if s.Card == "" {
		errs = append(errs, "card selector is required")
	}
	if s.Title == "" {
		errs = append(errs, "title selector is required")
	}
	return errs
}

// parseCards runs the generic selector-table extraction over one raw
// payload. Each card is processed independently: a malformed card (a UI
// element that matched the card selector, a listing missing its link) is
// counted and skipped, never aborting the remaining cards.
func parseCards(site SiteConfig, html string) ([]domain.Listing, ParseStats) {
	var stats ParseStats

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, stats
	}

	sel := site.Selectors
	linkSel := sel.Link
	if linkSel == "" {
		linkSel = sel.Title
	}
	linkAttr := sel.LinkAttr
	if linkAttr == "" {
		linkAttr = "href"
	}

	now := time.Now()
	var out []domain.Listing

	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		stats.Cards++

		text := func(selector string) string {
			if selector == "" {
				return ""
			}
			return util.CleanText(card.Find(selector).First().Text())
		}

		href, _ := card.Find(linkSel).First().Attr(linkAttr)
		href = strings.TrimSpace(href)

		l := domain.Listing{
			Source:      site.Name,
			Title:       text(sel.Title),
			Company:     text(sel.Company),
			URL:         util.AbsoluteURL(site.BaseURL, href),
			Location:    util.NormalizeLocation(text(sel.Location)),
			Description: text(sel.Description),
			Salary:      text(sel.Salary),
		}
		if l.Company == "" {
			l.Company = site.Company
		}
		l.JobType = util.ClassifyJobType(text(sel.JobType) + " " + l.Title)
		l.Remote = util.InferRemote(l.Location, l.Title, l.Description)
		if raw := text(sel.Posted); raw != "" {
			l.PostedAt = util.ParsePostedDate(raw, now)
		}

		if !l.Valid() {
			stats.Malformed++
			return
		}
		out = append(out, l)
	})

	return out, stats
}
