package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// cardHTML builds a results page with one .card per title/href pair.
func cardHTML(cards ...[2]string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, c := range cards {
		fmt.Fprintf(&b, `<li class="card"><a class="title" href=%q>%s</a><span class="loc">Köln</span></li>`, c[1], c[0])
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func testSite(name string) SiteConfig {
	return SiteConfig{
		Name:     name,
		BaseURL:  "https://jobs.example.de",
		Company:  "Example GmbH",
		Strategy: LocationLocal,
		MaxPages: 3,
		MinDelay: time.Millisecond,
		Selectors: SelectorSet{
			Card:     ".card",
			Title:    ".title",
			Location: ".loc",
		},
	}
}

// fakePage scripts browser behavior per URL and per click.
type fakePage struct {
	byURL    map[string]string
	gotoErr  map[string]error
	visits   []string
	clickErr []error // error per click, in order
	contents []string
	clicks   int
	reads    int
}

func (p *fakePage) Goto(_ context.Context, url string, _ WaitStrategy) (string, error) {
	p.visits = append(p.visits, url)
	if err, ok := p.gotoErr[url]; ok {
		return "", err
	}
	return p.byURL[url], nil
}

func (p *fakePage) Click(_ context.Context, _ string) error {
	var err error
	if p.clicks < len(p.clickErr) {
		err = p.clickErr[p.clicks]
	}
	p.clicks++
	return err
}

func (p *fakePage) Content(_ context.Context) (string, error) {
	if p.reads >= len(p.contents) {
		return "", nil
	}
	html := p.contents[p.reads]
	p.reads++
	return html, nil
}
