package email

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"

	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/scrape"
)

// PasswordFunc resolves the IMAP password lazily, so the keychain is
// only consulted when the adapter actually runs.
type PasswordFunc func() (string, error)

// Adapter reads unseen job-alert mails from an IMAP mailbox and emits
// their HTML bodies as page payloads. It ignores the browser page and
// marks a mail seen only after its body was captured.
type Adapter struct {
	site     scrape.SiteConfig
	addr     string
	username string
	mailbox  string
	subjects []string
	maxMails int
	password PasswordFunc
}

func New(cfg config.Config, password PasswordFunc) *Adapter {
	port := cfg.Email.IMAPPort
	if port == 0 {
		port = 993
	}
	addr := net.JoinHostPort(cfg.Email.IMAPHost, strconv.Itoa(port))
	return &Adapter{
		site: scrape.SiteConfig{
			Name:     "email",
			BaseURL:  "imaps://" + addr,
			Strategy: scrape.LocationGlobal,
			MaxPages: 1,
			MinDelay: time.Second,
		},
		addr:     addr,
		username: cfg.Email.Username,
		mailbox:  cfg.Email.Mailbox,
		subjects: cfg.Email.SearchSubjectAny,
		maxMails: 50,
		password: password,
	}
}

func (a *Adapter) Name() string            { return a.site.Name }
func (a *Adapter) Site() scrape.SiteConfig { return a.site }

func (a *Adapter) Fetch(ctx context.Context, _ scrape.Page) ([]string, error) {
	pw, err := a.password()
	if err != nil {
		return nil, &scrape.SourceError{
			Source: a.site.Name,
			Kind:   scrape.FailConfiguration,
			Err:    fmt.Errorf("imap password: %w", err),
		}
	}

	c, err := dialAndLogin(ctx, a.addr, a.username, pw)
	if err != nil {
		return nil, a.unavailable(err)
	}
	defer logoutAndClose(c)

	if err := selectMailbox(c, a.mailbox); err != nil {
		return nil, a.unavailable(err)
	}
	msgs, err := fetchUnseen(ctx, c, a.maxMails)
	if err != nil {
		return nil, a.unavailable(err)
	}

	var (
		payloads []string
		seen     []imap.UID
	)
	for _, m := range msgs {
		if !a.subjectMatches(m.Subject) {
			continue
		}
		body := htmlBody(m.Raw)
		if body == "" {
			continue
		}
		payloads = append(payloads, body)
		seen = append(seen, m.UID)
	}

	if err := markSeen(c, seen); err != nil {
		// Bodies are already in hand; a failed flag update only means
		// the same mails are reprocessed next run and deduped there.
		return payloads, nil
	}
	return payloads, nil
}

func (a *Adapter) Parse(html string) ([]domain.Listing, scrape.ParseStats) {
	listings, malformed := parseAlertHTML(html)
	return listings, scrape.ParseStats{
		Cards:     len(listings) + malformed,
		Malformed: malformed,
	}
}

func (a *Adapter) subjectMatches(subject string) bool {
	if len(a.subjects) == 0 {
		return true
	}
	low := strings.ToLower(subject)
	for _, want := range a.subjects {
		if want = strings.ToLower(strings.TrimSpace(want)); want != "" && strings.Contains(low, want) {
			return true
		}
	}
	return false
}

func (a *Adapter) unavailable(err error) error {
	return &scrape.SourceError{
		Source: a.site.Name,
		Kind:   scrape.FailSourceUnavailable,
		Err:    err,
	}
}
