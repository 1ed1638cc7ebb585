package config

import (
	"fmt"
	"regexp"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong
// with it. Configuration errors must surface here, before any run is
// scheduled, not mid-run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Cities = trimList(out.Search.Cities)
	out.Search.Keywords = trimList(out.Search.Keywords)
	out.Sites.Enabled = trimList(out.Sites.Enabled)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	if strings.TrimSpace(out.App.Addr) == "" {
		out.App.Addr = "127.0.0.1:8787"
	}

	// ---- Validation rules ----

	if out.Schedule.Enabled && strings.TrimSpace(out.Schedule.Spec) == "" {
		res.addErr("schedule.enabled is true but schedule.spec is empty")
	}

	for name, o := range out.Sites.Overrides {
		if o.MaxPages < 0 {
			res.addErr("sites.overrides.%s.max_pages must be >= 0 (0 keeps the built-in value)", name)
		}
		if o.MaxClicks < 0 {
			res.addErr("sites.overrides.%s.max_clicks must be >= 0", name)
		}
		if o.MinDelayMS < 0 {
			res.addErr("sites.overrides.%s.min_delay_ms must be >= 0", name)
		}
	}

	checkPatterns := func(stage string, pats []string) {
		for _, p := range pats {
			if p == "" {
				continue
			}
			if _, err := regexp.Compile("(?i)" + p); err != nil {
				res.addErr("filters.%s pattern %q does not compile: %v", stage, p, err)
			}
		}
	}
	checkPatterns("exclude", out.Filters.Exclude)
	checkPatterns("include", out.Filters.Include)
	checkPatterns("remote", out.Filters.Remote)
	checkPatterns("local", out.Filters.Local)

	if out.Filters.IncludeEnabled && len(out.Filters.Include) == 0 {
		res.addWarn("filters.include_enabled is true with no include patterns; built-in defaults will apply")
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			out.Email.Mailbox = "INBOX"
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen mail will be scanned for job links")
		}
	}

	return out, res
}
