package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SiteOverride tunes one built-in site definition from YAML without
// touching its selector table.
type SiteOverride struct {
	Disabled   bool `yaml:"disabled"`
	MaxPages   int  `yaml:"max_pages"`
	MaxClicks  int  `yaml:"max_clicks"`
	MinDelayMS int  `yaml:"min_delay_ms"`
}

type Config struct {
	App struct {
		Addr    string `yaml:"addr"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Browser struct {
		Headless bool `yaml:"headless"`
	} `yaml:"browser"`

	Schedule struct {
		Enabled bool   `yaml:"enabled"`
		Spec    string `yaml:"spec"` // robfig/cron spec, e.g. "@every 6h"
	} `yaml:"schedule"`

	// Search axes consumed by sweep-style aggregators.
	Search struct {
		Cities   []string `yaml:"cities"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"search"`

	Sites struct {
		Enabled   []string                `yaml:"enabled"` // empty = all built-ins
		Overrides map[string]SiteOverride `yaml:"overrides"`
	} `yaml:"sites"`

	Filters struct {
		IncludeEnabled bool     `yaml:"include_enabled"`
		Exclude        []string `yaml:"exclude"`
		Include        []string `yaml:"include"`
		Remote         []string `yaml:"remote"`
		Local          []string `yaml:"local"`
	} `yaml:"filters"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
	} `yaml:"email"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the config used when no user file exists yet.
func Default() Config {
	var cfg Config
	cfg.App.Addr = "127.0.0.1:8787"
	cfg.App.DataDir = "."
	cfg.Browser.Headless = true
	cfg.Schedule.Spec = "@every 6h"
	cfg.Search.Cities = []string{"Cologne", "Dusseldorf", "Dortmund", "Essen", "Bonn"}
	cfg.Search.Keywords = []string{"data", "ai", "analytics"}
	cfg.Email.Mailbox = "INBOX"
	return cfg
}
