package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/ui"
)

var version = "dev"

type CLI struct {
	DataDir string `help:"Directory for the database, lock, and config file." default:"." env:"JOBSEARCH_DATA_DIR"`
	Verbose bool   `help:"Enable debug logging."`
	NoColor bool   `help:"Disable colored output."`
	Headful bool   `help:"Run the browser with a visible window." env:"JOBSEARCH_HEADFUL"`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Scrape ScrapeCmd `cmd:"" help:"Run a scrape over the configured sources."`
	Sites  SitesCmd  `cmd:"" help:"List registered sources."`
	Jobs   JobsCmd   `cmd:"" help:"List stored jobs."`
	Runs   RunsCmd   `cmd:"" help:"Show run history."`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API with the scheduler."`
	Secret SecretCmd `cmd:"" help:"Manage the IMAP password in the OS keychain."`
}

// Context carries everything a subcommand needs once the config is
// loaded and validated.
type Context struct {
	UI      *ui.UI
	Log     zerolog.Logger
	Cfg     config.Config
	DataDir string
	Headful bool
}

func main() {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jobsearch"),
		kong.Description("Job posting harvester for the Rheinland."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	u := ui.New(os.Stdout, os.Stderr, cli.NoColor)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := loadConfig(cli.DataDir)
	if err != nil {
		u.Errorf("config: %v", err)
		os.Exit(1)
	}

	runCtx := &Context{
		UI:      u,
		Log:     log,
		Cfg:     cfg,
		DataDir: cli.DataDir,
		Headful: cli.Headful,
	}
	if err := kctx.Run(runCtx); err != nil {
		u.Errorf("%v", err)
		os.Exit(1)
	}
}

func loadConfig(dataDir string) (config.Config, error) {
	config.LoadDotenv(dataDir)

	path, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	config.ApplyEnv(&cfg)

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		fmt.Fprintf(os.Stderr, "config warning: %s\n", w)
	}
	if !v.OK() {
		return config.Config{}, fmt.Errorf("invalid config %s: %v", path, v.Errors)
	}
	return cfg, nil
}
