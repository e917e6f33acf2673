package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/eventsite/internal/config"
	"git.home.luguber.info/inful/eventsite/internal/render"
	"git.home.luguber.info/inful/eventsite/internal/site"
)

// LogLevelEnv overrides the configured log level unless --verbose is set.
const LogLevelEnv = "EVENTSITE_LOG_LEVEL"

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"eventsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the event site"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Routes  RoutesCmd  `cmd:"" help:"Print the route table without rendering or writing the node store (creates a missing data dir)"`
	Develop DevelopCmd `cmd:"" help:"Serve the site and rebuild on changes"`
}

// AfterApply runs after flag parsing; set up a default logger before any config is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose, "")
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// parseLogLevel resolves the level: --verbose, then EVENTSITE_LOG_LEVEL, then the configured level.
func parseLogLevel(verbose bool, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return config.NormalizeLogLevel(env).Slog()
	}
	return config.NormalizeLogLevel(string(configured)).Slog()
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads the configuration. A missing file is only tolerated at the default path.
func loadConfig(path string) (*config.Config, error) {
	if path == config.DefaultPath {
		return config.LoadOrDefault(path)
	}
	return config.Load(path)
}

// setup loads the configuration and replaces the global logger with one honoring it.
func setup(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, parseLogLevel(root.Verbose, cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	if len(cfg.EnvFiles) > 0 {
		g.Logger.Debug("Loaded environment files", slog.Any("files", cfg.EnvFiles))
	}
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	return cfg, nil
}

// siteOptions maps configuration onto build options.
func siteOptions(cfg *config.Config) site.Options {
	return site.Options{
		DataDir:        cfg.Content.DataDir,
		Include:        cfg.Content.Include,
		TemplatesDir:   cfg.Templates.Dir,
		IndexTemplate:  cfg.Templates.Index,
		DetailTemplate: cfg.Templates.Detail,
		OutputDir:      cfg.Output.Directory,
		Clean:          cfg.Output.Clean,
		StorePath:      cfg.Store.Path,
		FoldDiacritics: cfg.Slug.FoldDiacritics,
		Site: render.Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BasePath:    cfg.Site.BasePath,
			BaseURL:     cfg.Site.BaseURL,
		},
	}
}
