package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/eventsite/internal/logfields"
	"git.home.luguber.info/inful/eventsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory (overrides output.directory)"`
	NoClean bool   `name:"no-clean" help:"Keep existing files in the output directory"`
	Report  bool   `help:"Write build-report.json into the output directory"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := setup(g, root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.NoClean {
		cfg.Output.Clean = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := siteOptions(cfg)
	g.Logger.Info("Starting event site build",
		logfields.Path(opts.OutputDir),
		logfields.File(root.Config))

	report, err := site.NewBuilder(opts, g.Logger).Build(ctx)
	if err != nil {
		return err
	}
	if b.Report {
		if err := report.Persist(opts.OutputDir); err != nil {
			g.Logger.Warn("Failed to persist build report", logfields.Error(err))
		}
	}
	_, _ = fmt.Fprintf(g.Stdout, "Build complete: %s\n", report.Summary())
	return nil
}
