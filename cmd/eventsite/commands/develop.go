package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/eventsite/internal/metrics"
	"git.home.luguber.info/inful/eventsite/internal/preview"
	"git.home.luguber.info/inful/eventsite/internal/site"
)

// DevelopCmd serves the built site and rebuilds when data or templates change.
type DevelopCmd struct {
	Host string `default:"localhost" help:"Interface to listen on"`
	Port int    `short:"p" help:"Port to listen on (overrides develop.port)"`
}

func (d *DevelopCmd) Run(g *Global, root *CLI) error {
	cfg, err := setup(g, root)
	if err != nil {
		return err
	}
	if d.Port != 0 {
		cfg.Develop.Port = d.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	builder := site.NewBuilder(siteOptions(cfg), g.Logger).WithRecorder(metrics.NewPrometheusRecorder(reg))

	srv := preview.New(builder, preview.Options{
		Host:      d.Host,
		Port:      cfg.Develop.Port,
		OutputDir: cfg.Output.Directory,
		WatchDirs: []string{cfg.Content.DataDir, cfg.Templates.Dir},
		Registry:  reg,
		Logger:    g.Logger,
	})
	return srv.Run(ctx)
}
