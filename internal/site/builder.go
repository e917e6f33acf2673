package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
	"git.home.luguber.info/inful/eventsite/internal/metrics"
	"git.home.luguber.info/inful/eventsite/internal/render"
	"git.home.luguber.info/inful/eventsite/internal/routes"
	"git.home.luguber.info/inful/eventsite/internal/slug"
	"git.home.luguber.info/inful/eventsite/internal/store"
)

// Options are the resolved inputs of a build.
type Options struct {
	DataDir        string
	Include        []string
	TemplatesDir   string
	IndexTemplate  string
	DetailTemplate string
	OutputDir      string
	Clean          bool
	StorePath      string
	FoldDiacritics bool
	Site           render.Site
}

// NodeStore is the node store a build writes to and page creation reads from.
type NodeStore interface {
	routes.Query
	ReplaceEvents(ctx context.Context, events []event.Event) error
	Close() error
}

// StoreOpener opens the node store at path.
type StoreOpener func(path string) (NodeStore, error)

// Builder runs builds with fixed options. It is safe to call Build repeatedly
// but not concurrently.
type Builder struct {
	opts      Options
	logger    *slog.Logger
	recorder  metrics.Recorder
	slugger   slug.Slugger
	openStore StoreOpener
	stages    []StageDef
}

// NewBuilder creates a builder. logger must not be nil.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if opts.Site.BasePath == "" {
		opts.Site.BasePath = "/"
	}
	return &Builder{
		opts:     opts,
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		slugger:  slug.Slugger{BasePath: opts.Site.BasePath, FoldDiacritics: opts.FoldDiacritics},
		openStore: func(path string) (NodeStore, error) {
			if path == "" {
				path = store.Memory
			}
			st, err := store.Open(path)
			if err != nil {
				return nil, err
			}
			return st, nil
		},
		stages: defaultStages(),
	}
}

// WithRecorder sets the metrics recorder. nil restores the no-op recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// WithStoreOpener replaces how the node store is opened.
func (b *Builder) WithStoreOpener(open StoreOpener) *Builder {
	if open != nil {
		b.openStore = open
	}
	return b
}

// Options returns the builder's options.
func (b *Builder) Options() Options { return b.opts }

type buildState struct {
	builder *Builder
	logger  *slog.Logger
	report  *Report

	events  []event.Event
	store   NodeStore
	table   routes.Table
	queried []event.Event
}

// Build runs all stages. The returned report is never nil; it is complete even
// when err is non-nil.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	bs := &buildState{builder: b, logger: b.logger, report: newReport()}
	defer func() {
		if bs.store != nil {
			if err := bs.store.Close(); err != nil {
				b.logger.Warn("Failed to close node store", logfields.Error(err))
			}
		}
	}()

	err := runStages(ctx, bs, b.stages)
	bs.report.finish(err, ctx.Err() != nil)
	bs.report.Table = bs.table

	b.recorder.ObserveBuildDuration(bs.report.Duration())
	b.recorder.IncBuildOutcome(string(bs.report.Outcome))

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	b.logger.Log(ctx, level, "Build finished",
		logfields.Outcome(string(bs.report.Outcome)),
		logfields.Count(bs.report.Pages),
		logfields.Duration(bs.report.Duration()))
	return bs.report, err
}

// Routes runs the stages up to and including create_pages and returns the
// route table without rendering anything. Nodes go to an in-memory store; the
// bootstrap stage still creates a missing data directory.
func (b *Builder) Routes(ctx context.Context) (routes.Table, error) {
	opts := b.opts
	opts.StorePath = store.Memory
	plan := &Builder{
		opts:      opts,
		logger:    b.logger,
		recorder:  metrics.NoopRecorder{},
		slugger:   b.slugger,
		openStore: b.openStore,
	}
	for _, st := range b.stages {
		plan.stages = append(plan.stages, st)
		if st.Name == StageCreatePages {
			break
		}
	}
	report, err := plan.Build(ctx)
	if err != nil {
		return nil, err
	}
	return report.Table, nil
}

