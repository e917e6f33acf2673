package site

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/eventsite/internal/bootstrap"
	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
	"git.home.luguber.info/inful/eventsite/internal/metrics"
	"git.home.luguber.info/inful/eventsite/internal/render"
	"git.home.luguber.info/inful/eventsite/internal/routes"
	"git.home.luguber.info/inful/eventsite/internal/source"
)

// StageName identifies a build stage.
type StageName string

const (
	StageBootstrap    StageName = "bootstrap"
	StageSourceNodes  StageName = "source_nodes"
	StageResolveSlugs StageName = "resolve_slugs"
	StageStoreNodes   StageName = "store_nodes"
	StageCreatePages  StageName = "create_pages"
	StageRenderPages  StageName = "render_pages"
)

// Stage is one step of a build operating on the shared build state.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

func defaultStages() []StageDef {
	return []StageDef{
		{StageBootstrap, stageBootstrap},
		{StageSourceNodes, stageSourceNodes},
		{StageResolveSlugs, stageResolveSlugs},
		{StageStoreNodes, stageStoreNodes},
		{StageCreatePages, stageCreatePages},
		{StageRenderPages, stageRenderPages},
	}
}

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	rec := bs.builder.recorder
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.report.recordStage(st.Name, 0, metrics.ResultCanceled, rec)
			bs.logger.Warn("Build canceled", logfields.Stage(string(st.Name)))
			return err
		}

		bs.logger.Debug("Stage started", logfields.Stage(string(st.Name)))
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		result := metrics.ResultSuccess
		switch {
		case err == nil:
		case ctx.Err() != nil:
			result = metrics.ResultCanceled
		default:
			result = metrics.ResultFatal
		}
		bs.report.recordStage(st.Name, dur, result, rec)

		if err != nil {
			bs.logger.Error("Stage failed",
				logfields.Stage(string(st.Name)),
				logfields.Duration(dur),
				logfields.Error(err))
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
		bs.logger.Info("Stage complete", logfields.Stage(string(st.Name)), logfields.Duration(dur))
	}
	return nil
}

func stageBootstrap(_ context.Context, bs *buildState) error {
	dir := bs.builder.opts.DataDir
	if _, err := bootstrap.EnsureDataDir(dir, bs.logger); err != nil {
		return err
	}
	if !source.Exists(dir, bs.builder.opts.Include) {
		bs.logger.Info("No event data files found, the site will list no events", logfields.Path(dir))
	}
	return nil
}

func stageSourceNodes(ctx context.Context, bs *buildState) error {
	loader := source.NewLoader(bs.builder.opts.DataDir, bs.builder.opts.Include, bs.logger)
	records, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	events := make([]event.Event, 0, len(records))
	positions := make(map[string]int)
	ids := make(map[string]string)
	for _, rec := range records {
		pos := positions[rec.Source]
		positions[rec.Source] = pos + 1

		ev, err := event.FromRecord(rec, pos)
		if err != nil {
			return err
		}
		if prev, dup := ids[ev.ID]; dup {
			return errors.ValidationError("duplicate event id").
				WithContext("event_id", ev.ID).
				WithContext("file", ev.Source).
				WithContext("previous_file", prev).
				Build()
		}
		ids[ev.ID] = ev.Source
		events = append(events, ev)
	}

	event.SortByStart(events)
	bs.events = events
	bs.report.Events = len(events)
	bs.builder.recorder.SetEventsSourced(len(events))
	bs.logger.Info("Sourced event nodes", logfields.Count(len(events)))
	return nil
}

func stageResolveSlugs(_ context.Context, bs *buildState) error {
	for i := range bs.events {
		bs.events[i].Slug = bs.builder.slugger.Slug(bs.events[i].Name)
		bs.logger.Debug("Resolved slug",
			logfields.EventID(bs.events[i].ID),
			logfields.Name(bs.events[i].Name),
			logfields.Slug(bs.events[i].Slug))
	}
	return nil
}

func stageStoreNodes(ctx context.Context, bs *buildState) error {
	st, err := bs.builder.openStore(bs.builder.opts.StorePath)
	if err != nil {
		return err
	}
	bs.store = st
	return st.ReplaceEvents(ctx, bs.events)
}

func stageCreatePages(ctx context.Context, bs *buildState) error {
	q := &capturingQuery{next: bs.store}
	o := bs.builder.opts
	table, err := routes.CreatePages(ctx, q, o.IndexTemplate, o.DetailTemplate, o.Site.BasePath, bs.logger)
	if err != nil {
		return err
	}
	bs.table = table
	bs.queried = q.events
	bs.report.Routes = len(table)
	return nil
}

func stageRenderPages(ctx context.Context, bs *buildState) error {
	o := bs.builder.opts
	r, err := render.New(render.Options{
		TemplatesDir: o.TemplatesDir,
		OutputDir:    o.OutputDir,
		Site:         o.Site,
		Slugger:      bs.builder.slugger,
		Logger:       bs.logger,
	})
	if err != nil {
		return err
	}
	if o.Clean {
		if err := render.Clean(o.OutputDir); err != nil {
			return err
		}
	}

	files, err := r.Render(ctx, bs.table, bs.queried)
	bs.report.Pages = len(files)
	bs.builder.recorder.AddPagesRendered(len(files))
	if err != nil {
		return err
	}
	bs.logger.Info("Rendered pages", logfields.Count(len(files)), logfields.Path(o.OutputDir))
	return nil
}

// capturingQuery remembers the events handed to page creation so rendering
// uses exactly the queried node set.
type capturingQuery struct {
	next   routes.Query
	events []event.Event
}

func (c *capturingQuery) Events(ctx context.Context) ([]event.Event, error) {
	evs, err := c.next.Events(ctx)
	if err != nil {
		return nil, err
	}
	c.events = evs
	return evs, nil
}
