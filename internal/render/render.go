// Package render binds route components to HTML templates and writes the pages.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
	"git.home.luguber.info/inful/eventsite/internal/routes"
	"git.home.luguber.info/inful/eventsite/internal/slug"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Site holds site-wide values available to every template as .Site.
type Site struct {
	Title       string
	Description string
	BasePath    string
	BaseURL     string
}

// EventView is an event prepared for templates.
type EventView struct {
	event.Event
	DescriptionHTML template.HTML
}

// Page is the data passed to a component template.
type Page struct {
	Site   Site
	Route  routes.Route
	Events []EventView
	// Event is set on detail pages only.
	Event *EventView
}

// Options configures a Renderer.
type Options struct {
	// TemplatesDir overrides or extends the embedded templates. Optional.
	TemplatesDir string
	OutputDir    string
	Site         Site
	Slugger      slug.Slugger
	Logger       *slog.Logger
}

// Renderer renders a route table to static HTML files.
type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	opts   Options
	logger *slog.Logger
}

// New parses the embedded templates and then any *.html files in
// opts.TemplatesDir; a file with the same name replaces the embedded one.
func New(opts Options) (*Renderer, error) {
	if opts.OutputDir == "" {
		return nil, errors.ConfigError("output directory is required").Build()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("").Funcs(funcMap(opts.Slugger)).ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "parse embedded templates").Build()
	}

	if opts.TemplatesDir != "" {
		if err := loadOverrides(tmpl, opts.TemplatesDir, logger); err != nil {
			return nil, err
		}
	}

	return &Renderer{
		tmpl:   tmpl,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		opts:   opts,
		logger: logger,
	}, nil
}

func loadOverrides(tmpl *template.Template, dir string, logger *slog.Logger) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Templates directory not found, using embedded templates", logfields.Path(dir))
			return nil
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "stat templates directory").
			WithContext("path", dir).
			Build()
	}
	if !info.IsDir() {
		return errors.ConfigError("templates path is not a directory").WithContext("path", dir).Build()
	}

	files, err := doublestar.Glob(os.DirFS(dir), "**/*.html", doublestar.WithFilesOnly())
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "list templates").WithContext("path", dir).Build()
	}
	for _, rel := range files {
		// #nosec G304 -- rel comes from a glob rooted at the templates directory.
		content, err := fs.ReadFile(os.DirFS(dir), rel)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read template").WithContext("file", rel).Build()
		}
		name := filepath.Base(rel)
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return errors.WrapError(err, errors.CategoryRender, "parse template").
				Fatal().
				UserAction().
				WithContext("template", name).
				WithContext("file", filepath.Join(dir, rel)).
				Build()
		}
		logger.Debug("Loaded template", logfields.Template(name), logfields.File(filepath.Join(dir, rel)))
	}
	return nil
}

func funcMap(s slug.Slugger) template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout ...string) string {
			if len(layout) > 0 && layout[0] != "" {
				return t.Format(layout[0])
			}
			return t.Format("January 2, 2006")
		},
		"dateRange": func(start, end time.Time) string {
			return event.Event{StartDate: start, EndDate: end}.DateRange()
		},
		"slugify": s.Slug,
	}
}

// Render writes one page per route and returns the distinct file paths written,
// in route order. events must contain every event a detail route refers to.
// A detail route resolving to the index page's file is skipped; other routes
// sharing a file replace the earlier page.
func (r *Renderer) Render(ctx context.Context, table routes.Table, events []event.Event) ([]string, error) {
	views, byID, err := r.views(events)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(table))
	// Keyed by output file: "/events" and "/events/" land on the same page.
	seen := make(map[string]routes.Route, len(table))
	for _, route := range table {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		file, err := OutputFile(r.opts.OutputDir, route.Path)
		if err != nil {
			return written, err
		}
		prev, dup := seen[file]
		if dup {
			if _, isDetail := prev.EventID(); !isDetail {
				r.logger.Warn("Route collides with the index page, skipping it",
					logfields.Route(route.Path), logfields.File(file))
				continue
			}
			r.logger.Warn("Duplicate route path, later page replaces earlier one",
				logfields.Route(route.Path), logfields.File(file))
		}
		seen[file] = route

		page := Page{Site: r.opts.Site, Route: route, Events: views}
		if id, ok := route.EventID(); ok {
			view, found := byID[id]
			if !found {
				return written, errors.RenderError("route refers to unknown event").
					WithContext("route", route.Path).
					WithContext("event_id", id).
					Build()
			}
			page.Event = view
		}

		content, err := r.execute(route.Component, page)
		if err != nil {
			return written, err
		}

		if _, err := WritePage(r.opts.OutputDir, route.Path, content); err != nil {
			return written, err
		}
		r.logger.Debug("Wrote page", logfields.Route(route.Path), logfields.File(file))
		if !dup {
			written = append(written, file)
		}
	}
	return written, nil
}

func (r *Renderer) views(events []event.Event) ([]EventView, map[string]*EventView, error) {
	views := make([]EventView, len(events))
	for i, ev := range events {
		views[i] = EventView{Event: ev}
		if ev.Description == "" {
			continue
		}
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(ev.Description), &buf); err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryRender, "render description").
				WithContext("event_id", ev.ID).
				Build()
		}
		// #nosec G203 -- goldmark escapes raw HTML unless WithUnsafe is set.
		views[i].DescriptionHTML = template.HTML(buf.String())
	}

	byID := make(map[string]*EventView, len(views))
	for i := range views {
		byID[views[i].ID] = &views[i]
	}
	return views, byID, nil
}

func (r *Renderer) execute(component string, page Page) ([]byte, error) {
	t := r.tmpl.Lookup(component)
	if t == nil {
		return nil, errors.RenderError("template not found").
			UserAction().
			WithContext("template", component).
			WithContext("route", page.Route.Path).
			Build()
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "execute template").
			Fatal().
			WithContext("template", component).
			WithContext("route", page.Route.Path).
			Build()
	}
	return buf.Bytes(), nil
}

// HasTemplate reports whether a component template is defined.
func (r *Renderer) HasTemplate(name string) bool {
	return r.tmpl.Lookup(name) != nil
}
