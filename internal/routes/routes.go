// Package routes turns the event list into the site's route table.
package routes

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
)

// ContextEventID is the route context key naming the event a detail page shows.
const ContextEventID = "eventID"

// Route is one page to render. Component names the template that renders it.
type Route struct {
	Path      string         `json:"path"`
	Component string         `json:"component"`
	Context   map[string]any `json:"context"`
}

// EventID returns the event ID carried by a detail route.
func (r Route) EventID() (string, bool) {
	id, ok := r.Context[ContextEventID].(string)
	return id, ok
}

// Table is an ordered route table. The first entry is the index route.
type Table []Route

// Query is the read side of the data graph used for page creation.
type Query interface {
	Events(ctx context.Context) ([]event.Event, error)
}

// BuildRoutes returns the index route followed by one detail route per item, in
// item order. Slugs must already be resolved on the items.
func BuildRoutes(items []event.Event, indexTemplate, detailTemplate, basePath string) Table {
	table := make(Table, 0, len(items)+1)
	table = append(table, Route{
		Path:      basePath,
		Component: indexTemplate,
		Context:   map[string]any{},
	})
	for _, item := range items {
		table = append(table, Route{
			Path:      item.Slug,
			Component: detailTemplate,
			Context:   map[string]any{ContextEventID: item.ID},
		})
	}
	return table
}

// CreatePages queries all events and builds the route table from them. A failed
// query returns no table; there is no retry.
func CreatePages(ctx context.Context, q Query, indexTemplate, detailTemplate, basePath string, logger *slog.Logger) (Table, error) {
	items, err := q.Events(ctx)
	if err != nil {
		logger.Error("Query for events failed", logfields.Error(err))
		return nil, errors.WrapError(err, errors.CategoryBuild, "failed to query events for page creation").
			Fatal().
			Build()
	}

	table := BuildRoutes(items, indexTemplate, detailTemplate, basePath)
	logger.Info("Created pages", logfields.Count(len(table)))
	for _, r := range table {
		logger.Debug("Route", logfields.Route(r.Path), logfields.Template(r.Component))
	}
	return table, nil
}

// Index returns the index route. ok is false for an empty table.
func (t Table) Index() (Route, bool) {
	if len(t) == 0 {
		return Route{}, false
	}
	return t[0], true
}

// Details returns the detail routes.
func (t Table) Details() []Route {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Lookup finds the first route with the given path.
func (t Table) Lookup(path string) (Route, bool) {
	for _, r := range t {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
