package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyEventID    = "event_id"
	KeyName       = "name"
	KeySlug       = "slug"
	KeyRoute      = "route"
	KeyTemplate   = "template"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

func Stage(name string) slog.Attr    { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func File(f string) slog.Attr        { return slog.String(KeyFile, f) }
func EventID(id string) slog.Attr    { return slog.String(KeyEventID, id) }
func Name(n string) slog.Attr        { return slog.String(KeyName, n) }
func Slug(s string) slog.Attr        { return slog.String(KeySlug, s) }
func Route(r string) slog.Attr       { return slog.String(KeyRoute, r) }
func Template(t string) slog.Attr    { return slog.String(KeyTemplate, t) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr     { return slog.String(KeyOutcome, o) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
