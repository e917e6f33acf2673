package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/eventsite/internal/metrics"
	"git.home.luguber.info/inful/eventsite/internal/routes"
)

// Outcome is the final state of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// ReportFile is the name of the persisted JSON report.
const ReportFile = "build-report.json"

// Report captures what a build did.
type Report struct {
	Start          time.Time                         `json:"start"`
	End            time.Time                         `json:"end"`
	Events         int                               `json:"events"`
	Routes         int                               `json:"routes"`
	Pages          int                               `json:"pages"`
	StageDurations map[StageName]time.Duration       `json:"stage_durations"`
	StageResults   map[StageName]metrics.ResultLabel `json:"stage_results"`
	Outcome        Outcome                           `json:"outcome"`
	Error          string                            `json:"error,omitempty"`

	// Table is the route table of the build, nil when page creation did not run.
	Table routes.Table `json:"-"`
}

func newReport() *Report {
	return &Report{
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *Report) recordStage(stage StageName, d time.Duration, result metrics.ResultLabel, rec metrics.Recorder) {
	r.StageDurations[stage] = d
	r.StageResults[stage] = result
	if rec != nil {
		rec.ObserveStageDuration(string(stage), d)
		rec.IncStageResult(string(stage), result)
	}
}

func (r *Report) finish(err error, canceled bool) {
	r.End = time.Now()
	switch {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case canceled:
		r.Outcome = OutcomeCanceled
		r.Error = err.Error()
	default:
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
	}
}

// Duration returns the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("events=%d routes=%d pages=%d duration=%s outcome=%s",
		r.Events, r.Routes, r.Pages, r.Duration().Truncate(time.Millisecond), r.Outcome)
}

// Persist writes the report as JSON into dir, replacing any previous report.
func (r *Report) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	path := filepath.Join(dir, ReportFile)
	tmp := path + ".tmp"
	// #nosec G306 -- the report is published next to the site.
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename report json: %w", err)
	}
	return nil
}
