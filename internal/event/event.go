// Package event defines the typed Event node and its conversion from raw records.
package event

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// namespace seeds deterministic IDs for records that do not carry one.
var namespace = uuid.MustParse("6f1d9a3e-2c4b-5e7f-8a90-b1c2d3e4f5a6")

// Record is an event as authored in the data directory. Field names follow the
// data file keys; dates are kept as raw strings until FromRecord parses them.
type Record struct {
	ID          string `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Location    string `yaml:"location" json:"location"`
	StartDate   string `yaml:"start_date" json:"start_date"`
	EndDate     string `yaml:"end_date" json:"end_date"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Source is the data file the record was read from.
	Source string `yaml:"-" json:"-"`
}

// Event is a typed event node.
type Event struct {
	ID          string
	Name        string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	URL         string
	Slug        string
	Description string
	Source      string
}

// FromRecord converts rec into an Event. index is the record's position in its
// source file and only feeds the generated ID. Slug is left empty; it is resolved
// in a later step.
func FromRecord(rec Record, index int) (Event, error) {
	ev := Event{
		ID:          strings.TrimSpace(rec.ID),
		Name:        strings.TrimSpace(rec.Name),
		Location:    strings.TrimSpace(rec.Location),
		URL:         strings.TrimSpace(rec.URL),
		Description: rec.Description,
		Source:      rec.Source,
	}

	for _, f := range []struct{ field, value string }{
		{"name", ev.Name},
		{"location", ev.Location},
		{"start_date", rec.StartDate},
		{"end_date", rec.EndDate},
		{"url", ev.URL},
	} {
		if strings.TrimSpace(f.value) == "" {
			return Event{}, newFieldError(rec, f.field, "is required", nil)
		}
	}

	var err error
	if ev.StartDate, err = ParseDate(rec.StartDate); err != nil {
		return Event{}, newFieldError(rec, "start_date", "is not a valid date", err)
	}
	if ev.EndDate, err = ParseDate(rec.EndDate); err != nil {
		return Event{}, newFieldError(rec, "end_date", "is not a valid date", err)
	}
	if ev.EndDate.Before(ev.StartDate) {
		return Event{}, newFieldError(rec, "end_date", "is before start_date", nil)
	}

	if ev.ID == "" {
		ev.ID = GenerateID(rec.Source, index, ev.Name)
	}
	return ev, nil
}

// GenerateID derives a stable node ID from where a record was authored.
func GenerateID(source string, index int, name string) string {
	key := source + "\x00" + strconv.Itoa(index) + "\x00" + name
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// SortByStart orders events by start date ascending, then by name.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartDate.Equal(events[j].StartDate) {
			return events[i].StartDate.Before(events[j].StartDate)
		}
		return events[i].Name < events[j].Name
	})
}

// DateRange formats the event dates for display, collapsing shared month and year.
func (e Event) DateRange() string {
	start, end := e.StartDate, e.EndDate
	switch {
	case sameDay(start, end):
		return start.Format("January 2, 2006")
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("%s %d–%d, %d", start.Month(), start.Day(), end.Day(), start.Year())
	case start.Year() == end.Year():
		return fmt.Sprintf("%s – %s", start.Format("January 2"), end.Format("January 2, 2006"))
	default:
		return fmt.Sprintf("%s – %s", start.Format("January 2, 2006"), end.Format("January 2, 2006"))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
