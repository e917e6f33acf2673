package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

func validRecord() Record {
	return Record{
		Name:      "Annual Tech Conference",
		Location:  "Berlin, Germany",
		StartDate: "2024-06-10",
		EndDate:   "2024-06-12",
		URL:       "https://example.com/conf",
		Source:    "data/events.yml",
	}
}

func TestFromRecord(t *testing.T) {
	ev, err := FromRecord(validRecord(), 0)
	require.NoError(t, err)

	assert.Equal(t, "Annual Tech Conference", ev.Name)
	assert.Equal(t, "Berlin, Germany", ev.Location)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), ev.StartDate)
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), ev.EndDate)
	assert.Empty(t, ev.Slug)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "data/events.yml", ev.Source)
}

func TestFromRecord_ExplicitID(t *testing.T) {
	rec := validRecord()
	rec.ID = "  evt-42 "
	ev, err := FromRecord(rec, 3)
	require.NoError(t, err)
	assert.Equal(t, "evt-42", ev.ID)
}

func TestFromRecord_GeneratedIDIsStable(t *testing.T) {
	a, err := FromRecord(validRecord(), 0)
	require.NoError(t, err)
	b, err := FromRecord(validRecord(), 0)
	require.NoError(t, err)
	c, err := FromRecord(validRecord(), 1)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestFromRecord_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"missing name", func(r *Record) { r.Name = "  " }, "name"},
		{"missing location", func(r *Record) { r.Location = "" }, "location"},
		{"missing url", func(r *Record) { r.URL = "" }, "url"},
		{"missing start", func(r *Record) { r.StartDate = "" }, "start_date"},
		{"bad start", func(r *Record) { r.StartDate = "next tuesday" }, "start_date"},
		{"bad end", func(r *Record) { r.EndDate = "2024-13-01" }, "end_date"},
		{"end before start", func(r *Record) { r.EndDate = "2024-06-01" }, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)

			_, err := FromRecord(rec, 0)
			require.Error(t, err)

			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryValidation, ce.Category())
			field, _ := ce.Context().GetString("field")
			assert.Equal(t, tt.field, field)
			file, _ := ce.Context().GetString("file")
			assert.Equal(t, "data/events.yml", file)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-06-10", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{" 2024-06-10 ", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-06-10T09:30:00Z", time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-06-10T09:30:00", time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-06-10 09:30:00", time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
		{"2024/06/10", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"06/10/2024", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "   ", "tomorrow", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSortByStart(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	events := []Event{
		{Name: "C", StartDate: day(5)},
		{Name: "B", StartDate: day(1)},
		{Name: "A", StartDate: day(1)},
		{Name: "D", StartDate: day(3)},
	}
	SortByStart(events)

	var names []string
	for _, e := range events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"A", "B", "D", "C"}, names)
}

func TestDateRange(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name       string
		start, end time.Time
		expected   string
	}{
		{"single day", d(2024, 6, 10), d(2024, 6, 10), "June 10, 2024"},
		{"same month", d(2024, 6, 10), d(2024, 6, 12), "June 10–12, 2024"},
		{"same year", d(2024, 6, 30), d(2024, 7, 2), "June 30 – July 2, 2024"},
		{"across years", d(2024, 12, 30), d(2025, 1, 2), "December 30, 2024 – January 2, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Event{StartDate: tt.start, EndDate: tt.end}.DateRange())
		})
	}
}
