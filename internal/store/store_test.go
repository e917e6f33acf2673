package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eventsite/internal/event"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sample(id, name, start string) event.Event {
	return event.Event{
		ID:        id,
		Name:      name,
		Location:  "Oslo",
		StartDate: day(start),
		EndDate:   day(start),
		URL:       "https://example.com/" + id,
		Slug:      "/" + id,
	}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEvents_OrderedByStartThenName(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx, []event.Event{
		sample("c", "Zeta", "2024-03-01"),
		sample("a", "Beta", "2024-01-15"),
		sample("b", "Alpha", "2024-03-01"),
	}))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.True(t, got[0].StartDate.Equal(day("2024-01-15")))
	assert.Equal(t, "/a", got[0].Slug)
}

func TestEvents_ExtremeDatesRoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx, []event.Event{
		sample("tbd", "Someday", "9999-12-31"),
		sample("now", "Now", "2024-01-01"),
		sample("epoch", "Zero", "0001-01-01"),
	}))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"epoch", "now", "tbd"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.True(t, got[0].StartDate.Equal(day("0001-01-01")), got[0].StartDate.String())
	assert.True(t, got[2].StartDate.Equal(day("9999-12-31")), got[2].StartDate.String())
	assert.True(t, got[2].EndDate.Equal(day("9999-12-31")))
}

func TestReplaceEvents_ReplacesPreviousBuild(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx, []event.Event{sample("old", "Old", "2023-01-01")}))
	require.NoError(t, s.ReplaceEvents(ctx, []event.Event{sample("new", "New", "2024-01-01")}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestReplaceEvents_DuplicateIDRollsBack(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx, []event.Event{sample("keep", "Keep", "2024-01-01")}))
	err := s.ReplaceEvents(ctx, []event.Event{
		sample("dup", "One", "2024-01-01"),
		sample("dup", "Two", "2024-01-02"),
	})
	require.Error(t, err)

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}

func TestEvents_EmptyStore(t *testing.T) {
	s := openMemory(t)
	got, err := s.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_FileCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nodes.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceEvents(context.Background(), []event.Event{sample("x", "X", "2024-02-02")}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	n, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEvents_CanceledContext(t *testing.T) {
	s := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Events(ctx)
	require.Error(t, err)
}
