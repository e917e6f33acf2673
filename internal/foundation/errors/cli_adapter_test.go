package errors

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad date").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"content query", ContentError("failed to query events").Build(), 8},
		{"store", StoreError("open").Build(), 8},
		{"render", RenderError("template").Build(), 11},
		{"wrapped build", fmt.Errorf("stage: %w", BuildError("aborted").Build()), 11},
		{"internal", InternalError("boom").Build(), 10},
		{"unclassified", stdErrors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	cause := stdErrors.New("no such table: events")
	err := WrapError(cause, CategoryContent, "failed to query events").Fatal().Build()

	assert.Equal(t, "Error: failed to query events: no such table: events", quiet.FormatError(err))
	assert.Equal(t, err.Error(), verbose.FormatError(err))
	assert.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(InternalError("x").Build()))
	assert.Equal(t, "Error: plain", quiet.FormatError(stdErrors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}
