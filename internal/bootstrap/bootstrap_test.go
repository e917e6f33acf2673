package bootstrap

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEnsureDataDir_Creates(t *testing.T) {
	var buf bytes.Buffer
	dir := filepath.Join(t.TempDir(), "data")

	created, err := EnsureDataDir(dir, testLogger(&buf))
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, buf.String(), "creating the "+dir+" directory. . .")
}

func TestEnsureDataDir_Existing(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()

	created, err := EnsureDataDir(dir, testLogger(&buf))
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotContains(t, buf.String(), "creating the")
}

func TestEnsureDataDir_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDataDir(path, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestEnsureDataDir_Empty(t *testing.T) {
	_, err := EnsureDataDir("", nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
