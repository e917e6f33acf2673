package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, cfg.Site.Title)
	assert.Equal(t, "/", cfg.Site.BasePath)
	assert.Equal(t, "data", cfg.Content.DataDir)
	assert.Equal(t, "event-list.html", cfg.Templates.Index)
	assert.Equal(t, "event.html", cfg.Templates.Detail)
	assert.Equal(t, "public", cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, ".eventsite/nodes.db", cfg.Store.Path)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, 8000, cfg.Develop.Port)
	assert.False(t, cfg.Slug.FoldDiacritics)
}

func TestParse_FullDocument(t *testing.T) {
	cfg, err := Parse([]byte(`
site:
  title: Gopher Events
  base_path: /events/
content:
  data_dir: content/events
  include: ["**/*.yml"]
templates:
  dir: layouts
output:
  directory: dist
  clean: false
slug:
  fold_diacritics: true
logging:
  level: DEBUG
  format: json
develop:
  port: 9090
`))
	require.NoError(t, err)

	assert.Equal(t, "Gopher Events", cfg.Site.Title)
	assert.Equal(t, "/events", cfg.Site.BasePath)
	assert.Equal(t, "content/events", cfg.Content.DataDir)
	assert.Equal(t, []string{"**/*.yml"}, cfg.Content.Include)
	assert.Equal(t, "layouts", cfg.Templates.Dir)
	assert.Equal(t, "dist", cfg.Output.Directory)
	assert.False(t, cfg.Output.Clean)
	assert.True(t, cfg.Slug.FoldDiacritics)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Develop.Port)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("EVENTSITE_TEST_TITLE", "From Env")
	cfg, err := Parse([]byte("site:\n  title: ${EVENTSITE_TEST_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"relative base path", "site:\n  base_path: events\n"},
		{"unknown log level", "logging:\n  level: loud\n"},
		{"unknown log format", "logging:\n  format: xml\n"},
		{"port out of range", "develop:\n  port: 70000\n"},
		{"clean working directory", "output:\n  directory: .\n"},
		{"malformed yaml", "site: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Content.DataDir)
}

func TestLoad_InvalidFileIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  base_path: nope\n"), 0o600))

	_, err := LoadOrDefault(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventsite.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Upcoming Events", cfg.Site.Title)
	assert.True(t, cfg.Output.Clean)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(".env", []byte("EVENTSITE_TEST_A=from-file\nEVENTSITE_TEST_B=from-file\n"), 0o600))
	t.Setenv("EVENTSITE_TEST_A", "from-process")
	t.Setenv("EVENTSITE_TEST_B", "")
	require.NoError(t, os.Unsetenv("EVENTSITE_TEST_B"))

	loaded := loadEnvFiles()
	assert.Equal(t, []string{".env"}, loaded)
	assert.Equal(t, "from-process", os.Getenv("EVENTSITE_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("EVENTSITE_TEST_B"))
}

func TestLoadEnvFiles_LocalOverridesShared(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(".env", []byte("EVENTSITE_TEST_TITLE=shared\nEVENTSITE_TEST_ONLY_SHARED=yes\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.local", []byte("EVENTSITE_TEST_TITLE=local\n"), 0o600))
	t.Setenv("EVENTSITE_TEST_TITLE", "")
	require.NoError(t, os.Unsetenv("EVENTSITE_TEST_TITLE"))
	t.Setenv("EVENTSITE_TEST_ONLY_SHARED", "")
	require.NoError(t, os.Unsetenv("EVENTSITE_TEST_ONLY_SHARED"))
	require.NoError(t, os.WriteFile("eventsite.yaml", []byte("site:\n  title: ${EVENTSITE_TEST_TITLE}\n"), 0o600))

	cfg, err := Load("eventsite.yaml")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Site.Title)
	assert.Equal(t, []string{".env.local", ".env"}, cfg.EnvFiles)
	assert.Equal(t, "yes", os.Getenv("EVENTSITE_TEST_ONLY_SHARED"))
}

func TestLoadOrDefault_ReportsEnvFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("EVENTSITE_TEST_UNUSED=1\n"), 0o600))
	t.Setenv("EVENTSITE_TEST_UNUSED", "")
	require.NoError(t, os.Unsetenv("EVENTSITE_TEST_UNUSED"))

	cfg, err := LoadOrDefault(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, cfg.Site.Title)
	assert.Equal(t, []string{".env"}, cfg.EnvFiles)
}

func TestLogLevel_Slog(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.Slog().String())
	assert.Equal(t, "WARN", NormalizeLogLevel("warning").Slog().String())
	assert.Equal(t, "INFO", NormalizeLogLevel("bogus").Slog().String())
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON "))
}
