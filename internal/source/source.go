// Package source reads authored event records from the data directory.
//
// List files (.yml, .yaml, .json) hold a sequence of records. Markdown files hold
// one record in their frontmatter; the Markdown body becomes the description.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/frontmatter"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
)

// DefaultInclude matches every supported data file below the data directory.
var DefaultInclude = []string{"**/*.yml", "**/*.yaml", "**/*.json", "**/*.md"}

// Loader reads records from Dir. Include holds doublestar patterns relative to Dir.
type Loader struct {
	Dir     string
	Include []string
	Logger  *slog.Logger
}

// NewLoader creates a loader for dir using DefaultInclude when include is empty.
func NewLoader(dir string, include []string, logger *slog.Logger) *Loader {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Dir: dir, Include: include, Logger: logger}
}

// Load returns all records in lexical file order, keeping record order within a file.
func (l *Loader) Load(ctx context.Context) ([]event.Record, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	var records []event.Record
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(l.Dir, filepath.FromSlash(rel))
		recs, err := ReadFile(full)
		if err != nil {
			return nil, err
		}
		l.Logger.Debug("Read data file", logfields.File(full), logfields.Count(len(recs)))
		records = append(records, recs...)
	}
	return records, nil
}

// Files lists the data files matched by the include patterns, relative to Dir
// with forward slashes, sorted. Hidden files and directories are skipped.
func (l *Loader) Files() ([]string, error) {
	fsys := os.DirFS(l.Dir)
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range l.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.ConfigError("invalid include pattern").WithContext("pattern", pattern).Build()
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "list data files").
				WithContext("path", l.Dir).
				Build()
		}
		for _, m := range matches {
			if isHidden(m) {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadFile decodes the records held by one data file.
func ReadFile(file string) ([]event.Record, error) {
	// #nosec G304 -- file comes from a glob under the configured data directory.
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read data file").
			WithContext("file", file).
			Build()
	}

	var recs []event.Record
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yml", ".yaml":
		recs, err = decodeYAML(data)
	case ".json":
		recs, err = decodeJSON(data)
	case ".md":
		recs, err = decodeMarkdown(data)
	default:
		err = fmt.Errorf("unsupported data file extension %q", filepath.Ext(file))
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "decode data file").
			Fatal().
			UserAction().
			WithContext("file", file).
			Build()
	}

	for i := range recs {
		recs[i].Source = file
	}
	return recs, nil
}

func decodeYAML(data []byte) ([]event.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var recs []event.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func decodeJSON(data []byte) ([]event.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var recs []event.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func decodeMarkdown(data []byte) ([]event.Record, error) {
	var rec event.Record
	body, err := frontmatter.Decode(data, &rec)
	if err != nil {
		return nil, err
	}
	if desc := strings.TrimSpace(string(body)); desc != "" {
		rec.Description = desc
	}
	return []event.Record{rec}, nil
}

func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// Exists reports whether dir holds at least one matching data file.
func Exists(dir string, include []string) bool {
	files, err := NewLoader(dir, include, nil).Files()
	return err == nil && len(files) > 0
}

