// Package bootstrap prepares the local filesystem before a build starts.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
	"git.home.luguber.info/inful/eventsite/internal/logfields"
)

// EnsureDataDir makes sure the data directory exists, creating it when missing.
// It reports whether the directory was created.
func EnsureDataDir(dir string, logger *slog.Logger) (bool, error) {
	if dir == "" {
		return false, errors.ConfigError("data directory is not configured").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		logger.Debug("Data directory present", logfields.Path(dir))
		return false, nil
	case err == nil:
		return false, errors.NewError(errors.CategoryFileSystem, "data path exists but is not a directory").
			Fatal().
			WithContext("path", dir).
			Build()
	case !os.IsNotExist(err):
		return false, errors.WrapError(err, errors.CategoryFileSystem, "stat data directory").
			WithContext("path", dir).
			Build()
	}

	logger.Info(fmt.Sprintf("creating the %s directory. . .", dir), logfields.Path(dir))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "create data directory").
			WithContext("path", dir).
			Build()
	}
	return true, nil
}
