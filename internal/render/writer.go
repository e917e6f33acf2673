package render

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

// OutputFile maps a route path to its index.html below outDir. The route path
// must not climb out of outDir.
func OutputFile(outDir, routePath string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(routePath, "/")))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.ValidationError("route path escapes output directory").
			WithContext("route", routePath).
			Build()
	}

	full := filepath.Join(outDir, rel, "index.html")
	check, err := filepath.Rel(outDir, full)
	if err != nil || strings.HasPrefix(check, "..") {
		return "", errors.ValidationError("route path escapes output directory").
			WithContext("route", routePath).
			Build()
	}
	return full, nil
}

// WritePage writes content for routePath and returns the file written. Existing
// pages are replaced.
func WritePage(outDir, routePath string, content []byte) (string, error) {
	full, err := OutputFile(outDir, routePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create page directory").
			WithContext("path", filepath.Dir(full)).
			Build()
	}
	// #nosec G306 -- generated pages are meant to be served.
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "write page").
			WithContext("file", full).
			Build()
	}
	return full, nil
}

// Clean removes outDir and recreates it empty. The filesystem root and the
// working directory are refused.
func Clean(outDir string) error {
	cleaned := filepath.Clean(outDir)
	if outDir == "" || cleaned == "." || cleaned == string(filepath.Separator) {
		return errors.ConfigError("refusing to clean output directory").
			WithContext("path", outDir).
			Build()
	}
	if err := os.RemoveAll(cleaned); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "remove output directory").
			WithContext("path", cleaned).
			Build()
	}
	if err := os.MkdirAll(cleaned, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", cleaned).
			Build()
	}
	return nil
}
