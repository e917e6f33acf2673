// Package slug derives canonical URL paths from display names.
//
// Slugify is pure and total: every input string maps to a path, the worst case
// being the base path itself.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedSlashes = regexp.MustCompile(`//+`)
)

// Slugify maps name onto a URL path under basePath.
//
// The name is lower-cased, every run of characters outside [a-z0-9] becomes a
// single hyphen, and leading or trailing hyphens are dropped. The result is joined
// as "/<basePath>/<slug>" with repeated slashes collapsed, so
// Slugify("Annual Tech Conference", "/") is "/annual-tech-conference" and a name
// without any ASCII letter or digit yields "/".
func Slugify(name, basePath string) string {
	return Join(basePath, Text(name))
}

// Text returns the bare slug text of name, without any path.
// Text is idempotent: Text(Text(n)) == Text(n).
func Text(name string) string {
	s := strings.ToLower(name)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Join places slug text under basePath and collapses repeated separators.
func Join(basePath, text string) string {
	return repeatedSlashes.ReplaceAllString("/"+basePath+"/"+text, "/")
}

// Slugger is a configurable Slugify. The zero value behaves exactly like Slugify.
type Slugger struct {
	BasePath string
	// FoldDiacritics strips combining marks before slugging, so "Café" becomes
	// "cafe" instead of "caf". Letters without an ASCII decomposition are still
	// separators.
	FoldDiacritics bool
}

// Slug returns the URL path for name.
func (s Slugger) Slug(name string) string {
	if s.FoldDiacritics {
		name = foldDiacritics(name)
	}
	return Slugify(name, s.BasePath)
}

func foldDiacritics(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		return name
	}
	return folded
}
