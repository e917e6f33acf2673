// Package frontmatter reads YAML frontmatter (`---` delimited) from Markdown files.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a Markdown file split into its frontmatter and body.
type Document struct {
	Frontmatter []byte
	Body        []byte
	// Had reports whether the input started with a frontmatter block at all.
	Had bool
}

// Split separates YAML frontmatter from the Markdown body. Both LF and CRLF
// newlines are recognized. Input without a leading delimiter is all body.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Body: content}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Document{Frontmatter: []byte{}, Body: rest[len(open):], Had: true}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return Document{Frontmatter: rest[:len(rest)-3], Body: []byte{}, Had: true}, nil
		}
		return Document{}, ErrMissingClosingDelimiter
	}
	return Document{
		Frontmatter: rest[:idx+len(nl)],
		Body:        rest[idx+len(closeSeq):],
		Had:         true,
	}, nil
}

// Decode splits content and unmarshals its frontmatter into v, returning the body.
// A document without frontmatter leaves v untouched.
func Decode(content []byte, v any) ([]byte, error) {
	doc, err := Split(content)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(doc.Frontmatter)) > 0 {
		if err := yaml.Unmarshal(doc.Frontmatter, v); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	return doc.Body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
