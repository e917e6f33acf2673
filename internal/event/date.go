package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Date-only values parse as midnight UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

var errEmptyDate = errors.New("empty date")

// ParseDate parses an authored date string.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD or RFC3339)", s)
}
