package ingest

import (
	"regexp"
	"strings"
	"time"
)

const monthLayout = "2006-01"

var canonicalMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Layouts tried, in order, for month values that are not already YYYY-MM.
var monthInputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-1",
	"2006/01",
	"2006/1",
	"01/02/2006",
	"1/2/2006",
	"January 2006",
	"Jan 2006",
	"January, 2006",
	"Jan, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"01/2006",
	"1/2006",
}

// NormalizeMonth returns value as YYYY-MM. Empty or unparseable input falls
// back to the month of now.
func NormalizeMonth(value string, now time.Time) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return now.Format(monthLayout)
	}
	if canonicalMonth.MatchString(v) {
		return v
	}
	v = strings.Join(strings.Fields(v), " ")
	for _, layout := range monthInputLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(monthLayout)
		}
	}
	return now.Format(monthLayout)
}
