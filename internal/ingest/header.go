package ingest

import (
	"sort"
	"strings"
)

// Header is one non-empty cell of the header row.
type Header struct {
	Col  int
	Text string
}

// Synonym sets for the logical columns of an attendance sheet.
var (
	NameTerms   = []string{"name", "employeename", "empname", "employee name", "staffname", "staff name", "fullname"}
	AttendTerms = []string{"attend", "attendance", "req/act", "reqact", "required/actual", "requiredactual", "attendreqact"}
	SerialTerms = []string{"no", "sno", "s.no", "slno", "sl.no", "srno", "sr.no", "serial", "serialno", "#"}
	AbsentTerms = []string{"ab", "absent", "absentdays", "absence", "absences"}
)

var headerNoise = strings.NewReplacer(
	"(", "", ")", "",
	"[", "", "]", "",
	"{", "", "}", "",
	"/", "", "\\", "",
)

func normalizeHeader(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = headerNoise.Replace(s)
	return strings.Join(strings.Fields(s), "")
}

// HeadersFromRow collects the non-empty cells of a header row, left to right.
func HeadersFromRow(row []string) []Header {
	headers := make([]Header, 0, len(row))
	for i, text := range row {
		if strings.TrimSpace(text) == "" {
			continue
		}
		headers = append(headers, Header{Col: i, Text: text})
	}
	sort.SliceStable(headers, func(a, b int) bool { return headers[a].Col < headers[b].Col })
	return headers
}

// ResolveColumn finds the column whose header best matches one of terms.
//
// An exact match on any header wins outright, scanning left to right. Only
// when no header matches exactly is substring containment considered, and
// then the longest matching term wins; ties keep the leftmost column.
func ResolveColumn(headers []Header, terms []string) (int, bool) {
	folded := make([]string, 0, len(terms))
	for _, term := range terms {
		if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
			folded = append(folded, t)
		}
	}

	if col, ok := exactColumn(headers, folded); ok {
		return col, true
	}
	return containedColumn(headers, folded)
}

func exactColumn(headers []Header, terms []string) (int, bool) {
	for _, h := range headers {
		norm := normalizeHeader(h.Text)
		raw := strings.ToLower(strings.TrimSpace(h.Text))
		for _, term := range terms {
			if norm == term || raw == term {
				return h.Col, true
			}
		}
	}
	return 0, false
}

func containedColumn(headers []Header, terms []string) (int, bool) {
	best, bestScore := 0, 0
	for _, h := range headers {
		norm := normalizeHeader(h.Text)
		raw := strings.ToLower(strings.TrimSpace(h.Text))
		for _, term := range terms {
			if !strings.Contains(norm, term) && !strings.Contains(raw, term) {
				continue
			}
			if score := len(term); score > bestScore {
				best, bestScore = h.Col, score
			}
		}
	}
	return best, bestScore > 0
}
