package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Days is the parsed content of an attendance row.
type Days struct {
	Required int
	Attended int
	Absent   int
}

// reqAct is what a single attend-cell strategy extracts. AttendedOnly marks
// a lone number that could not be split into required and attended.
type reqAct struct {
	Required     int
	Attended     int
	AttendedOnly bool
}

type attendStrategy struct {
	name  string
	parse func(text string) (reqAct, bool)
}

var (
	strictSlashPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	looseSepPattern    = regexp.MustCompile(`(\d+)\D+(\d+)`)
	digitRunPattern    = regexp.MustCompile(`\d+`)
	nonDigitPattern    = regexp.MustCompile(`\D`)
)

// attendStrategies are tried in order; the first that succeeds wins.
var attendStrategies = []attendStrategy{
	{name: "strict-slash", parse: parseStrictSlash},
	{name: "loose-separator", parse: parseLooseSeparator},
	{name: "all-numbers", parse: parseAllNumbers},
}

func parseStrictSlash(text string) (reqAct, bool) {
	m := strictSlashPattern.FindStringSubmatch(text)
	if m == nil {
		return reqAct{}, false
	}
	return pairFrom(m[1], m[2])
}

func parseLooseSeparator(text string) (reqAct, bool) {
	m := looseSepPattern.FindStringSubmatch(text)
	if m == nil {
		return reqAct{}, false
	}
	return pairFrom(m[1], m[2])
}

func parseAllNumbers(text string) (reqAct, bool) {
	nums := digitRunPattern.FindAllString(text, -1)
	switch {
	case len(nums) >= 2:
		return pairFrom(nums[0], nums[1])
	case len(nums) == 1:
		n, err := strconv.Atoi(nums[0])
		if err != nil {
			return reqAct{}, false
		}
		return reqAct{Attended: n, AttendedOnly: true}, true
	default:
		return reqAct{}, false
	}
}

func pairFrom(required, attended string) (reqAct, bool) {
	r, err := strconv.Atoi(required)
	if err != nil {
		return reqAct{}, false
	}
	a, err := strconv.Atoi(attended)
	if err != nil {
		return reqAct{}, false
	}
	return reqAct{Required: r, Attended: a}, true
}

// ParseAbsent keeps only the digits of text. Anything unparseable is 0.
func ParseAbsent(text string) int {
	digits := nonDigitPattern.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParseDays reads a "required/attended" cell and an optional absent cell.
// It never fails: text that no strategy understands yields zero days.
func ParseDays(attendText, absentText string) Days {
	attendText = strings.TrimSpace(attendText)
	days := Days{Absent: ParseAbsent(absentText)}

	var got reqAct
	for _, s := range attendStrategies {
		if v, ok := s.parse(attendText); ok {
			got = v
			break
		}
	}
	days.Required, days.Attended = got.Required, got.Attended

	if got.AttendedOnly && days.Absent > 0 {
		days.Required = days.Attended + days.Absent
	}
	if days.Required == 0 && days.Attended > 0 {
		days.Required = days.Attended + days.Absent
	}

	days.Required = max(days.Required, 0)
	days.Attended = max(days.Attended, 0)
	days.Absent = max(days.Absent, 0)
	return days
}
