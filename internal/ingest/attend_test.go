package ingest

import (
	"fmt"
	"testing"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		attend, absent string
		want           Days
	}{
		{"20/18", "2", Days{Required: 20, Attended: 18, Absent: 2}},
		{"20 / 18", "", Days{Required: 20, Attended: 18}},
		{"13-2", "0", Days{Required: 13, Attended: 2}},
		{"13 of 2", "", Days{Required: 13, Attended: 2}},
		{"Req 22 Act 20 (5 late)", "", Days{Required: 22, Attended: 20}},
		{"7", "2", Days{Required: 9, Attended: 7, Absent: 2}},
		{"7 days", "", Days{Required: 7, Attended: 7}},
		{"0/5", "1", Days{Required: 6, Attended: 5, Absent: 1}},
		{"abc", "3", Days{Absent: 3}},
		{"", "", Days{}},
		{"n/a", "", Days{}},
	}
	for _, tt := range tests {
		if got := ParseDays(tt.attend, tt.absent); got != tt.want {
			t.Errorf("ParseDays(%q, %q) = %+v, want %+v", tt.attend, tt.absent, got, tt.want)
		}
	}
}

func TestParseDaysSlashRoundTrip(t *testing.T) {
	for r := 0; r <= 31; r++ {
		for a := 0; a <= r; a++ {
			got := ParseDays(fmt.Sprintf("%d/%d", r, a), "")
			if got.Required != r || got.Attended != a {
				t.Fatalf("%d/%d parsed as %+v", r, a, got)
			}
		}
	}
}

func TestAttendStrategiesIndependently(t *testing.T) {
	byName := map[string]attendStrategy{}
	for _, s := range attendStrategies {
		byName[s.name] = s
	}

	tests := []struct {
		strategy string
		in       string
		want     reqAct
		ok       bool
	}{
		{"strict-slash", "20/18", reqAct{Required: 20, Attended: 18}, true},
		{"strict-slash", "20-18", reqAct{}, false},
		{"strict-slash", "x20/18", reqAct{}, false},
		{"loose-separator", "20-18", reqAct{Required: 20, Attended: 18}, true},
		{"loose-separator", "20", reqAct{}, false},
		{"all-numbers", "only 9", reqAct{Attended: 9, AttendedOnly: true}, true},
		{"all-numbers", "4 5 6", reqAct{Required: 4, Attended: 5}, true},
		{"all-numbers", "none", reqAct{}, false},
	}
	for _, tt := range tests {
		s, ok := byName[tt.strategy]
		if !ok {
			t.Fatalf("strategy %q not registered", tt.strategy)
		}
		got, ok := s.parse(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s(%q) = (%+v, %v), want (%+v, %v)", tt.strategy, tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAbsent(t *testing.T) {
	tests := map[string]int{
		"":       0,
		"0":      0,
		"3":      3,
		" 4 ":    4,
		"2 days": 2,
		"-2":     2,
		"n/a":    0,
	}
	for in, want := range tests {
		if got := ParseAbsent(in); got != want {
			t.Errorf("ParseAbsent(%q) = %d, want %d", in, got, want)
		}
	}
}
