package rotation_test

import (
	"testing"
	"time"

	"github.com/meridian/rotation-engine/rotation"
)

func TestParseCalendarDate_AcceptedFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want rotation.Date
	}{
		{"2024-03-10", rotation.NewDate(2024, time.March, 10)},
		{"2024-03-10T08:30:00Z", rotation.NewDate(2024, time.March, 10)},
		{"2024-03-10T08:30:00", rotation.NewDate(2024, time.March, 10)},
		{"10/03/2024", rotation.NewDate(2024, time.March, 10)},
	}

	for _, tc := range cases {
		got, ok := rotation.ParseCalendarDate(tc.raw)
		if !ok {
			t.Errorf("ParseCalendarDate(%q) not ok", tc.raw)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseCalendarDate(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseCalendarDate_GarbageIsAbsence(t *testing.T) {
	// Unparseable input means "unknown", never an error.
	for _, raw := range []string{"", "n/a", "TBC", "2024-13-45", "March-ish"} {
		if _, ok := rotation.ParseCalendarDate(raw); ok {
			t.Errorf("ParseCalendarDate(%q) unexpectedly ok", raw)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	mar10 := rotation.NewDate(2024, time.March, 10)
	mar20 := rotation.NewDate(2024, time.March, 20)

	if got := rotation.DaysBetween(mar10, mar20); got != 10 {
		t.Errorf("DaysBetween = %d, want 10", got)
	}
	if got := rotation.DaysBetween(mar10, mar10); got != 0 {
		t.Errorf("same-day DaysBetween = %d, want 0", got)
	}
	// Floored at zero, never negative.
	if got := rotation.DaysBetween(mar20, mar10); got != 0 {
		t.Errorf("reversed DaysBetween = %d, want 0", got)
	}
}

func TestMonthPeriod(t *testing.T) {
	feb := rotation.MonthPeriod(2024, time.February)

	if !feb.Start.Equal(rotation.NewDate(2024, time.February, 1)) {
		t.Errorf("start = %s", feb.Start)
	}
	// 2024 is a leap year.
	if !feb.End.Equal(rotation.NewDate(2024, time.February, 29)) {
		t.Errorf("end = %s", feb.End)
	}

	if !feb.Contains(rotation.NewDate(2024, time.February, 29)) {
		t.Error("period should contain its last day")
	}
	if feb.Contains(rotation.NewDate(2024, time.March, 1)) {
		t.Error("period should not contain the next month")
	}
}

func TestParseReliefTag(t *testing.T) {
	cases := []struct {
		name     string
		wantBase string
		wantSeq  int
		wantKind rotation.ReliefKind
	}{
		{"JOHN DOE", "JOHN DOE", 0, rotation.ReliefNone},
		{"JOHN DOE (R1)", "JOHN DOE", 1, rotation.ReliefRelief},
		{"JOHN DOE (R2)", "JOHN DOE", 2, rotation.ReliefRelief},
		{"JANE ROE (S)", "JANE ROE", 1, rotation.ReliefStandby},
		{"JANE ROE (S3)", "JANE ROE", 3, rotation.ReliefStandby},
		{"O'BRIEN (RETIRED)", "O'BRIEN (RETIRED)", 0, rotation.ReliefNone},
	}

	for _, tc := range cases {
		base, seq, kind := rotation.ParseReliefTag(tc.name)
		if base != tc.wantBase || seq != tc.wantSeq || kind != tc.wantKind {
			t.Errorf("ParseReliefTag(%q) = (%q, %d, %q), want (%q, %d, %q)",
				tc.name, base, seq, kind, tc.wantBase, tc.wantSeq, tc.wantKind)
		}
	}
}
