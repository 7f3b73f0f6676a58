package rotation

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar instant
// =============================================================================

// Date is a calendar day in UTC. Rotation data has no time-of-day significance
// beyond midnight, so everything downstream works at day granularity.
type Date struct {
	t time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// dateLayouts are the formats the CRUD layer has historically written.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseCalendarDate parses a date-like string. It returns ok=false on empty
// input or any parse failure, never an error: an unparseable date means
// "unknown", and the owning cycle is simply excluded from whichever
// calculation needed it.
func ParseCalendarDate(raw string) (Date, bool) {
	if raw == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// DaysBetween returns the whole calendar days from start to end, floored at 0.
// Dates are midnight-normalized so the division is exact.
func DaysBetween(start, end Date) int {
	days := int(end.t.Sub(start.t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// =============================================================================
// PERIOD - Inclusive calendar span
// =============================================================================

// Period is an inclusive [Start, End] span of calendar days.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether the day falls within the period.
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthPeriod returns the full calendar month as a period.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}
