package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day without a time component
// =============================================================================

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// Date is a calendar day, always normalised to UTC midnight.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InputError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) IsWeekend() bool       { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) String() string        { return d.Time.Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CLOCK TIME - Wall-clock minute of the day
// =============================================================================

// ClockTime is a wall-clock time as minutes since midnight.
// Valid values are 0 (00:00) through MinutesPerDay (24:00).
type ClockTime int

const (
	Midnight ClockTime = 0
	EndOfDay ClockTime = MinutesPerDay
)

// Clock builds a ClockTime from hours and minutes.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*MinutesPerHour + minute)
}

// ParseClock parses a strict "HH:MM" string. "24:00" is accepted and means
// the end of the day.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &InputError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM {
		return 0, &InputError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, &InputError{Field: "time", Value: s, Reason: "out of range"}
	}
	return Clock(h, m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (c ClockTime) Minutes() int { return int(c) }
func (c ClockTime) Hour() int    { return int(c) / MinutesPerHour }
func (c ClockTime) Minute() int  { return int(c) % MinutesPerHour }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a public holiday definition. Exactly one of Date or Rule is set:
// Date for a one-off holiday, Rule (an RFC 5545 RRULE) for a recurring one.
type Holiday struct {
	ID        string
	Name      string
	Date      Date
	Rule      string
	CreatedAt time.Time
}

// IsRecurring reports whether the holiday is defined by a rule.
func (h Holiday) IsRecurring() bool { return h.Rule != "" }

// HolidayCalendar answers public holiday lookups.
type HolidayCalendar interface {
	// IsHoliday reports whether date is a public holiday.
	IsHoliday(date Date) bool

	// Occurrences returns every holiday falling in the given year.
	Occurrences(year int) []HolidayOccurrence
}

// HolidayOccurrence is one dated instance of a Holiday.
type HolidayOccurrence struct {
	HolidayID string
	Name      string
	Date      Date
}

// NoHolidays is a calendar with no holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool                 { return false }
func (NoHolidays) Occurrences(int) []HolidayOccurrence { return nil }

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to Date) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
func StartOfYear(year int) Date     { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date       { return NewDate(year, time.December, 31) }
