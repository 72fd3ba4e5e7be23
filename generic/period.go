package generic

import "fmt"

// =============================================================================
// PERIOD - The boundary of a timesheet
// =============================================================================

// Period is an inclusive date range.
//
// Examples:
//   - Pay week: Mon 16 Jun - Sun 22 Jun 2025
//   - Pay fortnight anchored on Mon 2 Jun: 2 Jun - 15 Jun, 16 Jun - 29 Jun
//   - Calendar month: 1 Jun - 30 Jun
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the period [Start, End]
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns all days in the period.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType is a pay cycle.
type PeriodType string

const (
	PeriodWeekly      PeriodType = "weekly"
	PeriodFortnightly PeriodType = "fortnightly"
	PeriodMonthly     PeriodType = "monthly"
)

// ParsePeriodType accepts the names above.
func ParsePeriodType(s string) (PeriodType, error) {
	switch t := PeriodType(s); t {
	case PeriodWeekly, PeriodFortnightly, PeriodMonthly:
		return t, nil
	}
	return "", &InputError{Field: "period", Value: s, Reason: "expected weekly, fortnightly or monthly"}
}

// PeriodConfig defines a pay cycle.
type PeriodConfig struct {
	Type PeriodType

	// Anchor is the first day of any one period. Weekly and fortnightly
	// cycles repeat from it in both directions. Ignored for monthly.
	Anchor Date
}

// =============================================================================
// PERIOD CALCULATOR - Determines which period a date falls into
// =============================================================================

// PeriodFor returns the period that contains the given date.
func (pc PeriodConfig) PeriodFor(date Date) (Period, error) {
	switch pc.Type {
	case PeriodWeekly:
		return pc.cyclePeriod(date, 7)
	case PeriodFortnightly:
		return pc.cyclePeriod(date, 14)
	case PeriodMonthly:
		start := NewDate(date.Year(), date.Month(), 1)
		return Period{Start: start, End: Date{Time: start.Time.AddDate(0, 1, -1)}}, nil
	default:
		return Period{}, &ConfigError{Field: "period.type", Reason: fmt.Sprintf("unknown pay cycle %q", pc.Type)}
	}
}

func (pc PeriodConfig) cyclePeriod(date Date, length int) (Period, error) {
	if pc.Anchor.IsZero() {
		return Period{}, &ConfigError{Field: "period.anchor", Reason: "required for " + string(pc.Type) + " cycles"}
	}
	offset := DaysBetween(pc.Anchor, date) % length
	if offset < 0 {
		offset += length
	}
	start := date.AddDays(-offset)
	return Period{Start: start, End: start.AddDays(length - 1)}, nil
}

// NextPeriod returns the period following this one. Monthly periods
// advance by calendar month.
func (p Period) NextPeriod() Period {
	if p.isCalendarMonth() {
		start := p.End.AddDays(1)
		return Period{Start: start, End: Date{Time: start.Time.AddDate(0, 1, -1)}}
	}
	length := DaysBetween(p.Start, p.End)
	newStart := p.End.AddDays(1)
	return Period{Start: newStart, End: newStart.AddDays(length)}
}

// PreviousPeriod returns the period before this one.
func (p Period) PreviousPeriod() Period {
	if p.isCalendarMonth() {
		end := p.Start.AddDays(-1)
		return Period{Start: NewDate(end.Year(), end.Month(), 1), End: end}
	}
	length := DaysBetween(p.Start, p.End)
	newEnd := p.Start.AddDays(-1)
	return Period{Start: newEnd.AddDays(-length), End: newEnd}
}

func (p Period) isCalendarMonth() bool {
	return p.Start.Day() == 1 && p.End.AddDays(1).Day() == 1 &&
		p.Start.Month() == p.End.Month() && p.Start.Year() == p.End.Year()
}
