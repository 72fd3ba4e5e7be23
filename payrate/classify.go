package payrate

import (
	"time"

	"github.com/warp/shift-pay-engine/generic"
)

// Weekday band boundaries.
var (
	DayStart     = generic.Clock(6, 0)
	EveningStart = generic.Clock(20, 0)
)

// Classify returns the pay band for one segment. First match wins:
// public holiday, Saturday, Sunday, then the weekday clock rules.
//
// Weekday rules compare whole minutes exactly. A segment ending at 20:00 is
// weekday_day; one ending at 20:01 is weekday_evening for its full length.
func Classify(seg Segment, publicHoliday bool) Band {
	if publicHoliday {
		return BandPublicHoliday
	}
	switch seg.Date.Weekday() {
	case time.Saturday:
		return BandSaturday
	case time.Sunday:
		return BandSunday
	}
	return classifyWeekday(seg)
}

func classifyWeekday(seg Segment) Band {
	if seg.Start >= EveningStart || seg.End > EveningStart {
		return BandWeekdayEvening
	}
	if seg.End <= DayStart {
		return BandWeekdayNight
	}
	return BandWeekdayDay
}

// isHoliday combines the shift flag with an optional calendar.
func isHoliday(shift ShiftInput, seg Segment, cal generic.HolidayCalendar) bool {
	if shift.IsPublicHoliday {
		return true
	}
	return cal != nil && cal.IsHoliday(seg.Date)
}
