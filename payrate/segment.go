package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// Segment is the part of a shift that falls on a single calendar date.
// End may be 24:00.
type Segment struct {
	Date  generic.Date
	Start generic.ClockTime
	End   generic.ClockTime
}

func (s Segment) Minutes() int           { return s.End.Minutes() - s.Start.Minutes() }
func (s Segment) Hours() decimal.Decimal { return generic.HoursFromMinutes(s.Minutes()) }

// SplitShift decomposes a shift into segments, one per calendar date.
//
//   - End after Start: one segment on Date. If Start is exactly 00:00 the
//     shift belongs to the midnight that closes Date, so the segment is
//     dated Date+1.
//   - End at or before Start: [Start, 24:00) on Date and [00:00, End) on
//     Date+1. A shift ending exactly at 00:00 yields only the first.
//
// Sleepover shifts split the same way; the split only feeds HoursWorked.
func SplitShift(shift ShiftInput) ([]Segment, error) {
	if err := shift.Validate(); err != nil {
		return nil, err
	}

	if !shift.CrossesMidnight() {
		date := shift.Date
		if shift.Start == generic.Midnight {
			date = date.AddDays(1)
		}
		return []Segment{{Date: date, Start: shift.Start, End: shift.End}}, nil
	}

	segments := []Segment{{Date: shift.Date, Start: shift.Start, End: generic.EndOfDay}}
	if shift.End > generic.Midnight {
		segments = append(segments, Segment{Date: shift.Date.AddDays(1), Start: generic.Midnight, End: shift.End})
	}
	return segments, nil
}

func totalMinutes(segments []Segment) int {
	total := 0
	for _, seg := range segments {
		total += seg.Minutes()
	}
	return total
}
