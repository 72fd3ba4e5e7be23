package payrate

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// =============================================================================
// SHIFT INPUT
// =============================================================================

// IncludedWakeHours is the wake time covered by the flat sleepover allowance.
var IncludedWakeHours = decimal.NewFromInt(2)

// ShiftInput is one rostered shift.
//
// End at or before Start means the shift runs past midnight into the next
// calendar day. It is never a negative duration.
type ShiftInput struct {
	Date            generic.Date
	Start           generic.ClockTime
	End             generic.ClockTime
	IsSleepover     bool
	IsPublicHoliday bool
	WakeHours       *decimal.Decimal // sleepover only
}

// ShiftFields is the loosely typed form of a shift as it arrives from a
// form or JSON body.
type ShiftFields struct {
	Date            string
	StartTime       string
	EndTime         string
	IsSleepover     bool
	IsPublicHoliday bool
	WakeHours       *float64
}

// ParseShift converts ShiftFields into a validated ShiftInput.
func ParseShift(f ShiftFields) (ShiftInput, error) {
	date, err := generic.ParseDate(f.Date)
	if err != nil {
		return ShiftInput{}, err
	}
	start, err := generic.ParseClock(f.StartTime)
	if err != nil {
		return ShiftInput{}, &generic.InputError{Field: "start_time", Value: f.StartTime, Reason: "expected HH:MM"}
	}
	end, err := generic.ParseClock(f.EndTime)
	if err != nil {
		return ShiftInput{}, &generic.InputError{Field: "end_time", Value: f.EndTime, Reason: "expected HH:MM"}
	}

	shift := ShiftInput{
		Date:            date,
		Start:           start,
		End:             end,
		IsSleepover:     f.IsSleepover,
		IsPublicHoliday: f.IsPublicHoliday,
	}
	if f.WakeHours != nil {
		if math.IsNaN(*f.WakeHours) || math.IsInf(*f.WakeHours, 0) {
			return ShiftInput{}, &generic.InputError{Field: "wake_hours", Reason: "must be a finite number"}
		}
		wake := decimal.NewFromFloat(*f.WakeHours)
		shift.WakeHours = &wake
	}
	if err := shift.Validate(); err != nil {
		return ShiftInput{}, err
	}
	return shift, nil
}

// Validate rejects shifts that cannot be priced.
func (s ShiftInput) Validate() error {
	if s.Date.IsZero() {
		return &generic.InputError{Field: "date", Reason: "required"}
	}
	if s.Start < generic.Midnight || s.Start >= generic.EndOfDay {
		return &generic.InputError{Field: "start_time", Value: s.Start.String(), Reason: "must be between 00:00 and 23:59"}
	}
	if s.End < generic.Midnight || s.End > generic.EndOfDay {
		return &generic.InputError{Field: "end_time", Value: s.End.String(), Reason: "must be between 00:00 and 24:00"}
	}
	if s.Start == s.End {
		return &generic.InputError{Field: "end_time", Value: s.End.String(), Reason: "shift has zero length"}
	}
	if s.WakeHours == nil {
		return nil
	}
	if !s.IsSleepover {
		return &generic.InputError{Field: "wake_hours", Value: s.WakeHours.String(), Reason: "only allowed on sleepover shifts"}
	}
	if s.WakeHours.IsNegative() {
		return &generic.InputError{Field: "wake_hours", Value: s.WakeHours.String(), Reason: "must not be negative"}
	}
	if s.WakeHours.GreaterThan(generic.HoursFromMinutes(s.DurationMinutes())) {
		return &generic.InputError{Field: "wake_hours", Value: s.WakeHours.String(), Reason: "exceeds shift length"}
	}
	return nil
}

// CrossesMidnight reports whether the shift runs into the next day.
func (s ShiftInput) CrossesMidnight() bool {
	return s.End <= s.Start
}

// DurationMinutes is the wrap-around length of the shift.
func (s ShiftInput) DurationMinutes() int {
	if s.CrossesMidnight() {
		return s.End.Minutes() + generic.MinutesPerDay - s.Start.Minutes()
	}
	return s.End.Minutes() - s.Start.Minutes()
}

// ExtraWakeHours is the wake time beyond what the sleepover allowance covers.
func (s ShiftInput) ExtraWakeHours() decimal.Decimal {
	if !s.IsSleepover || s.WakeHours == nil {
		return decimal.Zero
	}
	extra := s.WakeHours.Sub(IncludedWakeHours)
	if extra.IsNegative() {
		return decimal.Zero
	}
	return extra
}
