/*
calculator.go - Staff pay for a single shift

ALGORITHM:
  1. Validate the shift (zero length, wake hours rules)
  2. Split into per-date segments (segment.go)
  3. Active shift: classify each segment and price it
         amount = minutes × hourly_rate / 60
     Sleepover: pay the flat allowance plus
         max(0, wake_hours - 2) × weekday_night
  4. Sum. Nothing is rounded here; PayResult.Rounded is for display.

Rates are looked up only for the bands a shift actually touches, so a
table missing a band fails the first shift that needs it with a
MissingRateError rather than pricing that band at zero.

STAFF VS CLIENT:
  CalculatePay reads only the staff RateTable and CalculateNDIS (ndis.go)
  reads only the NDISCatalogue. Changing one table can never move the
  other side's figures. Calculator runs both and merges the result.

SEE ALSO:
  - classify.go: Band rules
  - ndis.go: Client charges
*/
package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// CalculatePay computes the worker's pay for a shift.
// holidays may be nil; the shift's own flag always applies.
func CalculatePay(shift ShiftInput, rates RateTable, holidays generic.HolidayCalendar) (StaffPay, error) {
	segments, err := SplitShift(shift)
	if err != nil {
		return StaffPay{}, err
	}
	if shift.IsSleepover {
		return sleepoverPay(shift, segments, rates)
	}

	var pay StaffPay
	pay.HoursWorked = generic.HoursFromMinutes(totalMinutes(segments))
	for _, seg := range segments {
		band := Classify(seg, isHoliday(shift, seg, holidays))
		rate, err := rates.Rate(band)
		if err != nil {
			return StaffPay{}, err
		}
		amount := generic.PriceMinutes(seg.Minutes(), rate)
		pay.PayLines = append(pay.PayLines, PayLine{
			Date:   seg.Date,
			Start:  seg.Start,
			End:    seg.End,
			Band:   band,
			Hours:  seg.Hours(),
			Rate:   rate,
			Amount: amount,
		})
		pay.BasePay = pay.BasePay.Add(amount)
	}
	pay.TotalPay = pay.BasePay
	return pay, nil
}

// sleepoverPay ignores segment bands entirely. The shift is paid as one
// allowance however the hours fall across days or holidays.
func sleepoverPay(shift ShiftInput, segments []Segment, rates RateTable) (StaffPay, error) {
	allowance, err := rates.Rate(BandSleepover)
	if err != nil {
		return StaffPay{}, err
	}

	pay := StaffPay{
		HoursWorked:        generic.HoursFromMinutes(totalMinutes(segments)),
		BasePay:            decimal.Zero,
		SleepoverAllowance: allowance,
	}
	pay.PayLines = append(pay.PayLines, PayLine{
		Date:   shift.Date,
		Start:  shift.Start,
		End:    shift.End,
		Band:   BandSleepover,
		Hours:  pay.HoursWorked,
		Rate:   allowance,
		Amount: allowance,
	})

	if extra := shift.ExtraWakeHours(); extra.IsPositive() {
		night, err := rates.Rate(BandWeekdayNight)
		if err != nil {
			return StaffPay{}, err
		}
		pay.WakePay = generic.PriceHours(extra, night)
		pay.PayLines = append(pay.PayLines, PayLine{
			Date:   shift.Date,
			Start:  shift.Start,
			End:    shift.End,
			Band:   BandWeekdayNight,
			Hours:  extra,
			Rate:   night,
			Amount: pay.WakePay,
		})
	}

	pay.TotalPay = pay.SleepoverAllowance.Add(pay.WakePay)
	return pay, nil
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator bundles the tables a calculation reads. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	Rates    RateTable
	NDIS     *NDISCatalogue         // nil skips client charges
	Holidays generic.HolidayCalendar // nil means shift flags only
}

type Option func(*Calculator)

func WithNDIS(c NDISCatalogue) Option {
	return func(calc *Calculator) { calc.NDIS = &c }
}

func WithHolidays(cal generic.HolidayCalendar) Option {
	return func(calc *Calculator) { calc.Holidays = cal }
}

func NewCalculator(rates RateTable, opts ...Option) *Calculator {
	c := &Calculator{Rates: rates}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate prices a shift for both the worker and, if a catalogue is
// configured, the client.
func (c *Calculator) Calculate(shift ShiftInput) (PayResult, error) {
	pay, err := CalculatePay(shift, c.Rates, c.Holidays)
	if err != nil {
		return PayResult{}, err
	}
	result := PayResult{StaffPay: pay}
	if c.NDIS == nil {
		return result, nil
	}
	charge, err := CalculateNDIS(shift, *c.NDIS, c.Holidays)
	if err != nil {
		return PayResult{}, err
	}
	result.NDISCharge = charge
	return result, nil
}
