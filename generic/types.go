/*
Package generic provides the domain-agnostic core of the shift pay engine.

PURPOSE:
  This package holds the types every other package agrees on: identifiers,
  calendar dates and wall-clock times, decimal helpers, error taxonomy and
  persistence interfaces. It knows nothing about pay bands or NDIS items;
  those live in the payrate package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Identifiers: type-safe worker/client/entry/record IDs
  - Minute arithmetic: hours and prices derived from whole minutes
  - Rounding: money and hours are rounded only for display

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing worker/client IDs
  3. Late rounding: hour fractions are carried unrounded until the result
     is displayed, so a 10 minute segment at $44.50/hr costs 7.41666...

USAGE:
  hours := generic.HoursFromMinutes(90)                // 1.5
  pay := generic.PriceMinutes(10, decimal.RequireFromString("44.50"))
  display := generic.RoundMoney(pay)                   // 7.42

SEE ALSO:
  - time.go: Date and ClockTime
  - errors.go: Error taxonomy
  - store.go: Persistence interfaces
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type ClientID string
type EntryID string
type RecordID string

// =============================================================================
// MINUTE ARITHMETIC
// =============================================================================

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

var minutesPerHour = decimal.NewFromInt(MinutesPerHour)

// HoursFromMinutes converts whole minutes to decimal hours.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
}

// PriceMinutes prices a number of minutes at an hourly rate.
// The multiplication happens before the division so no hour fraction is
// rounded on the way.
func PriceMinutes(minutes int, hourly decimal.Decimal) decimal.Decimal {
	return hourly.Mul(decimal.NewFromInt(int64(minutes))).Div(minutesPerHour)
}

// PriceHours prices a decimal number of hours at an hourly rate.
func PriceHours(hours, hourly decimal.Decimal) decimal.Decimal {
	return hours.Mul(hourly)
}

// RoundMoney rounds a currency amount to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// RoundHours rounds an hour figure to hundredths.
func RoundHours(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// MustParseDecimal parses s or panics. Only for compiled-in constants.
func MustParseDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
