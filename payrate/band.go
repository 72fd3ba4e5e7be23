// Package payrate implements shift pay-rate calculation.
// It splits a shift into calendar-day segments, classifies each segment into
// a pay band and prices it against an immutable rate table. NDIS client
// charges are computed in parallel from a separate catalogue.
package payrate

import "github.com/warp/shift-pay-engine/generic"

// =============================================================================
// PAY BANDS
// =============================================================================

// Band is a named pay-rate category keyed into a rate table.
type Band string

const (
	BandWeekdayDay     Band = "weekday_day"
	BandWeekdayEvening Band = "weekday_evening"
	BandWeekdayNight   Band = "weekday_night"
	BandSaturday       Band = "saturday"
	BandSunday         Band = "sunday"
	BandPublicHoliday  Band = "public_holiday"
	BandSleepover      Band = "sleepover_default" // flat amount, not hourly
)

// AllBands lists every band in display order.
var AllBands = []Band{
	BandWeekdayDay,
	BandWeekdayEvening,
	BandWeekdayNight,
	BandSaturday,
	BandSunday,
	BandPublicHoliday,
	BandSleepover,
}

// ParseBand converts a band name to a Band.
func ParseBand(s string) (Band, error) {
	b := Band(s)
	if !b.Valid() {
		return "", &generic.InputError{Field: "band", Value: s, Reason: "unknown pay band"}
	}
	return b, nil
}

// Valid reports whether b is a known band.
func (b Band) Valid() bool {
	for _, known := range AllBands {
		if b == known {
			return true
		}
	}
	return false
}

// IsHourly is false only for the flat sleepover band.
func (b Band) IsHourly() bool { return b != BandSleepover }

func (b Band) String() string { return string(b) }
