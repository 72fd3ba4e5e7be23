package payrate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/payrate"
)

func TestSplitShift(t *testing.T) {
	tests := []struct {
		name       string
		shift      payrate.ShiftInput
		wantDates  []generic.Date
		wantMinute []int
	}{
		{"same day", shift(monday, "09:00", "17:00"), []generic.Date{monday}, []int{480}},
		{"across midnight", shift(monday, "22:00", "06:00"), []generic.Date{monday, tuesday}, []int{120, 360}},
		{"ends at midnight", shift(monday, "22:00", "00:00"), []generic.Date{monday}, []int{120}},
		{"ends at 24:00", shift(monday, "22:00", "24:00"), []generic.Date{monday}, []int{120}},
		{"starts at midnight", shift(monday, "00:00", "08:00"), []generic.Date{tuesday}, []int{480}},
		{"almost a full day", shift(monday, "09:00", "08:59"), []generic.Date{monday, tuesday}, []int{900, 539}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := payrate.SplitShift(tt.shift)
			require.NoError(t, err)
			require.Len(t, segs, len(tt.wantDates))
			for i, seg := range segs {
				assert.True(t, tt.wantDates[i].Equal(seg.Date), "segment %d date %s", i, seg.Date)
				assert.Equal(t, tt.wantMinute[i], seg.Minutes(), "segment %d", i)
				assert.Greater(t, seg.Minutes(), 0)
			}
		})
	}
}

func TestSplitShift_ZeroLength(t *testing.T) {
	_, err := payrate.SplitShift(shift(monday, "10:00", "10:00"))
	assert.True(t, generic.IsClientError(err))
}

func TestClassify(t *testing.T) {
	seg := func(date generic.Date, start, end string) payrate.Segment {
		s, _ := generic.ParseClock(start)
		e, _ := generic.ParseClock(end)
		return payrate.Segment{Date: date, Start: s, End: e}
	}

	tests := []struct {
		name    string
		seg     payrate.Segment
		holiday bool
		want    payrate.Band
	}{
		{"weekday day", seg(monday, "09:00", "17:00"), false, payrate.BandWeekdayDay},
		{"ends exactly 20:00", seg(monday, "12:00", "20:00"), false, payrate.BandWeekdayDay},
		{"ends 20:01", seg(monday, "12:00", "20:01"), false, payrate.BandWeekdayEvening},
		{"starts at 20:00", seg(monday, "20:00", "23:00"), false, payrate.BandWeekdayEvening},
		{"early morning", seg(tuesday, "00:00", "06:00"), false, payrate.BandWeekdayNight},
		{"past 06:00 is day", seg(tuesday, "00:00", "07:30"), false, payrate.BandWeekdayDay},
		{"saturday", seg(saturday, "00:00", "06:00"), false, payrate.BandSaturday},
		{"sunday evening", seg(sunday, "20:00", "24:00"), false, payrate.BandSunday},
		{"holiday beats weekend", seg(sunday, "09:00", "17:00"), true, payrate.BandPublicHoliday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payrate.Classify(tt.seg, tt.holiday))
		})
	}
}

func TestParseShift(t *testing.T) {
	three := 3.0
	s, err := payrate.ParseShift(payrate.ShiftFields{
		Date: "2025-06-13", StartTime: "22:00", EndTime: "06:00",
		IsSleepover: true, WakeHours: &three,
	})
	require.NoError(t, err)
	assert.True(t, s.Date.Equal(friday))
	assert.Equal(t, generic.Clock(22, 0), s.Start)
	assert.True(t, s.CrossesMidnight())
	assert.Equal(t, 480, s.DurationMinutes())
	assertDecimal(t, "1", s.ExtraWakeHours())
}

func sleepoverFields(wake float64) payrate.ShiftFields {
	return payrate.ShiftFields{Date: "2025-06-16", StartTime: "22:00", EndTime: "06:00", IsSleepover: true, WakeHours: &wake}
}

func TestParseShift_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		fields payrate.ShiftFields
	}{
		{"hour out of range", payrate.ShiftFields{Date: "2025-06-16", StartTime: "25:00", EndTime: "06:00"}},
		{"single digit hour", payrate.ShiftFields{Date: "2025-06-16", StartTime: "9:00", EndTime: "17:00"}},
		{"letters", payrate.ShiftFields{Date: "2025-06-16", StartTime: "ab:cd", EndTime: "17:00"}},
		{"minute out of range", payrate.ShiftFields{Date: "2025-06-16", StartTime: "09:60", EndTime: "17:00"}},
		{"bad date", payrate.ShiftFields{Date: "2025-13-01", StartTime: "09:00", EndTime: "17:00"}},
		{"missing end", payrate.ShiftFields{Date: "2025-06-16", StartTime: "09:00"}},
		{"zero length", payrate.ShiftFields{Date: "2025-06-16", StartTime: "09:00", EndTime: "09:00"}},
		{"wake hours NaN", sleepoverFields(math.NaN())},
		{"wake hours infinite", sleepoverFields(math.Inf(1))},
		{"wake hours negative infinite", sleepoverFields(math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payrate.ParseShift(tt.fields)
			require.Error(t, err)
			assert.True(t, generic.IsClientError(err), "got %v", err)
		})
	}
}

func TestParseBand(t *testing.T) {
	b, err := payrate.ParseBand("sleepover_default")
	require.NoError(t, err)
	assert.Equal(t, payrate.BandSleepover, b)
	assert.False(t, b.IsHourly())

	_, err = payrate.ParseBand("overtime")
	assert.True(t, generic.IsClientError(err))
}
