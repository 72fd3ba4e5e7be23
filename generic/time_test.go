package generic_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/generic"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    generic.ClockTime
		wantErr bool
	}{
		{"00:00", generic.Midnight, false},
		{"09:05", generic.Clock(9, 5), false},
		{"23:59", generic.Clock(23, 59), false},
		{"24:00", generic.EndOfDay, false},
		{"24:01", 0, true},
		{"25:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09:00:00", 0, true},
		{"0900", 0, true},
		{"-1:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := generic.ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, generic.IsClientError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2025-06-14")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.True(t, d.IsWeekend())
	assert.Equal(t, "2025-06-15", d.AddDays(1).String())

	for _, bad := range []string{"2025-6-14", "14/06/2025", "2025-02-30", ""} {
		_, err := generic.ParseDate(bad)
		assert.True(t, generic.IsClientError(err), bad)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Date  generic.Date      `json:"date"`
		Start generic.ClockTime `json:"start"`
	}
	in := payload{Date: generic.NewDate(2025, time.December, 25), Start: generic.Clock(22, 30)}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-12-25","start":"22:30"}`, string(b))

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.Date.Equal(out.Date))
	assert.Equal(t, in.Start, out.Start)
}

func TestPriceMinutes_NoIntermediateRounding(t *testing.T) {
	// 10 minutes at $44.50/hr is 7.41666..., not 0.17h × 44.50
	got := generic.PriceMinutes(10, decimal.RequireFromString("44.50"))
	assert.True(t, decimal.RequireFromString("445").Div(decimal.NewFromInt(60)).Equal(got))
	assert.Equal(t, "7.42", generic.RoundMoney(got).StringFixed(2))
	assert.Equal(t, "1.5", generic.HoursFromMinutes(90).String())
}
