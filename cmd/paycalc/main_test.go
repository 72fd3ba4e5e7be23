package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/api"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculate_PrintsRoundedJSON(t *testing.T) {
	out, err := execute(t, "calculate", "--date", "2025-06-16", "--start", "12:00", "--end", "20:01")
	require.NoError(t, err)

	var res api.PayResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "356.74", res.TotalPay)
	require.Len(t, res.PayLines, 1, "one segment, priced whole at the evening rate")
	assert.Equal(t, "weekday_evening", res.PayLines[0].Band)
}

func TestCalculate_RejectsNonFiniteWakeHours(t *testing.T) {
	for _, wake := range []string{"NaN", "+Inf", "-Inf"} {
		t.Run(wake, func(t *testing.T) {
			_, err := execute(t, "calculate", "--date", "2025-06-16", "--start", "22:00", "--end", "06:00",
				"--sleepover", "--wake="+wake)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "wake_hours")
		})
	}
}

func TestCalculate_Sleepover(t *testing.T) {
	out, err := execute(t, "calculate", "--date", "2025-06-16", "--start", "22:00", "--end", "06:00",
		"--sleepover", "--wake", "3.5")
	require.NoError(t, err)

	var res api.PayResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "247.75", res.TotalPay)
	assert.Equal(t, "411.33", res.NDISTotalCharge)
}

func TestCalculate_HolidayCalendarCanBeDisabled(t *testing.T) {
	// Christmas Day 2025 is a Thursday
	out, err := execute(t, "calculate", "--date", "2025-12-25", "--start", "09:00", "--end", "17:00")
	require.NoError(t, err)
	var res api.PayResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "760.00", res.TotalPay)

	out, err = execute(t, "calculate", "--date", "2025-12-25", "--start", "09:00", "--end", "17:00", "--no-holidays")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "336.00", res.TotalPay)
}

func TestCalculate_RejectsInvalidShift(t *testing.T) {
	_, err := execute(t, "calculate", "--date", "2025-06-16", "--start", "09:00", "--end", "09:00")
	assert.Error(t, err)

	_, err = execute(t, "calculate", "--date", "2025-06-16", "--start", "09:00")
	assert.Error(t, err)
}

func TestRates_UsesRateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: test\nstaff:\n  weekday_day: \"50.00\"\n"), 0o644))

	out, err := execute(t, "rates", "--rates", path)
	require.NoError(t, err)

	var rates api.RatesDTO
	require.NoError(t, json.Unmarshal([]byte(out), &rates))
	assert.Equal(t, "test", rates.Name)
	assert.Equal(t, map[string]string{"weekday_day": "50.00"}, rates.Staff)
	assert.Empty(t, rates.NDIS)

	// A Saturday shift cannot be priced with this file
	_, err = execute(t, "calculate", "--rates", path, "--date", "2025-06-21", "--start", "09:00", "--end", "17:00")
	assert.Error(t, err)
}
