/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Stateless calculation and its error statuses
- Shift CRUD and pay history
- Rate updates and missing bands
- Timesheets and holidays
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/generic/store"
	"github.com/warp/shift-pay-engine/holiday"
	"github.com/warp/shift-pay-engine/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := roster.NewService(store.NewTxMemory(), roster.WithClock(func() time.Time {
		return time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, svc.Init(context.Background(), nil, holiday.DefaultRules()))
	return NewRouter(NewHandler(svc, nil), nil)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func shiftBody(date, start, end string) map[string]any {
	return map[string]any{"date": date, "start_time": start, "end_time": end}
}

func createShift(t *testing.T, router http.Handler, worker, date, start, end string) EntryDTO {
	t.Helper()
	body := shiftBody(date, start, end)
	body["worker_id"] = worker
	body["client_id"] = "client-1"
	rec := do(t, router, http.MethodPost, "/api/shifts", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[EntryDTO](t, rec)
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestCalculate_WeekdayShift(t *testing.T) {
	// GIVEN: Default rates
	router := newTestRouter(t)

	// WHEN: Pricing Monday 09:00-17:00
	rec := do(t, router, http.MethodPost, "/api/calculate", shiftBody("2025-06-16", "09:00", "17:00"))

	// THEN: 8 hours at the weekday day rate, billed at the matching NDIS item
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[PayResultDTO](t, rec)
	assert.Equal(t, "8.00", res.HoursWorked)
	assert.Equal(t, "336.00", res.TotalPay)
	assert.Equal(t, "540.48", res.NDISTotalCharge)
	assert.Equal(t, "0.00", res.NDISShiftCharge)
	assert.Equal(t, "01_011_0107_1_1", res.NDISLineItemCode)
	require.Len(t, res.PayLines, 1)
	assert.Equal(t, "weekday_day", res.PayLines[0].Band)
	assert.Equal(t, 1, res.RatesVersion)
}

func TestCalculate_EveningCrossover(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", shiftBody("2025-06-16", "12:00", "20:01"))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[PayResultDTO](t, rec)
	assert.Equal(t, "356.74", res.TotalPay)
}

func TestCalculate_Sleepover(t *testing.T) {
	router := newTestRouter(t)
	body := shiftBody("2025-06-16", "22:00", "06:00")
	body["is_sleepover"] = true
	body["wake_hours"] = 3.5

	rec := do(t, router, http.MethodPost, "/api/calculate", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[PayResultDTO](t, rec)
	assert.Equal(t, "8.00", res.HoursWorked)
	assert.Equal(t, "0.00", res.BasePay)
	assert.Equal(t, "175.00", res.SleepoverAllowance)
	assert.Equal(t, "72.75", res.WakePay)
	assert.Equal(t, "247.75", res.TotalPay)
	assert.Equal(t, "297.60", res.NDISShiftCharge)
	assert.Equal(t, "113.73", res.NDISHourlyCharge)
	assert.Equal(t, "411.33", res.NDISTotalCharge)
}

func TestCalculate_DefaultHolidayCalendar(t *testing.T) {
	// GIVEN: Christmas Day 2025 is seeded as a recurring holiday
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", shiftBody("2025-12-25", "09:00", "17:00"))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[PayResultDTO](t, rec)
	assert.Equal(t, "760.00", res.TotalPay)
	assert.Equal(t, "public_holiday", res.PayLines[0].Band)
}

func TestCalculate_RejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"hour out of range", shiftBody("2025-06-16", "25:00", "17:00")},
		{"zero length", shiftBody("2025-06-16", "09:00", "09:00")},
		{"bad date", shiftBody("16/06/2025", "09:00", "17:00")},
		{"malformed json", `{"date":`},
		{"unknown field", `{"date":"2025-06-16","start_time":"09:00","end_time":"17:00","rate":99}`},
		{"wake hours on active shift", map[string]any{
			"date": "2025-06-16", "start_time": "09:00", "end_time": "17:00", "wake_hours": 1.0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCalculate_ValidationDetailsUseJSONNames(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", map[string]any{"date": "2025-06-16"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}](t, rec)
	assert.Equal(t, "required", resp.Details["start_time"])
	assert.Equal(t, "required", resp.Details["end_time"])
}

// =============================================================================
// RATES
// =============================================================================

func TestRates_PutCreatesVersionAndMissingBandIs422(t *testing.T) {
	// GIVEN: A rate file that only covers weekday daytime
	router := newTestRouter(t)
	rates := `{
		"name": "weekday only",
		"staff": {"weekday_day": "50.00"},
		"ndis": {"weekday_day": {"code": "01_011_0107_1_1", "rate": "70.00"}}
	}`

	// WHEN: It is uploaded
	rec := do(t, router, http.MethodPut, "/api/rates", rates)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decodeBody[map[string]any](t, rec)["rates_version"])

	// THEN: Covered shifts use the new rates
	rec = do(t, router, http.MethodPost, "/api/calculate", shiftBody("2025-06-16", "09:00", "17:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[PayResultDTO](t, rec)
	assert.Equal(t, "400.00", res.TotalPay)
	assert.Equal(t, "560.00", res.NDISTotalCharge)

	// AND: A Saturday shift cannot be priced
	rec = do(t, router, http.MethodPost, "/api/calculate", shiftBody("2025-06-21", "09:00", "17:00"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// AND: Both versions are listed
	rec = do(t, router, http.MethodGet, "/api/rates/versions", nil)
	versions := decodeBody[map[string][]RateVersionDTO](t, rec)["versions"]
	require.Len(t, versions, 2)
	assert.Equal(t, "weekday only", versions[1].Name)
}

func TestRates_GetDefaults(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/rates", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	rates := decodeBody[RatesDTO](t, rec)
	assert.Equal(t, "42.00", rates.Staff["weekday_day"])
	assert.Equal(t, "175.00", rates.Staff["sleepover_default"])
	assert.Equal(t, "297.60", rates.NDIS["sleepover_default"].Rate)
	assert.Equal(t, "each", rates.NDIS["sleepover_default"].Unit)
}

func TestRates_PutRejectsUnknownBand(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/rates", `{"name":"x","staff":{"overtime":"80"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestShifts_CreateGetUpdateHistory(t *testing.T) {
	// GIVEN: A stored Monday shift
	router := newTestRouter(t)
	entry := createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")
	require.NotNil(t, entry.Pay)
	assert.Equal(t, "336.00", entry.Pay.TotalPay)
	assert.Equal(t, "created", entry.Pay.Reason)

	// WHEN: The shift is extended into the evening
	rec := do(t, router, http.MethodPut, "/api/shifts/"+entry.ID, shiftBody("2025-06-16", "12:00", "20:01"))

	// THEN: It is fully recalculated
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[EntryDTO](t, rec)
	assert.Equal(t, "356.74", updated.Pay.TotalPay)
	assert.Equal(t, "worker-1", updated.WorkerID)

	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20:01", decodeBody[EntryDTO](t, rec).EndTime)

	// AND: History keeps both calculations
	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[map[string][]PayRecordDTO](t, rec)["history"]
	require.Len(t, history, 2)
	assert.Equal(t, "336.00", history[0].TotalPay)
	assert.Equal(t, "edited", history[1].Reason)
}

func TestShifts_ListFilters(t *testing.T) {
	router := newTestRouter(t)
	createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")
	createShift(t, router, "worker-1", "2025-06-18", "09:00", "17:00")
	createShift(t, router, "worker-2", "2025-06-16", "09:00", "17:00")

	rec := do(t, router, http.MethodGet, "/api/shifts?worker_id=worker-1&from=2025-06-17", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	shifts := decodeBody[map[string][]EntryDTO](t, rec)["shifts"]
	require.Len(t, shifts, 1)
	assert.Equal(t, "2025-06-18", shifts[0].Date)

	rec = do(t, router, http.MethodGet, "/api/shifts?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShifts_CreateRequiresWorker(t *testing.T) {
	router := newTestRouter(t)
	body := shiftBody("2025-06-16", "09:00", "17:00")
	body["client_id"] = "client-1"

	rec := do(t, router, http.MethodPost, "/api/shifts", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShifts_DeleteKeepsHistory(t *testing.T) {
	router := newTestRouter(t)
	entry := createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")

	rec := do(t, router, http.MethodDelete, "/api/shifts/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[map[string][]PayRecordDTO](t, rec)["history"], 1)
}

func TestShifts_NotFound(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/shifts/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/shifts/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/shifts/nope/history", nil).Code)
}

// =============================================================================
// TIMESHEETS
// =============================================================================

func TestTimesheet_TotalsPeriod(t *testing.T) {
	router := newTestRouter(t)
	createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")
	createShift(t, router, "worker-1", "2025-06-17", "09:00", "17:00")
	createShift(t, router, "worker-1", "2025-06-30", "09:00", "17:00")

	rec := do(t, router, http.MethodGet, "/api/workers/worker-1/timesheet?from=2025-06-16&to=2025-06-22", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ts := decodeBody[TimesheetDTO](t, rec)
	assert.Equal(t, "16.00", ts.HoursWorked)
	assert.Equal(t, "672.00", ts.TotalPay)
	assert.Equal(t, "1080.96", ts.NDISTotalCharge)
	assert.Equal(t, "16.00", ts.BandHours["weekday_day"])
	assert.Len(t, ts.Lines, 2)
}

func TestTimesheet_PayPeriod(t *testing.T) {
	// GIVEN: The default fortnightly cycle anchored on Monday 6 January 2025
	router := newTestRouter(t)
	createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")
	createShift(t, router, "worker-1", "2025-06-17", "09:00", "17:00")
	createShift(t, router, "worker-1", "2025-06-23", "09:00", "17:00")

	// WHEN: Asking for the period containing Wednesday 18 June
	rec := do(t, router, http.MethodGet, "/api/workers/worker-1/timesheet?date=2025-06-18", nil)

	// THEN: The fortnight 9-22 June is totalled
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ts := decodeBody[TimesheetDTO](t, rec)
	assert.Equal(t, "2025-06-09", ts.From)
	assert.Equal(t, "2025-06-22", ts.To)
	assert.Equal(t, "672.00", ts.TotalPay)
	assert.Len(t, ts.Lines, 2)
}

func TestTimesheet_RequiresRange(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/workers/worker-1/timesheet?from=2025-06-16", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/workers/worker-1/timesheet?from=2025-06-22&to=2025-06-16", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays_OccurrencesForYear(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/holidays?year=2025", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Year     int                    `json:"year"`
		Holidays []HolidayOccurrenceDTO `json:"holidays"`
	}](t, rec)
	assert.Equal(t, 2025, body.Year)
	var dates []string
	for _, o := range body.Holidays {
		dates = append(dates, o.Date)
	}
	assert.Contains(t, dates, "2025-06-09")
	assert.Contains(t, dates, "2025-12-25")

	rec = do(t, router, http.MethodGet, "/api/holidays?year=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHolidays_AddRepricesAndDelete(t *testing.T) {
	// GIVEN: A stored Monday shift
	router := newTestRouter(t)
	entry := createShift(t, router, "worker-1", "2025-06-16", "09:00", "17:00")

	// WHEN: Monday is declared a public holiday
	rec := do(t, router, http.MethodPost, "/api/holidays", map[string]any{"name": "Show Day", "date": "2025-06-16"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hol := decodeBody[HolidayDTO](t, rec)
	assert.NotEmpty(t, hol.ID)

	// THEN: The shift is repriced at the public holiday rate
	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "760.00", decodeBody[EntryDTO](t, rec).Pay.TotalPay)

	// WHEN: The holiday is removed
	rec = do(t, router, http.MethodDelete, "/api/holidays/"+hol.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: The weekday rate applies again
	rec = do(t, router, http.MethodGet, "/api/shifts/"+entry.ID, nil)
	assert.Equal(t, "336.00", decodeBody[EntryDTO](t, rec).Pay.TotalPay)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/holidays/"+hol.ID, nil).Code)
}

func TestHolidays_RejectsDateAndRule(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/holidays", map[string]any{
		"name": "Both", "date": "2025-06-16", "rule": "FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=16",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/holidays", map[string]any{"name": "Bad", "rule": "FREQ=SOMETIMES"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]any](t, rec)["status"])
}
