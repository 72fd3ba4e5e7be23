/*
handlers.go - HTTP API handlers for the shift pay engine

PURPOSE:
  Exposes the pay calculator and roster service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculation:
    POST   /api/calculate              Price one shift, store nothing

  Rates:
    GET    /api/rates                  Active rate settings
    PUT    /api/rates                  New rate version (JSON or YAML body)
    GET    /api/rates/versions         Stored versions

  Shifts:
    GET    /api/shifts                 List (worker_id, client_id, from, to)
    POST   /api/shifts                 Create and price
    GET    /api/shifts/{id}            Entry with current pay
    PUT    /api/shifts/{id}            Edit and reprice
    DELETE /api/shifts/{id}            Remove (pay history is kept)
    GET    /api/shifts/{id}/history    Every pay record, oldest first

  Workers:
    GET    /api/workers/{id}/timesheet Totals for from..to, or the pay
                                       period containing ?date=

  Holidays:
    GET    /api/holidays               Definitions, or ?year= occurrences
    POST   /api/holidays               Add (date or RRULE)
    DELETE /api/holidays/{id}          Remove

REQUEST FLOW:
  1. Decode JSON body
  2. Validate shape (validator/v10)
  3. Parse shift (payrate.ParseShift)
  4. Call roster service
  5. Serialize response with money as 2-decimal strings

ERROR HANDLING:
  Errors are returned as JSON {error, details} with HTTP status:
  - 400: Validation errors, invalid input
  - 404: Entry, holiday or rates not found
  - 422: Rate configuration cannot price the shift (missing band)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/roster"
)

// maxBodyBytes caps request bodies, including rate files.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *roster.Service
	Factory *factory.RateFactory
	Logger  *zap.Logger

	validate *validator.Validate
}

// NewHandler creates a new handler around the roster service.
func NewHandler(svc *roster.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	// Report JSON field names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		Service:  svc,
		Factory:  factory.NewRateFactory(),
		Logger:   logger,
		validate: validate,
	}
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate prices a shift with the active rates without storing it.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if !h.decode(w, r, &req) {
		return
	}
	shift, err := req.toShift()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.Service.Preview(shift)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewPayResultDTO(result, h.Service.Rates().Version))
}

// =============================================================================
// RATES
// =============================================================================

// GetRates returns the active rate settings.
// GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewRatesDTO(h.Service.Rates()))
}

// PutRates stores a new rate version and schedules recalculation of every
// stored entry.
// PUT /api/rates
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings, err := h.Factory.ParseRates(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate configuration", err)
		return
	}

	version, err := h.Service.SetRates(r.Context(), settings)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "recalculation scheduled",
		"rates_version": version,
		"rates":         NewRatesDTO(h.Service.Rates()),
	})
}

// ListRateVersions returns stored rate versions, oldest first.
// GET /api/rates/versions
func (h *Handler) ListRateVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Service.RateVersions(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]RateVersionDTO, 0, len(versions))
	for _, v := range versions {
		dtos = append(dtos, RateVersionDTO{Version: v.Version, Name: v.Name, CreatedAt: stamp(v.CreatedAt)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": dtos})
}

// =============================================================================
// SHIFTS
// =============================================================================

// ListShifts returns roster entries matching the query.
// GET /api/shifts?worker_id=&client_id=&from=&to=
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := generic.EntryFilter{
		WorkerID: generic.WorkerID(q.Get("worker_id")),
		ClientID: generic.ClientID(q.Get("client_id")),
	}
	var err error
	if filter.From, err = optionalDate(q.Get("from"), "from"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if filter.To, err = optionalDate(q.Get("to"), "to"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	entries, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"shifts": dtos})
}

// CreateShift adds and prices a roster entry.
// POST /api/shifts
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if !h.decode(w, r, &req) {
		return
	}
	shift, err := req.toShift()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	entry, err := h.Service.Create(r.Context(), roster.CreateInput{
		WorkerID: generic.WorkerID(req.WorkerID),
		ClientID: generic.ClientID(req.ClientID),
		Shift:    shift,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(*entry))
}

// GetShift returns one roster entry.
// GET /api/shifts/{id}
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.Get(r.Context(), generic.EntryID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// UpdateShift edits a roster entry and reprices it.
// PUT /api/shifts/{id}
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req UpdateShiftRequest
	if !h.decode(w, r, &req) {
		return
	}
	shift, err := req.toShift()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	in := roster.UpdateInput{Shift: &shift, Notes: req.Notes}
	if req.WorkerID != nil {
		id := generic.WorkerID(*req.WorkerID)
		in.WorkerID = &id
	}
	if req.ClientID != nil {
		id := generic.ClientID(*req.ClientID)
		in.ClientID = &id
	}

	entry, err := h.Service.Update(r.Context(), generic.EntryID(chi.URLParam(r, "id")), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// DeleteShift removes a roster entry. Its pay history is kept.
// DELETE /api/shifts/{id}
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), generic.EntryID(chi.URLParam(r, "id"))); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// ShiftHistory returns every pay record for an entry.
// GET /api/shifts/{id}/history
func (h *Handler) ShiftHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.History(r.Context(), generic.EntryID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]PayRecordDTO, 0, len(history))
	for _, rec := range history {
		dtos = append(dtos, toPayRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": dtos})
}

// =============================================================================
// TIMESHEETS
// =============================================================================

// WorkerTimesheet totals a worker's pay over a period. Without from and
// to it covers the pay period containing date (default today).
// GET /api/workers/{id}/timesheet?from=&to=
// GET /api/workers/{id}/timesheet?date=
func (h *Handler) WorkerTimesheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	worker := generic.WorkerID(chi.URLParam(r, "id"))

	if q.Get("from") == "" && q.Get("to") == "" {
		date := generic.Today()
		if d := q.Get("date"); d != "" {
			parsed, err := generic.ParseDate(d)
			if err != nil {
				h.writeServiceError(w, r, err)
				return
			}
			date = parsed
		}
		ts, err := h.Service.PeriodTimesheet(r.Context(), worker, date)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTimesheetDTO(ts))
		return
	}

	from, err := generic.ParseDate(q.Get("from"))
	if err != nil {
		h.writeServiceError(w, r, &generic.InputError{Field: "from", Value: q.Get("from"), Reason: "expected YYYY-MM-DD"})
		return
	}
	to, err := generic.ParseDate(q.Get("to"))
	if err != nil {
		h.writeServiceError(w, r, &generic.InputError{Field: "to", Value: q.Get("to"), Reason: "expected YYYY-MM-DD"})
		return
	}

	ts, err := h.Service.Timesheet(r.Context(), worker, from, to)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetDTO(ts))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns holiday definitions, or the dated occurrences in a
// year when ?year= is given.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1 || year > 9999 {
			h.writeServiceError(w, r, &generic.InputError{Field: "year", Value: y, Reason: "expected a four digit year"})
			return
		}
		occs := h.Service.HolidayOccurrences(year)
		dtos := make([]HolidayOccurrenceDTO, 0, len(occs))
		for _, o := range occs {
			dtos = append(dtos, HolidayOccurrenceDTO{HolidayID: o.HolidayID, Name: o.Name, Date: o.Date.String()})
		}
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": dtos})
		return
	}

	holidays, err := h.Service.Holidays(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a public holiday and reprices affected entries.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if !h.decode(w, r, &req) {
		return
	}

	hol := generic.Holiday{Name: req.Name, Rule: req.Rule}
	if req.Date != "" {
		date, err := generic.ParseDate(req.Date)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		hol.Date = date
	}

	saved, err := h.Service.AddHoliday(r.Context(), hol)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(*saved))
}

// DeleteHoliday removes a holiday and reprices affected entries.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// Health reports liveness and the active rate version.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"rates_version": h.Service.Rates().Version,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates a JSON body. It writes the error response
// itself and reports whether the handler should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "Validation failed", validationDetails(verrs))
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func validationDetails(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out[fe.Field()] = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		} else {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}

func optionalDate(s, field string) (*generic.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return nil, &generic.InputError{Field: field, Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return &d, nil
}

// writeServiceError maps the error taxonomy to an HTTP status.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err.Error())
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err.Error())
	case generic.IsConfigError(err):
		writeError(w, http.StatusUnprocessableEntity, "Rate configuration cannot price this shift", err.Error())
	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	resp := ErrorResponse{Error: message}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}
