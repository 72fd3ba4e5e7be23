/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Every amount leaves the API as a string with exactly two decimals
  ("356.74"). Hours use two decimals as well. Calculations inside the
  engine stay unrounded; rounding happens here and nowhere earlier.

VALIDATION:
  Request types carry validator/v10 tags for presence and shape. Semantic
  checks (HH:MM format, zero-length shifts, wake hours on active shifts)
  stay in payrate.ParseShift so the CLI and API reject the same inputs.

SEE ALSO:
  - handlers.go: Uses these types
  - payrate/result.go: PayResult
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/payrate"
	"github.com/warp/shift-pay-engine/roster"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ShiftRequest is a shift as posted by a client.
type ShiftRequest struct {
	Date            string   `json:"date" validate:"required"`
	StartTime       string   `json:"start_time" validate:"required"`
	EndTime         string   `json:"end_time" validate:"required"`
	IsSleepover     bool     `json:"is_sleepover"`
	IsPublicHoliday bool     `json:"is_public_holiday"`
	WakeHours       *float64 `json:"wake_hours,omitempty" validate:"omitempty,gte=0"`
}

func (r ShiftRequest) toShift() (payrate.ShiftInput, error) {
	return payrate.ParseShift(payrate.ShiftFields{
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IsSleepover:     r.IsSleepover,
		IsPublicHoliday: r.IsPublicHoliday,
		WakeHours:       r.WakeHours,
	})
}

// CreateShiftRequest adds a roster entry.
type CreateShiftRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
	ClientID string `json:"client_id" validate:"required"`
	Notes    string `json:"notes,omitempty" validate:"max=2000"`
	ShiftRequest
}

// UpdateShiftRequest edits a roster entry. The shift is replaced whole;
// omitted worker, client and notes are left as they are.
type UpdateShiftRequest struct {
	WorkerID *string `json:"worker_id,omitempty" validate:"omitempty,min=1"`
	ClientID *string `json:"client_id,omitempty" validate:"omitempty,min=1"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ShiftRequest
}

// HolidayRequest adds a public holiday. Exactly one of Date or Rule.
type HolidayRequest struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date,omitempty" validate:"required_without=Rule,excluded_with=Rule"`
	Rule string `json:"rule,omitempty" validate:"required_without=Date"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PayLineDTO is one priced segment of a shift.
type PayLineDTO struct {
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Band   string `json:"band"`
	Hours  string `json:"hours"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

// NDISLineDTO is one client invoice line.
type NDISLineDTO struct {
	Date        string `json:"date,omitempty"`
	Band        string `json:"band"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

// PayResultDTO is the output of a calculation.
type PayResultDTO struct {
	HoursWorked        string        `json:"hours_worked"`
	BasePay            string        `json:"base_pay"`
	SleepoverAllowance string        `json:"sleepover_allowance"`
	WakePay            string        `json:"wake_pay"`
	TotalPay           string        `json:"total_pay"`
	NDISHourlyCharge   string        `json:"ndis_hourly_charge"`
	NDISShiftCharge    string        `json:"ndis_shift_charge"`
	NDISTotalCharge    string        `json:"ndis_total_charge"`
	NDISLineItemCode   string        `json:"ndis_line_item_code,omitempty"`
	NDISDescription    string        `json:"ndis_description,omitempty"`
	PayLines           []PayLineDTO  `json:"pay_lines"`
	NDISLines          []NDISLineDTO `json:"ndis_lines"`
	RatesVersion       int           `json:"rates_version,omitempty"`
}

// PayRecordDTO is one entry in an entry's pay history.
type PayRecordDTO struct {
	ID                 string            `json:"id"`
	RatesVersion       int               `json:"rates_version"`
	HoursWorked        string            `json:"hours_worked"`
	BasePay            string            `json:"base_pay"`
	SleepoverAllowance string            `json:"sleepover_allowance"`
	WakePay            string            `json:"wake_pay"`
	TotalPay           string            `json:"total_pay"`
	NDISHourlyCharge   string            `json:"ndis_hourly_charge"`
	NDISShiftCharge    string            `json:"ndis_shift_charge"`
	NDISTotalCharge    string            `json:"ndis_total_charge"`
	NDISLineItemCode   string            `json:"ndis_line_item_code,omitempty"`
	NDISDescription    string            `json:"ndis_description,omitempty"`
	BandHours          map[string]string `json:"band_hours"`
	Reason             string            `json:"reason"`
	CalculatedAt       string            `json:"calculated_at"`
}

// EntryDTO is a roster entry with its current pay.
type EntryDTO struct {
	ID              string        `json:"id"`
	WorkerID        string        `json:"worker_id"`
	ClientID        string        `json:"client_id"`
	Date            string        `json:"date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	IsSleepover     bool          `json:"is_sleepover"`
	IsPublicHoliday bool          `json:"is_public_holiday"`
	WakeHours       *string       `json:"wake_hours,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	RatesVersion    int           `json:"rates_version"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
	Pay             *PayRecordDTO `json:"pay,omitempty"`
}

// NDISItemDTO is one support item in the rate settings.
type NDISItemDTO struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Rate        string `json:"rate"`
	Unit        string `json:"unit"`
}

// RatesDTO is the active rate configuration.
type RatesDTO struct {
	Version int                    `json:"version"`
	Name    string                 `json:"name"`
	Staff   map[string]string      `json:"staff"`
	NDIS    map[string]NDISItemDTO `json:"ndis"`
}

// RateVersionDTO is a stored rate version without its body.
type RateVersionDTO struct {
	Version   int    `json:"version"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// TimesheetLineDTO is one entry on a timesheet.
type TimesheetLineDTO struct {
	EntryID         string `json:"entry_id"`
	ClientID        string `json:"client_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IsSleepover     bool   `json:"is_sleepover"`
	HoursWorked     string `json:"hours_worked"`
	TotalPay        string `json:"total_pay"`
	NDISTotalCharge string `json:"ndis_total_charge"`
}

// TimesheetDTO totals a worker's pay over a period.
type TimesheetDTO struct {
	WorkerID        string             `json:"worker_id"`
	From            string             `json:"from"`
	To              string             `json:"to"`
	HoursWorked     string             `json:"hours_worked"`
	TotalPay        string             `json:"total_pay"`
	NDISTotalCharge string             `json:"ndis_total_charge"`
	BandHours       map[string]string  `json:"band_hours"`
	Lines           []TimesheetLineDTO `json:"lines"`
}

// HolidayDTO is a stored holiday definition.
type HolidayDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
	Rule string `json:"rule,omitempty"`
}

// HolidayOccurrenceDTO is a dated holiday in a given year.
type HolidayOccurrenceDTO struct {
	HolidayID string `json:"holiday_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func NewPayResultDTO(res payrate.PayResult, version int) PayResultDTO {
	dto := PayResultDTO{
		HoursWorked:        money(res.HoursWorked),
		BasePay:            money(res.BasePay),
		SleepoverAllowance: money(res.SleepoverAllowance),
		WakePay:            money(res.WakePay),
		TotalPay:           money(res.TotalPay),
		NDISHourlyCharge:   money(res.NDISHourlyCharge),
		NDISShiftCharge:    money(res.NDISShiftCharge),
		NDISTotalCharge:    money(res.NDISTotalCharge),
		NDISLineItemCode:   res.NDISLineItemCode,
		NDISDescription:    res.NDISDescription,
		PayLines:           make([]PayLineDTO, 0, len(res.PayLines)),
		NDISLines:          make([]NDISLineDTO, 0, len(res.NDISLines)),
		RatesVersion:       version,
	}
	for _, l := range res.PayLines {
		dto.PayLines = append(dto.PayLines, PayLineDTO{
			Date:   l.Date.String(),
			Start:  l.Start.String(),
			End:    l.End.String(),
			Band:   l.Band.String(),
			Hours:  money(l.Hours),
			Rate:   money(l.Rate),
			Amount: money(l.Amount),
		})
	}
	for _, l := range res.NDISLines {
		line := NDISLineDTO{
			Band:        l.Band.String(),
			Code:        l.Code,
			Description: l.Description,
			Quantity:    money(l.Quantity),
			Unit:        string(l.Unit),
			Rate:        money(l.Rate),
			Amount:      money(l.Amount),
		}
		if !l.Date.IsZero() {
			line.Date = l.Date.String()
		}
		dto.NDISLines = append(dto.NDISLines, line)
	}
	return dto
}

func toPayRecordDTO(rec generic.PayRecord) PayRecordDTO {
	bands := make(map[string]string, len(rec.Bands))
	for band, hours := range rec.Bands {
		bands[band] = money(hours)
	}
	return PayRecordDTO{
		ID:                 string(rec.ID),
		RatesVersion:       rec.RatesVersion,
		HoursWorked:        money(rec.HoursWorked),
		BasePay:            money(rec.BasePay),
		SleepoverAllowance: money(rec.SleepoverAllowance),
		WakePay:            money(rec.WakePay),
		TotalPay:           money(rec.TotalPay),
		NDISHourlyCharge:   money(rec.NDISHourlyCharge),
		NDISShiftCharge:    money(rec.NDISShiftCharge),
		NDISTotalCharge:    money(rec.NDISTotalCharge),
		NDISLineItemCode:   rec.NDISLineItemCode,
		NDISDescription:    rec.NDISDescription,
		BandHours:          bands,
		Reason:             rec.Reason,
		CalculatedAt:       stamp(rec.CalculatedAt),
	}
}

func toEntryDTO(e roster.Entry) EntryDTO {
	dto := EntryDTO{
		ID:              string(e.ID),
		WorkerID:        string(e.WorkerID),
		ClientID:        string(e.ClientID),
		Date:            e.Date.String(),
		StartTime:       e.Start.String(),
		EndTime:         e.End.String(),
		IsSleepover:     e.IsSleepover,
		IsPublicHoliday: e.IsPublicHoliday,
		Notes:           e.Notes,
		RatesVersion:    e.RatesVersion,
		CreatedAt:       stamp(e.CreatedAt),
		UpdatedAt:       stamp(e.UpdatedAt),
	}
	if e.WakeHours != nil {
		w := money(*e.WakeHours)
		dto.WakeHours = &w
	}
	if e.Pay != nil {
		pay := toPayRecordDTO(*e.Pay)
		dto.Pay = &pay
	}
	return dto
}

func NewRatesDTO(s *factory.RateSettings) RatesDTO {
	dto := RatesDTO{
		Version: s.Version,
		Name:    s.Name,
		Staff:   make(map[string]string),
		NDIS:    make(map[string]NDISItemDTO),
	}
	for _, band := range s.Staff.Bands() {
		rate, _ := s.Staff.Rate(band)
		dto.Staff[band.String()] = money(rate)
	}
	for _, band := range s.NDIS.Bands() {
		item, _ := s.NDIS.Item(band)
		dto.NDIS[band.String()] = NDISItemDTO{
			Code:        item.Code,
			Description: item.Description,
			Rate:        money(item.Rate),
			Unit:        string(item.Unit),
		}
	}
	return dto
}

func toTimesheetDTO(ts *roster.Timesheet) TimesheetDTO {
	dto := TimesheetDTO{
		WorkerID:        string(ts.WorkerID),
		From:            ts.From.String(),
		To:              ts.To.String(),
		HoursWorked:     money(ts.HoursWorked),
		TotalPay:        money(ts.TotalPay),
		NDISTotalCharge: money(ts.NDISTotalCharge),
		BandHours:       make(map[string]string, len(ts.BandHours)),
		Lines:           make([]TimesheetLineDTO, 0, len(ts.Lines)),
	}
	for band, hours := range ts.BandHours {
		dto.BandHours[band] = money(hours)
	}
	for _, l := range ts.Lines {
		dto.Lines = append(dto.Lines, TimesheetLineDTO{
			EntryID:         string(l.EntryID),
			ClientID:        string(l.ClientID),
			Date:            l.Date.String(),
			StartTime:       l.Start.String(),
			EndTime:         l.End.String(),
			IsSleepover:     l.IsSleepover,
			HoursWorked:     money(l.HoursWorked),
			TotalPay:        money(l.TotalPay),
			NDISTotalCharge: money(l.NDISTotalCharge),
		})
	}
	return dto
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	dto := HolidayDTO{ID: h.ID, Name: h.Name, Rule: h.Rule}
	if !h.Date.IsZero() {
		dto.Date = h.Date.String()
	}
	return dto
}
