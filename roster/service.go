/*
Package roster manages rostered shifts and their pay.

PURPOSE:
  The calculator in package payrate is pure. This package is the layer
  around it: it stores roster entries, prices them with the active rate
  version, keeps an append-only pay history per entry, and reprices
  entries when rates or holidays change.

LIFECYCLE OF AN ENTRY:
  Create   -> calculate -> save entry + pay record #1 ("created")
  Update   -> calculate -> save entry + pay record #n ("edited")
  SetRates -> entry is stale -> Recalculator -> pay record ("rates changed")
  Delete   -> entry removed, pay history kept

  Entry writes and their pay record are committed in one transaction.

RATE VERSIONS:
  Every SetRates stores a new version. An entry records the version its
  latest pay was computed with; entries behind the active version are
  stale and picked up by RecalculateStale.

SEE ALSO:
  - recalculator.go: Background repricing worker
  - generic/ledger.go: Pay history
  - factory/rates.go: Rate settings
*/
package roster

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/holiday"
	"github.com/warp/shift-pay-engine/payrate"
)

// Pay record reasons.
const (
	ReasonCreated      = "created"
	ReasonEdited       = "edited"
	ReasonRatesChanged = "rates changed"
	ReasonHoliday      = "holiday changed"
)

// Entry is a roster entry with its current pay.
type Entry struct {
	generic.ShiftRecord
	Pay *generic.PayRecord
}

// Shift converts the stored entry back to calculator input.
func (e Entry) Shift() payrate.ShiftInput {
	return shiftOf(e.ShiftRecord)
}

func shiftOf(rec generic.ShiftRecord) payrate.ShiftInput {
	return payrate.ShiftInput{
		Date:            rec.Date,
		Start:           rec.Start,
		End:             rec.End,
		IsSleepover:     rec.IsSleepover,
		IsPublicHoliday: rec.IsPublicHoliday,
		WakeHours:       rec.WakeHours,
	}
}

// CreateInput is a new roster entry.
type CreateInput struct {
	WorkerID generic.WorkerID
	ClientID generic.ClientID
	Shift    payrate.ShiftInput
	Notes    string
}

// UpdateInput edits an entry. Nil fields are left unchanged.
type UpdateInput struct {
	WorkerID *generic.WorkerID
	ClientID *generic.ClientID
	Shift    *payrate.ShiftInput
	Notes    *string
}

// =============================================================================
// SERVICE
// =============================================================================

// Service manages roster entries. Safe for concurrent use.
type Service struct {
	store   generic.TxStore
	factory *factory.RateFactory
	logger  *zap.Logger
	now     func() time.Time
	workers int
	batch   int

	onRatesChanged func()
	payPeriod      generic.PeriodConfig

	mu       sync.RWMutex
	rates    *factory.RateSettings
	holidays *holiday.Calendar
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithWorkers bounds parallel repricing and sets the batch size per run.
func WithWorkers(workers, batch int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
		if batch > 0 {
			s.batch = batch
		}
	}
}

// WithRatesChangedHook registers fn to run after rates change, typically
// Recalculator.Trigger.
func WithRatesChangedHook(fn func()) Option {
	return func(s *Service) { s.onRatesChanged = fn }
}

// defaultPayPeriod is a Monday-anchored fortnight.
var defaultPayPeriod = generic.PeriodConfig{
	Type:   generic.PeriodFortnightly,
	Anchor: generic.NewDate(2025, time.January, 6),
}

// WithPayPeriod sets the pay cycle used by PeriodTimesheet.
func WithPayPeriod(pc generic.PeriodConfig) Option {
	return func(s *Service) { s.payPeriod = pc }
}

func NewService(store generic.TxStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		factory:   factory.NewRateFactory(),
		logger:    zap.NewNop(),
		now:       time.Now,
		workers:   4,
		batch:     200,
		payPeriod: defaultPayPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the active rates and holidays from the store. When the store
// holds no rates, seed is stored as version 1; when it holds no holidays,
// seedHolidays are stored.
func (s *Service) Init(ctx context.Context, seed *factory.RateSettings, seedHolidays []generic.Holiday) error {
	active, err := s.store.ActiveRateVersion(ctx)
	switch {
	case err == nil:
		settings, err := s.factory.ParseRates([]byte(active.ConfigJSON))
		if err != nil {
			return fmt.Errorf("load rate version %d: %w", active.Version, err)
		}
		settings.Version = active.Version
		s.setRates(settings)
	case generic.IsNotFound(err):
		if seed == nil {
			seed = s.factory.Defaults()
		}
		if _, err := s.storeRates(ctx, seed); err != nil {
			return err
		}
	default:
		return fmt.Errorf("load active rates: %w", err)
	}

	existing, err := s.store.ListHolidays(ctx)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	if len(existing) == 0 {
		for _, h := range seedHolidays {
			h.CreatedAt = s.now()
			if err := s.store.SaveHoliday(ctx, h); err != nil {
				return fmt.Errorf("seed holiday %s: %w", h.ID, err)
			}
		}
	}
	return s.reloadHolidays(ctx)
}

func (s *Service) setRates(settings *factory.RateSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = settings
}

// Rates returns the active rate settings.
func (s *Service) Rates() *factory.RateSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates
}

func (s *Service) calculator() (*payrate.Calculator, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cal generic.HolidayCalendar = generic.NoHolidays{}
	if s.holidays != nil {
		cal = s.holidays
	}
	return s.rates.Calculator(cal), s.rates.Version
}

// Preview calculates pay for a shift without storing anything.
func (s *Service) Preview(shift payrate.ShiftInput) (payrate.PayResult, error) {
	calc, _ := s.calculator()
	return calc.Calculate(shift)
}

// =============================================================================
// ENTRIES
// =============================================================================

// Create validates, prices and stores a new entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	if in.WorkerID == "" {
		return nil, &generic.InputError{Field: "worker_id", Reason: "required"}
	}
	if in.ClientID == "" {
		return nil, &generic.InputError{Field: "client_id", Reason: "required"}
	}

	now := s.now()
	rec := generic.ShiftRecord{
		ID:        generic.EntryID(uuid.NewString()),
		WorkerID:  in.WorkerID,
		ClientID:  in.ClientID,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	applyShift(&rec, in.Shift)

	entry, err := s.price(ctx, rec, ReasonCreated)
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster entry created",
		zap.String("entry_id", string(entry.ID)),
		zap.String("worker_id", string(entry.WorkerID)),
		zap.String("date", entry.Date.String()),
		zap.String("total_pay", entry.Pay.TotalPay.StringFixed(2)))
	return entry, nil
}

// Update edits an entry and reprices it from scratch.
func (s *Service) Update(ctx context.Context, id generic.EntryID, in UpdateInput) (*Entry, error) {
	current, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	rec := *current
	if in.WorkerID != nil {
		rec.WorkerID = *in.WorkerID
	}
	if in.ClientID != nil {
		rec.ClientID = *in.ClientID
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if in.Shift != nil {
		applyShift(&rec, *in.Shift)
	}
	if rec.WorkerID == "" {
		return nil, &generic.InputError{Field: "worker_id", Reason: "required"}
	}
	if rec.ClientID == "" {
		return nil, &generic.InputError{Field: "client_id", Reason: "required"}
	}

	entry, err := s.price(ctx, rec, ReasonEdited)
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster entry updated",
		zap.String("entry_id", string(entry.ID)),
		zap.String("total_pay", entry.Pay.TotalPay.StringFixed(2)))
	return entry, nil
}

func applyShift(rec *generic.ShiftRecord, shift payrate.ShiftInput) {
	rec.Date = shift.Date
	rec.Start = shift.Start
	rec.End = shift.End
	rec.IsSleepover = shift.IsSleepover
	rec.IsPublicHoliday = shift.IsPublicHoliday
	rec.WakeHours = shift.WakeHours
}

// price calculates rec with the active rates and commits the entry and a
// new pay record together.
func (s *Service) price(ctx context.Context, rec generic.ShiftRecord, reason string) (*Entry, error) {
	calc, version := s.calculator()
	result, err := calc.Calculate(shiftOf(rec))
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec.RatesVersion = version
	rec.UpdatedAt = now
	pay := newPayRecord(rec.ID, version, result, reason, now)

	err = s.store.WithTx(ctx, func(tx generic.Store) error {
		if err := tx.SaveEntry(ctx, rec); err != nil {
			return fmt.Errorf("save entry %s: %w", rec.ID, err)
		}
		return generic.NewPayLedger(tx).Append(ctx, pay)
	})
	if err != nil {
		return nil, err
	}
	return &Entry{ShiftRecord: rec, Pay: &pay}, nil
}

func newPayRecord(entryID generic.EntryID, version int, res payrate.PayResult, reason string, at time.Time) generic.PayRecord {
	bands := make(map[string]decimal.Decimal)
	for band, hours := range res.BandHours() {
		bands[string(band)] = hours
	}
	return generic.PayRecord{
		ID:                 generic.RecordID(uuid.NewString()),
		EntryID:            entryID,
		RatesVersion:       version,
		HoursWorked:        res.HoursWorked,
		BasePay:            res.BasePay,
		SleepoverAllowance: res.SleepoverAllowance,
		WakePay:            res.WakePay,
		TotalPay:           res.TotalPay,
		NDISHourlyCharge:   res.NDISHourlyCharge,
		NDISShiftCharge:    res.NDISShiftCharge,
		NDISTotalCharge:    res.NDISTotalCharge,
		NDISLineItemCode:   res.NDISLineItemCode,
		NDISDescription:    res.NDISDescription,
		Bands:              bands,
		Reason:             reason,
		CalculatedAt:       at,
	}
}

// Get returns an entry with its current pay.
func (s *Service) Get(ctx context.Context, id generic.EntryID) (*Entry, error) {
	rec, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return s.withPay(ctx, *rec)
}

func (s *Service) withPay(ctx context.Context, rec generic.ShiftRecord) (*Entry, error) {
	pay, err := generic.NewPayLedger(s.store).Latest(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load pay for %s: %w", rec.ID, err)
	}
	return &Entry{ShiftRecord: rec, Pay: pay}, nil
}

// List returns matching entries ordered by date and start time.
func (s *Service) List(ctx context.Context, filter generic.EntryFilter) ([]Entry, error) {
	recs, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entries := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		e, err := s.withPay(ctx, rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// Delete removes an entry. Its pay history is kept.
func (s *Service) Delete(ctx context.Context, id generic.EntryID) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	s.logger.Info("roster entry deleted", zap.String("entry_id", string(id)))
	return nil
}

// History returns every pay record for an entry, oldest first.
func (s *Service) History(ctx context.Context, id generic.EntryID) ([]generic.PayRecord, error) {
	history, err := generic.NewPayLedger(s.store).History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pay history %s: %w", id, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("pay history %s: %w", id, generic.ErrEntryNotFound)
	}
	return history, nil
}

// =============================================================================
// RATES
// =============================================================================

// SetRates stores settings as the new active version. Every existing entry
// becomes stale.
func (s *Service) SetRates(ctx context.Context, settings *factory.RateSettings) (int, error) {
	version, err := s.storeRates(ctx, settings)
	if err != nil {
		return 0, err
	}
	s.logger.Info("rates updated", zap.Int("version", version), zap.String("name", settings.Name))
	if s.onRatesChanged != nil {
		s.onRatesChanged()
	}
	return version, nil
}

func (s *Service) storeRates(ctx context.Context, settings *factory.RateSettings) (int, error) {
	data, err := s.factory.MarshalRates(settings)
	if err != nil {
		return 0, fmt.Errorf("encode rates: %w", err)
	}
	version, err := s.store.SaveRateVersion(ctx, settings.Name, string(data))
	if err != nil {
		return 0, fmt.Errorf("save rates: %w", err)
	}
	stored := *settings
	stored.Version = version
	s.setRates(&stored)
	return version, nil
}

// RateVersions lists stored rate versions, oldest first.
func (s *Service) RateVersions(ctx context.Context) ([]generic.RateVersion, error) {
	return s.store.ListRateVersions(ctx)
}

// RecalculateStale reprices up to one batch of entries priced with an
// older rate version, starting after the cursor. It returns how many
// entries were repriced and the cursor for the next batch, which is nil
// once no stale entries remain past it. Entries that fail are logged,
// left stale and reported in the combined error.
func (s *Service) RecalculateStale(ctx context.Context, after *generic.EntryCursor) (int, *generic.EntryCursor, error) {
	_, version := s.calculator()
	stale, err := s.store.ListStaleEntries(ctx, version, after, s.batch)
	if err != nil {
		return 0, nil, fmt.Errorf("list stale entries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil, nil
	}
	var next *generic.EntryCursor
	if len(stale) == s.batch {
		c := generic.CursorOf(stale[len(stale)-1])
		next = &c
	}
	n, err := s.reprice(ctx, stale, ReasonRatesChanged)
	return n, next, err
}

func (s *Service) reprice(ctx context.Context, recs []generic.ShiftRecord, reason string) (int, error) {
	var (
		updated int64
		mu      sync.Mutex
		errs    error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, rec := range recs {
		rec := rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := s.repriceEntry(gctx, rec, reason)
			if err != nil {
				s.logger.Warn("reprice failed", zap.String("entry_id", string(rec.ID)), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("entry %s: %w", rec.ID, err))
				mu.Unlock()
				return nil
			}
			if ok {
				atomic.AddInt64(&updated, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated), err
	}
	if updated > 0 {
		s.logger.Info("entries repriced", zap.Int64("count", updated), zap.String("reason", reason))
	}
	return int(updated), errs
}

// repriceEntry prices the stored copy of seen inside one transaction. An
// entry deleted or edited since seen was read is skipped and reports false.
func (s *Service) repriceEntry(ctx context.Context, seen generic.ShiftRecord, reason string) (bool, error) {
	calc, version := s.calculator()
	now := s.now()
	repriced := false
	err := s.store.WithTx(ctx, func(tx generic.Store) error {
		cur, err := tx.GetEntry(ctx, seen.ID)
		if generic.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reload entry %s: %w", seen.ID, err)
		}
		if cur.RatesVersion != seen.RatesVersion || !cur.UpdatedAt.Equal(seen.UpdatedAt) {
			s.logger.Debug("entry changed before reprice", zap.String("entry_id", string(seen.ID)))
			return nil
		}

		result, err := calc.Calculate(shiftOf(*cur))
		if err != nil {
			return err
		}
		rec := *cur
		rec.RatesVersion = version
		rec.UpdatedAt = now
		if err := tx.SaveEntry(ctx, rec); err != nil {
			return fmt.Errorf("save entry %s: %w", rec.ID, err)
		}
		if err := generic.NewPayLedger(tx).Append(ctx, newPayRecord(rec.ID, version, result, reason, now)); err != nil {
			return err
		}
		repriced = true
		return nil
	})
	return repriced, err
}

// =============================================================================
// TIMESHEETS
// =============================================================================

// TimesheetLine is one entry on a timesheet.
type TimesheetLine struct {
	EntryID         generic.EntryID
	ClientID        generic.ClientID
	Date            generic.Date
	Start           generic.ClockTime
	End             generic.ClockTime
	IsSleepover     bool
	HoursWorked     decimal.Decimal
	TotalPay        decimal.Decimal
	NDISTotalCharge decimal.Decimal
}

// Timesheet totals a worker's pay over a date range.
type Timesheet struct {
	WorkerID        generic.WorkerID
	From            generic.Date
	To              generic.Date
	Lines           []TimesheetLine
	HoursWorked     decimal.Decimal
	TotalPay        decimal.Decimal
	NDISTotalCharge decimal.Decimal
	BandHours       map[string]decimal.Decimal
}

// Timesheet builds a worker's timesheet from current pay.
func (s *Service) Timesheet(ctx context.Context, worker generic.WorkerID, from, to generic.Date) (*Timesheet, error) {
	if to.Before(from) {
		return nil, &generic.InputError{Field: "to", Value: to.String(), Reason: "before from"}
	}
	entries, err := s.List(ctx, generic.EntryFilter{WorkerID: worker, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	ts := &Timesheet{WorkerID: worker, From: from, To: to, BandHours: make(map[string]decimal.Decimal)}
	for _, e := range entries {
		if e.Pay == nil {
			continue
		}
		ts.Lines = append(ts.Lines, TimesheetLine{
			EntryID:         e.ID,
			ClientID:        e.ClientID,
			Date:            e.Date,
			Start:           e.Start,
			End:             e.End,
			IsSleepover:     e.IsSleepover,
			HoursWorked:     e.Pay.HoursWorked,
			TotalPay:        e.Pay.TotalPay,
			NDISTotalCharge: e.Pay.NDISTotalCharge,
		})
		ts.HoursWorked = ts.HoursWorked.Add(e.Pay.HoursWorked)
		ts.TotalPay = ts.TotalPay.Add(e.Pay.TotalPay)
		ts.NDISTotalCharge = ts.NDISTotalCharge.Add(e.Pay.NDISTotalCharge)
		for band, hours := range e.Pay.Bands {
			ts.BandHours[band] = ts.BandHours[band].Add(hours)
		}
	}
	return ts, nil
}

// PayPeriod returns the pay period containing date.
func (s *Service) PayPeriod(date generic.Date) (generic.Period, error) {
	return s.payPeriod.PeriodFor(date)
}

// PeriodTimesheet builds a worker's timesheet for the pay period that
// contains date.
func (s *Service) PeriodTimesheet(ctx context.Context, worker generic.WorkerID, date generic.Date) (*Timesheet, error) {
	period, err := s.PayPeriod(date)
	if err != nil {
		return nil, err
	}
	return s.Timesheet(ctx, worker, period.Start, period.End)
}
