/*
store.go - Persistence interface for roster entries, pay history and rates

PURPOSE:
  Defines the interface between the domain logic and the database.
  Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  EntryStore:      Roster entries (the shift as entered, mutable)
  PayHistoryStore: Pay records (one per calculation, append-only)
  RateStore:       Versioned rate settings
  HolidayStore:    Public holiday definitions
  TxStore:         Transactional operations (entry + pay record together)

APPEND-ONLY CONTRACT:
  Roster entries are edited in place, but every calculation that produced
  a figure for an entry is kept as an immutable PayRecord:
  - AppendPayRecord(): single write
  - NO Update() or Delete() for pay records

  The latest PayRecord is the entry's current pay. Editing a shift or
  changing rates appends a new record; history is never rewritten.

RATE VERSIONS:
  Rate settings are stored as numbered versions. Each entry remembers the
  version its latest pay record used; entries behind the active version
  are stale and get recalculated.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - ledger.go: Append-only pay ledger on top of PayHistoryStore
  - roster/service.go: Uses TxStore to save entry + pay atomically
*/
package generic

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDS
// =============================================================================

// ShiftRecord is a persisted roster entry.
type ShiftRecord struct {
	ID              EntryID
	WorkerID        WorkerID
	ClientID        ClientID
	Date            Date
	Start           ClockTime
	End             ClockTime
	IsSleepover     bool
	IsPublicHoliday bool
	WakeHours       *decimal.Decimal
	Notes           string
	RatesVersion    int // rate version used by the latest pay record
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PayRecord is an immutable snapshot of one calculation for an entry.
type PayRecord struct {
	ID                 RecordID
	EntryID            EntryID
	RatesVersion       int
	HoursWorked        decimal.Decimal
	BasePay            decimal.Decimal
	SleepoverAllowance decimal.Decimal
	WakePay            decimal.Decimal
	TotalPay           decimal.Decimal
	NDISHourlyCharge   decimal.Decimal
	NDISShiftCharge    decimal.Decimal
	NDISTotalCharge    decimal.Decimal
	NDISLineItemCode   string
	NDISDescription    string
	Bands              map[string]decimal.Decimal // hours per band
	Reason             string                     // "created", "edited", "rates changed"
	CalculatedAt       time.Time
}

// RateVersion is one stored revision of the rate settings.
type RateVersion struct {
	Version    int
	Name       string
	ConfigJSON string
	CreatedAt  time.Time
}

// EntryCursor is a position in (date, start, ID) order.
type EntryCursor struct {
	Date  Date
	Start ClockTime
	ID    EntryID
}

// CursorOf returns the position of rec.
func CursorOf(rec ShiftRecord) EntryCursor {
	return EntryCursor{Date: rec.Date, Start: rec.Start, ID: rec.ID}
}

// Precedes reports whether rec sorts at or before the cursor.
func (c EntryCursor) Precedes(rec ShiftRecord) bool {
	if !rec.Date.Equal(c.Date) {
		return rec.Date.Before(c.Date)
	}
	if rec.Start != c.Start {
		return rec.Start < c.Start
	}
	return rec.ID <= c.ID
}

// EntryFilter narrows ListEntries. Zero fields match everything.
type EntryFilter struct {
	WorkerID WorkerID
	ClientID ClientID
	From     *Date
	To       *Date
}

// Matches reports whether rec passes the filter.
func (f EntryFilter) Matches(rec ShiftRecord) bool {
	if f.WorkerID != "" && rec.WorkerID != f.WorkerID {
		return false
	}
	if f.ClientID != "" && rec.ClientID != f.ClientID {
		return false
	}
	if f.From != nil && rec.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && rec.Date.After(*f.To) {
		return false
	}
	return true
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EntryStore persists roster entries.
type EntryStore interface {
	// SaveEntry inserts or replaces an entry.
	SaveEntry(ctx context.Context, rec ShiftRecord) error

	// GetEntry returns ErrEntryNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id EntryID) (*ShiftRecord, error)

	// ListEntries returns matching entries ordered by date then start time.
	ListEntries(ctx context.Context, filter EntryFilter) ([]ShiftRecord, error)

	// DeleteEntry removes an entry. Its pay history is kept.
	DeleteEntry(ctx context.Context, id EntryID) error

	// ListStaleEntries returns up to limit entries priced with a rate
	// version older than version, ordered by date, start time and ID. A
	// non-nil after skips entries at or before that position.
	ListStaleEntries(ctx context.Context, version int, after *EntryCursor, limit int) ([]ShiftRecord, error)
}

// PayHistoryStore persists pay records. Append-only.
type PayHistoryStore interface {
	// AppendPayRecord persists a record. Returns ErrDuplicateRecord if the ID exists.
	AppendPayRecord(ctx context.Context, rec PayRecord) error

	// PayHistory returns all records for an entry, oldest first.
	PayHistory(ctx context.Context, entryID EntryID) ([]PayRecord, error)
}

// RateStore persists versioned rate settings.
type RateStore interface {
	// SaveRateVersion stores a new version and returns its number.
	SaveRateVersion(ctx context.Context, name, configJSON string) (int, error)

	// ActiveRateVersion returns the newest version or ErrRatesNotFound.
	ActiveRateVersion(ctx context.Context) (*RateVersion, error)

	// ListRateVersions returns all versions, oldest first.
	ListRateVersions(ctx context.Context) ([]RateVersion, error)
}

// HolidayStore persists public holiday definitions.
type HolidayStore interface {
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// Store is the full persistence surface.
type Store interface {
	EntryStore
	PayHistoryStore
	RateStore
	HolidayStore
}

// =============================================================================
// TRANSACTIONAL STORE - For atomic operations across multiple writes
// =============================================================================

// TxStore wraps Store with transaction support.
// Use this when an entry and its pay record must be written together.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
