/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.TxStore (entries, pay history, rate versions,
  holidays) on SQLite via mattn/go-sqlite3.

APPEND-ONLY ENFORCEMENT:
  pay_records is the audit trail of every calculation:
  - The store issues no UPDATE or DELETE against it
  - Triggers abort any UPDATE or DELETE that reaches the table anyway
  - Deleting a roster entry leaves its pay records in place

KEY TABLES:
  roster_entries: Current state of each shift
  pay_records:    Immutable calculation results, one per (re)calculation
  rate_versions:  Every rate configuration ever activated
  holidays:       One-off dates and recurring RRULEs

MONEY:
  Decimals are stored as TEXT and parsed with shopspring/decimal, never
  as REAL, so repeated reads return the exact value written.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, so an
  in-memory database is shared by every call and a transaction sees its
  own writes.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging).

USAGE:
  store, err := sqlite.New("./data/shiftpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-pay-engine/generic"
)

// Store implements generic.TxStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ generic.TxStore = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS roster_entries (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		is_sleepover INTEGER NOT NULL DEFAULT 0,
		is_public_holiday INTEGER NOT NULL DEFAULT 0,
		wake_hours TEXT,
		notes TEXT NOT NULL DEFAULT '',
		rates_version INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_worker_date
		ON roster_entries(worker_id, date, start_minute);
	CREATE INDEX IF NOT EXISTS idx_entries_client_date
		ON roster_entries(client_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_rates_version
		ON roster_entries(rates_version);

	-- Pay records (append-only)
	CREATE TABLE IF NOT EXISTS pay_records (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL,
		rates_version INTEGER NOT NULL,
		hours_worked TEXT NOT NULL,
		base_pay TEXT NOT NULL,
		sleepover_allowance TEXT NOT NULL,
		wake_pay TEXT NOT NULL,
		total_pay TEXT NOT NULL,
		ndis_hourly_charge TEXT NOT NULL,
		ndis_shift_charge TEXT NOT NULL,
		ndis_total_charge TEXT NOT NULL,
		ndis_line_item_code TEXT NOT NULL DEFAULT '',
		ndis_description TEXT NOT NULL DEFAULT '',
		bands_json TEXT NOT NULL DEFAULT '{}',
		reason TEXT NOT NULL,
		calculated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pay_records_entry
		ON pay_records(entry_id);

	CREATE TRIGGER IF NOT EXISTS pay_records_no_update
		BEFORE UPDATE ON pay_records
		BEGIN SELECT RAISE(ABORT, 'pay_records is append-only'); END;
	CREATE TRIGGER IF NOT EXISTS pay_records_no_delete
		BEFORE DELETE ON pay_records
		BEGIN SELECT RAISE(ABORT, 'pay_records is append-only'); END;

	CREATE TABLE IF NOT EXISTS rate_versions (
		version INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT,
		rule TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONAL STORE (generic.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store generic.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{q: sqlTx, parent: s}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore runs every call on the open transaction. The parent lock is
// already held.
type txStore struct {
	q      querier
	parent *Store
}

func (ts *txStore) SaveEntry(ctx context.Context, rec generic.ShiftRecord) error {
	return saveEntry(ctx, ts.q, rec)
}

func (ts *txStore) GetEntry(ctx context.Context, id generic.EntryID) (*generic.ShiftRecord, error) {
	return getEntry(ctx, ts.q, id)
}

func (ts *txStore) ListEntries(ctx context.Context, filter generic.EntryFilter) ([]generic.ShiftRecord, error) {
	return listEntries(ctx, ts.q, filter)
}

func (ts *txStore) DeleteEntry(ctx context.Context, id generic.EntryID) error {
	return deleteEntry(ctx, ts.q, id)
}

func (ts *txStore) ListStaleEntries(ctx context.Context, version int, after *generic.EntryCursor, limit int) ([]generic.ShiftRecord, error) {
	return listStaleEntries(ctx, ts.q, version, after, limit)
}

func (ts *txStore) AppendPayRecord(ctx context.Context, rec generic.PayRecord) error {
	return appendPayRecord(ctx, ts.q, rec)
}

func (ts *txStore) PayHistory(ctx context.Context, entryID generic.EntryID) ([]generic.PayRecord, error) {
	return payHistory(ctx, ts.q, entryID)
}

func (ts *txStore) SaveRateVersion(ctx context.Context, name, configJSON string) (int, error) {
	return saveRateVersion(ctx, ts.q, name, configJSON, ts.parent.now())
}

func (ts *txStore) ActiveRateVersion(ctx context.Context) (*generic.RateVersion, error) {
	return activeRateVersion(ctx, ts.q)
}

func (ts *txStore) ListRateVersions(ctx context.Context) ([]generic.RateVersion, error) {
	return listRateVersions(ctx, ts.q)
}

func (ts *txStore) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	return saveHoliday(ctx, ts.q, h)
}

func (ts *txStore) DeleteHoliday(ctx context.Context, id string) error {
	return deleteHoliday(ctx, ts.q, id)
}

func (ts *txStore) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	return listHolidays(ctx, ts.q)
}

// =============================================================================
// ROSTER ENTRIES (generic.EntryStore interface)
// =============================================================================

func (s *Store) SaveEntry(ctx context.Context, rec generic.ShiftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEntry(ctx, s.db, rec)
}

func (s *Store) GetEntry(ctx context.Context, id generic.EntryID) (*generic.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEntry(ctx, s.db, id)
}

func (s *Store) ListEntries(ctx context.Context, filter generic.EntryFilter) ([]generic.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEntries(ctx, s.db, filter)
}

func (s *Store) DeleteEntry(ctx context.Context, id generic.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteEntry(ctx, s.db, id)
}

func (s *Store) ListStaleEntries(ctx context.Context, version int, after *generic.EntryCursor, limit int) ([]generic.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listStaleEntries(ctx, s.db, version, after, limit)
}

const entryColumns = `id, worker_id, client_id, date, start_minute, end_minute,
	is_sleepover, is_public_holiday, wake_hours, notes, rates_version, created_at, updated_at`

func saveEntry(ctx context.Context, q querier, rec generic.ShiftRecord) error {
	query := `
		INSERT INTO roster_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			worker_id = excluded.worker_id,
			client_id = excluded.client_id,
			date = excluded.date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			is_sleepover = excluded.is_sleepover,
			is_public_holiday = excluded.is_public_holiday,
			wake_hours = excluded.wake_hours,
			notes = excluded.notes,
			rates_version = excluded.rates_version,
			updated_at = excluded.updated_at
	`

	var wake sql.NullString
	if rec.WakeHours != nil {
		wake = sql.NullString{String: rec.WakeHours.String(), Valid: true}
	}

	_, err := q.ExecContext(ctx, query,
		rec.ID,
		rec.WorkerID,
		rec.ClientID,
		rec.Date.String(),
		rec.Start.Minutes(),
		rec.End.Minutes(),
		rec.IsSleepover,
		rec.IsPublicHoliday,
		wake,
		rec.Notes,
		rec.RatesVersion,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

func getEntry(ctx context.Context, q querier, id generic.EntryID) (*generic.ShiftRecord, error) {
	row := q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM roster_entries WHERE id = ?`, id)
	rec, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func listEntries(ctx context.Context, q querier, filter generic.EntryFilter) ([]generic.ShiftRecord, error) {
	var (
		where []string
		args  []any
	)
	if filter.WorkerID != "" {
		where = append(where, "worker_id = ?")
		args = append(args, filter.WorkerID)
	}
	if filter.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.From != nil {
		where = append(where, "date >= ?")
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		where = append(where, "date <= ?")
		args = append(args, filter.To.String())
	}

	query := `SELECT ` + entryColumns + ` FROM roster_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, start_minute, id"

	return queryEntries(ctx, q, query, args...)
}

func deleteEntry(ctx context.Context, q querier, id generic.EntryID) error {
	res, err := q.ExecContext(ctx, "DELETE FROM roster_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrEntryNotFound
	}
	return nil
}

func listStaleEntries(ctx context.Context, q querier, version int, after *generic.EntryCursor, limit int) ([]generic.ShiftRecord, error) {
	if after == nil {
		return queryEntries(ctx, q,
			`SELECT `+entryColumns+` FROM roster_entries
			 WHERE rates_version < ?
			 ORDER BY date, start_minute, id
			 LIMIT ?`, version, limit)
	}
	date := after.Date.String()
	return queryEntries(ctx, q,
		`SELECT `+entryColumns+` FROM roster_entries
		 WHERE rates_version < ?
		   AND (date > ? OR (date = ? AND (start_minute > ? OR (start_minute = ? AND id > ?))))
		 ORDER BY date, start_minute, id
		 LIMIT ?`,
		version, date, date, after.Start.Minutes(), after.Start.Minutes(), string(after.ID), limit)
}

func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]generic.ShiftRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var result []generic.ShiftRecord
	for rows.Next() {
		rec, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (generic.ShiftRecord, error) {
	var (
		rec                  generic.ShiftRecord
		date                 string
		start, end           int
		wake                 decimal.NullDecimal
		createdAt, updatedAt string
	)
	err := row.Scan(
		&rec.ID, &rec.WorkerID, &rec.ClientID, &date, &start, &end,
		&rec.IsSleepover, &rec.IsPublicHoliday, &wake, &rec.Notes, &rec.RatesVersion,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return rec, err
	}

	if rec.Date, err = generic.ParseDate(date); err != nil {
		return rec, fmt.Errorf("entry %s: %w", rec.ID, err)
	}
	rec.Start = generic.ClockTime(start)
	rec.End = generic.ClockTime(end)
	if wake.Valid {
		w := wake.Decimal
		rec.WakeHours = &w
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

// =============================================================================
// PAY HISTORY (generic.PayHistoryStore interface)
// =============================================================================

func (s *Store) AppendPayRecord(ctx context.Context, rec generic.PayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendPayRecord(ctx, s.db, rec)
}

func (s *Store) PayHistory(ctx context.Context, entryID generic.EntryID) ([]generic.PayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return payHistory(ctx, s.db, entryID)
}

func appendPayRecord(ctx context.Context, q querier, rec generic.PayRecord) error {
	bandsJSON, err := json.Marshal(rec.Bands)
	if err != nil {
		return fmt.Errorf("failed to encode bands: %w", err)
	}

	query := `
		INSERT INTO pay_records
		(id, entry_id, rates_version, hours_worked, base_pay, sleepover_allowance, wake_pay,
		 total_pay, ndis_hourly_charge, ndis_shift_charge, ndis_total_charge,
		 ndis_line_item_code, ndis_description, bands_json, reason, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.ExecContext(ctx, query,
		rec.ID,
		rec.EntryID,
		rec.RatesVersion,
		rec.HoursWorked.String(),
		rec.BasePay.String(),
		rec.SleepoverAllowance.String(),
		rec.WakePay.String(),
		rec.TotalPay.String(),
		rec.NDISHourlyCharge.String(),
		rec.NDISShiftCharge.String(),
		rec.NDISTotalCharge.String(),
		rec.NDISLineItemCode,
		rec.NDISDescription,
		string(bandsJSON),
		rec.Reason,
		formatTime(rec.CalculatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to append pay record: %w", err)
	}
	return nil
}

func payHistory(ctx context.Context, q querier, entryID generic.EntryID) ([]generic.PayRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, entry_id, rates_version, hours_worked, base_pay, sleepover_allowance, wake_pay,
		       total_pay, ndis_hourly_charge, ndis_shift_charge, ndis_total_charge,
		       ndis_line_item_code, ndis_description, bands_json, reason, calculated_at
		FROM pay_records
		WHERE entry_id = ?
		ORDER BY rowid`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pay history: %w", err)
	}
	defer rows.Close()

	var result []generic.PayRecord
	for rows.Next() {
		var (
			rec               generic.PayRecord
			bandsJSON, calcAt string
		)
		// decimal.Decimal implements sql.Scanner over the TEXT columns
		err := rows.Scan(
			&rec.ID, &rec.EntryID, &rec.RatesVersion,
			&rec.HoursWorked, &rec.BasePay, &rec.SleepoverAllowance, &rec.WakePay, &rec.TotalPay,
			&rec.NDISHourlyCharge, &rec.NDISShiftCharge, &rec.NDISTotalCharge,
			&rec.NDISLineItemCode, &rec.NDISDescription, &bandsJSON, &rec.Reason, &calcAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay record: %w", err)
		}

		if err := json.Unmarshal([]byte(bandsJSON), &rec.Bands); err != nil {
			return nil, fmt.Errorf("pay record %s bands: %w", rec.ID, err)
		}
		rec.CalculatedAt = parseTime(calcAt)
		result = append(result, rec)
	}
	return result, rows.Err()
}

// =============================================================================
// RATE VERSIONS (generic.RateStore interface)
// =============================================================================

func (s *Store) SaveRateVersion(ctx context.Context, name, configJSON string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveRateVersion(ctx, s.db, name, configJSON, s.now())
}

func (s *Store) ActiveRateVersion(ctx context.Context) (*generic.RateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeRateVersion(ctx, s.db)
}

func (s *Store) ListRateVersions(ctx context.Context) ([]generic.RateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRateVersions(ctx, s.db)
}

func saveRateVersion(ctx context.Context, q querier, name, configJSON string, now time.Time) (int, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO rate_versions (name, config_json, created_at) VALUES (?, ?, ?)`,
		name, configJSON, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to save rate version: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func activeRateVersion(ctx context.Context, q querier) (*generic.RateVersion, error) {
	var (
		v         generic.RateVersion
		createdAt string
	)
	err := q.QueryRowContext(ctx,
		`SELECT version, name, config_json, created_at FROM rate_versions ORDER BY version DESC LIMIT 1`,
	).Scan(&v.Version, &v.Name, &v.ConfigJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRatesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rate version: %w", err)
	}
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}

func listRateVersions(ctx context.Context, q querier) ([]generic.RateVersion, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT version, name, config_json, created_at FROM rate_versions ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate versions: %w", err)
	}
	defer rows.Close()

	var result []generic.RateVersion
	for rows.Next() {
		var (
			v         generic.RateVersion
			createdAt string
		)
		if err := rows.Scan(&v.Version, &v.Name, &v.ConfigJSON, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt = parseTime(createdAt)
		result = append(result, v)
	}
	return result, rows.Err()
}

// =============================================================================
// HOLIDAYS (generic.HolidayStore interface)
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveHoliday(ctx, s.db, h)
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteHoliday(ctx, s.db, id)
}

func (s *Store) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listHolidays(ctx, s.db)
}

func saveHoliday(ctx context.Context, q querier, h generic.Holiday) error {
	var date sql.NullString
	if !h.Date.IsZero() {
		date = sql.NullString{String: h.Date.String(), Valid: true}
	}

	query := `
		INSERT INTO holidays (id, name, date, rule, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			rule = excluded.rule
	`
	_, err := q.ExecContext(ctx, query, h.ID, h.Name, date, nullString(h.Rule), formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

func deleteHoliday(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrHolidayNotFound
	}
	return nil
}

func listHolidays(ctx context.Context, q querier) ([]generic.Holiday, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, date, rule, created_at FROM holidays ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var result []generic.Holiday
	for rows.Next() {
		var (
			h          generic.Holiday
			date, rule sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&h.ID, &h.Name, &date, &rule, &createdAt); err != nil {
			return nil, err
		}
		if date.Valid {
			if h.Date, err = generic.ParseDate(date.String); err != nil {
				return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
			}
		}
		h.Rule = rule.String
		h.CreatedAt = parseTime(createdAt)
		result = append(result, h)
	}
	return result, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset drops every row except the pay history. Used by tests and demo
// environments.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"roster_entries", "rate_versions", "holidays"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func isUniqueConstraintError(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
