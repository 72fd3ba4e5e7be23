/*
ledger.go - Append-only pay ledger

PURPOSE:
  The pay ledger is the source of truth for what a roster entry was paid
  and charged, and why. Every calculation appends a PayRecord; the newest
  record is the entry's current pay.

EXAMPLE:
  Worker enters Monday 12:00-20:00:          record #1  $336.00 (created)
  Shift corrected to 12:00-20:01:            record #2  $356.74 (edited)
  Weekday evening rate raised:               record #3  $361.55 (rates changed)

  Entry shows $361.55; the history keeps all three.

SEE ALSO:
  - store.go: Low-level persistence interface
  - roster/service.go: Appends a record on create, edit and recalculation
*/
package generic

import (
	"context"
	"fmt"
)

// =============================================================================
// LEDGER - Append-only pay history
// =============================================================================

// PayLedger wraps a PayHistoryStore with validation.
//
// INVARIANTS:
//   - Append-only: No Update, No Delete.
//   - Every record names its entry and the rate version it used.
type PayLedger struct {
	Store PayHistoryStore
}

func NewPayLedger(store PayHistoryStore) *PayLedger {
	return &PayLedger{Store: store}
}

// Append adds a record. Fails with ErrDuplicateRecord if the ID exists.
func (l *PayLedger) Append(ctx context.Context, rec PayRecord) error {
	if rec.ID == "" {
		return &InputError{Field: "pay_record.id", Reason: "required"}
	}
	if rec.EntryID == "" {
		return &InputError{Field: "pay_record.entry_id", Reason: "required"}
	}
	if err := l.Store.AppendPayRecord(ctx, rec); err != nil {
		return fmt.Errorf("append pay record %s: %w", rec.ID, err)
	}
	return nil
}

// History returns all records for an entry, oldest first.
func (l *PayLedger) History(ctx context.Context, entryID EntryID) ([]PayRecord, error) {
	return l.Store.PayHistory(ctx, entryID)
}

// Latest returns the newest record for an entry, or nil if none exist.
func (l *PayLedger) Latest(ctx context.Context, entryID EntryID) (*PayRecord, error) {
	history, err := l.Store.PayHistory(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	latest := history[len(history)-1]
	return &latest, nil
}
