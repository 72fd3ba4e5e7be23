// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-pay-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	entries  map[generic.EntryID]generic.ShiftRecord
	history  map[generic.EntryID][]generic.PayRecord
	records  map[generic.RecordID]bool
	rates    []generic.RateVersion
	holidays map[string]generic.Holiday
}

func NewMemory() *Memory {
	return &Memory{
		entries:  make(map[generic.EntryID]generic.ShiftRecord),
		history:  make(map[generic.EntryID][]generic.PayRecord),
		records:  make(map[generic.RecordID]bool),
		holidays: make(map[string]generic.Holiday),
	}
}

// =============================================================================
// ENTRIES
// =============================================================================

func (m *Memory) SaveEntry(_ context.Context, rec generic.ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[rec.ID] = rec
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id generic.EntryID) (*generic.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEntryLocked(id)
}

func (m *Memory) getEntryLocked(id generic.EntryID) (*generic.ShiftRecord, error) {
	rec, ok := m.entries[id]
	if !ok {
		return nil, generic.ErrEntryNotFound
	}
	return &rec, nil
}

func (m *Memory) ListEntries(_ context.Context, filter generic.EntryFilter) ([]generic.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listEntriesLocked(filter), nil
}

func (m *Memory) listEntriesLocked(filter generic.EntryFilter) []generic.ShiftRecord {
	result := make([]generic.ShiftRecord, 0)
	for _, rec := range m.entries {
		if filter.Matches(rec) {
			result = append(result, rec)
		}
	}
	sortEntries(result)
	return result
}

func (m *Memory) DeleteEntry(_ context.Context, id generic.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return generic.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) ListStaleEntries(_ context.Context, version int, after *generic.EntryCursor, limit int) ([]generic.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listStaleLocked(version, after, limit), nil
}

func (m *Memory) listStaleLocked(version int, after *generic.EntryCursor, limit int) []generic.ShiftRecord {
	var stale []generic.ShiftRecord
	for _, rec := range m.entries {
		if after != nil && after.Precedes(rec) {
			continue
		}
		if rec.RatesVersion < version {
			stale = append(stale, rec)
		}
	}
	sortEntries(stale)
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale
}

func sortEntries(recs []generic.ShiftRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		if recs[i].Start != recs[j].Start {
			return recs[i].Start < recs[j].Start
		}
		return recs[i].ID < recs[j].ID
	})
}

// =============================================================================
// PAY HISTORY (append-only)
// =============================================================================

func (m *Memory) AppendPayRecord(_ context.Context, rec generic.PayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(rec)
}

func (m *Memory) appendLocked(rec generic.PayRecord) error {
	if m.records[rec.ID] {
		return generic.ErrDuplicateRecord
	}
	m.records[rec.ID] = true
	m.history[rec.EntryID] = append(m.history[rec.EntryID], rec)
	return nil
}

func (m *Memory) PayHistory(_ context.Context, entryID generic.EntryID) ([]generic.PayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.PayRecord, len(m.history[entryID]))
	copy(result, m.history[entryID])
	return result, nil
}

// =============================================================================
// RATE VERSIONS
// =============================================================================

func (m *Memory) SaveRateVersion(_ context.Context, name, configJSON string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveRateLocked(name, configJSON), nil
}

func (m *Memory) saveRateLocked(name, configJSON string) int {
	v := generic.RateVersion{
		Version:    len(m.rates) + 1,
		Name:       name,
		ConfigJSON: configJSON,
		CreatedAt:  time.Now().UTC(),
	}
	m.rates = append(m.rates, v)
	return v.Version
}

func (m *Memory) ActiveRateVersion(_ context.Context) (*generic.RateVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.rates) == 0 {
		return nil, generic.ErrRatesNotFound
	}
	v := m.rates[len(m.rates)-1]
	return &v, nil
}

func (m *Memory) ListRateVersions(_ context.Context) ([]generic.RateVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]generic.RateVersion{}, m.rates...), nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return generic.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(generic.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()
	view := &txMemoryView{parent: tm}

	if err := fn(view); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	entries  map[generic.EntryID]generic.ShiftRecord
	history  map[generic.EntryID][]generic.PayRecord
	records  map[generic.RecordID]bool
	rates    []generic.RateVersion
	holidays map[string]generic.Holiday
}

func (tm *TxMemory) snapshot() memorySnapshot {
	s := memorySnapshot{
		entries:  make(map[generic.EntryID]generic.ShiftRecord, len(tm.entries)),
		history:  make(map[generic.EntryID][]generic.PayRecord, len(tm.history)),
		records:  make(map[generic.RecordID]bool, len(tm.records)),
		rates:    append([]generic.RateVersion{}, tm.rates...),
		holidays: make(map[string]generic.Holiday, len(tm.holidays)),
	}
	for k, v := range tm.entries {
		s.entries[k] = v
	}
	for k, v := range tm.history {
		s.history[k] = append([]generic.PayRecord{}, v...)
	}
	for k, v := range tm.records {
		s.records[k] = v
	}
	for k, v := range tm.holidays {
		s.holidays[k] = v
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.entries = s.entries
	tm.history = s.history
	tm.records = s.records
	tm.rates = s.rates
	tm.holidays = s.holidays
}

// txMemoryView runs against the parent's maps while the parent lock is held.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) SaveEntry(_ context.Context, rec generic.ShiftRecord) error {
	tv.parent.entries[rec.ID] = rec
	return nil
}

func (tv *txMemoryView) GetEntry(_ context.Context, id generic.EntryID) (*generic.ShiftRecord, error) {
	return tv.parent.getEntryLocked(id)
}

func (tv *txMemoryView) ListEntries(_ context.Context, filter generic.EntryFilter) ([]generic.ShiftRecord, error) {
	return tv.parent.listEntriesLocked(filter), nil
}

func (tv *txMemoryView) DeleteEntry(_ context.Context, id generic.EntryID) error {
	if _, ok := tv.parent.entries[id]; !ok {
		return generic.ErrEntryNotFound
	}
	delete(tv.parent.entries, id)
	return nil
}

func (tv *txMemoryView) ListStaleEntries(_ context.Context, version int, after *generic.EntryCursor, limit int) ([]generic.ShiftRecord, error) {
	return tv.parent.listStaleLocked(version, after, limit), nil
}

func (tv *txMemoryView) AppendPayRecord(_ context.Context, rec generic.PayRecord) error {
	return tv.parent.appendLocked(rec)
}

func (tv *txMemoryView) PayHistory(_ context.Context, entryID generic.EntryID) ([]generic.PayRecord, error) {
	return append([]generic.PayRecord{}, tv.parent.history[entryID]...), nil
}

func (tv *txMemoryView) SaveRateVersion(_ context.Context, name, configJSON string) (int, error) {
	return tv.parent.saveRateLocked(name, configJSON), nil
}

func (tv *txMemoryView) ActiveRateVersion(_ context.Context) (*generic.RateVersion, error) {
	if len(tv.parent.rates) == 0 {
		return nil, generic.ErrRatesNotFound
	}
	v := tv.parent.rates[len(tv.parent.rates)-1]
	return &v, nil
}

func (tv *txMemoryView) ListRateVersions(_ context.Context) ([]generic.RateVersion, error) {
	return append([]generic.RateVersion{}, tv.parent.rates...), nil
}

func (tv *txMemoryView) SaveHoliday(_ context.Context, h generic.Holiday) error {
	tv.parent.holidays[h.ID] = h
	return nil
}

func (tv *txMemoryView) DeleteHoliday(_ context.Context, id string) error {
	if _, ok := tv.parent.holidays[id]; !ok {
		return generic.ErrHolidayNotFound
	}
	delete(tv.parent.holidays, id)
	return nil
}

func (tv *txMemoryView) ListHolidays(_ context.Context) ([]generic.Holiday, error) {
	result := make([]generic.Holiday, 0, len(tv.parent.holidays))
	for _, h := range tv.parent.holidays {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Compile-time checks
var (
	_ generic.Store   = (*Memory)(nil)
	_ generic.TxStore = (*TxMemory)(nil)
	_ generic.Store   = (*txMemoryView)(nil)
)
