package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/holiday"
)

// Holidays returns the stored holiday definitions.
func (s *Service) Holidays(ctx context.Context) ([]generic.Holiday, error) {
	return s.store.ListHolidays(ctx)
}

// HolidayOccurrences returns the holidays falling in year.
func (s *Service) HolidayOccurrences(year int) []generic.HolidayOccurrence {
	s.mu.RLock()
	cal := s.holidays
	s.mu.RUnlock()
	if cal == nil {
		return nil
	}
	return cal.Occurrences(year)
}

// AddHoliday stores a holiday and reprices entries it touches.
func (s *Service) AddHoliday(ctx context.Context, h generic.Holiday) (*generic.Holiday, error) {
	if err := holiday.Validate(h); err != nil {
		return nil, err
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = s.now()
	if err := s.store.SaveHoliday(ctx, h); err != nil {
		return nil, fmt.Errorf("save holiday: %w", err)
	}
	if err := s.reloadHolidays(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("holiday added", zap.String("holiday_id", h.ID), zap.String("name", h.Name))
	if _, err := s.repriceAround(ctx, h); err != nil {
		s.logger.Warn("reprice after holiday change", zap.Error(err))
	}
	return &h, nil
}

// DeleteHoliday removes a holiday and reprices entries it touched.
func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	existing, err := s.store.ListHolidays(ctx)
	if err != nil {
		return fmt.Errorf("list holidays: %w", err)
	}
	var removed *generic.Holiday
	for i := range existing {
		if existing[i].ID == id {
			removed = &existing[i]
		}
	}
	if removed == nil {
		return fmt.Errorf("delete holiday %s: %w", id, generic.ErrHolidayNotFound)
	}
	if err := s.store.DeleteHoliday(ctx, id); err != nil {
		return fmt.Errorf("delete holiday %s: %w", id, err)
	}
	if err := s.reloadHolidays(ctx); err != nil {
		return err
	}
	s.logger.Info("holiday deleted", zap.String("holiday_id", id))
	if _, err := s.repriceAround(ctx, *removed); err != nil {
		s.logger.Warn("reprice after holiday change", zap.Error(err))
	}
	return nil
}

func (s *Service) reloadHolidays(ctx context.Context) error {
	defs, err := s.store.ListHolidays(ctx)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	cal, err := holiday.New(defs)
	if err != nil {
		return fmt.Errorf("build holiday calendar: %w", err)
	}
	s.mu.Lock()
	s.holidays = cal
	s.mu.Unlock()
	return nil
}

// repriceAround reprices entries dated on a holiday or the day before it,
// since an overnight shift reaches into the next day. Recurring holidays
// are expanded over the years entries exist for.
func (s *Service) repriceAround(ctx context.Context, h generic.Holiday) (int, error) {
	one, err := holiday.New([]generic.Holiday{h})
	if err != nil {
		return 0, err
	}

	var dates []generic.Date
	if h.IsRecurring() {
		years, err := s.entryYears(ctx)
		if err != nil {
			return 0, err
		}
		for _, y := range years {
			for _, occ := range one.Occurrences(y) {
				dates = append(dates, occ.Date)
			}
		}
	} else {
		dates = append(dates, h.Date)
	}

	seen := make(map[generic.EntryID]bool)
	var recs []generic.ShiftRecord
	for _, d := range dates {
		from := d.AddDays(-1)
		to := d
		matches, err := s.store.ListEntries(ctx, generic.EntryFilter{From: &from, To: &to})
		if err != nil {
			return 0, fmt.Errorf("list entries: %w", err)
		}
		for _, rec := range matches {
			if !seen[rec.ID] {
				seen[rec.ID] = true
				recs = append(recs, rec)
			}
		}
	}
	if len(recs) == 0 {
		return 0, nil
	}
	return s.reprice(ctx, recs, ReasonHoliday)
}

func (s *Service) entryYears(ctx context.Context) ([]int, error) {
	all, err := s.store.ListEntries(ctx, generic.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	set := make(map[int]bool)
	for _, rec := range all {
		set[rec.Date.Year()] = true
		// A 31 December overnight shift reaches a 1 January holiday.
		set[rec.Date.AddDays(1).Year()] = true
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
