// Package holiday resolves public holidays for shift classification.
//
// A Calendar is built from stored holiday definitions. One-off holidays
// carry a date; recurring ones carry an RFC 5545 RRULE such as
// "FREQ=YEARLY;BYMONTH=6;BYDAY=2MO" (second Monday in June). Rules are
// expanded one year at a time and cached.
package holiday

import (
	"sort"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/warp/shift-pay-engine/generic"
)

type compiledRule struct {
	holiday generic.Holiday
	option  rrule.ROption
}

// Calendar implements generic.HolidayCalendar.
type Calendar struct {
	fixed []generic.Holiday
	rules []compiledRule

	mu    sync.Mutex
	years map[int][]generic.HolidayOccurrence
}

var _ generic.HolidayCalendar = (*Calendar)(nil)

// New compiles holiday definitions into a calendar.
func New(holidays []generic.Holiday) (*Calendar, error) {
	c := &Calendar{years: make(map[int][]generic.HolidayOccurrence)}
	for _, h := range holidays {
		if err := Validate(h); err != nil {
			return nil, err
		}
		if !h.IsRecurring() {
			c.fixed = append(c.fixed, h)
			continue
		}
		opt, err := ParseRule(h.Rule)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, compiledRule{holiday: h, option: *opt})
	}
	return c, nil
}

// Validate checks that a holiday has a name and exactly one of a date or
// a parseable rule.
func Validate(h generic.Holiday) error {
	if h.Name == "" {
		return &generic.InputError{Field: "name", Reason: "required"}
	}
	if h.IsRecurring() == !h.Date.IsZero() {
		return &generic.InputError{Field: "date", Reason: "set exactly one of date or rule"}
	}
	if h.IsRecurring() {
		_, err := ParseRule(h.Rule)
		return err
	}
	return nil
}

// ParseRule parses an RRULE string.
func ParseRule(s string) (*rrule.ROption, error) {
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, &generic.InputError{Field: "rule", Value: s, Reason: err.Error()}
	}
	return opt, nil
}

// IsHoliday reports whether date is a holiday.
func (c *Calendar) IsHoliday(date generic.Date) bool {
	_, ok := c.Lookup(date)
	return ok
}

// Lookup returns the holiday falling on date, if any.
func (c *Calendar) Lookup(date generic.Date) (generic.HolidayOccurrence, bool) {
	for _, occ := range c.Occurrences(date.Year()) {
		if occ.Date.Equal(date) {
			return occ, true
		}
	}
	return generic.HolidayOccurrence{}, false
}

// Occurrences returns the holidays in year, sorted by date. When two
// definitions land on the same day both are returned.
func (c *Calendar) Occurrences(year int) []generic.HolidayOccurrence {
	c.mu.Lock()
	defer c.mu.Unlock()
	if occs, ok := c.years[year]; ok {
		return occs
	}

	var occs []generic.HolidayOccurrence
	for _, h := range c.fixed {
		if h.Date.Year() == year {
			occs = append(occs, generic.HolidayOccurrence{HolidayID: h.ID, Name: h.Name, Date: h.Date})
		}
	}

	start := generic.StartOfYear(year).Time
	end := generic.EndOfYear(year).Time
	for _, r := range c.rules {
		for _, t := range expand(r.option, start, end) {
			occs = append(occs, generic.HolidayOccurrence{
				HolidayID: r.holiday.ID,
				Name:      r.holiday.Name,
				Date:      generic.DateOf(t),
			})
		}
	}

	sort.SliceStable(occs, func(i, j int) bool { return occs[i].Date.Before(occs[j].Date) })
	c.years[year] = occs
	return occs
}

// expand anchors the rule at the start of the window so yearly rules
// produce one occurrence per year regardless of when they were defined.
func expand(opt rrule.ROption, start, end time.Time) []time.Time {
	opt.Dtstart = start
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}
	return rule.Between(start, end, true)
}
