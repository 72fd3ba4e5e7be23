package holiday

import "github.com/warp/shift-pay-engine/generic"

// DefaultRules returns the national Australian public holidays.
// State holidays and weekend substitutes are added as one-off dates.
func DefaultRules() []generic.Holiday {
	return []generic.Holiday{
		{ID: "new-years-day", Name: "New Year's Day", Rule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
		{ID: "australia-day", Name: "Australia Day", Rule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=26"},
		{ID: "good-friday", Name: "Good Friday", Rule: "FREQ=YEARLY;BYEASTER=-2"},
		{ID: "easter-monday", Name: "Easter Monday", Rule: "FREQ=YEARLY;BYEASTER=1"},
		{ID: "anzac-day", Name: "Anzac Day", Rule: "FREQ=YEARLY;BYMONTH=4;BYMONTHDAY=25"},
		{ID: "kings-birthday", Name: "King's Birthday", Rule: "FREQ=YEARLY;BYMONTH=6;BYDAY=2MO"},
		{ID: "christmas-day", Name: "Christmas Day", Rule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"},
		{ID: "boxing-day", Name: "Boxing Day", Rule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"},
	}
}

// DefaultCalendar compiles DefaultRules.
func DefaultCalendar() *Calendar {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}
