package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// DefaultRateTable returns the built-in staff rates (SCHADS level 2.3
// casual, including loading).
func DefaultRateTable() RateTable {
	d := generic.MustParseDecimal
	return MustRateTable(map[Band]decimal.Decimal{
		BandWeekdayDay:     d("42.00"),
		BandWeekdayEvening: d("44.50"),
		BandWeekdayNight:   d("48.50"),
		BandSaturday:       d("57.50"),
		BandSunday:         d("74.00"),
		BandPublicHoliday:  d("95.00"),
		BandSleepover:      d("175.00"),
	})
}

// DefaultNDISCatalogue returns the built-in NDIS support items
// (Assistance With Self-Care Activities, standard intensity, national
// non-remote).
func DefaultNDISCatalogue() NDISCatalogue {
	d := generic.MustParseDecimal
	const prefix = "Assistance With Self-Care Activities - Standard - "
	return MustNDISCatalogue(map[Band]NDISItem{
		BandWeekdayDay:     {Code: "01_011_0107_1_1", Description: prefix + "Weekday Daytime", Rate: d("67.56"), Unit: NDISUnitHour},
		BandWeekdayEvening: {Code: "01_015_0107_1_1", Description: prefix + "Weekday Evening", Rate: d("74.44"), Unit: NDISUnitHour},
		BandWeekdayNight:   {Code: "01_002_0107_1_1", Description: prefix + "Weekday Night", Rate: d("75.82"), Unit: NDISUnitHour},
		BandSaturday:       {Code: "01_013_0107_1_1", Description: prefix + "Saturday", Rate: d("95.07"), Unit: NDISUnitHour},
		BandSunday:         {Code: "01_014_0107_1_1", Description: prefix + "Sunday", Rate: d("122.59"), Unit: NDISUnitHour},
		BandPublicHoliday:  {Code: "01_012_0107_1_1", Description: prefix + "Public Holiday", Rate: d("150.10"), Unit: NDISUnitHour},
		BandSleepover:      {Code: "01_010_0107_1_1", Description: "Assistance With Self-Care Activities - Night-Time Sleepover", Rate: d("297.60"), Unit: NDISUnitEach},
	})
}
