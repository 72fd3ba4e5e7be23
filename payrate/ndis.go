package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// CalculateNDIS computes the client charge for a shift from the NDIS
// catalogue. Segment bands are the same as for staff pay.
//
// Active shifts bill each segment hourly and carry no shift charge. A
// sleepover bills the sleepover item once as the shift charge, plus extra
// wake hours at the weekday_night item. The primary line item is the
// sleepover item, or for active shifts the band with the most minutes
// (earliest segment on a tie).
func CalculateNDIS(shift ShiftInput, catalogue NDISCatalogue, holidays generic.HolidayCalendar) (NDISCharge, error) {
	segments, err := SplitShift(shift)
	if err != nil {
		return NDISCharge{}, err
	}
	if shift.IsSleepover {
		return sleepoverCharge(shift, catalogue)
	}

	var charge NDISCharge
	minutesByBand := make(map[Band]int)
	var order []Band
	for _, seg := range segments {
		band := Classify(seg, isHoliday(shift, seg, holidays))
		item, err := catalogue.Item(band)
		if err != nil {
			return NDISCharge{}, err
		}
		amount := generic.PriceMinutes(seg.Minutes(), item.Rate)
		charge.NDISLines = append(charge.NDISLines, NDISLine{
			Date:        seg.Date,
			Band:        band,
			Code:        item.Code,
			Description: item.Description,
			Quantity:    seg.Hours(),
			Unit:        item.Unit,
			Rate:        item.Rate,
			Amount:      amount,
		})
		charge.NDISHourlyCharge = charge.NDISHourlyCharge.Add(amount)
		if _, seen := minutesByBand[band]; !seen {
			order = append(order, band)
		}
		minutesByBand[band] += seg.Minutes()
	}

	primary := order[0]
	for _, band := range order[1:] {
		if minutesByBand[band] > minutesByBand[primary] {
			primary = band
		}
	}
	item, _ := catalogue.Item(primary)
	charge.NDISLineItemCode = item.Code
	charge.NDISDescription = item.Description
	charge.NDISShiftCharge = decimal.Zero
	charge.NDISTotalCharge = charge.NDISHourlyCharge
	return charge, nil
}

func sleepoverCharge(shift ShiftInput, catalogue NDISCatalogue) (NDISCharge, error) {
	item, err := catalogue.Item(BandSleepover)
	if err != nil {
		return NDISCharge{}, err
	}
	charge := NDISCharge{
		NDISHourlyCharge: decimal.Zero,
		NDISShiftCharge:  item.Rate,
		NDISLineItemCode: item.Code,
		NDISDescription:  item.Description,
	}
	charge.NDISLines = append(charge.NDISLines, NDISLine{
		Date:        shift.Date,
		Band:        BandSleepover,
		Code:        item.Code,
		Description: item.Description,
		Quantity:    decimal.NewFromInt(1),
		Unit:        item.Unit,
		Rate:        item.Rate,
		Amount:      item.Rate,
	})

	if extra := shift.ExtraWakeHours(); extra.IsPositive() {
		night, err := catalogue.Item(BandWeekdayNight)
		if err != nil {
			return NDISCharge{}, err
		}
		amount := generic.PriceHours(extra, night.Rate)
		charge.NDISHourlyCharge = amount
		charge.NDISLines = append(charge.NDISLines, NDISLine{
			Date:        shift.Date,
			Band:        BandWeekdayNight,
			Code:        night.Code,
			Description: night.Description,
			Quantity:    extra,
			Unit:        night.Unit,
			Rate:        night.Rate,
			Amount:      amount,
		})
	}

	charge.NDISTotalCharge = charge.NDISHourlyCharge.Add(charge.NDISShiftCharge)
	return charge, nil
}
