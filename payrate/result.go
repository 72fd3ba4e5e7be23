package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// PayLine is one priced piece of a shift. For hourly bands Amount is
// Hours × Rate; for the sleepover line Rate is the flat allowance.
type PayLine struct {
	Date   generic.Date
	Start  generic.ClockTime
	End    generic.ClockTime
	Band   Band
	Hours  decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// StaffPay is what the worker is paid for a shift.
type StaffPay struct {
	HoursWorked        decimal.Decimal
	BasePay            decimal.Decimal
	SleepoverAllowance decimal.Decimal
	WakePay            decimal.Decimal
	TotalPay           decimal.Decimal
	PayLines           []PayLine
}

// NDISLine is one client invoice line.
type NDISLine struct {
	Date        generic.Date
	Band        Band
	Code        string
	Description string
	Quantity    decimal.Decimal
	Unit        NDISUnit
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// NDISCharge is what the client is charged for a shift.
type NDISCharge struct {
	NDISHourlyCharge decimal.Decimal
	NDISShiftCharge  decimal.Decimal
	NDISTotalCharge  decimal.Decimal
	NDISLineItemCode string
	NDISDescription  string
	NDISLines        []NDISLine
}

// PayResult combines the staff and client sides of a calculation.
// All amounts are unrounded; call Rounded for display.
type PayResult struct {
	StaffPay
	NDISCharge
}

// BandHours totals hours per band across the pay lines. For a sleepover
// the sleepover band carries the full duration and any extra wake hours
// appear under weekday_night as well.
func (r StaffPay) BandHours() map[Band]decimal.Decimal {
	out := make(map[Band]decimal.Decimal)
	for _, line := range r.PayLines {
		out[line.Band] = out[line.Band].Add(line.Hours)
	}
	return out
}

// Rounded returns a copy with every amount and quantity rounded to cents.
func (r PayResult) Rounded() PayResult {
	out := PayResult{
		StaffPay: StaffPay{
			HoursWorked:        generic.RoundHours(r.HoursWorked),
			BasePay:            generic.RoundMoney(r.BasePay),
			SleepoverAllowance: generic.RoundMoney(r.SleepoverAllowance),
			WakePay:            generic.RoundMoney(r.WakePay),
			TotalPay:           generic.RoundMoney(r.TotalPay),
		},
		NDISCharge: NDISCharge{
			NDISHourlyCharge: generic.RoundMoney(r.NDISHourlyCharge),
			NDISShiftCharge:  generic.RoundMoney(r.NDISShiftCharge),
			NDISTotalCharge:  generic.RoundMoney(r.NDISTotalCharge),
			NDISLineItemCode: r.NDISLineItemCode,
			NDISDescription:  r.NDISDescription,
		},
	}
	for _, line := range r.PayLines {
		line.Hours = generic.RoundHours(line.Hours)
		line.Amount = generic.RoundMoney(line.Amount)
		out.PayLines = append(out.PayLines, line)
	}
	for _, line := range r.NDISLines {
		line.Quantity = generic.RoundHours(line.Quantity)
		line.Amount = generic.RoundMoney(line.Amount)
		out.NDISLines = append(out.NDISLines, line)
	}
	return out
}
