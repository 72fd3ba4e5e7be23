package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/payrate"
	"github.com/warp/shift-pay-engine/roster"
)

func TestRecalculator_RepricesAfterRateChange(t *testing.T) {
	// GIVEN: A running recalculator wired to the rate change hook
	ctx := context.Background()
	var recalc *roster.Recalculator
	svc, _ := newTestService(t, roster.WithRatesChangedHook(func() { recalc.Trigger() }))
	recalc = roster.NewRecalculator(svc, 0, nil)
	recalc.Start()
	defer recalc.Stop()

	e := create(t, svc, "worker-1", shiftAt(monday, "09:00", "17:00"))

	// WHEN: Rates change
	_, err := svc.SetRates(ctx, withRate(t, payrate.BandWeekdayDay, "50.00"))
	require.NoError(t, err)

	// THEN: The entry is repriced without an explicit call
	require.Eventually(t, func() bool {
		got, err := svc.Get(ctx, e.ID)
		return err == nil && got.RatesVersion == 2
	}, 2*time.Second, 10*time.Millisecond)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "400.00", money(got.Pay.TotalPay))
}

func TestRecalculator_RunNowDrainsAllBatches(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, roster.WithWorkers(2, 2))
	for i := 0; i < 5; i++ {
		create(t, svc, "worker-1", shiftAt(monday.AddDays(i), "09:00", "11:00"))
	}
	_, err := svc.SetRates(ctx, withRate(t, payrate.BandSaturday, "60.00"))
	require.NoError(t, err)

	recalc := roster.NewRecalculator(svc, time.Hour, nil)
	assert.Equal(t, 5, recalc.RunNow(ctx))
	assert.Zero(t, recalc.RunNow(ctx))
}

func TestRecalculator_FailingBatchDoesNotBlockLaterEntries(t *testing.T) {
	// GIVEN: A Saturday entry queued ahead of a Monday entry, one per batch
	ctx := context.Background()
	svc, _ := newTestService(t, roster.WithWorkers(1, 1))
	saturday := generic.NewDate(2025, time.June, 14)
	sat := create(t, svc, "worker-1", shiftAt(saturday, "09:00", "17:00"))
	mon := create(t, svc, "worker-1", shiftAt(monday, "09:00", "17:00"))

	// WHEN: The new rates drop the saturday band
	staff, err := payrate.NewRateTable(map[payrate.Band]decimal.Decimal{
		payrate.BandWeekdayDay:     decimal.RequireFromString("45.00"),
		payrate.BandWeekdayEvening: decimal.RequireFromString("47.00"),
		payrate.BandWeekdayNight:   decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	_, err = svc.SetRates(ctx, &factory.RateSettings{Name: "weekdays", Staff: staff, NDIS: payrate.DefaultNDISCatalogue()})
	require.NoError(t, err)

	recalc := roster.NewRecalculator(svc, time.Hour, nil)
	assert.Equal(t, 1, recalc.RunNow(ctx))

	// THEN: The Monday entry is repriced past the failing Saturday entry
	got, err := svc.Get(ctx, mon.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatesVersion)
	assert.Equal(t, "360.00", money(got.Pay.TotalPay))

	// AND: The Saturday entry keeps its old pay and stays stale
	got, err = svc.Get(ctx, sat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RatesVersion)
	assert.Equal(t, "460.00", money(got.Pay.TotalPay))
}

func TestRecalculator_StartStopIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	recalc := roster.NewRecalculator(svc, 10*time.Millisecond, nil)

	recalc.Start()
	recalc.Start()
	recalc.Trigger()
	recalc.Trigger()
	recalc.Stop()
	recalc.Stop()
}
