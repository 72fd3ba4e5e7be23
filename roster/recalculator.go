/*
recalculator.go - Background repricing of stale roster entries

PURPOSE:
  After a rate change every stored entry is priced with an old version.
  The recalculator works through them in batches so PUT /api/rates
  returns immediately and a large roster is repriced in the background.

DESIGN:
  - One goroutine, woken by a ticker or by Trigger
  - Each wake makes one pass: RecalculateStale pages by cursor until the
    stale entries run out, so a failing batch is skipped, not retried forever
  - Trigger never blocks; repeated triggers while busy coalesce into one
  - Stop cancels the in-flight batch and waits for the goroutine

USAGE:
  recalc := roster.NewRecalculator(svc, time.Minute, logger)
  recalc.Start()
  defer recalc.Stop()
*/
package roster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/shift-pay-engine/generic"
)

// Recalculator reprices stale entries in the background.
type Recalculator struct {
	Service  *Service
	Interval time.Duration
	Logger   *zap.Logger

	trigger chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewRecalculator(svc *Service, interval time.Duration, logger *zap.Logger) *Recalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recalculator{
		Service:  svc,
		Interval: interval,
		Logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start begins the background loop. Calling Start twice is a no-op.
func (r *Recalculator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	go r.run(ctx)

	r.Logger.Info("recalculator started", zap.Duration("interval", r.Interval))
}

// Stop cancels work in progress and waits for the loop to exit.
func (r *Recalculator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.cancel()
	r.wg.Wait()
	r.running = false
	r.Logger.Info("recalculator stopped")
}

// Trigger requests a run as soon as possible.
func (r *Recalculator) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Recalculator) run(ctx context.Context) {
	defer r.wg.Done()

	var tick <-chan time.Time
	if r.Interval > 0 {
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.drain(ctx)
		case <-r.trigger:
			r.drain(ctx)
		}
	}
}

// RunNow walks every stale entry once, paging past entries that fail so
// they don't hold back the rest. It returns the total repriced.
func (r *Recalculator) RunNow(ctx context.Context) int {
	return r.drain(ctx)
}

func (r *Recalculator) drain(ctx context.Context) int {
	total := 0
	var cursor *generic.EntryCursor
	for ctx.Err() == nil {
		n, next, err := r.Service.RecalculateStale(ctx, cursor)
		total += n
		if err != nil {
			r.Logger.Warn("recalculation incomplete", zap.Error(err))
		}
		if next == nil {
			break
		}
		cursor = next
	}
	if total > 0 {
		r.Logger.Info("recalculation complete", zap.Int("repriced", total))
	}
	return total
}
