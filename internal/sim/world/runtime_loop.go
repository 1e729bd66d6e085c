package world

import (
	"context"
	"time"
)

// Run drives Step from a ticker at TickRateHz with a fixed dt of one tick
// period. It returns ctx.Err() on cancellation and nil after Stop or once
// MaxTicks have been stepped.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if w.done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case <-ticker.C:
			w.StepOnce()
		}
	}
}

// RunFast steps as fast as possible until ctx is cancelled, Stop is called
// or MaxTicks is reached. Used for offline runs.
func (w *World) RunFast(ctx context.Context) error {
	for !w.done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		default:
		}
		w.StepOnce()
	}
	return nil
}

func (w *World) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *World) done() bool {
	return w.cfg.MaxTicks > 0 && w.tick.Load() >= w.cfg.MaxTicks
}

// StepOnce advances one tick of 1/TickRateHz seconds.
func (w *World) StepOnce() (uint64, string) {
	return w.Step(1 / float64(w.cfg.TickRateHz))
}

// Step advances field growth, then every agent in join order. Returns the
// tick that was stepped and the state digest after it.
func (w *World) Step(dt float64) (uint64, string) {
	start := time.Now()
	tick := w.tick.Load()

	grown := w.store.Tick(dt)
	for _, a := range w.agents {
		a.Tick(dt)
	}

	digest := w.stateDigest(tick)
	events := w.events
	w.events = nil
	if w.tickLogger != nil {
		if err := w.tickLogger.WriteTick(TickLogEntry{
			RunID:  w.runID,
			World:  w.cfg.ID,
			Tick:   tick,
			Events: events,
			Grown:  grown,
			Digest: digest,
		}); err != nil {
			w.logger.Printf("tick log: %v", err)
		}
	}

	w.tick.Store(tick + 1)
	w.publishMetrics(time.Since(start))
	return tick, digest
}
