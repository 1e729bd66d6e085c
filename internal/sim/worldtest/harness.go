package worldtest

import (
	"testing"

	"homestead.ai/internal/sim/behavior"
	world "homestead.ai/internal/sim/world"
)

// Harness is a small black-box test helper for driving a world via exported
// APIs. Every tick entry is recorded so tests can assert on event order.
type Harness struct {
	T *testing.T
	W *world.World

	Entries []world.TickLogEntry
	extra   world.TickLogger
}

func NewHarness(t *testing.T, cfg world.WorldConfig) *Harness {
	t.Helper()

	w, err := world.New(cfg)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	h := &Harness{T: t, W: w}
	w.SetTickLogger(h)
	return h
}

// Tee forwards every entry to l as well.
func (h *Harness) Tee(l world.TickLogger) { h.extra = l }

func (h *Harness) WriteTick(e world.TickLogEntry) error {
	h.Entries = append(h.Entries, e)
	if h.extra != nil {
		return h.extra.WriteTick(e)
	}
	return nil
}

func (h *Harness) StepN(n int) {
	for i := 0; i < n; i++ {
		h.W.StepOnce()
	}
}

// StepUntil steps until pred holds, failing the test after max ticks.
func (h *Harness) StepUntil(max int, what string, pred func() bool) {
	h.T.Helper()
	for i := 0; i < max; i++ {
		if pred() {
			return
		}
		h.W.StepOnce()
	}
	if !pred() {
		h.T.Fatalf("%s: not reached within %d ticks", what, max)
	}
}

// Events returns recorded events for agent (all agents when empty) in order.
func (h *Harness) Events(agent string) []behavior.Event {
	var out []behavior.Event
	for _, e := range h.Entries {
		for _, ev := range e.Events {
			if agent == "" || ev.Agent == agent {
				out = append(out, ev)
			}
		}
	}
	return out
}

func (h *Harness) Count(agent string, kind behavior.EventKind) int {
	n := 0
	for _, ev := range h.Events(agent) {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
