package world

import (
	"time"

	"homestead.ai/internal/sim/structures"
)

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	Agents        int `json:"agents"`
	Homes         int `json:"homes"`
	Fields        int `json:"fields"`
	GrownFields   int `json:"grown_fields"`
	ReservedCells int `json:"reserved_cells"`

	Delivered map[string]int `json:"delivered,omitempty"`

	StepMS float64 `json:"step_ms"`
}

func (w *World) Metrics() WorldMetrics {
	if m := w.metrics.Load(); m != nil {
		return *m
	}
	return WorldMetrics{}
}

func (w *World) publishMetrics(step time.Duration) {
	m := &WorldMetrics{
		Tick:          w.tick.Load(),
		Agents:        len(w.agents),
		ReservedCells: w.grid.Len(),
		Delivered:     w.Totals(),
		StepMS:        float64(step.Microseconds()) / 1000,
	}
	for _, id := range w.store.IDs() {
		st, _ := w.store.Get(id)
		switch st.Kind {
		case structures.KindHome:
			m.Homes++
		case structures.KindField:
			m.Fields++
			if st.Growth == structures.Grown {
				m.GrownFields++
			}
		}
	}
	w.metrics.Store(m)
}
