package behavior

import "homestead.ai/internal/sim/logic/mathx"

// Progress accumulates build time toward Duration, or drains it back to zero
// when deconstructing. It only reports a fraction; callers apply it.
type Progress struct {
	duration       float64
	value          float64
	deconstructing bool
}

func NewProgress(duration float64) *Progress {
	return &Progress{duration: duration}
}

func (p *Progress) BeginConstruction() {
	p.value = 0
	p.deconstructing = false
}

func (p *Progress) BeginDeconstruction() {
	p.value = p.duration
	p.deconstructing = true
}

func (p *Progress) Deconstructing() bool { return p.deconstructing }

func (p *Progress) Advance(dt float64) (float64, Status) {
	if p.deconstructing {
		p.value -= dt
		if p.duration <= 0 || p.value <= 0 {
			return 0, Success
		}
		return mathx.Clamp01(p.value / p.duration), Running
	}
	p.value += dt
	if p.duration <= 0 || p.value >= p.duration {
		return 1, Success
	}
	return mathx.Clamp01(p.value / p.duration), Running
}
