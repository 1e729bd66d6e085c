package behavior

import (
	"math"

	"homestead.ai/internal/sim/logic/mathx"
)

type MoveConfig struct {
	Speed         float64
	MaxStepHeight float64
	StepPeriod    float64
}

func DefaultMoveConfig() MoveConfig {
	return MoveConfig{Speed: 100, MaxStepHeight: 20, StepPeriod: 0.1}
}

// Mover walks a reference point toward a target at constant speed. The
// reported position carries a vertical bob; the reference point does not.
type Mover struct {
	cfg     MoveConfig
	ref     mathx.Vec2
	target  mathx.Vec2
	elapsed float64
	active  bool
}

func NewMover(cfg MoveConfig) *Mover {
	return &Mover{cfg: cfg}
}

func (m *Mover) Start(current, target mathx.Vec2) {
	m.ref = current
	m.target = target
	m.elapsed = 0
	m.active = true
}

func (m *Mover) Reference() mathx.Vec2 { return m.ref }
func (m *Mover) Target() mathx.Vec2    { return m.target }

// Advance moves by Speed*dt. When the target is closer than one step it snaps
// to the target exactly and reports Success.
func (m *Mover) Advance(dt float64) (Status, mathx.Vec2) {
	if !m.active {
		return Success, m.ref
	}
	step := m.cfg.Speed * dt
	if m.ref.DistanceTo(m.target) < step {
		m.ref = m.target
		m.active = false
		return Success, m.target
	}
	m.ref = m.ref.Add(m.ref.DirectionTo(m.target).Scale(step))
	// Screen coordinates: up is -Y.
	out := m.ref.Add(mathx.V(0, -m.stepHeight()))
	m.elapsed += dt
	return Running, out
}

func (m *Mover) stepHeight() float64 {
	if m.cfg.StepPeriod <= 0 {
		return 0
	}
	return m.cfg.MaxStepHeight * math.Abs(math.Sin(m.elapsed/m.cfg.StepPeriod))
}
