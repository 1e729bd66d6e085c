package behavior

import (
	"math"
	"testing"

	"homestead.ai/internal/sim/logic/mathx"
)

func TestMover_SnapsToTargetWithinOneStep(t *testing.T) {
	m := NewMover(DefaultMoveConfig())
	target := mathx.V(10, 0)
	m.Start(mathx.V(0, 0), target)
	st, pos := m.Advance(0.2)
	if st != Success {
		t.Fatalf("expected Success, got %s", st)
	}
	if pos != target {
		t.Fatalf("expected exact target %+v, got %+v", target, pos)
	}
}

func TestMover_StepsAlongBearing(t *testing.T) {
	m := NewMover(DefaultMoveConfig())
	m.Start(mathx.V(0, 0), mathx.V(100, 0))
	st, pos := m.Advance(0.1)
	if st != Running {
		t.Fatalf("expected Running, got %s", st)
	}
	if math.Abs(pos.X-10) > 1e-9 {
		t.Fatalf("expected x=10, got %v", pos.X)
	}
	// First step carries no bob: elapsed time is still zero.
	if pos.Y != 0 {
		t.Fatalf("expected no bob on first step, got y=%v", pos.Y)
	}
}

func TestMover_ReferenceMovesExactlyOneStep(t *testing.T) {
	cfg := DefaultMoveConfig()
	m := NewMover(cfg)
	start, target := mathx.V(-30, 40), mathx.V(270, 440)
	m.Start(start, target)
	dir := start.DirectionTo(target)
	prev := start
	for i := 0; i < 4; i++ {
		dt := 0.05 * float64(i+1)
		st, pos := m.Advance(dt)
		if st != Running {
			t.Fatalf("step %d: expected Running, got %s", i, st)
		}
		ref := m.Reference()
		want := prev.Add(dir.Scale(cfg.Speed * dt))
		if ref.DistanceTo(want) > 1e-9 {
			t.Fatalf("step %d: expected reference %+v, got %+v", i, want, ref)
		}
		bob := ref.Y - pos.Y
		if pos.X != ref.X || bob < -1e-9 || bob > cfg.MaxStepHeight+1e-9 {
			t.Fatalf("step %d: expected pure vertical bob within [0,%v], got %+v vs ref %+v", i, cfg.MaxStepHeight, pos, ref)
		}
		prev = ref
	}
}

func TestMover_ArrivesAfterEnoughTicks(t *testing.T) {
	m := NewMover(DefaultMoveConfig())
	target := mathx.V(0, 250)
	m.Start(mathx.V(0, 0), target)
	var st Status
	var pos mathx.Vec2
	ticks := 0
	for st = Running; st == Running && ticks < 100; ticks++ {
		st, pos = m.Advance(0.1)
	}
	if st != Success || pos != target {
		t.Fatalf("expected arrival at %+v, got %s %+v", target, st, pos)
	}
	if ticks != 26 {
		t.Fatalf("expected 26 ticks for 250 units at 10/tick, got %d", ticks)
	}
}

func TestMover_StartResetsElapsed(t *testing.T) {
	m := NewMover(DefaultMoveConfig())
	m.Start(mathx.V(0, 0), mathx.V(1000, 0))
	m.Advance(0.05)
	m.Advance(0.05)
	m.Start(mathx.V(0, 0), mathx.V(1000, 0))
	_, pos := m.Advance(0.05)
	if pos.Y != 0 {
		t.Fatalf("expected bob reset after Start, got y=%v", pos.Y)
	}
}

func TestMover_IdleReportsSuccess(t *testing.T) {
	m := NewMover(DefaultMoveConfig())
	if st, _ := m.Advance(1); st != Success {
		t.Fatalf("expected Success from an idle mover, got %s", st)
	}
}
