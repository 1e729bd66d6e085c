package structures

import (
	"testing"

	"homestead.ai/internal/sim/logic/mathx"
)

func TestCreateAssignsStableIDs(t *testing.T) {
	s := NewStore(Config{})
	a := s.Create(KindHome, mathx.V(1, 2))
	b := s.Create(KindField, mathx.V(3, 4))
	s.Destroy(a)
	c := s.Create(KindField, mathx.V(5, 6))
	if a == b || b == c || a == c {
		t.Fatalf("expected distinct ids, got %d %d %d", a, b, c)
	}
	if _, ok := s.Get(a); ok {
		t.Fatalf("expected destroyed id %d to be gone", a)
	}
	if got := s.IDs(); len(got) != 2 || got[0] != b || got[1] != c {
		t.Fatalf("unexpected ids %v", got)
	}
	if s.PositionOf(c) != mathx.V(5, 6) {
		t.Fatalf("unexpected position %+v", s.PositionOf(c))
	}
}

func TestFieldGrowsOnlyAfterCompletion(t *testing.T) {
	s := NewStore(Config{FieldGrowSeconds: 2})
	f := s.Create(KindField, mathx.V(0, 0))
	s.Tick(5)
	if s.Grown(f) {
		t.Fatalf("expected unfinished field to stay growing")
	}
	s.ApplyProgress(f, 0.5)
	s.MarkCompleted(f)
	if grown := s.Tick(1.5); len(grown) != 0 {
		t.Fatalf("expected no field grown yet, got %v", grown)
	}
	if grown := s.Tick(0.5); len(grown) != 1 || grown[0] != f {
		t.Fatalf("expected field %d grown, got %v", f, grown)
	}
	if !s.Grown(f) {
		t.Fatalf("expected field grown")
	}
	if grown := s.Tick(1); len(grown) != 0 {
		t.Fatalf("expected grown field reported once, got %v", grown)
	}
}

func TestApplyProgressClamps(t *testing.T) {
	s := NewStore(Config{})
	h := s.Create(KindHome, mathx.V(0, 0))
	s.ApplyProgress(h, 1.7)
	st, _ := s.Get(h)
	if st.Built != 1 {
		t.Fatalf("expected clamp to 1, got %v", st.Built)
	}
	if s.InventoryOf(h) == nil {
		t.Fatalf("expected home inventory")
	}
}

func TestDestroyTwicePanics(t *testing.T) {
	s := NewStore(Config{})
	f := s.Create(KindField, mathx.V(0, 0))
	s.Destroy(f)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double destroy")
		}
	}()
	s.Destroy(f)
}
