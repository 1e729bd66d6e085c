package occupancy

import (
	"math/rand"
	"testing"

	"homestead.ai/internal/sim/logic/mathx"
)

func chebyshev(a, b CellID) int {
	return mathx.MaxInt(mathx.AbsInt(a.X-b.X), mathx.AbsInt(a.Y-b.Y))
}

func TestCellOfCenterOfRoundTrip(t *testing.T) {
	g := New(DefaultConfig(), 1)
	for _, c := range []CellID{{0, 0}, {-1, -1}, {3, -7}, {-12, 40}} {
		if got := g.CellOf(g.CenterOf(c)); got != c {
			t.Fatalf("expected %+v, got %+v", c, got)
		}
	}
	if got := g.CellOf(mathx.V(0, 0)); got != (CellID{-1, -1}) {
		t.Fatalf("expected origin in cell (-1,-1), got %+v", got)
	}
	if a, b := g.CellOf(mathx.V(110, 120)), g.CellOf(mathx.V(290, 299)); a != b {
		t.Fatalf("expected positions in one cell to collide, got %+v and %+v", a, b)
	}
}

func TestFindFreeNear_ZeroRadiusEmptyGridReturnsTargetCell(t *testing.T) {
	g := New(DefaultConfig(), 7)
	target := g.CenterOf(CellID{0, 0})
	for i := 0; i < 50; i++ {
		if got := g.FindFreeNear(target, 0); got != target {
			t.Fatalf("expected %+v, got %+v", target, got)
		}
	}
	if got := g.FindFreeNear(target, -50); got != target {
		t.Fatalf("expected negative radius to behave like zero, got %+v", got)
	}
}

func TestFindFreeNear_StaysInsideReferenceRingWhenFree(t *testing.T) {
	g := New(DefaultConfig(), 3)
	target := mathx.V(0, 0)
	tc := g.CellOf(target)
	for i := 0; i < 200; i++ {
		p := g.FindFreeNear(target, 100)
		if d := chebyshev(g.CellOf(p), tc); d > 1 {
			t.Fatalf("expected cell within distance 1 of %+v, got %+v (d=%d)", tc, g.CellOf(p), d)
		}
		if p != g.CenterOf(g.CellOf(p)) {
			t.Fatalf("expected a cell centre, got %+v", p)
		}
	}
}

func TestFindFreeNear_NeverReturnsReservedCell(t *testing.T) {
	g := New(DefaultConfig(), 11)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 60; i++ {
		g.Reserve(g.CenterOf(CellID{X: rng.Intn(9) - 4, Y: rng.Intn(9) - 4}))
	}
	for _, radius := range []float64{0, 100, 250, 600} {
		for i := 0; i < 100; i++ {
			p := g.FindFreeNear(mathx.V(0, 0), radius)
			if g.Reserved(p) {
				t.Fatalf("radius %v: returned reserved cell %+v", radius, g.CellOf(p))
			}
		}
	}
}

func TestFindFreeNear_ExpandsWhenFirstRingFull(t *testing.T) {
	g := New(DefaultConfig(), 5)
	tc := CellID{0, 0}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			g.Reserve(g.CenterOf(CellID{X: dx, Y: dy}))
		}
	}
	for i := 0; i < 100; i++ {
		p := g.FindFreeNear(g.CenterOf(tc), 200)
		d := chebyshev(g.CellOf(p), tc)
		if d < 2 || d > 4 {
			t.Fatalf("expected expansion ring [2,4], got distance %d", d)
		}
	}
}

func TestFindFreeNear_FavoursNearCells(t *testing.T) {
	g := New(DefaultConfig(), 21)
	tc := CellID{0, 0}
	counts := map[int]int{}
	for i := 0; i < 20000; i++ {
		c := g.CellOf(g.FindFreeNear(g.CenterOf(tc), 600))
		counts[c.X*c.X+c.Y*c.Y]++
	}
	if counts[0] <= counts[18] {
		t.Fatalf("expected centre cell to outdraw all four corners, got centre=%d corners=%d", counts[0], counts[18])
	}
}

func TestReserveReleaseRestoresState(t *testing.T) {
	g := New(DefaultConfig(), 1)
	p := mathx.V(510, -330)
	g.Reserve(mathx.V(900, 900))
	before := g.Len()

	g.Reserve(p)
	g.Reserve(p)
	if g.Len() != before+1 {
		t.Fatalf("expected set semantics, got len=%d", g.Len())
	}
	g.Release(p)
	if g.Len() != before || g.Reserved(p) {
		t.Fatalf("expected release to restore state, got len=%d reserved=%v", g.Len(), g.Reserved(p))
	}

	g.Release(mathx.V(-5000, 5000))
	if g.Len() != before {
		t.Fatalf("expected releasing a free cell to be a no-op, got len=%d", g.Len())
	}
}

func TestCellsSorted(t *testing.T) {
	g := New(DefaultConfig(), 1)
	g.Reserve(g.CenterOf(CellID{2, 1}))
	g.Reserve(g.CenterOf(CellID{-1, 5}))
	g.Reserve(g.CenterOf(CellID{2, -3}))
	got := g.Cells()
	want := []CellID{{-1, 5}, {2, -3}, {2, 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %+v at %d, got %+v", want[i], i, got[i])
		}
	}
}
