package behavior

import (
	"testing"

	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/occupancy"
	"homestead.ai/internal/sim/structures"
)

type fakeWork struct {
	jobs    int
	perJob  int
	left    int
	started int
	home    structures.ID
}

func (w *fakeWork) WorkAvailable() bool { return w.jobs > 0 }

func (w *fakeWork) StartWork(home structures.ID, _ string) {
	w.started++
	w.home = home
	w.left = w.perJob
}

func (w *fakeWork) Work(_ float64, pos mathx.Vec2) (Status, mathx.Vec2, bool) {
	if w.left > 0 {
		w.left--
		return Running, pos.Add(mathx.V(1, 0)), true
	}
	w.jobs--
	return Success, pos, false
}

func newTestAgent(work WorkBehavior, events EventSink) (*Agent, *structures.Store) {
	grid := occupancy.New(occupancy.DefaultConfig(), 1)
	store := structures.NewStore(structures.Config{})
	home := NewMoveAndBuild(structures.KindHome, BuildConfig{Radius: 600, Offset: mathx.V(0, 100), Duration: 2}, DefaultMoveConfig(), grid, store)
	return NewAgent("farmer-1", mathx.V(0, 0), home, work, events), store
}

func TestAgent_SecuresHomeThenWorksInSameTick(t *testing.T) {
	work := &fakeWork{jobs: 1, perJob: 3}
	var kinds []EventKind
	a, store := newTestAgent(work, func(e Event) { kinds = append(kinds, e.Kind) })

	a.Tick(0.1)
	if a.State() != AgentSecuringHome {
		t.Fatalf("expected SECURING_HOME, got %s", a.State())
	}
	if _, ok := a.Home(); ok {
		t.Fatalf("expected home not yet secured")
	}

	for i := 0; i < 1000 && work.started == 0; i++ {
		a.Tick(0.1)
		if _, ok := a.Home(); ok && work.started == 0 {
			t.Fatalf("expected work to start in the tick the home completed")
		}
	}
	home, ok := a.Home()
	if !ok {
		t.Fatalf("expected home secured")
	}
	if st, _ := store.Get(home); !st.Completed {
		t.Fatalf("expected completed home")
	}
	if work.home != home {
		t.Fatalf("expected work started with home %d, got %d", home, work.home)
	}
	if a.State() != AgentWorking {
		t.Fatalf("expected WORKING, got %s", a.State())
	}

	want := []EventKind{EventHomeStarted, EventHomeBuilt, EventWorkStarted}
	if len(kinds) != len(want) {
		t.Fatalf("expected events %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, kinds)
		}
	}
}

func TestAgent_WorkLoopReturnsToIdle(t *testing.T) {
	work := &fakeWork{jobs: 2, perJob: 2}
	a, _ := newTestAgent(work, nil)
	for i := 0; i < 1000; i++ {
		a.Tick(0.1)
		if work.jobs == 0 {
			break
		}
	}
	if work.jobs != 0 || work.started != 2 {
		t.Fatalf("expected two jobs run, got jobs=%d started=%d", work.jobs, work.started)
	}
	if a.State() != AgentIdle {
		t.Fatalf("expected IDLE once work ran out, got %s", a.State())
	}
	before := a.Position()
	if pos, moved := a.Tick(0.1); moved || pos != before {
		t.Fatalf("expected idle agent to stay put, got %+v moved=%v", pos, moved)
	}
}

func TestAgent_MovesTowardHomeSite(t *testing.T) {
	a, _ := newTestAgent(&fakeWork{}, nil)
	pos, moved := a.Tick(0.1)
	if !moved {
		t.Fatalf("expected agent to move toward home site")
	}
	if d := pos.DistanceTo(mathx.V(0, 0)); d == 0 || d > 10+20+1e-9 {
		t.Fatalf("expected one step of travel, got %+v", pos)
	}
	if a.Position() != pos {
		t.Fatalf("expected agent position updated")
	}
}
