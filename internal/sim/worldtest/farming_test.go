package worldtest

import (
	"encoding/json"
	"path/filepath"
	"testing"

	persistlog "homestead.ai/internal/persistence/log"
	"homestead.ai/internal/sim/behavior"
	"homestead.ai/internal/sim/inventory"
	"homestead.ai/internal/sim/tuning"
	world "homestead.ai/internal/sim/world"
)

func farmConfig(agents int, growSeconds float64) world.WorldConfig {
	cfg := world.ConfigFromTuning("test", tuning.Defaults())
	cfg.Seed = 7
	cfg.Agents = agents
	cfg.FieldGrowSeconds = growSeconds
	return cfg
}

func TestFarmer_HomeBeforeWork(t *testing.T) {
	h := NewHarness(t, farmConfig(1, 1e6))
	h.StepUntil(1000, "first field started", func() bool {
		return h.Count("farmer-1", behavior.EventFieldStarted) > 0
	})

	evs := h.Events("farmer-1")
	want := []behavior.EventKind{
		behavior.EventHomeStarted,
		behavior.EventHomeBuilt,
		behavior.EventWorkStarted,
		behavior.EventFieldStarted,
	}
	if len(evs) < len(want) {
		t.Fatalf("expected at least %d events, got %+v", len(want), evs)
	}
	for i, k := range want {
		if evs[i].Kind != k {
			t.Fatalf("event %d: expected %s, got %s", i, k, evs[i].Kind)
		}
	}
}

func TestFarmer_PlantsUpToMaxThenRests(t *testing.T) {
	h := NewHarness(t, farmConfig(1, 1e6))
	h.StepN(3000)

	if got := h.Count("farmer-1", behavior.EventFieldPlanted); got != 3 {
		t.Fatalf("expected 3 fields planted, got %d", got)
	}
	if got := h.Count("farmer-1", behavior.EventFieldStarted); got != 3 {
		t.Fatalf("expected 3 fields started, got %d", got)
	}
	if got := h.Count("farmer-1", behavior.EventFieldHarvested); got != 0 {
		t.Fatalf("expected no harvest before growth, got %d", got)
	}
	m := h.W.Metrics()
	if m.Homes != 1 || m.Fields != 3 || m.ReservedCells != 4 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestFarmer_EveryDeliveryFollowsHarvest(t *testing.T) {
	h := NewHarness(t, farmConfig(2, 2))
	h.StepN(2500)

	for _, agent := range []string{"farmer-1", "farmer-2"} {
		carried := 0
		delivered := 0
		for _, ev := range h.Events(agent) {
			switch ev.Kind {
			case behavior.EventFieldHarvested:
				carried += ev.Count
			case behavior.EventDelivered:
				if ev.Count != carried || carried == 0 {
					t.Fatalf("%s: delivered %d while carrying %d", agent, ev.Count, carried)
				}
				delivered += ev.Count
				carried = 0
			}
		}
		if delivered == 0 {
			t.Fatalf("%s: expected at least one delivery", agent)
		}
	}

	sum := 0
	for _, ev := range h.Events("") {
		if ev.Kind == behavior.EventDelivered && ev.Item == inventory.Wheat {
			sum += ev.Count
		}
	}
	if got := h.W.Totals()[inventory.Wheat]; got != sum {
		t.Fatalf("expected totals %d, got %d", sum, got)
	}
}

func TestReplay_DigestsMatchFromLogs(t *testing.T) {
	dir := t.TempDir()
	cfg := farmConfig(3, 2)

	h := NewHarness(t, cfg)
	tl := persistlog.NewTickLogger(dir)
	h.Tee(tl)
	h.StepN(400)
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := persistlog.ListFiles(filepath.Join(dir, "events"), "events")
	if err != nil || len(files) == 0 {
		t.Fatalf("expected event files, got %v (%v)", files, err)
	}

	w2, err := world.New(cfg)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	checked := 0
	for _, path := range files {
		err := persistlog.ReadJSONL(path, func(line []byte) error {
			var entry world.TickLogEntry
			if err := json.Unmarshal(line, &entry); err != nil {
				return err
			}
			tick, digest := w2.StepOnce()
			if tick != entry.Tick || digest != entry.Digest {
				t.Fatalf("tick %d: replayed digest %s, logged %s", entry.Tick, digest, entry.Digest)
			}
			checked++
			return nil
		})
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
	}
	if checked != 400 {
		t.Fatalf("expected 400 replayed ticks, got %d", checked)
	}
}
