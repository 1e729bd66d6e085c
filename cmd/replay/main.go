package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	persistlog "homestead.ai/internal/persistence/log"
	"homestead.ai/internal/sim/behavior"
	"homestead.ai/internal/sim/tuning"
	"homestead.ai/internal/sim/world"
)

type agentTotals struct {
	Homes     int
	Planted   int
	Harvested int
	Delivered map[string]int
}

var errStop = errors.New("stop")

func main() {
	var (
		worldDir   = flag.String("world_dir", "./data/worlds/world_1", "world data directory")
		tuningPath = flag.String("tuning", "", "tuning used by the run (default: <world_dir>/tuning.effective.yaml)")
		runID      = flag.String("run", "", "run id to replay (default: last run in the logs)")
		verify     = flag.Bool("verify", true, "re-simulate and compare state digests")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	files, err := persistlog.ListFiles(filepath.Join(*worldDir, "events"), "events")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *worldDir)
		os.Exit(1)
	}

	run := *runID
	if run == "" {
		run, err = lastRun(files)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scan runs:", err)
			os.Exit(1)
		}
	}

	var w *world.World
	if *verify {
		tp := *tuningPath
		if tp == "" {
			tp = filepath.Join(*worldDir, "tuning.effective.yaml")
		}
		tune, err := tuning.Load(tp)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		w, err = world.New(world.ConfigFromTuning(filepath.Base(*worldDir), tune))
		if err != nil {
			fmt.Fprintln(os.Stderr, "world:", err)
			os.Exit(1)
		}
	}

	totals := map[string]*agentTotals{}
	var checked, seen uint64
	for _, path := range files {
		err := persistlog.ReadJSONL(path, func(line []byte) error {
			var entry world.TickLogEntry
			if err := json.Unmarshal(line, &entry); err != nil {
				return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			if entry.RunID != run {
				return nil
			}
			if *toTick != 0 && entry.Tick > *toTick {
				return errStop
			}
			seen++
			tally(totals, entry.Events)
			if w == nil {
				return nil
			}
			if entry.Tick != w.CurrentTick() {
				return fmt.Errorf("tick mismatch: want=%d got=%d (file=%s)", w.CurrentTick(), entry.Tick, filepath.Base(path))
			}
			tick, digest := w.StepOnce()
			if digest != entry.Digest {
				return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, digest, entry.Digest)
			}
			checked++
			return nil
		})
		if errors.Is(err, errStop) {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := totals[name]
		fmt.Printf("%s homes=%d planted=%d harvested=%d delivered=%v\n", name, t.Homes, t.Planted, t.Harvested, t.Delivered)
	}
	fmt.Printf("run=%s ticks=%d verified=%d\n", run, seen, checked)
}

func tally(totals map[string]*agentTotals, events []behavior.Event) {
	for _, e := range events {
		t := totals[e.Agent]
		if t == nil {
			t = &agentTotals{Delivered: map[string]int{}}
			totals[e.Agent] = t
		}
		switch e.Kind {
		case behavior.EventHomeBuilt:
			t.Homes++
		case behavior.EventFieldPlanted:
			t.Planted++
		case behavior.EventFieldHarvested:
			t.Harvested++
		case behavior.EventDelivered:
			t.Delivered[e.Item] += e.Count
		}
	}
}

func lastRun(files []string) (string, error) {
	var run string
	for _, path := range files {
		err := persistlog.ReadJSONL(path, func(line []byte) error {
			var head struct {
				RunID string `json:"run_id"`
			}
			if err := json.Unmarshal(line, &head); err != nil {
				return err
			}
			run = head.RunID
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	if run == "" {
		return "", fmt.Errorf("no run id in logs")
	}
	return run, nil
}
