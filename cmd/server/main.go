package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	persistlog "homestead.ai/internal/persistence/log"
	"homestead.ai/internal/sim/tuning"
	"homestead.ai/internal/sim/world"
)

func main() {
	var (
		worldID    = flag.String("world", "world_1", "world id")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		agents     = flag.Int("agents", -1, "override agent count (-1 keeps tuning)")
		seed       = flag.Int64("seed", 0, "override seed (0 keeps tuning)")
		ticks      = flag.Uint64("ticks", 0, "stop after this many ticks (0 runs until signal)")
		realtime   = flag.Bool("realtime", true, "step at tick_rate_hz; false steps as fast as possible")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index (tick/event/structure rows)")
		statusSecs = flag.Int("status_every", 5, "seconds between status log lines (0 disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if *agents >= 0 {
		tune.Agents = *agents
	}
	if *seed != 0 {
		tune.Seed = *seed
	}

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		logger.Fatalf("mkdir world dir: %v", err)
	}
	if err := writeEffectiveTuning(worldDir, tune); err != nil {
		logger.Fatalf("write effective tuning: %v", err)
	}

	cfg := world.ConfigFromTuning(*worldID, tune)
	cfg.MaxTicks = *ticks
	w, err := world.New(cfg)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	w.SetLogger(log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds))

	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.RecordRun(w.RunID(), *worldID, tune); err != nil {
			logger.Printf("index run: %v", err)
		}
	}

	tickLog := persistlog.NewTickLogger(worldDir)
	defer tickLog.Close()
	auditLog := persistlog.NewAuditLogger(worldDir)
	defer auditLog.Close()

	var idxTick world.TickLogger
	var idxAudit world.AuditLogger
	if idx != nil {
		idxTick, idxAudit = idx, idx
	}
	w.SetTickLogger(multiTickLogger{a: tickLog, b: idxTick})
	w.SetAuditLogger(multiAuditLogger{a: auditLog, b: idxAudit})

	ctx, cancel := signalContext()
	defer cancel()

	if *statusSecs > 0 {
		go logStatus(ctx, w, time.Duration(*statusSecs)*time.Second, logger)
	}

	logger.Printf("world=%s run=%s seed=%d agents=%d role=%s realtime=%v", *worldID, w.RunID(), tune.Seed, tune.Agents, tune.Role, *realtime)

	run := w.Run
	if !*realtime {
		run = w.RunFast
	}
	if err := run(ctx); err != nil && err != context.Canceled {
		logger.Printf("world run: %v", err)
	}

	m := w.Metrics()
	logger.Printf("stopped at tick=%d homes=%d fields=%d delivered=%v", m.Tick, m.Homes, m.Fields, m.Delivered)
}

func writeEffectiveTuning(worldDir string, tune tuning.Tuning) error {
	b, err := yaml.Marshal(tune)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(worldDir, "tuning.effective.yaml"), b, 0o644)
}

func logStatus(ctx context.Context, w *world.World, every time.Duration, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m := w.Metrics()
			logger.Printf("tick=%d agents=%d homes=%d fields=%d grown=%d cells=%d step_ms=%.3f delivered=%v",
				m.Tick, m.Agents, m.Homes, m.Fields, m.GrownFields, m.ReservedCells, m.StepMS, m.Delivered)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}

type multiAuditLogger struct {
	a world.AuditLogger
	b world.AuditLogger
}

func (m multiAuditLogger) WriteAudit(entry world.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(entry)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(entry)
	}
	return nil
}
