package world

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"homestead.ai/internal/sim/behavior"
	"homestead.ai/internal/sim/behavior/farming"
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/occupancy"
	"homestead.ai/internal/sim/structures"
	"homestead.ai/internal/sim/tuning"
)

type World struct {
	cfg   WorldConfig
	runID string

	grid   *occupancy.Grid
	store  *structures.Store
	sites  *siteLedger
	agents []*behavior.Agent
	byName map[string]*behavior.Agent
	rng    *rand.Rand

	tick    atomic.Uint64
	events  []behavior.Event
	totals  map[string]int
	metrics atomic.Pointer[WorldMetrics]

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger
	logger      *log.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	RunID  string           `json:"run_id"`
	World  string           `json:"world"`
	Tick   uint64           `json:"tick"`
	Events []behavior.Event `json:"events,omitempty"`
	Grown  []structures.ID  `json:"grown,omitempty"`
	Digest string           `json:"digest"`
}

type AuditEntry struct {
	RunID     string        `json:"run_id"`
	Tick      uint64        `json:"tick"`
	Action    string        `json:"action"` // CREATE, COMPLETE, DESTROY
	Structure structures.ID `json:"structure"`
	Kind      string        `json:"kind"`
	Pos       mathx.Vec2    `json:"pos"`
	Owner     string        `json:"owner,omitempty"`
}

// roleFactory builds the work behaviour for a new agent.
type roleFactory func(w *World) behavior.WorkBehavior

var roles = map[string]roleFactory{
	tuning.RoleFarmer: func(w *World) behavior.WorkBehavior {
		return farming.New(w.cfg.Farmer, w.cfg.FieldBuild, w.cfg.Move, w.grid, w.sites, w.emit)
	},
}

func New(cfg WorldConfig) (*World, error) {
	cfg.applyDefaults()
	if _, ok := roles[cfg.Role]; !ok {
		return nil, fmt.Errorf("unknown role: %s", cfg.Role)
	}

	w := &World{
		cfg:    cfg,
		runID:  uuid.NewString(),
		grid:   occupancy.New(cfg.Grid, cfg.Seed+1),
		store:  structures.NewStore(structures.Config{FieldGrowSeconds: cfg.FieldGrowSeconds}),
		byName: map[string]*behavior.Agent{},
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		totals: map[string]int{},
		logger: log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds),
		stop:   make(chan struct{}),
	}
	w.sites = &siteLedger{Store: w.store, w: w}

	prefix := strings.ToLower(cfg.Role)
	for i := 0; i < cfg.Agents; i++ {
		pos := mathx.V(
			(w.rng.Float64()*2-1)*cfg.SpawnSpread,
			(w.rng.Float64()*2-1)*cfg.SpawnSpread,
		)
		if err := w.AddAgent(fmt.Sprintf("%s-%d", prefix, i+1), pos); err != nil {
			return nil, err
		}
	}
	w.publishMetrics(0)
	return w, nil
}

// AddAgent joins a new agent with the configured role. Agents tick in join
// order. Not safe to call while Run is active.
func (w *World) AddAgent(name string, pos mathx.Vec2) error {
	if name == "" {
		return fmt.Errorf("agent name required")
	}
	if _, dup := w.byName[name]; dup {
		return fmt.Errorf("duplicate agent: %s", name)
	}
	homeBuild := behavior.NewMoveAndBuild(structures.KindHome, w.cfg.HomeBuild, w.cfg.Move, w.grid, w.sites)
	a := behavior.NewAgent(name, pos, homeBuild, roles[w.cfg.Role](w), w.emit)
	w.agents = append(w.agents, a)
	w.byName[name] = a
	return nil
}

func (w *World) ID() string          { return w.cfg.ID }
func (w *World) RunID() string       { return w.runID }
func (w *World) CurrentTick() uint64 { return w.tick.Load() }
func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) SetLogger(l *log.Logger)       { w.logger = l }
func (w *World) SetTickLogger(l TickLogger)    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

// Totals returns resources delivered to homes so far, by item.
func (w *World) Totals() map[string]int {
	out := make(map[string]int, len(w.totals))
	for k, v := range w.totals {
		out[k] = v
	}
	return out
}

func (w *World) emit(e behavior.Event) {
	switch e.Kind {
	case behavior.EventHomeBuilt, behavior.EventFieldPlanted:
		w.store.SetOwner(e.Structure, e.Agent)
	case behavior.EventDelivered:
		w.totals[e.Item] += e.Count
	}
	w.events = append(w.events, e)
}

func (w *World) audit(action string, id structures.ID) {
	if w.auditLogger == nil {
		return
	}
	st, ok := w.store.Get(id)
	if !ok {
		return
	}
	if err := w.auditLogger.WriteAudit(AuditEntry{
		RunID:     w.runID,
		Tick:      w.tick.Load(),
		Action:    action,
		Structure: id,
		Kind:      st.Kind.String(),
		Pos:       st.Pos,
		Owner:     st.Owner,
	}); err != nil {
		w.logger.Printf("audit: %v", err)
	}
}

// siteLedger is the structure store as seen by behaviours. Lifecycle changes
// are written to the audit log.
type siteLedger struct {
	*structures.Store
	w *World
}

func (s *siteLedger) Create(kind structures.Kind, pos mathx.Vec2) structures.ID {
	id := s.Store.Create(kind, pos)
	s.w.audit("CREATE", id)
	return id
}

func (s *siteLedger) MarkCompleted(id structures.ID) {
	s.Store.MarkCompleted(id)
	s.w.audit("COMPLETE", id)
}

func (s *siteLedger) Destroy(id structures.ID) {
	s.w.audit("DESTROY", id)
	s.Store.Destroy(id)
}
