// Package farming implements the farmer role: plant fields around the home,
// harvest them once grown and carry the crop home.
package farming

import (
	"homestead.ai/internal/sim/behavior"
	"homestead.ai/internal/sim/inventory"
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/occupancy"
	"homestead.ai/internal/sim/structures"
)

// Land is what a farmer needs from the structure store beyond building.
type Land interface {
	behavior.Sites
	Grown(id structures.ID) bool
	Destroy(id structures.ID)
	InventoryOf(id structures.ID) *inventory.Inventory
}

type Config struct {
	MaxFieldCount int
	// Resource is credited once per harvested field.
	Resource string
}

func DefaultConfig() Config {
	return Config{MaxFieldCount: 3, Resource: inventory.Wheat}
}

type State uint8

const (
	Idle State = iota
	FieldBuilding
	FieldRemoving
	ReturningHome
)

func (s State) String() string {
	switch s {
	case FieldBuilding:
		return "FIELD_BUILDING"
	case FieldRemoving:
		return "FIELD_REMOVING"
	case ReturningHome:
		return "RETURNING_HOME"
	default:
		return "IDLE"
	}
}

type Farmer struct {
	cfg    Config
	land   Land
	grid   *occupancy.Grid
	build  *behavior.MoveAndBuild
	mover  *behavior.Mover
	events behavior.EventSink

	state     State
	agent     string
	home      structures.ID
	hasHome   bool
	fields    []structures.ID
	planting  structures.ID
	removing  structures.ID
	inventory *inventory.Inventory
}

func New(cfg Config, fieldBuild behavior.BuildConfig, move behavior.MoveConfig, grid *occupancy.Grid, land Land, events behavior.EventSink) *Farmer {
	if cfg.MaxFieldCount < 0 {
		cfg.MaxFieldCount = 0
	}
	if cfg.Resource == "" {
		cfg.Resource = inventory.Wheat
	}
	return &Farmer{
		cfg:       cfg,
		land:      land,
		grid:      grid,
		build:     behavior.NewMoveAndBuild(structures.KindField, fieldBuild, move, grid, land),
		mover:     behavior.NewMover(move),
		events:    events,
		inventory: inventory.New(),
	}
}

func (f *Farmer) State() State                    { return f.state }
func (f *Farmer) Inventory() *inventory.Inventory { return f.inventory }

// Fields returns the owned fields in planting order.
func (f *Farmer) Fields() []structures.ID {
	return append([]structures.ID(nil), f.fields...)
}

func (f *Farmer) WorkAvailable() bool {
	return len(f.fields) < f.cfg.MaxFieldCount || f.grownField() >= 0
}

func (f *Farmer) StartWork(home structures.ID, agent string) {
	f.home, f.hasHome = home, true
	f.agent = agent
	f.state = Idle
}

func (f *Farmer) Work(dt float64, pos mathx.Vec2) (st behavior.Status, next mathx.Vec2, ok bool) {
	cur := pos
	for i := 0; i < maxTransitionsPerWork; i++ {
		switch f.state {
		case Idle:
			if idx := f.grownField(); idx >= 0 {
				f.startRemoving(f.fields[idx], cur)
				continue
			}
			if len(f.fields) < f.cfg.MaxFieldCount {
				f.startPlanting(cur)
				continue
			}
			return behavior.Success, next, ok
		case FieldBuilding:
			s, p, moved := f.build.Tick(dt)
			if moved {
				cur, next, ok = p, p, true
			}
			if s == behavior.Running {
				return behavior.Running, next, ok
			}
			f.fields = append(f.fields, f.planting)
			f.emit(behavior.EventFieldPlanted, f.planting, cur, "", 0)
			f.planting = 0
			f.state = Idle
			return behavior.Success, next, ok
		case FieldRemoving:
			s, p, moved := f.build.Tick(dt)
			if moved {
				cur, next, ok = p, p, true
			}
			if s == behavior.Running {
				return behavior.Running, next, ok
			}
			f.finishRemoving(cur)
			f.startReturning(cur)
		case ReturningHome:
			s, p := f.mover.Advance(dt)
			cur, next, ok = p, p, true
			if s == behavior.Running {
				return behavior.Running, next, ok
			}
			f.finishReturning(cur)
			return behavior.Success, next, ok
		}
	}
	return behavior.Running, next, ok
}

const maxTransitionsPerWork = 16

// grownField returns the index of the first grown field, or -1.
func (f *Farmer) grownField() int {
	for i, id := range f.fields {
		if f.land.Grown(id) {
			return i
		}
	}
	return -1
}

func (f *Farmer) startPlanting(cur mathx.Vec2) {
	f.planting = f.build.StartConstruction(cur)
	f.state = FieldBuilding
	f.emit(behavior.EventFieldStarted, f.planting, cur, "", 0)
}

func (f *Farmer) startRemoving(id structures.ID, cur mathx.Vec2) {
	f.removing = id
	f.build.StartDeconstruction(id, cur)
	f.state = FieldRemoving
	f.emit(behavior.EventHarvestStarted, id, cur, "", 0)
}

// finishRemoving drops the field from every owner in the same tick: the
// owned list, the occupancy grid and the structure store.
func (f *Farmer) finishRemoving(cur mathx.Vec2) {
	id := f.removing
	for i, fid := range f.fields {
		if fid == id {
			f.fields = append(f.fields[:i], f.fields[i+1:]...)
			break
		}
	}
	f.grid.Release(f.land.PositionOf(id))
	f.land.Destroy(id)
	f.removing = 0
	f.inventory.Add(f.cfg.Resource, 1)
	f.emit(behavior.EventFieldHarvested, id, cur, f.cfg.Resource, 1)
}

func (f *Farmer) startReturning(cur mathx.Vec2) {
	if !f.hasHome {
		f.state = Idle
		return
	}
	f.mover.Start(cur, f.land.PositionOf(f.home))
	f.state = ReturningHome
}

func (f *Farmer) finishReturning(cur mathx.Vec2) {
	n := f.inventory.Count(f.cfg.Resource)
	f.inventory.MoveAllInto(f.land.InventoryOf(f.home))
	f.state = Idle
	f.emit(behavior.EventDelivered, f.home, cur, f.cfg.Resource, n)
}

func (f *Farmer) emit(kind behavior.EventKind, id structures.ID, pos mathx.Vec2, item string, n int) {
	if f.events == nil {
		return
	}
	f.events(behavior.Event{Kind: kind, Agent: f.agent, Structure: id, Pos: pos, Item: item, Count: n})
}
