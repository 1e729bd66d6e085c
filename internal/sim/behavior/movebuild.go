package behavior

import (
	"fmt"

	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/occupancy"
	"homestead.ai/internal/sim/structures"
)

type BuildConfig struct {
	// Radius is the search radius for a free site around the agent.
	Radius float64
	// Offset is where the agent stands relative to the structure.
	Offset   mathx.Vec2
	Duration float64
}

type buildState uint8

const (
	buildIdle buildState = iota
	buildMoving
	buildBuilding
)

// MoveAndBuild acquires a site, walks next to it and builds (or unbuilds) it.
type MoveAndBuild struct {
	kind     structures.Kind
	cfg      BuildConfig
	grid     *occupancy.Grid
	sites    Sites
	mover    *Mover
	progress *Progress

	state   buildState
	site    structures.ID
	hasSite bool
}

func NewMoveAndBuild(kind structures.Kind, cfg BuildConfig, move MoveConfig, grid *occupancy.Grid, sites Sites) *MoveAndBuild {
	if grid == nil || sites == nil {
		panic(fmt.Sprintf("behavior: %s builder needs a grid and a structure store", kind))
	}
	return &MoveAndBuild{
		kind:     kind,
		cfg:      cfg,
		grid:     grid,
		sites:    sites,
		mover:    NewMover(move),
		progress: NewProgress(cfg.Duration),
	}
}

func (b *MoveAndBuild) Kind() structures.Kind { return b.kind }
func (b *MoveAndBuild) Idle() bool            { return b.state == buildIdle }

// Site returns the structure currently being worked on.
func (b *MoveAndBuild) Site() (structures.ID, bool) { return b.site, b.hasSite }

// StartConstruction reserves a free cell near current, creates the structure
// there and starts walking to it.
func (b *MoveAndBuild) StartConstruction(current mathx.Vec2) structures.ID {
	pos := b.grid.FindFreeNear(current, b.cfg.Radius)
	b.grid.Reserve(pos)
	id := b.sites.Create(b.kind, pos)
	b.progress.BeginConstruction()
	b.startMove(id, current)
	return id
}

func (b *MoveAndBuild) StartDeconstruction(id structures.ID, current mathx.Vec2) {
	b.progress.BeginDeconstruction()
	b.startMove(id, current)
}

func (b *MoveAndBuild) startMove(id structures.ID, current mathx.Vec2) {
	b.site = id
	b.hasSite = true
	b.mover.Start(current, b.sites.PositionOf(id).Add(b.cfg.Offset))
	b.state = buildMoving
}

// Tick advances the workflow by dt. The returned position is valid when ok
// is true; it is the agent's new position for this tick.
func (b *MoveAndBuild) Tick(dt float64) (st Status, pos mathx.Vec2, ok bool) {
	for i := 0; i < maxTransitionsPerTick; i++ {
		switch b.state {
		case buildIdle:
			return Success, pos, ok
		case buildMoving:
			s, next := b.mover.Advance(dt)
			pos, ok = next, true
			if s == Running {
				return Running, pos, ok
			}
			b.state = buildBuilding
		case buildBuilding:
			fraction, s := b.progress.Advance(dt)
			b.sites.ApplyProgress(b.site, fraction)
			if s == Running {
				return Running, pos, ok
			}
			if !b.progress.Deconstructing() {
				b.sites.MarkCompleted(b.site)
			}
			b.site = 0
			b.hasSite = false
			b.state = buildIdle
			return Success, pos, ok
		}
	}
	return Running, pos, ok
}
