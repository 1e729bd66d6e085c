package behavior

import (
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/structures"
)

type AgentState uint8

const (
	AgentIdle AgentState = iota
	AgentSecuringHome
	AgentWorking
)

func (s AgentState) String() string {
	switch s {
	case AgentSecuringHome:
		return "SECURING_HOME"
	case AgentWorking:
		return "WORKING"
	default:
		return "IDLE"
	}
}

// Agent first builds itself a home, then runs its work behaviour whenever
// work is available.
type Agent struct {
	name   string
	state  AgentState
	pos    mathx.Vec2
	events EventSink

	homeBuild   *MoveAndBuild
	home        structures.ID
	hasHome     bool
	pendingHome structures.ID

	work WorkBehavior
}

func NewAgent(name string, pos mathx.Vec2, homeBuild *MoveAndBuild, work WorkBehavior, events EventSink) *Agent {
	return &Agent{
		name:      name,
		pos:       pos,
		homeBuild: homeBuild,
		work:      work,
		events:    events,
	}
}

func (a *Agent) Name() string                { return a.name }
func (a *Agent) State() AgentState           { return a.state }
func (a *Agent) Position() mathx.Vec2        { return a.pos }
func (a *Agent) Work() WorkBehavior          { return a.work }
func (a *Agent) Home() (structures.ID, bool) { return a.home, a.hasHome }

// Tick drains idle bookkeeping transitions within the same call and returns
// once a sub-behaviour is running or there is nothing to do. ok reports
// whether the agent moved.
func (a *Agent) Tick(dt float64) (pos mathx.Vec2, ok bool) {
	for i := 0; i < maxTransitionsPerTick; i++ {
		switch a.state {
		case AgentIdle:
			if !a.hasHome {
				a.startHome()
				continue
			}
			if a.work.WorkAvailable() {
				a.work.StartWork(a.home, a.name)
				a.state = AgentWorking
				a.events.emit(Event{Kind: EventWorkStarted, Agent: a.name, Structure: a.home, Pos: a.pos})
				continue
			}
			return a.pos, ok
		case AgentSecuringHome:
			st, next, moved := a.homeBuild.Tick(dt)
			if moved {
				a.pos, ok = next, true
			}
			if st == Running {
				return a.pos, ok
			}
			a.home, a.hasHome = a.pendingHome, true
			a.state = AgentIdle
			a.events.emit(Event{Kind: EventHomeBuilt, Agent: a.name, Structure: a.home, Pos: a.pos})
		case AgentWorking:
			st, next, moved := a.work.Work(dt, a.pos)
			if moved {
				a.pos, ok = next, true
			}
			if st == Running {
				return a.pos, ok
			}
			a.state = AgentIdle
		}
	}
	return a.pos, ok
}

func (a *Agent) startHome() {
	a.pendingHome = a.homeBuild.StartConstruction(a.pos)
	a.state = AgentSecuringHome
	a.events.emit(Event{Kind: EventHomeStarted, Agent: a.name, Structure: a.pendingHome, Pos: a.pos})
}
