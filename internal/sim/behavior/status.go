// Package behavior holds the tick-driven state machines that move agents,
// build and remove structures, and schedule an agent's work.
//
// Every machine is advanced by one Tick/Advance call per simulated frame and
// never blocks. A call may cascade through several internal states; the
// cascade is capped at maxTransitionsPerTick.
package behavior

import (
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/structures"
)

type Status uint8

const (
	Running Status = iota
	// Success doubles as "arrived" for movement and "complete" for progress.
	Success
)

func (s Status) String() string {
	if s == Success {
		return "SUCCESS"
	}
	return "RUNNING"
}

const maxTransitionsPerTick = 16

// Sites is the narrow capability the coordinators use on structures.
type Sites interface {
	Create(kind structures.Kind, pos mathx.Vec2) structures.ID
	ApplyProgress(id structures.ID, fraction float64)
	MarkCompleted(id structures.ID)
	PositionOf(id structures.ID) mathx.Vec2
}

type EventKind string

const (
	EventHomeStarted    EventKind = "HOME_STARTED"
	EventHomeBuilt      EventKind = "HOME_BUILT"
	EventWorkStarted    EventKind = "WORK_STARTED"
	EventFieldStarted   EventKind = "FIELD_STARTED"
	EventFieldPlanted   EventKind = "FIELD_PLANTED"
	EventHarvestStarted EventKind = "HARVEST_STARTED"
	EventFieldHarvested EventKind = "FIELD_HARVESTED"
	EventDelivered      EventKind = "DELIVERED"
)

type Event struct {
	Kind      EventKind     `json:"kind"`
	Agent     string        `json:"agent"`
	Structure structures.ID `json:"structure,omitempty"`
	Pos       mathx.Vec2    `json:"pos"`
	Item      string        `json:"item,omitempty"`
	Count     int           `json:"count,omitempty"`
}

type EventSink func(Event)

func (s EventSink) emit(e Event) {
	if s != nil {
		s(e)
	}
}
