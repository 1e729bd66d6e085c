package behavior

import (
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/structures"
)

// WorkBehavior is a role's task loop, driven by an Agent once it has a home.
type WorkBehavior interface {
	WorkAvailable() bool
	StartWork(home structures.ID, agent string)
	// Work advances the role by dt from agent position pos. Success means
	// the role has nothing more to do right now.
	Work(dt float64, pos mathx.Vec2) (Status, mathx.Vec2, bool)
}
