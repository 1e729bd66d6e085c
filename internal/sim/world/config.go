package world

import (
	"homestead.ai/internal/sim/behavior"
	"homestead.ai/internal/sim/behavior/farming"
	"homestead.ai/internal/sim/logic/mathx"
	"homestead.ai/internal/sim/occupancy"
	"homestead.ai/internal/sim/tuning"
)

type WorldConfig struct {
	ID          string
	TickRateHz  int
	Seed        int64
	Agents      int
	Role        string
	SpawnSpread float64
	// MaxTicks stops Run after that many ticks; 0 runs until cancelled.
	MaxTicks    uint64

	Grid       occupancy.Config
	Move       behavior.MoveConfig
	HomeBuild  behavior.BuildConfig
	FieldBuild behavior.BuildConfig
	Farmer     farming.Config

	FieldGrowSeconds float64
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "homestead"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 10
	}
	if c.Agents < 0 {
		c.Agents = 0
	}
	if c.Role == "" {
		c.Role = tuning.RoleFarmer
	}
	if c.Move == (behavior.MoveConfig{}) {
		c.Move = behavior.DefaultMoveConfig()
	}
	if c.Farmer == (farming.Config{}) {
		c.Farmer = farming.DefaultConfig()
	}
	if c.FieldGrowSeconds <= 0 {
		c.FieldGrowSeconds = 10
	}
}

// ConfigFromTuning maps a loaded tuning file onto a world config.
func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	build := func(b tuning.BuildTuning) behavior.BuildConfig {
		return behavior.BuildConfig{
			Radius:   b.Radius,
			Offset:   mathx.V(b.Offset[0], b.Offset[1]),
			Duration: b.Duration,
		}
	}
	return WorldConfig{
		ID:          id,
		TickRateHz:  t.TickRateHz,
		Seed:        t.Seed,
		Agents:      t.Agents,
		Role:        t.Role,
		SpawnSpread: t.SpawnSpread,
		Grid: occupancy.Config{
			CellWidth:    t.Grid.CellWidth,
			CellHeight:   t.Grid.CellHeight,
			DistanceStep: t.Grid.DistanceStep,
		},
		Move: behavior.MoveConfig{
			Speed:         t.Movement.Speed,
			MaxStepHeight: t.Movement.MaxStepHeight,
			StepPeriod:    t.Movement.StepPeriod,
		},
		HomeBuild:  build(t.HomeBuild),
		FieldBuild: build(t.FieldBuild),
		Farmer: farming.Config{
			MaxFieldCount: t.Farmer.MaxFieldCount,
			Resource:      t.Farmer.Resource,
		},
		FieldGrowSeconds: t.FieldGrowSeconds,
	}
}
