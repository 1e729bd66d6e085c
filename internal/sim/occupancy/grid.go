package occupancy

import (
	"math"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"homestead.ai/internal/sim/logic/mathx"
)

type CellID struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Config struct {
	CellWidth    float64
	CellHeight   float64
	DistanceStep int
}

func DefaultConfig() Config {
	return Config{CellWidth: 200, CellHeight: 200, DistanceStep: 3}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = d.CellHeight
	}
	if c.DistanceStep <= 0 {
		c.DistanceStep = d.DistanceStep
	}
}

// Grid tracks reserved building cells and picks free cells near a target.
// It is not safe for concurrent use; the world ticks agents one at a time so
// a FindFreeNear/Reserve pair from one agent never interleaves with another.
type Grid struct {
	cfg      Config
	occupied mapset.Set[CellID]
	rng      *rand.Rand
}

func New(cfg Config, seed int64) *Grid {
	cfg.applyDefaults()
	return &Grid{
		cfg:      cfg,
		occupied: mapset.New[CellID](),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (g *Grid) Config() Config { return g.cfg }

func (g *Grid) CellOf(p mathx.Vec2) CellID {
	return CellID{
		X: int(math.Floor((p.X - g.cfg.CellWidth/2) / g.cfg.CellWidth)),
		Y: int(math.Floor((p.Y - g.cfg.CellHeight/2) / g.cfg.CellHeight)),
	}
}

func (g *Grid) CenterOf(c CellID) mathx.Vec2 {
	return mathx.Vec2{
		X: float64(c.X)*g.cfg.CellWidth + g.cfg.CellWidth/2,
		Y: float64(c.Y)*g.cfg.CellHeight + g.cfg.CellHeight/2,
	}
}

func (g *Grid) Reserve(p mathx.Vec2) { g.occupied.Put(g.CellOf(p)) }

// Release frees the cell containing p. Releasing a free cell is a no-op.
func (g *Grid) Release(p mathx.Vec2) { g.occupied.Remove(g.CellOf(p)) }

func (g *Grid) Reserved(p mathx.Vec2) bool { return g.occupied.Has(g.CellOf(p)) }

func (g *Grid) Len() int { return g.occupied.Size() }

// Cells returns the reserved cells in (x, y) order.
func (g *Grid) Cells() []CellID {
	out := make([]CellID, 0, g.occupied.Size())
	g.occupied.Each(func(c CellID) { out = append(out, c) })
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

type candidate struct {
	cell CellID
	d2   int
}

// FindFreeNear returns the centre of a free cell close to target. The first
// ring covers every cell within ceil(radius/cellWidth) of the target cell;
// when all of those are reserved the search widens by DistanceStep rings at a
// time. Candidates are sampled with weight exp(-(dx²+dy²)/ref²). The cell is
// not reserved; callers follow up with Reserve.
func (g *Grid) FindFreeNear(target mathx.Vec2, radius float64) mathx.Vec2 {
	center := g.CellOf(target)
	ref := int(math.Ceil(radius / g.cfg.CellWidth))
	if ref < 0 {
		ref = 0
	}

	minD, maxD := 0, ref
	var cands []candidate
	for len(cands) == 0 {
		cands = g.ring(center, minD, maxD)
		minD = maxD + 1
		maxD += g.cfg.DistanceStep
	}
	return g.CenterOf(g.pick(cands, ref))
}

func (g *Grid) ring(center CellID, minD, maxD int) []candidate {
	var out []candidate
	for dx := -maxD; dx <= maxD; dx++ {
		for dy := -maxD; dy <= maxD; dy++ {
			if mathx.MaxInt(mathx.AbsInt(dx), mathx.AbsInt(dy)) < minD {
				continue
			}
			c := CellID{X: center.X + dx, Y: center.Y + dy}
			if g.occupied.Has(c) {
				continue
			}
			out = append(out, candidate{cell: c, d2: dx*dx + dy*dy})
		}
	}
	return out
}

func (g *Grid) pick(cands []candidate, ref int) CellID {
	if len(cands) == 1 {
		return cands[0].cell
	}
	// Weights are taken relative to the nearest candidate so that far rings
	// never underflow to all-zero; the distribution is unchanged.
	denom := float64(mathx.MaxInt(ref, 1))
	denom *= denom
	nearest := cands[0].d2
	for _, c := range cands[1:] {
		if c.d2 < nearest {
			nearest = c.d2
		}
	}
	weights := make([]float64, len(cands))
	total := 0.0
	for i, c := range cands {
		weights[i] = math.Exp(-float64(c.d2-nearest) / denom)
		total += weights[i]
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return cands[i].cell
		}
	}
	return cands[len(cands)-1].cell
}
