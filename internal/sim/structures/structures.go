package structures

import (
	"fmt"
	"sort"

	"homestead.ai/internal/sim/inventory"
	"homestead.ai/internal/sim/logic/mathx"
)

type ID uint64

type Kind uint8

const (
	KindHome Kind = iota + 1
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "HOME"
	case KindField:
		return "FIELD"
	default:
		return fmt.Sprintf("KIND_%d", uint8(k))
	}
}

type Growth uint8

const (
	Growing Growth = iota
	Grown
)

func (g Growth) String() string {
	if g == Grown {
		return "GROWN"
	}
	return "GROWING"
}

type Structure struct {
	ID        ID
	Kind      Kind
	Pos       mathx.Vec2
	Owner     string
	Built     float64
	Completed bool

	// Homes only.
	Inventory *inventory.Inventory

	// Fields only; growth starts once the field is completed.
	Growth   Growth
	GrowTime float64
}

type Config struct {
	FieldGrowSeconds float64
}

// Store is the arena every structure lives in. Behaviours hold IDs only;
// dereferencing a destroyed ID is a contract violation and panics.
type Store struct {
	cfg  Config
	next ID
	byID map[ID]*Structure
}

func NewStore(cfg Config) *Store {
	if cfg.FieldGrowSeconds <= 0 {
		cfg.FieldGrowSeconds = 10
	}
	return &Store{cfg: cfg, byID: map[ID]*Structure{}}
}

func (s *Store) Create(kind Kind, pos mathx.Vec2) ID {
	s.next++
	st := &Structure{ID: s.next, Kind: kind, Pos: pos}
	if kind == KindHome {
		st.Inventory = inventory.New()
	}
	s.byID[st.ID] = st
	return st.ID
}

func (s *Store) SetOwner(id ID, owner string) { s.must(id).Owner = owner }

func (s *Store) Get(id ID) (*Structure, bool) {
	st, ok := s.byID[id]
	return st, ok
}

func (s *Store) must(id ID) *Structure {
	st, ok := s.byID[id]
	if !ok {
		panic(fmt.Sprintf("structures: unknown or destroyed structure %d", id))
	}
	return st
}

func (s *Store) ApplyProgress(id ID, fraction float64) {
	s.must(id).Built = mathx.Clamp01(fraction)
}

func (s *Store) MarkCompleted(id ID) {
	st := s.must(id)
	st.Built = 1
	st.Completed = true
}

func (s *Store) PositionOf(id ID) mathx.Vec2 { return s.must(id).Pos }

func (s *Store) Grown(id ID) bool {
	st := s.must(id)
	return st.Kind == KindField && st.Growth == Grown
}

// ForceGrown finishes a field's growth timer immediately.
func (s *Store) ForceGrown(id ID) {
	st := s.must(id)
	if st.Kind != KindField {
		panic(fmt.Sprintf("structures: %d is a %s, not a field", id, st.Kind))
	}
	st.GrowTime = s.cfg.FieldGrowSeconds
	st.Growth = Grown
}

func (s *Store) InventoryOf(id ID) *inventory.Inventory {
	st := s.must(id)
	if st.Inventory == nil {
		panic(fmt.Sprintf("structures: %s %d has no inventory", st.Kind, id))
	}
	return st.Inventory
}

// Destroy removes the structure. Destroying the same ID twice panics.
func (s *Store) Destroy(id ID) {
	s.must(id)
	delete(s.byID, id)
}

// Tick advances growth of completed fields.
func (s *Store) Tick(dt float64) (grown []ID) {
	for _, id := range s.IDs() {
		st := s.byID[id]
		if st.Kind != KindField || !st.Completed || st.Growth == Grown {
			continue
		}
		st.GrowTime += dt
		if st.GrowTime >= s.cfg.FieldGrowSeconds {
			st.Growth = Grown
			grown = append(grown, id)
		}
	}
	return grown
}

func (s *Store) Len() int { return len(s.byID) }

// IDs returns live IDs in creation order.
func (s *Store) IDs() []ID {
	out := make([]ID, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
