package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"homestead.ai/internal/sim/behavior/farming"
	"homestead.ai/internal/sim/inventory"
	"homestead.ai/internal/sim/logic/mathx"
)

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	w.digestCells(h, &tmp)
	w.digestStructures(h, &tmp)
	w.digestAgents(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

func (w *World) digestCells(h hashWriter, tmp *[8]byte) {
	cells := w.grid.Cells()
	digestWriteU64(h, tmp, uint64(len(cells)))
	for _, c := range cells {
		digestWriteI64(h, tmp, int64(c.X))
		digestWriteI64(h, tmp, int64(c.Y))
	}
}

func (w *World) digestStructures(h hashWriter, tmp *[8]byte) {
	ids := w.store.IDs()
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		st, _ := w.store.Get(id)
		digestWriteU64(h, tmp, uint64(id))
		h.Write([]byte{byte(st.Kind), boolByte(st.Completed), byte(st.Growth)})
		digestWriteVec(h, tmp, st.Pos)
		digestWriteF64(h, tmp, st.Built)
		digestWriteF64(h, tmp, st.GrowTime)
		h.Write([]byte(st.Owner))
		if st.Inventory != nil {
			writeItems(h, tmp, st.Inventory)
		}
	}
}

func (w *World) digestAgents(h hashWriter, tmp *[8]byte) {
	digestWriteU64(h, tmp, uint64(len(w.agents)))
	for _, a := range w.agents {
		h.Write([]byte(a.Name()))
		h.Write([]byte{byte(a.State())})
		digestWriteVec(h, tmp, a.Position())
		home, ok := a.Home()
		h.Write([]byte{boolByte(ok)})
		digestWriteU64(h, tmp, uint64(home))
		if f, ok := a.Work().(*farming.Farmer); ok {
			h.Write([]byte{byte(f.State())})
			fields := f.Fields()
			digestWriteU64(h, tmp, uint64(len(fields)))
			for _, id := range fields {
				digestWriteU64(h, tmp, uint64(id))
			}
			writeItems(h, tmp, f.Inventory())
		}
	}
}

func writeItems(h hashWriter, tmp *[8]byte, inv *inventory.Inventory) {
	items := inv.Items()
	keys := make([]string, 0, len(items))
	for k, v := range items {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		digestWriteI64(h, tmp, int64(items[k]))
	}
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func digestWriteVec(h hashWriter, tmp *[8]byte, v mathx.Vec2) {
	digestWriteF64(h, tmp, v.X)
	digestWriteF64(h, tmp, v.Y)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
