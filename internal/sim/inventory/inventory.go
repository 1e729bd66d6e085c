package inventory

import (
	"fmt"
	"sort"
	"strings"
)

const Wheat = "WHEAT"

type Inventory struct {
	items map[string]int
}

func New() *Inventory {
	return &Inventory{items: map[string]int{}}
}

func (inv *Inventory) Add(item string, n int) {
	if item == "" || n <= 0 {
		return
	}
	inv.items[item] += n
}

// Remove takes up to n of item and returns how many were taken.
func (inv *Inventory) Remove(item string, n int) int {
	have := inv.items[item]
	if n <= 0 || have <= 0 {
		return 0
	}
	if have > n {
		inv.items[item] = have - n
		return n
	}
	delete(inv.items, item)
	return have
}

// MoveAllInto transfers every item into dst and empties inv.
func (inv *Inventory) MoveAllInto(dst *Inventory) {
	if dst == inv {
		return
	}
	for item, n := range inv.items {
		dst.Add(item, n)
	}
	clear(inv.items)
}

func (inv *Inventory) Count(item string) int { return inv.items[item] }

func (inv *Inventory) Empty() bool { return len(inv.items) == 0 }

// Items returns a copy of the counters.
func (inv *Inventory) Items() map[string]int {
	out := make(map[string]int, len(inv.items))
	for k, v := range inv.items {
		out[k] = v
	}
	return out
}

func (inv *Inventory) String() string {
	keys := make([]string, 0, len(inv.items))
	for k := range inv.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%d", k, inv.items[k])
	}
	return b.String()
}
