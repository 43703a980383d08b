// Package order implements the activity-ordered max-heap over decision
// variables described in spec.md §3 ("Order heap") and §4.3, adapted from
// the teacher's heap.go (percolateUp/percolateDown over parallel data/
// indices/activity slices) and from EricR-saturday/order's Push/pop shape.
package order

import (
	"fmt"

	"github.com/gatosat/gatosat/internal/lit"
)

// Heap is a max-heap over lit.Var keyed by an externally supplied activity
// value. A variable may be absent from the heap; InsertVarOrder callers
// re-add it on backtrack.
type Heap struct {
	data     []lit.Var
	indices  []int32 // heap position of var, -1 if absent
	activity []float64
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

func (h *Heap) less(v, w lit.Var) bool {
	return h.activity[v] > h.activity[w]
}

// Len returns the number of variables currently in the heap.
func (h *Heap) Len() int { return len(h.data) }

// Empty reports whether the heap has no variables.
func (h *Heap) Empty() bool { return len(h.data) == 0 }

// Contains reports whether v is currently in the heap.
func (h *Heap) Contains(v lit.Var) bool {
	return int(v) < len(h.indices) && h.indices[v] >= 0
}

// Activity returns v's current activity (0 if v was never observed).
func (h *Heap) Activity(v lit.Var) float64 {
	if int(v) >= len(h.activity) {
		return 0
	}
	return h.activity[v]
}

// Grow ensures the heap's side tables can address v, seeding its activity
// to 0. Must be called once per new variable, mirroring the teacher's
// PushBack's on-demand growth.
func (h *Heap) Grow(v lit.Var) {
	for int(v) >= len(h.indices) {
		h.indices = append(h.indices, -1)
		h.activity = append(h.activity, 0.0)
	}
}

// SetActivity overwrites v's activity without touching heap position; the
// caller must follow with Update or Decrease/Increase to restore heap order.
func (h *Heap) SetActivity(v lit.Var, a float64) {
	h.Grow(v)
	h.activity[v] = a
}

// RescaleActivities multiplies every tracked activity by factor, used when
// overflow threatens (spec.md §4.3's variable activity overflow handling).
func (h *Heap) RescaleActivities(factor float64) {
	for i := range h.activity {
		h.activity[i] *= factor
	}
}

// Decrease restores heap order after v's activity increased (higher
// activity floats toward the root of this max-heap).
func (h *Heap) Decrease(v lit.Var) {
	if !h.Contains(v) {
		panic(fmt.Errorf("order: var not in heap: %d", v))
	}
	h.percolateUp(int(h.indices[v]))
}

// Increase restores heap order after v's activity decreased.
func (h *Heap) Increase(v lit.Var) {
	if !h.Contains(v) {
		panic(fmt.Errorf("order: var not in heap: %d", v))
	}
	h.percolateDown(int(h.indices[v]))
}

// Update re-settles v's heap position after an arbitrary activity change,
// inserting it if absent.
func (h *Heap) Update(v lit.Var) {
	if !h.Contains(v) {
		h.Push(v)
		return
	}
	h.percolateUp(int(h.indices[v]))
	h.percolateDown(int(h.indices[v]))
}

// Push inserts v into the heap. Panics if v is already present.
func (h *Heap) Push(v lit.Var) {
	if h.Contains(v) {
		panic(fmt.Errorf("order: var already in heap: %d", v))
	}
	h.Grow(v)
	h.data = append(h.data, v)
	h.indices[v] = int32(len(h.data) - 1)
	h.percolateUp(len(h.data) - 1)
}

// RemoveMax pops and returns the highest-activity variable.
func (h *Heap) RemoveMax() lit.Var {
	v := h.data[0]
	last := h.data[len(h.data)-1]
	h.data[0] = last
	h.indices[last] = 0
	h.indices[v] = -1
	h.data = h.data[:len(h.data)-1]
	if len(h.data) > 1 {
		h.percolateDown(0)
	}
	return v
}

func (h *Heap) percolateUp(i int) {
	x := h.data[i]
	p := parent(i)
	for i != 0 && h.less(x, h.data[p]) {
		h.data[i] = h.data[p]
		h.indices[h.data[i]] = int32(i)
		i = p
		p = parent(i)
	}
	h.data[i] = x
	h.indices[x] = int32(i)
}

func (h *Heap) percolateDown(i int) {
	x := h.data[i]
	for left(i) < len(h.data) {
		child := left(i)
		if right(i) < len(h.data) && h.less(h.data[right(i)], h.data[left(i)]) {
			child = right(i)
		}
		if !h.less(h.data[child], x) {
			break
		}
		h.data[i] = h.data[child]
		h.indices[h.data[i]] = int32(i)
		i = child
	}
	h.data[i] = x
	h.indices[x] = int32(i)
}

func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }
func parent(i int) int { return (i - 1) >> 1 }
