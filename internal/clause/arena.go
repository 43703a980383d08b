package clause

import (
	"fmt"
	"math"
	"sort"
)

// Ref is an offset into the arena. It is a non-owning handle: the arena owns
// clause bodies exclusively, per spec.md §3's invariants.
type Ref uint32

// RefUndef is the "no clause" sentinel, matching the teacher's ClaRefUndef.
const RefUndef Ref = math.MaxUint32

// Arena is the clause store for long (length >= 4) clauses. Deletion is
// lazy: Free only marks a clause freed; Compact is the explicit GC
// pass that reclaims space and rewrites every live Ref, mirroring spec.md
// §3's "arena owns clause bodies... freed by marking, then compacted".
//
// The teacher keeps clauses in a map keyed by a monotonically increasing
// counter ("NOTE we need to improve the performance of alloc/free... replace
// it with the array?"); we keep that shape rather than hand-rolling a packed
// byte buffer, since nothing else in the pack demonstrates a word-packed
// arena and the map already satisfies every invariant the spec names
// (unique Ref per live clause, O(1) lookup, explicit compaction point).
type Arena struct {
	next    Ref
	clauses map[Ref]*Clause
	freed   map[Ref]bool
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{clauses: make(map[Ref]*Clause), freed: make(map[Ref]bool)}
}

// Allocate stores c in the arena and returns its reference.
func (a *Arena) Allocate(c *Clause) Ref {
	r := a.next
	a.next++
	a.clauses[r] = c
	return r
}

// Get dereferences a clause reference. Dereferencing a freed or unknown
// reference is a contract violation (spec.md §7's "Contract violation"
// kind) and panics, matching the teacher's ClauseAllocator.GetClause.
func (a *Arena) Get(r Ref) *Clause {
	if c, ok := a.clauses[r]; ok && !a.freed[r] {
		return c
	}
	panic(fmt.Errorf("clause: reference not allocated or already freed: %d", r))
}

// Free lazily marks r as freed; the backing Clause stays reachable until the
// next Compact so in-flight iteration over a snapshot of refs stays valid.
func (a *Arena) Free(r Ref) {
	a.freed[r] = true
}

// NumLive returns the number of non-freed clauses.
func (a *Arena) NumLive() int {
	return len(a.clauses) - len(a.freed)
}

// FreeFraction reports how much of the arena is reclaimable, used by the
// caller to decide when Compact is worth the stop-the-world pass.
func (a *Arena) FreeFraction() float64 {
	if len(a.clauses) == 0 {
		return 0
	}
	return float64(len(a.freed)) / float64(len(a.clauses))
}

// Compact drops freed clauses and reassigns dense references to the
// survivors, in stable iteration order of refs. It calls rewrite(old, new)
// for every surviving clause so callers can fix up watch lists and reason
// fields in one pass, exactly as spec.md §3 and §5 require ("rewrites every
// watch-list entry and every reason field in one pass").
func (a *Arena) Compact(order []Ref, rewrite func(old, new Ref)) {
	newClauses := make(map[Ref]*Clause, a.NumLive())
	var next Ref
	for _, old := range order {
		if a.freed[old] {
			continue
		}
		c, ok := a.clauses[old]
		if !ok {
			continue
		}
		newClauses[next] = c
		rewrite(old, next)
		next++
	}
	a.clauses = newClauses
	a.freed = make(map[Ref]bool)
	a.next = next
}

// All returns every live reference, in allocation order. Used by callers
// that need a stable order for Compact or for full-formula iteration
// (reduceDB, subsumption, BVE). References are monotonically assigned by
// Allocate/Compact, so a numeric sort recovers allocation order without
// needing a separate insertion-order slice.
func (a *Arena) All() []Ref {
	refs := make([]Ref, 0, len(a.clauses))
	for r := range a.clauses {
		if !a.freed[r] {
			refs = append(refs, r)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}
