package clause

import "github.com/gatosat/gatosat/internal/lit"

// Kind tags a Watch as one of the three clause shapes spec.md §3 names.
// Binary and ternary clauses never reach the arena: their full body lives
// in the watch entry itself.
type Kind uint8

const (
	// Binary watches hold a single other literal.
	Binary Kind = iota
	// Ternary watches hold two other literals.
	Ternary
	// Long watches hold a clause reference plus a blocker literal.
	Long
)

// Watch is the tagged union described in spec.md §3: "(lit2, red) binary;
// (lit2, lit3, red) ternary; or (clause_ref, blocker_lit, abstraction)
// long". It never stores the literal it is filed under — that is implicit
// in which WatchList bucket it lives in.
type Watch struct {
	Kind Kind

	// Binary and Ternary.
	Lit2      lit.Lit
	Lit3      lit.Lit // Ternary only
	Redundant bool

	// Long.
	Ref     Ref
	Blocker lit.Lit
	Abst    uint32
}

// NewBinary builds a binary watch entry for the literal L2 of a 2-clause.
func NewBinary(l2 lit.Lit, redundant bool) Watch {
	return Watch{Kind: Binary, Lit2: l2, Redundant: redundant}
}

// NewTernary builds a ternary watch entry for the other two literals of a
// 3-clause.
func NewTernary(l2, l3 lit.Lit, redundant bool) Watch {
	return Watch{Kind: Ternary, Lit2: l2, Lit3: l3, Redundant: redundant}
}

// NewLong builds a watch entry referencing an arena clause, with a blocker
// literal used to short-circuit propagation before the clause is touched.
func NewLong(ref Ref, blocker lit.Lit, abst uint32) Watch {
	return Watch{Kind: Long, Ref: ref, Blocker: blocker, Abst: abst}
}

// Equal compares two watches for identity, used when removing a specific
// entry from a watch list (List.Remove).
func (w Watch) Equal(o Watch) bool {
	if w.Kind != o.Kind {
		return false
	}
	switch w.Kind {
	case Binary:
		return w.Lit2.Equal(o.Lit2) && w.Redundant == o.Redundant
	case Ternary:
		return w.Lit2.Equal(o.Lit2) && w.Lit3.Equal(o.Lit3) && w.Redundant == o.Redundant
	default:
		return w.Ref == o.Ref
	}
}

// List is the set of watches for every literal, indexed by lit.Lit.Index().
type List struct {
	watches [][]Watch
}

// NewList returns an empty watch-list index.
func NewList() *List {
	return &List{}
}

// ensure grows the backing slice so idx is addressable.
func (l *List) ensure(idx int) {
	for len(l.watches) <= idx {
		l.watches = append(l.watches, nil)
	}
}

// Init grows the watch list to cover a newly allocated variable's two
// literals.
func (l *List) Init(v lit.Var) {
	l.ensure(lit.New(v, true).Index())
}

// At returns the watch slice filed under l. The returned slice aliases the
// internal storage; callers that mutate it must write back via Set.
func (l *List) At(p lit.Lit) []Watch {
	idx := p.Index()
	if idx >= len(l.watches) {
		return nil
	}
	return l.watches[idx]
}

// Set replaces the watch slice filed under p, used after in-place
// compaction during propagation.
func (l *List) Set(p lit.Lit, ws []Watch) {
	l.ensure(p.Index())
	l.watches[p.Index()] = ws
}

// Append adds w to the list filed under p.
func (l *List) Append(p lit.Lit, w Watch) {
	l.ensure(p.Index())
	l.watches[p.Index()] = append(l.watches[p.Index()], w)
}

// Remove deletes the first watch equal to w from the list filed under p. It
// panics if no such watch exists, matching the teacher's RemoveWatcher
// (a missing watch is a contract violation, not a recoverable case).
func (l *List) Remove(p lit.Lit, w Watch) {
	ws := l.At(p)
	for i, x := range ws {
		if x.Equal(w) {
			copy(ws[i:], ws[i+1:])
			l.Set(p, ws[:len(ws)-1])
			return
		}
	}
	panic("clause: watch not found for removal")
}

// RewriteRef replaces every Long watch's Ref per the given remap, used after
// Arena.Compact.
func (l *List) RewriteRef(remap map[Ref]Ref) {
	for _, bucket := range l.watches {
		for i := range bucket {
			if bucket[i].Kind == Long {
				if nr, ok := remap[bucket[i].Ref]; ok {
					bucket[i].Ref = nr
				}
			}
		}
	}
}
