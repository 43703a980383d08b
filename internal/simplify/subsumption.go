package simplify

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// occurrences builds a literal -> clause-index occurrence list over the
// working set, per spec.md §4.4's "operates over an occurrence-list view".
func occurrences(clauses []*clause.Clause) map[lit.Lit][]int {
	occ := make(map[lit.Lit][]int)
	for i, c := range clauses {
		for j := 0; j < c.Size(); j++ {
			l := c.At(j)
			occ[l] = append(occ[l], i)
		}
	}
	return occ
}

// subsumes reports whether c's literal set is a subset of d's (c subsumes
// d), using the abstraction bitmask to reject non-candidates cheaply before
// the O(|c|*|d|) explicit containment check.
func subsumes(c, d *clause.Clause) bool {
	if c.Size() > d.Size() {
		return false
	}
	if c.Abstraction()&^d.Abstraction() != 0 {
		return false
	}
	for i := 0; i < c.Size(); i++ {
		if !d.Contains(c.At(i)) {
			return false
		}
	}
	return true
}

// leastOccurring returns the literal of c with the shortest occurrence
// list, the standard subsumption optimisation of probing the smallest
// candidate set first.
func leastOccurring(c *clause.Clause, occ map[lit.Lit][]int) lit.Lit {
	best := c.At(0)
	bestLen := len(occ[best])
	for i := 1; i < c.Size(); i++ {
		l := c.At(i)
		if n := len(occ[l]); n < bestLen {
			best, bestLen = l, n
		}
	}
	return best
}

// subsumeAndStrengthen removes subsumed clauses and, when enabled, drops
// self-subsumed literals (spec.md §4.4's subsumption and self-subsuming
// resolution passes), repeating while a round still changes something, for
// at most three rounds, since strengthening can expose new subsumptions.
func subsumeAndStrengthen(clauses []*clause.Clause, doSubsume, doStrengthen bool) []*clause.Clause {
	removed := make([]bool, len(clauses))

	for pass := 0; pass < 3; pass++ {
		changed := false
		occ := occurrences(clauses)

		if doSubsume {
			for i, c := range clauses {
				if removed[i] {
					continue
				}
				probe := leastOccurring(c, occ)
				for _, j := range occ[probe] {
					if i == j || removed[j] {
						continue
					}
					d := clauses[j]
					if d.Size() < c.Size() {
						continue
					}
					if subsumes(c, d) {
						removed[j] = true
						changed = true
					}
				}
			}
		}

		if doStrengthen {
			for i, c := range clauses {
				if removed[i] {
					continue
				}
				for li := 0; li < c.Size(); li++ {
					l := c.At(li)
					for _, j := range occ[l.Negation()] {
						if i == j || removed[j] {
							continue
						}
						d := clauses[j]
						if selfSubsumes(c, d, l) {
							removeLiteral(c, li)
							changed = true
							break
						}
					}
				}
			}
		}

		if !changed {
			break
		}
	}

	out := make([]*clause.Clause, 0, len(clauses))
	for i, c := range clauses {
		if !removed[i] {
			out = append(out, c)
		}
	}
	return out
}

// selfSubsumes reports whether d justifies removing l from c: every
// literal of d other than ¬l already appears in c, per spec.md §4.4's
// "D ⊆ C ∪ {ℓ}".
func selfSubsumes(c, d *clause.Clause, l lit.Lit) bool {
	for i := 0; i < d.Size(); i++ {
		dl := d.At(i)
		if dl.Equal(l.Negation()) {
			continue
		}
		if !c.Contains(dl) {
			return false
		}
	}
	return true
}

// removeLiteral deletes c's i'th literal in place and recomputes its
// abstraction bitmask.
func removeLiteral(c *clause.Clause, i int) {
	last := c.Size() - 1
	c.Swap(i, last)
	c.Shrink(last)
	c.RecomputeAbstraction()
}
