package simplify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
)

// addVariables runs a bounded form of BVA (spec.md §4.4): it groups
// clauses by their literal set minus one "matched" literal, and whenever
// at least two clauses share an identical tail with distinct lead
// literals, factors the tail out behind a fresh variable. This is the
// "drop-one-literal" matching restricted from the general matched-subset
// search BVA ordinarily runs (bounded here the same way BVEAggressive
// bounds BVE, since nothing in the pack shows a matching-literal search
// over arbitrary subsets either — see DESIGN.md).
func addVariables(s *solver.Solver, clauses []*clause.Clause) []*clause.Clause {
	groups := make(map[string][]int)
	for i, c := range clauses {
		if c.Size() < 2 {
			continue
		}
		for drop := 0; drop < c.Size(); drop++ {
			key := tailKey(c, drop)
			groups[key] = append(groups[key], i)
		}
	}

	replaced := make(map[int]bool)
	var out []*clause.Clause

	for key, idxs := range groups {
		leads := make(map[lit.Lit]int)
		for _, i := range idxs {
			if replaced[i] {
				continue
			}
			c := clauses[i]
			for drop := 0; drop < c.Size(); drop++ {
				if tailKey(c, drop) == key {
					leads[c.At(drop)] = i
				}
			}
		}
		if len(leads) < 2 {
			continue
		}

		var tail []lit.Lit
		for l, i := range leads {
			c := clauses[i]
			tail = tail[:0]
			for j := 0; j < c.Size(); j++ {
				if !c.At(j).Equal(l) {
					tail = append(tail, c.At(j))
				}
			}
			break
		}

		x := s.NewVar()
		for l, i := range leads {
			replaced[i] = true
			out = append(out, clause.NewClause([]lit.Lit{lit.New(x, true), l}, false))
		}
		tailClause := append([]lit.Lit{lit.New(x, false)}, tail...)
		out = append(out, clause.NewClause(tailClause, false))
		s.Stats.SubsumedCount += uint64(len(leads) - 1) // crude reduction bookkeeping
	}

	for i, c := range clauses {
		if !replaced[i] {
			out = append(out, c)
		}
	}
	return out
}

// tailKey renders c's literals except the one at index drop as a stable
// sorted string key for grouping.
func tailKey(c *clause.Clause, drop int) string {
	lits := make([]lit.Lit, 0, c.Size()-1)
	for i := 0; i < c.Size(); i++ {
		if i != drop {
			lits = append(lits, c.At(i))
		}
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i].Less(lits[j]) })
	var b strings.Builder
	for _, l := range lits {
		fmt.Fprintf(&b, "%d,", l.Index())
	}
	return b.String()
}
