package simplify

import (
	"sort"

	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
)

// unionFind is a standard path-compressing, union-by-size disjoint set,
// used to partition variables into connected components over the current
// clause set, per spec.md §4.5.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	s := make([]int, n)
	for i := range p {
		p[i] = i
		s[i] = 1
	}
	return &unionFind{parent: p, size: s}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

// splitComponents implements spec.md §4.5: partitions the current
// irredundant formula into connected components over a union-find keyed by
// shared variables, solves every component but the ones containing
// assumption literals (or, absent assumptions, the largest component) in
// an isolated, densely-renumbered sub-solver, and merges each SAT verdict's
// model into SavedState. A sub-solver's UNSAT verdict makes the whole
// formula UNSAT; a sub-solver returning Unknown (budget exhausted) aborts
// further splitting and re-adds every remaining component's clauses
// unsplit, per spec.md §4.5's timeout behaviour.
func splitComponents(s *solver.Solver) bool {
	clauses := s.ExportIrredundant()
	if len(clauses) == 0 {
		return true
	}

	uf := newUnionFind(s.NumVars())
	for _, c := range clauses {
		if len(c) == 0 {
			continue
		}
		first := int(c[0].Var())
		for i := 1; i < len(c); i++ {
			uf.union(first, int(c[i].Var()))
		}
	}

	groups := make(map[int][][]lit.Lit)
	for _, c := range clauses {
		root := uf.find(int(c[0].Var()))
		groups[root] = append(groups[root], c)
	}
	if len(groups) <= 1 {
		return true
	}

	assumpVars := s.AssumptionVars()
	mainRoots := make(map[int]bool)
	for v := range assumpVars {
		mainRoots[uf.find(int(v))] = true
	}
	if len(mainRoots) == 0 {
		best, bestSize := -1, -1
		for root, cl := range groups {
			if len(cl) > bestSize {
				best, bestSize = root, len(cl)
			}
		}
		mainRoots[best] = true
	}

	type comp struct {
		clauses [][]lit.Lit
	}
	var splitOff []comp
	for root, cl := range groups {
		if mainRoots[root] {
			continue
		}
		splitOff = append(splitOff, comp{cl})
	}
	sort.Slice(splitOff, func(i, j int) bool { return len(splitOff[i].clauses) < len(splitOff[j].clauses) })

	var keep [][]lit.Lit
	for root := range mainRoots {
		keep = append(keep, groups[root]...)
	}

	for idx, sc := range splitOff {
		varSet := make(map[lit.Var]bool)
		for _, c := range sc.clauses {
			for i := 0; i < len(c); i++ {
				varSet[c[i].Var()] = true
			}
		}
		outer := make([]lit.Var, 0, len(varSet))
		for v := range varSet {
			outer = append(outer, v)
		}
		sort.Slice(outer, func(i, j int) bool { return outer[i] < outer[j] })

		inner := make(map[lit.Var]lit.Var, len(outer))
		for i, v := range outer {
			inner[v] = lit.Var(i)
		}

		sub := solver.New(s.Conf)
		for range outer {
			sub.NewVar()
		}
		for _, c := range sc.clauses {
			lits := make([]lit.Lit, len(c))
			for i := 0; i < len(c); i++ {
				old := c[i]
				lits[i] = lit.New(inner[old.Var()], old.Sign())
			}
			sub.AddClause(lits)
		}

		switch sub.Solve(nil) {
		case solver.Unsat:
			s.OK = false
			return false
		case solver.Sat:
			if s.SavedState == nil {
				s.SavedState = make(map[lit.Var]lit.TriBool)
			}
			for i, v := range outer {
				s.SavedState[v] = sub.Value(lit.Var(i))
			}
			for _, v := range outer {
				s.Decompose(v)
			}
			s.Stats.ComponentsSolved++
		default: // Unknown: re-add this and every remaining component unsplit
			keep = append(keep, sc.clauses...)
			for _, rest := range splitOff[idx+1:] {
				keep = append(keep, rest.clauses...)
			}
			splitOff = nil
		}
		if splitOff == nil {
			break
		}
	}

	s.ClearIrredundant()
	for _, c := range keep {
		if !s.AddClause(c) {
			return false
		}
	}
	return true
}
