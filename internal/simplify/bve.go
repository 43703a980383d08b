package simplify

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/order"
	"github.com/gatosat/gatosat/internal/solver"
)

// eliminateVariables runs bounded variable elimination, per spec.md §4.4:
// cost-ordered candidate selection via an order-heap (reused from package
// order, with activity = -cost so RemoveMax pops the cheapest candidate
// first), resolvent generation, and blocked-clause recording for model
// extension.
func eliminateVariables(s *solver.Solver, clauses []*clause.Clause, aggressive bool) ([]*clause.Clause, bool) {
	pos, neg := buildOccurrenceSets(s, clauses)

	h := order.New()
	candidates := make(map[lit.Var]bool)
	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		if !s.Decision[v] {
			continue // already eliminated/replaced/decomposed
		}
		cost := len(pos[v])*len(neg[v]) + binWeight(clauses, pos[v], neg[v])
		h.Grow(v)
		h.SetActivity(v, -float64(cost))
		h.Push(v)
		candidates[v] = true
	}

	removed := make(map[int]bool)
	var added []*clause.Clause

	for !h.Empty() {
		v := h.RemoveMax()
		if !s.Decision[v] {
			continue
		}

		pc, nc := pos[v], neg[v]
		preCount := len(pc) + len(nc)
		if preCount == 0 {
			s.Eliminate(v)
			continue
		}

		var resolvents []*clause.Clause
		for _, pi := range pc {
			if removed[pi] {
				continue
			}
			for _, ni := range nc {
				if removed[ni] {
					continue
				}
				r, tautology := resolve(clauses[pi], clauses[ni], v)
				if tautology {
					continue
				}
				if r.Size() == 0 {
					s.OK = false
					return nil, false
				}
				resolvents = append(resolvents, r)
			}
		}

		limit := preCount
		if aggressive {
			limit = preCount + preCount/2 // aggressive mode tolerates a larger resolvent set
		}
		if len(resolvents) > limit {
			continue
		}

		for _, ci := range pc {
			if !removed[ci] {
				l := findLit(clauses[ci], v, false)
				s.PushBlocked(v, l.Sign(), clauses[ci].Lits)
				removed[ci] = true
			}
		}
		for _, ci := range nc {
			if !removed[ci] {
				l := findLit(clauses[ci], v, true)
				s.PushBlocked(v, l.Sign(), clauses[ci].Lits)
				removed[ci] = true
			}
		}

		added = append(added, resolvents...)
		s.Eliminate(v)
	}

	out := make([]*clause.Clause, 0, len(clauses)+len(added))
	for i, c := range clauses {
		if !removed[i] {
			out = append(out, c)
		}
	}
	out = append(out, added...)
	return out, true
}

// buildOccurrenceSets indexes each clause by the variables it touches,
// split by the polarity the variable appears in.
func buildOccurrenceSets(s *solver.Solver, clauses []*clause.Clause) (pos, neg map[lit.Var][]int) {
	pos = make(map[lit.Var][]int)
	neg = make(map[lit.Var][]int)
	for i, c := range clauses {
		for j := 0; j < c.Size(); j++ {
			l := c.At(j)
			if l.Sign() {
				neg[l.Var()] = append(neg[l.Var()], i)
			} else {
				pos[l.Var()] = append(pos[l.Var()], i)
			}
		}
	}
	return pos, neg
}

// binWeight approximates spec.md §4.4's "bin_weight" term: the number of
// binary clauses (size-2 working clauses) touching v.
func binWeight(clauses []*clause.Clause, pc, nc []int) int {
	n := 0
	for _, i := range pc {
		if clauses[i].Size() == 2 {
			n++
		}
	}
	for _, i := range nc {
		if clauses[i].Size() == 2 {
			n++
		}
	}
	return n
}

// findLit returns the literal of v (in the given sign) present in c.
func findLit(c *clause.Clause, v lit.Var, sign bool) lit.Lit {
	want := lit.New(v, sign)
	for i := 0; i < c.Size(); i++ {
		if c.At(i).Equal(want) {
			return want
		}
	}
	return want
}

// resolve computes the resolvent of cp (containing v positively) and cn
// (containing v negatively) on v, reporting tautology=true if some other
// variable appears with both signs across the two clauses.
func resolve(cp, cn *clause.Clause, v lit.Var) (resolvent *clause.Clause, tautology bool) {
	seen := make(map[lit.Var]lit.Lit, cp.Size()+cn.Size())
	var lits []lit.Lit

	add := func(l lit.Lit) bool {
		if l.Var() == v {
			return true
		}
		if prev, ok := seen[l.Var()]; ok {
			if !prev.Equal(l) {
				return false
			}
			return true
		}
		seen[l.Var()] = l
		lits = append(lits, l)
		return true
	}

	for i := 0; i < cp.Size(); i++ {
		if !add(cp.At(i)) {
			return nil, true
		}
	}
	for i := 0; i < cn.Size(); i++ {
		if !add(cn.At(i)) {
			return nil, true
		}
	}
	return clause.NewClause(lits, false), false
}
