package solver

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// Analyze performs first-UIP conflict analysis starting from confl, per
// spec.md §4.2. It returns the learnt clause (negated first UIP at index 0)
// and the backjump level (the second-highest decision level among the
// learnt literals, or 0 if the clause is unit).
func (s *Solver) Analyze(confl Reason) (learnt []lit.Lit, backjumpLevel int) {
	pathCount := 0
	p := lit.Undef
	idx := len(s.Trail) - 1

	learnt = append(learnt, lit.Undef) // room for the asserting literal

	for {
		lits := s.Literals(confl)
		if confl.Kind == ReasonLong {
			c := s.Arena.Get(confl.Ref)
			if c.Learnt() {
				s.clauseBumpActivity(c)
				if g := s.computeLBD(lits); g < c.Glue() || c.Glue() == 0 {
					c.SetGlue(g)
				}
			}
		}

		start := 0
		if !p.Equal(lit.Undef) {
			start = 1
		}
		for i := start; i < len(lits); i++ {
			q := lits[i]
			if s.Seen[q.Var()] || s.Level(q.Var()) == 0 {
				continue
			}
			s.varBumpActivity(q.Var())
			s.Seen[q.Var()] = true
			if s.Level(q.Var()) == s.DecisionLevel() {
				pathCount++
			} else {
				learnt = append(learnt, q)
			}
		}

		// Walk the trail backward to the next seen literal.
		for !s.Seen[s.Trail[idx].Var()] {
			idx--
		}
		p = s.Trail[idx]
		confl = s.VarReason(p.Var())
		s.Seen[p.Var()] = false
		idx--
		pathCount--
		if pathCount <= 0 {
			break
		}
	}
	learnt[0] = p.Negation()

	toClear := append([]lit.Lit(nil), learnt...)
	learnt = s.minimise(learnt)

	backjumpLevel = 0
	if len(learnt) > 1 {
		maxIdx := 1
		for i := 2; i < len(learnt); i++ {
			if s.Level(learnt[i].Var()) > s.Level(learnt[maxIdx].Var()) {
				maxIdx = i
			}
		}
		backjumpLevel = s.Level(learnt[maxIdx].Var())
		learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	}

	for _, l := range toClear {
		s.Seen[l.Var()] = false
	}
	return learnt, backjumpLevel
}

// minimise applies recursive and binary-based minimisation, per spec.md
// §4.2. It assumes s.Seen is still set for every literal currently in
// learnt (including those it may go on to drop).
func (s *Solver) minimise(learnt []lit.Lit) []lit.Lit {
	out := learnt[:1]
	for i := 1; i < len(learnt); i++ {
		l := learnt[i]
		if s.Conf.RecursiveMinim && s.literalRedundant(l, nil) {
			continue
		}
		out = append(out, l)
	}
	learnt = out
	if s.Conf.BinaryMinim {
		learnt = s.minimiseByBinaries(learnt)
	}
	return learnt
}

// literalRedundant implements recursive minimisation (spec.md §4.2): l is
// redundant if every literal of reason(¬l) is already in the learnt clause
// or itself recursively redundant. stack holds the literals on the current
// recursion path and serves as a cycle guard; no abstract-level bitmask is
// used to prune the recursion.
func (s *Solver) literalRedundant(l lit.Lit, stack []lit.Lit) bool {
	v := l.Var()
	r := s.VarReason(v)
	if r.Kind == ReasonNone {
		return false // decision or top-level fact: never redundant
	}
	lits := s.Literals(r)
	for _, q := range lits {
		if q.Var() == v {
			continue
		}
		if s.Seen[q.Var()] {
			continue
		}
		if s.Level(q.Var()) == 0 {
			continue
		}
		qr := s.VarReason(q.Var())
		if qr.Kind == ReasonNone {
			return false
		}
		for _, sv := range stack {
			if sv.Var() == q.Var() {
				return false // cycle guard; treat as non-redundant
			}
		}
		if !s.literalRedundant(q, append(stack, l)) {
			return false
		}
	}
	return true
}

// minimiseByBinaries drops any learnt literal ¬m for which a binary clause
// (l ∨ m) exists against another literal l already in the clause (resolving
// on m removes ¬m and keeps l), per spec.md §4.2's binary-based
// minimisation. A literal already dropped is not used to drop others, and
// the asserting literal at index 0 is never dropped.
func (s *Solver) minimiseByBinaries(learnt []lit.Lit) []lit.Lit {
	index := make(map[lit.Lit]int, len(learnt))
	for i, l := range learnt {
		index[l] = i
	}
	redundant := make([]bool, len(learnt))
	for i, l := range learnt {
		if redundant[i] {
			continue
		}
		for _, w := range s.Watches.At(l.Negation()) {
			if w.Kind != clause.Binary {
				continue
			}
			if j, ok := index[w.Lit2.Negation()]; ok && j != 0 && j != i {
				redundant[j] = true
			}
		}
	}
	out := learnt[:0:0]
	for i, l := range learnt {
		if i != 0 && redundant[i] {
			continue
		}
		out = append(out, l)
	}
	return out
}

// computeLBD returns the number of distinct decision levels among lits,
// the glue/LBD quality metric of spec.md §4.2.
func (s *Solver) computeLBD(lits []lit.Lit) int {
	seen := make(map[int]bool, len(lits))
	for _, l := range lits {
		seen[s.Level(l.Var())] = true
	}
	return len(seen)
}
