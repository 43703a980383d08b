package simplify

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
)

// probe implements the hyper-binary-resolution prober supplemented from
// original_source/cmsat's prober.h (SPEC_FULL.md §5): for each free
// variable, both phases are tried at decision level 1; a conflict in one
// phase yields a unit clause for the other; literals forced under both
// phases are unit facts regardless of the probe variable; every literal
// forced under one phase alone yields a binary clause synthesised between
// the negated probe literal and the forced literal (hyper-binary
// resolution: the whole implication chain collapses to one binary clause).
func probe(s *solver.Solver, working []*clause.Clause) ([]*clause.Clause, bool) {
	var synthesised []*clause.Clause

	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		if s.ValueVar(v) != lit.TriUndef || !s.Decision[v] {
			continue
		}

		posForced, posConfl := tryProbe(s, lit.New(v, false))
		if posConfl {
			s.CancelUntil(0)
			if !s.AddClause([]lit.Lit{lit.New(v, true)}) {
				return nil, false
			}
			continue
		}

		negForced, negConfl := tryProbe(s, lit.New(v, true))
		if negConfl {
			s.CancelUntil(0)
			if !s.AddClause([]lit.Lit{lit.New(v, false)}) {
				return nil, false
			}
			continue
		}

		for l := range posForced {
			if negForced[l] {
				if !s.AddClause([]lit.Lit{l}) {
					return nil, false
				}
			}
		}
		for l := range posForced {
			if negForced[l] {
				continue
			}
			synthesised = append(synthesised, clause.NewClause([]lit.Lit{lit.New(v, true), l}, false))
		}
		for l := range negForced {
			if posForced[l] {
				continue
			}
			synthesised = append(synthesised, clause.NewClause([]lit.Lit{lit.New(v, false), l}, false))
		}
	}

	return append(working, synthesised...), true
}

// tryProbe assumes l, propagates, and returns every other literal forced
// onto the trail (or conflict=true if propagation contradicted itself).
// The forced literals are copied out of s.Trail and the decision level is
// cancelled back to 0 before returning, so the caller can probe the next
// variable or literal directly.
func tryProbe(s *solver.Solver, l lit.Lit) (forced map[lit.Lit]bool, conflict bool) {
	if v := s.ValueLit(l); v != lit.TriUndef {
		return nil, v == lit.False
	}

	base := len(s.Trail)
	confl := s.ProbeAssume(l)
	if confl != solver.NoReason {
		s.CancelUntil(0)
		return nil, true
	}

	forced = make(map[lit.Lit]bool, len(s.Trail)-base)
	for _, t := range s.Trail[base:] {
		if !t.Equal(l) {
			forced[t] = true
		}
	}
	s.CancelUntil(0)
	return forced, false
}
