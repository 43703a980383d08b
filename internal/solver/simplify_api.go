package solver

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// ExportIrredundant returns every currently live irredundant (non-learnt)
// clause as a fresh literal slice, deduplicating the binary/ternary clauses
// that are filed under more than one watch bucket. Only valid at decision
// level 0, matching spec.md §4.4's "runs between search episodes" contract.
func (s *Solver) ExportIrredundant() [][]lit.Lit {
	var out [][]lit.Lit
	seenLong := make(map[clause.Ref]bool)

	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		for _, sign := range [2]bool{false, true} {
			p := lit.New(v, sign)
			for _, w := range s.Watches.At(p) {
				switch w.Kind {
				case clause.Binary:
					if w.Redundant {
						continue
					}
					a := p.Flip()
					if a.Index() < w.Lit2.Index() {
						out = append(out, []lit.Lit{a, w.Lit2})
					}
				case clause.Ternary:
					if w.Redundant {
						continue
					}
					a := p.Flip()
					if a.Index() < w.Lit2.Index() && a.Index() < w.Lit3.Index() {
						out = append(out, []lit.Lit{a, w.Lit2, w.Lit3})
					}
				case clause.Long:
					if seenLong[w.Ref] {
						continue
					}
					seenLong[w.Ref] = true
					c := s.Arena.Get(w.Ref)
					if c.Learnt() {
						continue
					}
					out = append(out, append([]lit.Lit(nil), c.Lits...))
				}
			}
		}
	}
	return out
}

// ClearIrredundant detaches and frees every irredundant clause, leaving
// learnt clauses and the trail untouched, so the caller can re-populate the
// formula with a simplified equivalent via AddClause. Only valid at
// decision level 0.
func (s *Solver) ClearIrredundant() {
	newWatches := clause.NewList()
	freedLong := make(map[clause.Ref]bool)

	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		for _, sign := range [2]bool{false, true} {
			p := lit.New(v, sign)
			for _, w := range s.Watches.At(p) {
				switch w.Kind {
				case clause.Binary, clause.Ternary:
					if w.Redundant {
						newWatches.Append(p, w)
					}
				case clause.Long:
					c := s.Arena.Get(w.Ref)
					if c.Learnt() {
						newWatches.Append(p, w)
					} else if !freedLong[w.Ref] {
						freedLong[w.Ref] = true
					}
				}
			}
		}
	}

	for ref := range freedLong {
		s.Arena.Free(ref)
	}

	s.Watches = newWatches
	s.Clauses = nil

	numBin, numTern := 0, 0
	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		for _, sign := range [2]bool{false, true} {
			p := lit.New(v, sign)
			for _, w := range s.Watches.At(p) {
				if w.Kind == clause.Binary {
					numBin++
				}
				if w.Kind == clause.Ternary {
					numTern++
				}
			}
		}
	}
	s.NumBin = numBin / 2
	s.NumTern = numTern / 3
}

// Eliminate marks v as removed by BVE: it stops being a decision variable
// and Value(v) will resolve through the blocked-clause stack at Solve end.
func (s *Solver) Eliminate(v lit.Var) {
	s.Status[v] = clause.StatusEliminated
	s.setDecisionVar(v, false)
	s.Stats.EliminatedVars++
}

// MarkReplaced records that v was folded into rep by variable replacement,
// per spec.md §4.4's "replacement table is consulted at solution time".
func (s *Solver) MarkReplaced(v lit.Var, rep lit.Lit) {
	if s.ReplaceRep == nil {
		s.ReplaceRep = make(map[lit.Var]lit.Lit)
	}
	s.ReplaceRep[v] = rep
	s.Status[v] = clause.StatusReplaced
	s.setDecisionVar(v, false)
}

// Decompose marks v as solved by the component splitter's sub-solver: it is
// no longer a decision variable in the main solver, and its final value
// comes from SavedState.
func (s *Solver) Decompose(v lit.Var) {
	s.Status[v] = clause.StatusDecomposed
	s.setDecisionVar(v, false)
}

// ProbeAssume assumes l true at a fresh decision level and propagates, for
// use by the probing pass (SPEC_FULL.md §5's hyper-binary resolution
// prober). It returns the conflicting reason, or NoReason if propagation
// drained cleanly. The caller is responsible for calling CancelUntil(0)
// once it has inspected the resulting trail.
func (s *Solver) ProbeAssume(l lit.Lit) Reason {
	s.newDecisionLevel()
	s.uncheckedEnqueue(l, NoReason)
	return s.Propagate()
}

// AssumptionVars reports the set of variables appearing in the current
// assumptions, used by the component splitter to exclude their component
// from splitting (spec.md §4.5).
func (s *Solver) AssumptionVars() map[lit.Var]bool {
	out := make(map[lit.Var]bool, len(s.Assumptions))
	for _, a := range s.Assumptions {
		out[a.Var()] = true
	}
	return out
}
