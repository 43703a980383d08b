package solver

import "github.com/gatosat/gatosat/internal/lit"

// BlockedClause is one entry of the model-extension stack BVE builds while
// eliminating a variable, per spec.md §4.4: the clause's literals are kept
// in the solver's single variable numbering, which no inprocessing pass
// renumbers, so they can be evaluated directly against the final model.
type BlockedClause struct {
	Var      lit.Var // the eliminated variable this clause blocks on
	Polarity bool    // the witness phase: true assigns Var's negated literal
	Lits     []lit.Lit
}

// PushBlocked records a blocked clause for later model extension.
func (s *Solver) PushBlocked(v lit.Var, polarity bool, lits []lit.Lit) {
	cp := append([]lit.Lit(nil), lits...)
	s.Blocked = append(s.Blocked, BlockedClause{Var: v, Polarity: polarity, Lits: cp})
}

// extendModel walks the blocked-clause stack in reverse and assigns every
// eliminated variable a value consistent with the clauses BVE removed,
// exactly as spec.md §4.4 describes: "if no literal of C is currently True,
// assign v to π; otherwise leave v alone."
func (s *Solver) extendModel() {
	for i := len(s.Blocked) - 1; i >= 0; i-- {
		bc := s.Blocked[i]
		satisfied := false
		for _, l := range bc.Lits {
			if l.Var() == bc.Var {
				continue
			}
			if int(l.Var()) < len(s.Model) && s.evalModelLit(l) == lit.True {
				satisfied = true
				break
			}
		}
		if !satisfied {
			val := lit.True
			if bc.Polarity {
				val = lit.False
			}
			s.growModel(bc.Var)
			s.Model[bc.Var] = val
		}
	}
}

// evalModelLit reads l's value from the in-progress Model array (used only
// during extension, before Value()'s replacement-aware lookup applies).
func (s *Solver) evalModelLit(l lit.Lit) lit.TriBool {
	if int(l.Var()) >= len(s.Model) {
		return lit.TriUndef
	}
	v := s.Model[l.Var()]
	if l.Sign() {
		return v.Not()
	}
	return v
}

func (s *Solver) growModel(v lit.Var) {
	for lit.Var(len(s.Model)) <= v {
		s.Model = append(s.Model, lit.TriUndef)
	}
}
