package solver

import "github.com/gatosat/gatosat/internal/lit"

// nextAssumption returns the next not-yet-decided assumption literal, or
// lit.Undef once all assumptions have been pushed, per spec.md §4.3's "If
// an assumption exists at the next position, use it".
func (s *Solver) nextAssumption() lit.Lit {
	d := s.DecisionLevel()
	if d >= len(s.Assumptions) {
		return lit.Undef
	}
	a := s.Assumptions[d]
	switch s.ValueLit(a) {
	case lit.True:
		// Already implied: search opens an empty decision level for it
		// before branching, so this position contributes no new trail entry.
		return lit.Undef
	case lit.False:
		// Conflicting assumption: analyzeFinal below handles this from
		// Search's propagate-conflict path, so this function's caller
		// only ever sees it as an ordinary decision when consistent.
		return lit.Undef
	default:
		return a
	}
}

// assumptionConflicted reports whether pushing the next assumption is
// already contradicted by the current assignment, and if so returns it.
func (s *Solver) assumptionConflicted() (lit.Lit, bool) {
	d := s.DecisionLevel()
	if d >= len(s.Assumptions) {
		return lit.Undef, false
	}
	a := s.Assumptions[d]
	if s.ValueLit(a) == lit.False {
		return a, true
	}
	return lit.Undef, false
}

// analyzeFinal builds the minimal final conflict clause when an assumption
// is contradicted, per spec.md §4.2's "Assumption-based final conflict". p
// is the literal that is currently true and responsible for falsifying the
// next assumption (the caller passes the negation of the falsified
// assumption); it is always part of the result, and the backward trail walk
// adds every other decision-level literal p's falsification chain rests on.
func (s *Solver) analyzeFinal(p lit.Lit) {
	s.finalConflict = s.finalConflict[:0]
	s.finalConflict = append(s.finalConflict, p)
	if len(s.Assumptions) == 0 {
		return
	}

	for i := range s.Seen {
		s.Seen[i] = false
	}
	s.Seen[p.Var()] = true

	for i := len(s.Trail) - 1; i >= 0; i-- {
		v := s.Trail[i].Var()
		if !s.Seen[v] {
			continue
		}
		r := s.VarReason(v)
		if r.Kind == ReasonNone {
			if s.Level(v) > 0 {
				s.finalConflict = append(s.finalConflict, s.Trail[i].Negation())
			}
		} else {
			for _, q := range s.Literals(r) {
				if q.Var() != v && s.Level(q.Var()) > 0 {
					s.Seen[q.Var()] = true
				}
			}
		}
		s.Seen[v] = false
	}
	s.Seen[p.Var()] = false
}
