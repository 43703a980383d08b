package solver

import (
	"time"

	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// Result is the three-valued outcome of Solve, per spec.md §6.
type Result uint8

const (
	// Unknown means the budget (conflicts or time) was exhausted first.
	Unknown Result = iota
	// Sat means Model is populated with a satisfying assignment.
	Sat
	// Unsat means the formula (under any assumptions) is unsatisfiable.
	Unsat
)

// String implements fmt.Stringer for log lines.
func (r Result) String() string {
	switch r {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Solve is the top-level entry point of spec.md §6: runs the search driver
// under the given assumptions until the formula is decided or a budget is
// exhausted. Assumptions replace any set from a previous call.
func (s *Solver) Solve(assumptions []lit.Lit) Result {
	if !s.OK {
		return Unsat
	}

	s.Assumptions = append([]lit.Lit(nil), assumptions...)
	s.finalConflict = s.finalConflict[:0]

	deadline := time.Time{}
	if s.Conf.MaxTime > 0 {
		deadline = time.Now().Add(s.Conf.MaxTime)
	}

	episodeConflicts := 0
	var conflictsSinceSimplify int64

	for {
		if s.Interrupted() {
			return Unknown
		}
		if s.Conf.MaxConflicts >= 0 && int64(s.Stats.ConflictCount) >= s.Conf.MaxConflicts {
			return Unknown
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Unknown
		}

		result := s.search(&episodeConflicts, &conflictsSinceSimplify)
		switch result {
		case Sat:
			s.finishModel()
			s.CancelUntil(0)
			return Sat
		case Unsat:
			s.CancelUntil(0)
			return Unsat
		default:
			// Unknown from one episode means a restart boundary was hit;
			// loop back around to check budgets and maybe run Inprocessor.
		}
	}
}

// search runs propagate/analyze/decide until either the formula is decided,
// a restart boundary is reached (returns Unknown), or an inprocessing pass
// is due (also returns Unknown after running it, so Solve can re-check
// budgets uniformly).
func (s *Solver) search(episodeConflicts *int, conflictsSinceSimplify *int64) Result {
	for {
		confl := s.Propagate()
		if confl != NoReason {
			s.Stats.ConflictCount++
			*episodeConflicts++
			*conflictsSinceSimplify++

			if s.DecisionLevel() == 0 {
				return Unsat
			}

			learnt, backjumpLevel := s.Analyze(confl)
			s.CancelUntil(backjumpLevel)

			lbd := s.computeLBD(learnt)
			s.Stats.GlueShortTerm.Update(float64(lbd))
			s.Stats.GlueLongTerm.Update(float64(lbd))

			s.learnClause(learnt)
			s.varDecayActivity()
			s.clauseDecayActivity()

			if p, ok := s.assumptionConflicted(); ok {
				s.analyzeFinal(p.Negation())
				return Unsat
			}
			continue
		}

		// No conflict: check whether a restart, reduceDB, or inprocessing
		// pass is due before making the next decision.
		if s.shouldRestart(*episodeConflicts) {
			s.advanceRestartCounter()
			*episodeConflicts = 0
			s.CancelUntil(0)
			return Unknown
		}

		if int64(len(s.LearntClauses)) >= s.nextClean {
			s.reduceDB()
			s.cleanInterval *= s.Conf.IncreaseClean
			s.nextClean = int64(float64(s.nextClean) + s.cleanInterval)
		}

		if s.Conf.EnableInprocessing && s.Inprocessor != nil &&
			*conflictsSinceSimplify >= int64(s.Conf.SimplifyEveryConflicts) && s.DecisionLevel() == 0 {
			*conflictsSinceSimplify = 0
			if !s.Inprocessor.Simplify(s) {
				return Unsat
			}
			return Unknown
		}

		// An assumption that already holds gets an empty decision level of its
		// own, so decision levels keep lining up with assumption positions.
		for s.DecisionLevel() < len(s.Assumptions) && s.ValueLit(s.Assumptions[s.DecisionLevel()]) == lit.True {
			s.newDecisionLevel()
		}

		if p, conflicted := s.assumptionConflicted(); conflicted {
			s.analyzeFinal(p.Negation())
			return Unsat
		}

		next := s.pickBranchLit()
		if next.Equal(lit.Undef) {
			return Sat
		}

		wasCached := s.Polarity[next.Var()] == next.Sign()
		s.updateAgility(!wasCached)

		s.Stats.DecisionCount++
		s.newDecisionLevel()
		s.uncheckedEnqueue(next, NoReason)
	}
}

// learnClause attaches a freshly learnt clause and enqueues its asserting
// literal, per spec.md §4.2's "learn, attach, enqueue" sequence. Binary and
// unit learnt clauses follow the same no-arena rule as original clauses.
func (s *Solver) learnClause(learnt []lit.Lit) {
	s.Proof.Add(learnt)

	switch len(learnt) {
	case 1:
		s.uncheckedEnqueue(learnt[0], NoReason)
	case 2:
		s.attachBinary(learnt[0], learnt[1], true)
		s.NumBin++
		s.uncheckedEnqueue(learnt[0], Reason{Kind: ReasonBinary, L1: learnt[0], L2: learnt[1]})
	case 3:
		s.attachTernary(learnt[0], learnt[1], learnt[2], true)
		s.NumTern++
		s.uncheckedEnqueue(learnt[0], Reason{Kind: ReasonTernary, L1: learnt[0], L2: learnt[1], L3: learnt[2]})
	default:
		c := clause.NewClause(learnt, true)
		c.SetGlue(s.computeLBD(learnt))
		ref := s.Arena.Allocate(c)
		s.LearntClauses = append(s.LearntClauses, ref)
		s.attachLong(ref)
		s.clauseBumpActivity(c)
		s.uncheckedEnqueue(learnt[0], Reason{Kind: ReasonLong, Ref: ref})
	}
}

// finishModel fills in Model for every live variable from the current
// assignment, then runs the model extenders for eliminated/replaced/
// decomposed variables, per spec.md §4.4–§4.5.
func (s *Solver) finishModel() {
	s.Model = make([]lit.TriBool, s.NumVars())
	for v := lit.Var(0); int(v) < s.NumVars(); v++ {
		s.Model[v] = s.ValueVar(v)
	}
	s.extendModel()
	for v, val := range s.SavedState {
		s.growModel(v)
		s.Model[v] = val
	}
}
