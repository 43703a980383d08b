package solver

import (
	"fmt"
	"sort"

	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// AddClause adds an irredundant clause, per spec.md §6's add_clause entry
// point. It returns false if the formula is now trivially UNSAT. Must only
// be called at decision level 0, matching the teacher's contract.
func (s *Solver) AddClause(lits []lit.Lit) bool {
	if s.DecisionLevel() != 0 {
		panic(fmt.Errorf("solver: AddClause called at decision level %d", s.DecisionLevel()))
	}
	if !s.OK {
		return false
	}

	lits = append([]lit.Lit(nil), lits...)
	lits, satisfied := s.canonicalize(lits)
	if satisfied {
		// Tautological or already satisfied clause: nothing to add.
		return true
	}

	switch len(lits) {
	case 0:
		s.OK = false
		s.Proof.Add(nil)
		return false
	case 1:
		s.Proof.Add(lits)
		if s.ValueLit(lits[0]) == lit.False {
			s.OK = false
			return false
		}
		if s.ValueLit(lits[0]) == lit.TriUndef {
			s.uncheckedEnqueue(lits[0], NoReason)
			if confl := s.Propagate(); confl != NoReason {
				s.OK = false
				return false
			}
		}
	case 2:
		s.Proof.Add(lits)
		s.attachBinary(lits[0], lits[1], false)
		s.NumBin++
	case 3:
		s.Proof.Add(lits)
		s.attachTernary(lits[0], lits[1], lits[2], false)
		s.NumTern++
	default:
		s.Proof.Add(lits)
		c := clause.NewClause(lits, false)
		ref := s.Arena.Allocate(c)
		s.Clauses = append(s.Clauses, ref)
		s.attachLong(ref)
	}
	return true
}

// canonicalize sorts lits, removes falsified/duplicate literals and reports
// satisfied=true for a tautology (a literal and its negation both present)
// or a clause with an already-true literal, mirroring the teacher's
// addClause preprocessing loop.
func (s *Solver) canonicalize(lits []lit.Lit) (out []lit.Lit, satisfied bool) {
	sort.Slice(lits, func(i, j int) bool { return lits[i].Less(lits[j]) })
	out = lits[:0]
	var prev lit.Lit = lit.Undef
	for _, l := range lits {
		if s.ValueLit(l) == lit.True || l.Equal(prev.Negation()) {
			return nil, true
		}
		if s.ValueLit(l) != lit.False && !l.Equal(prev) {
			out = append(out, l)
			prev = l
		}
	}
	return out, false
}

func (s *Solver) attachBinary(a, b lit.Lit, redundant bool) {
	s.Watches.Append(a.Flip(), clause.NewBinary(b, redundant))
	s.Watches.Append(b.Flip(), clause.NewBinary(a, redundant))
}

func (s *Solver) detachBinary(a, b lit.Lit, redundant bool) {
	s.Watches.Remove(a.Flip(), clause.NewBinary(b, redundant))
	s.Watches.Remove(b.Flip(), clause.NewBinary(a, redundant))
}

func (s *Solver) attachTernary(a, b, c lit.Lit, redundant bool) {
	s.Watches.Append(a.Flip(), clause.NewTernary(b, c, redundant))
	s.Watches.Append(b.Flip(), clause.NewTernary(a, c, redundant))
	s.Watches.Append(c.Flip(), clause.NewTernary(a, b, redundant))
}

func (s *Solver) detachTernary(a, b, c lit.Lit, redundant bool) {
	s.Watches.Remove(a.Flip(), clause.NewTernary(b, c, redundant))
	s.Watches.Remove(b.Flip(), clause.NewTernary(a, c, redundant))
	s.Watches.Remove(c.Flip(), clause.NewTernary(a, b, redundant))
}

// attachLong registers the two-watched-literal scheme for a long clause.
func (s *Solver) attachLong(ref clause.Ref) {
	c := s.Arena.Get(ref)
	if c.Size() < 4 {
		panic(fmt.Errorf("solver: long clause with size %d", c.Size()))
	}
	first, second := c.At(0), c.At(1)
	s.Watches.Append(first.Flip(), clause.NewLong(ref, second, c.Abstraction()))
	s.Watches.Append(second.Flip(), clause.NewLong(ref, first, c.Abstraction()))
	c.SetAttached(true)
	if c.Learnt() {
		s.Stats.NumLearnts++
	} else {
		s.Stats.NumClauses++
	}
}

func (s *Solver) detachLong(ref clause.Ref) {
	c := s.Arena.Get(ref)
	first, second := c.At(0), c.At(1)
	s.Watches.Remove(first.Flip(), clause.NewLong(ref, second, c.Abstraction()))
	s.Watches.Remove(second.Flip(), clause.NewLong(ref, first, c.Abstraction()))
	c.SetAttached(false)
	if c.Learnt() {
		s.Stats.NumLearnts--
	} else {
		s.Stats.NumClauses--
	}
}

// lockedLong reports whether a long clause is currently serving as some
// trail literal's reason (and so must not be deleted).
func (s *Solver) lockedLong(ref clause.Ref) bool {
	c := s.Arena.Get(ref)
	first := c.At(0)
	if s.ValueLit(first) != lit.True {
		return false
	}
	r := s.VarReason(first.Var())
	return r.Kind == ReasonLong && r.Ref == ref
}

// removeLong detaches and frees a long clause, unlocking any reason that
// pointed to it, and emits the proof deletion event.
func (s *Solver) removeLong(ref clause.Ref) {
	c := s.Arena.Get(ref)
	s.detachLong(ref)
	if s.lockedLong(ref) {
		s.VarData[c.At(0).Var()].Reason = NoReason
	}
	s.Proof.Delete(c.Lits)
	s.Arena.Free(ref)
}

// satisfiedLong reports whether any literal of a long clause is currently
// true.
func (s *Solver) satisfiedLong(c *clause.Clause) bool {
	for i := 0; i < c.Size(); i++ {
		if s.ValueLit(c.At(i)) == lit.True {
			return true
		}
	}
	return false
}

// CancelUntil rewinds the trail to the given decision level, unassigning
// every literal above it and reinserting its variable into the order heap
// (spec.md §4.3's restart behaviour and §4.2's backjump).
func (s *Solver) CancelUntil(level int) {
	if s.DecisionLevel() <= level {
		return
	}
	for c := len(s.Trail) - 1; c >= s.TrailLim[level]; c-- {
		v := s.Trail[c].Var()
		s.Polarity[v] = s.Trail[c].Sign()
		s.Assigns[v] = lit.TriUndef
		s.insertVarOrder(v)
	}
	s.Qhead = s.TrailLim[level]
	s.Trail = s.Trail[:s.Qhead]
	s.TrailLim = s.TrailLim[:level]
}
