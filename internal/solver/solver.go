// Package solver implements the CDCL core: propagation, conflict analysis,
// search, and restart/reduction control described in spec.md §4.1–4.3. It is
// the direct descendant of the teacher's solver.go, split by concern across
// this package's files and generalised from "binary or long" clauses to the
// binary/ternary/long mixed store spec.md §3 requires.
package solver

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/order"
	"github.com/gatosat/gatosat/internal/proof"
	"github.com/gatosat/gatosat/internal/stats"
)

// ReasonKind tags why a trail literal was forced, mirroring clause.Kind but
// with an extra "none" case for decisions and top-level units.
type ReasonKind uint8

const (
	// ReasonNone marks a decision literal or a top-level fact.
	ReasonNone ReasonKind = iota
	// ReasonBinary means a binary clause forced the literal.
	ReasonBinary
	// ReasonTernary means a ternary clause forced the literal.
	ReasonTernary
	// ReasonLong means an arena clause forced the literal.
	ReasonLong
)

// Reason identifies the clause that forced a trail literal (or, when used
// to describe a conflict, the falsified clause itself), in whichever of the
// three shapes produced it. Binary/Ternary clauses never reach the arena
// per spec.md §3, so their literals are stored inline; Long stores the
// arena reference and defers to the clause body for its literals.
type Reason struct {
	Kind   ReasonKind
	L1, L2, L3 lit.Lit // Binary uses L1,L2; Ternary uses L1,L2,L3
	Ref    clause.Ref
}

// Literals returns every literal of the reason/conflict clause r. For a
// propagation reason, the propagated literal is L1 by convention; for a raw
// conflict clause there is no distinguished literal and all are false.
func (s *Solver) Literals(r Reason) []lit.Lit {
	switch r.Kind {
	case ReasonBinary:
		return []lit.Lit{r.L1, r.L2}
	case ReasonTernary:
		return []lit.Lit{r.L1, r.L2, r.L3}
	case ReasonLong:
		return s.Arena.Get(r.Ref).Lits
	default:
		return nil
	}
}

// NoReason is the sentinel for decisions and top-level facts.
var NoReason = Reason{Kind: ReasonNone}

// VarData holds the per-variable state spec.md §3 names: reason and
// decision level. Value lives in the parallel Assigns slice for cache
// locality on the propagation hot path, matching the teacher's layout.
type VarData struct {
	Reason Reason
	Level  int32
}

// VarStatus is clause.RemovedStatus re-exported at the solver level for
// convenience; see clause.StatusNone etc.
type VarStatus = clause.RemovedStatus

// Solver is a single owned CDCL solver instance. Per spec.md §9's "Global
// mutable state" note, all state lives here: no package-level globals, and
// randomness is a per-solver field (rng).
type Solver struct {
	Conf *config.Config
	Proof proof.Writer
	Stats *stats.Statistics
	Reporter stats.Reporter

	Arena   *clause.Arena
	Watches *clause.List

	Clauses       []clause.Ref // irredundant long clauses
	LearntClauses []clause.Ref // redundant long clauses
	// Binary/ternary clauses have no arena backing; NumBin/NumTern track
	// counts for statistics and reduction bookkeeping only.
	NumBin  int
	NumTern int

	Assigns  []lit.TriBool
	VarData  []VarData
	Decision []bool // eligible as a decision variable
	Polarity []bool // cached polarity, true = negative phase preferred
	Status   []VarStatus

	Trail    []lit.Lit
	TrailLim []int
	Qhead    int

	NextVar  lit.Var
	VarOrder *order.Heap
	Seen     []bool

	OK bool

	// Activity bookkeeping (Minisat scheme, spec.md §4.3).
	VarInc    float64
	ClauseInc float32

	Model []lit.TriBool // filled in by Solve on Sat

	// Assumptions, spec.md §6.
	Assumptions   []lit.Lit
	assumpLevel   []int // decision level each assumption was pushed at, for bookkeeping
	finalConflict []lit.Lit

	// Interrupt flag, spec.md §5.
	interrupt bool

	// ReplaceRep maps a replaced variable to the representative literal of
	// its equivalence class, set by the variable replacer (SPEC_FULL.md
	// §5.4). nil until variable replacement has run at least once.
	ReplaceRep map[lit.Var]lit.Lit

	// Blocked is the blocked-clause stack BVE pushes to, consumed by the
	// model extender at Solve end (spec.md §4.4).
	Blocked []BlockedClause

	// SavedState holds values for variables the component splitter solved
	// in a sub-solver and removed from this solver entirely; merged into
	// Model at Solve end (spec.md §4.5).
	SavedState map[lit.Var]lit.TriBool

	// cleanInterval tracks the clause-database-reduction schedule
	// (spec.md §4.3's startClean/increaseClean).
	nextClean     int64
	cleanInterval float64

	// Inprocessing hook, spec.md §9's "Polymorphism at search hooks":
	// a capability the search driver calls between episodes without
	// importing the simplify package (which imports solver instead).
	Inprocessor Inprocessor

	restartState restartState
	rng          *rng
}

// Inprocessor is the hook the search driver calls between search episodes
// (spec.md §4.4's "Runs between search episodes"). Implementations live in
// package simplify; Solver only depends on this interface to avoid a cycle.
type Inprocessor interface {
	// Simplify runs one inprocessing pass. It returns false if the pass
	// proved the formula UNSAT.
	Simplify(s *Solver) (ok bool)
}

// New returns a fresh Solver with the given configuration. A nil cfg uses
// config.Default().
func New(cfg *config.Config) *Solver {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Solver{
		Conf:    cfg,
		Proof:   proof.NopWriter{},
		Stats:   stats.New(1.0-1.0/50, 1.0-1.0/10000, 1.0-1.0/50, 1.0-1.0/10000, cfg.AgilityG),
		Reporter: stats.NopReporter{},
		Arena:   clause.NewArena(),
		Watches: clause.NewList(),
		VarOrder: order.New(),
		OK:      true,

		VarInc:    cfg.VarIncInit,
		ClauseInc: cfg.ClauseIncInit,

		rng: newRNG(uint64(cfg.RandomSeed) + 1),

		cleanInterval: float64(cfg.StartClean),
	}
	s.nextClean = int64(s.cleanInterval)
	s.restartState = newRestartState(cfg)
	return s
}

// NumVars returns the number of variables allocated so far.
func (s *Solver) NumVars() int { return int(s.NextVar) }

// NumClauses returns the number of irredundant clauses (binary+ternary+long).
func (s *Solver) NumClauses() int { return s.NumBin + s.NumTern + len(s.Clauses) }

// NumAssigns returns the number of literals currently on the trail.
func (s *Solver) NumAssigns() int { return len(s.Trail) }

// NewVar allocates a fresh decision variable and returns it. The solver has
// a single variable numbering: the index returned here is never renumbered
// by elimination, replacement or component splitting.
func (s *Solver) NewVar() lit.Var {
	v := s.NextVar
	s.NextVar++
	s.Assigns = append(s.Assigns, lit.TriUndef)
	s.VarData = append(s.VarData, VarData{Reason: NoReason, Level: 0})
	s.Seen = append(s.Seen, false)
	s.Decision = append(s.Decision, true)
	s.Polarity = append(s.Polarity, false)
	s.Status = append(s.Status, clause.StatusNone)
	s.Watches.Init(v)
	s.VarOrder.Grow(v)
	s.setDecisionVar(v, true)
	return v
}

// ValueVar returns the current TriBool assignment of v.
func (s *Solver) ValueVar(v lit.Var) lit.TriBool { return s.Assigns[v] }

// ValueLit returns the current TriBool assignment of l, accounting for sign.
func (s *Solver) ValueLit(l lit.Lit) lit.TriBool {
	a := s.Assigns[l.Var()]
	if a == lit.TriUndef {
		return lit.TriUndef
	}
	if l.Sign() {
		return a.Not()
	}
	return a
}

// Level returns the decision level at which v was assigned (0 if unassigned
// or top-level).
func (s *Solver) Level(v lit.Var) int { return int(s.VarData[v].Level) }

// VarReason returns the reason v was forced, or NoReason for a decision or
// top-level fact.
func (s *Solver) VarReason(v lit.Var) Reason { return s.VarData[v].Reason }

// DecisionLevel returns the current decision depth (0 at top level).
func (s *Solver) DecisionLevel() int { return len(s.TrailLim) }

func (s *Solver) setDecisionVar(v lit.Var, eligible bool) {
	s.Decision[v] = eligible
	s.insertVarOrder(v)
}

func (s *Solver) insertVarOrder(v lit.Var) {
	if !s.VarOrder.Contains(v) && s.Decision[v] {
		s.VarOrder.Push(v)
	}
}

func (s *Solver) newDecisionLevel() {
	s.TrailLim = append(s.TrailLim, len(s.Trail))
}

// uncheckedEnqueue assigns p true with the given reason, without checking
// consistency against the current assignment (the caller must already know
// p is Undef).
func (s *Solver) uncheckedEnqueue(p lit.Lit, reason Reason) {
	if p.Sign() {
		s.Assigns[p.Var()] = lit.False
	} else {
		s.Assigns[p.Var()] = lit.True
	}
	s.VarData[p.Var()] = VarData{Reason: reason, Level: int32(s.DecisionLevel())}
	s.Trail = append(s.Trail, p)
}

// SetInterrupt requests cooperative termination, per spec.md §5/§6. Solve
// polls it before each search episode, i.e. after every restart and after
// every inprocessing pass.
func (s *Solver) SetInterrupt() { s.interrupt = true }

// ClearInterrupt resets the cooperative-termination flag so the solver can
// be reused for another Solve call.
func (s *Solver) ClearInterrupt() { s.interrupt = false }

// Interrupted reports whether SetInterrupt has been called since the last
// ClearInterrupt.
func (s *Solver) Interrupted() bool { return s.interrupt }

// Value reports the post-Solve value of an outer variable, valid after a
// Sat result. It resolves replaced variables through the replacement table
// and eliminated/decomposed variables through the already-extended Model,
// per spec.md §3's "Eliminated variables... model extension" invariant.
func (s *Solver) Value(v lit.Var) lit.TriBool {
	if s.ReplaceRep != nil {
		rv, inverted := s.resolveReplacement(v)
		if int(rv) < len(s.Model) {
			val := s.Model[rv]
			if inverted {
				val = val.Not()
			}
			return val
		}
	}
	if int(v) < len(s.Model) {
		return s.Model[v]
	}
	return lit.TriUndef
}

func (s *Solver) resolveReplacement(v lit.Var) (rep lit.Var, inverted bool) {
	rep = v
	for {
		e, ok := s.ReplaceRep[rep]
		if !ok {
			return rep, inverted
		}
		if e.Var() == rep {
			return rep, inverted
		}
		if e.Sign() {
			inverted = !inverted
		}
		rep = e.Var()
	}
}

// Conflict returns the minimal final conflict clause, valid after an Unsat
// result under assumptions: each returned literal is the negation of an
// assumption literal, per spec.md §6.
func (s *Solver) Conflict() []lit.Lit { return s.finalConflict }

// varBumpActivity adds the current VarInc to v's activity (Minisat scheme).
func (s *Solver) varBumpActivity(v lit.Var) {
	s.varBumpActivityBy(v, s.VarInc)
}

func (s *Solver) varBumpActivityBy(v lit.Var, inc float64) {
	a := s.VarOrder.Activity(v) + inc
	s.VarOrder.SetActivity(v, a)
	if a > 1e100 {
		s.VarOrder.RescaleActivities(1e-100)
		s.VarInc *= 1e-100
	}
	if s.VarOrder.Contains(v) {
		s.VarOrder.Decrease(v)
	}
}

func (s *Solver) varDecayActivity() {
	s.VarInc *= 1 / s.Conf.VarDecay
}

func (s *Solver) clauseBumpActivity(c *clause.Clause) {
	c.BumpActivity(s.ClauseInc)
	if c.Activity() > 1e20 {
		for _, r := range s.LearntClauses {
			s.Arena.Get(r).RescaleActivity(1e-20)
		}
		s.ClauseInc *= 1e-20
	}
}

func (s *Solver) clauseDecayActivity() {
	s.ClauseInc *= 1 / s.Conf.ClauseDecay
}

// rng is a small deterministic PRNG (xorshift64*), kept as a solver field
// per spec.md §9 ("randomness is a per-solver field") rather than reaching
// for math/rand's global source.
type rng struct{ state uint64 }

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 2685821657736338717
}

// Float64 returns a pseudo-random value in [0, 1).
func (r *rng) Float64() float64 {
	return float64(r.next()>>11) / float64(uint64(1)<<53)
}

// Intn returns a pseudo-random value in [0, n).
func (r *rng) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}
