// Package clause holds the clause arena and watch-list data model described
// in spec.md §3: clauses of length >= 4 live in the arena and are addressed
// by ClauseRef; clauses of length 2 and 3 are never allocated here at all —
// they live entirely inside watch-list entries (see watch.go) to avoid a
// pointer indirection on propagation's hot path.
package clause

import "github.com/gatosat/gatosat/internal/lit"

// RemovedStatus records why a variable is no longer a live decision
// variable, per spec.md §3.
type RemovedStatus uint8

const (
	// StatusNone means the variable is live.
	StatusNone RemovedStatus = iota
	// StatusEliminated means BVE removed the variable.
	StatusEliminated
	// StatusDecomposed means the component splitter solved it in a sub-solver.
	StatusDecomposed
	// StatusReplaced means variable replacement folded it into a representative.
	StatusReplaced
)

// Header carries the per-clause flags spec.md §3 requires: redundant vs
// irredundant, attached vs detached, glue (LBD), activity, and an
// abstraction bitmask used to pre-filter subsumption candidates.
type Header struct {
	Redundant bool
	Attached  bool
	Glue      int32
	Activity  float32
	Abst      uint32
}

// Clause is an ordered multiset of literals. Clauses stored in the arena
// have length >= 4 (shorter clauses never reach the arena, see the package
// doc); the simplifier also uses Clause for shorter working clauses.
type Clause struct {
	Header Header
	Lits   []lit.Lit
}

// NewClause builds a clause, computing its initial abstraction.
func NewClause(lits []lit.Lit, redundant bool) *Clause {
	c := &Clause{
		Header: Header{Redundant: redundant},
		Lits:   append([]lit.Lit(nil), lits...),
	}
	c.RecomputeAbstraction()
	return c
}

// Size returns the current number of literals (clauses shrink during
// strengthening and duplicate-falsified-literal trimming).
func (c *Clause) Size() int { return len(c.Lits) }

// At returns the i'th literal.
func (c *Clause) At(i int) lit.Lit { return c.Lits[i] }

// Set overwrites the i'th literal.
func (c *Clause) Set(i int, l lit.Lit) { c.Lits[i] = l }

// Swap exchanges positions i and j, used to keep the two watched literals at
// positions 0 and 1.
func (c *Clause) Swap(i, j int) { c.Lits[i], c.Lits[j] = c.Lits[j], c.Lits[i] }

// Shrink truncates the clause to n literals, used by strengthening through
// the simplifier's removeLiteral.
func (c *Clause) Shrink(n int) { c.Lits = c.Lits[:n] }

// Learnt reports whether this is a redundant (learnt) clause.
func (c *Clause) Learnt() bool { return c.Header.Redundant }

// Glue returns the clause's literal-block distance.
func (c *Clause) Glue() int { return int(c.Header.Glue) }

// SetGlue records a freshly computed glue value.
func (c *Clause) SetGlue(g int) { c.Header.Glue = int32(g) }

// Activity returns the clause's bump-based activity score.
func (c *Clause) Activity() float32 { return c.Header.Activity }

// BumpActivity adds inc to the clause's activity.
func (c *Clause) BumpActivity(inc float32) { c.Header.Activity += inc }

// RescaleActivity multiplies the activity by factor, used when activities
// threaten to overflow.
func (c *Clause) RescaleActivity(factor float32) { c.Header.Activity *= factor }

// Attached reports whether the clause currently participates in propagation.
func (c *Clause) Attached() bool { return c.Header.Attached }

// SetAttached updates the attached flag.
func (c *Clause) SetAttached(v bool) { c.Header.Attached = v }

// Abstraction returns the content-abstraction bitmask used to pre-filter
// subsumption candidates: a bit per (variable index mod 32).
func (c *Clause) Abstraction() uint32 { return c.Header.Abst }

// RecomputeAbstraction rebuilds the abstraction bitmask from the current
// literal set. Must be called whenever Lits is mutated in place.
func (c *Clause) RecomputeAbstraction() {
	var a uint32
	for _, l := range c.Lits {
		a |= 1 << (uint32(l.Var()) & 31)
	}
	c.Header.Abst = a
}

// Contains reports whether l appears literally in the clause.
func (c *Clause) Contains(l lit.Lit) bool {
	for _, x := range c.Lits {
		if x.Equal(l) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used when a clause is handed to a component
// sub-solver under renumbered literals.
func (c *Clause) Clone() *Clause {
	cp := &Clause{Header: c.Header, Lits: append([]lit.Lit(nil), c.Lits...)}
	return cp
}
