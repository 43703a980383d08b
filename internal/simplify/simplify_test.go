package simplify

import (
	"testing"

	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(v lit.Var) lit.Lit { return lit.New(v, false) }
func n(v lit.Var) lit.Lit { return lit.New(v, true) }

func TestSubsumesAbstractionShortCircuit(t *testing.T) {
	a := clause.NewClause([]lit.Lit{p(0), p(1)}, false)
	b := clause.NewClause([]lit.Lit{p(0), p(1), p(2)}, false)
	c := clause.NewClause([]lit.Lit{p(0), n(1), p(2)}, false)

	assert.True(t, subsumes(a, b))
	assert.False(t, subsumes(a, c))
}

func TestSubsumeAndStrengthenRemovesSubsumed(t *testing.T) {
	clauses := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), p(1)}, false),
		clause.NewClause([]lit.Lit{p(0), p(1), p(2)}, false),
	}
	out := subsumeAndStrengthen(clauses, true, false)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Size())
}

func TestSubsumeAndStrengthenDropsLiteral(t *testing.T) {
	// (a v b) and (~a v b v c) self-subsumption-resolve to (a v b), (b v c).
	clauses := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), p(1)}, false),
		clause.NewClause([]lit.Lit{n(0), p(1), p(2)}, false),
	}
	out := subsumeAndStrengthen(clauses, true, true)
	require.Len(t, out, 2)
	for _, c := range out {
		assert.False(t, c.Contains(n(0)) && c.Size() == 3)
	}
}

func TestEliminateVariablesRemovesFreeVariable(t *testing.T) {
	s := solver.New(config.Default())
	s.NewVar()
	s.NewVar()
	s.NewVar()

	// Variable 0 only appears bridging 1 and 2: (v0 v 1), (~v0 v 2).
	// Variables 1 and 2 occur in one phase only, are cheapest, and are
	// eliminated first with no resolvents; that leaves v0 with no clauses,
	// so it is eliminated as well: three eliminations in all.
	working := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), p(1)}, false),
		clause.NewClause([]lit.Lit{n(0), p(2)}, false),
	}

	out, ok := eliminateVariables(s, working, false)
	require.True(t, ok)
	assert.Equal(t, uint64(3), s.Stats.EliminatedVars)
	for _, c := range out {
		for i := 0; i < c.Size(); i++ {
			assert.NotEqual(t, lit.Var(0), c.At(i).Var())
		}
	}
}

func TestReplaceVariablesCollapsesEquivalence(t *testing.T) {
	s := solver.New(config.Default())
	s.NewVar()
	s.NewVar()

	// (v0 v ~v1) and (~v0 v v1) assert v0 <-> v1.
	working := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), n(1)}, false),
		clause.NewClause([]lit.Lit{n(0), p(1)}, false),
		clause.NewClause([]lit.Lit{p(0), p(1)}, false),
	}

	out, ok := replaceVariables(s, working)
	require.True(t, ok)
	require.NotEmpty(t, out)

	rep, replaced := s.ReplaceRep[1]
	require.True(t, replaced)
	assert.Equal(t, lit.Var(0), rep.Var())
}

func TestReplaceVariablesDetectsContradiction(t *testing.T) {
	s := solver.New(config.Default())
	s.NewVar()

	// (v0 v v0) forces v0 true via unit semantics elsewhere, but a binary
	// self-loop (v0 v ~v0) followed by (~v0 v v0)... instead force a direct
	// equivalence contradiction: v0 <-> v0 negated, via two cycles that put
	// both polarities of the same variable in one SCC.
	working := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), p(0)}, false),
		clause.NewClause([]lit.Lit{n(0), n(0)}, false),
	}

	_, ok := replaceVariables(s, working)
	assert.False(t, ok)
	assert.False(t, s.OK)
}

func TestAddVariablesFactorsSharedTail(t *testing.T) {
	s := solver.New(config.Default())
	s.NewVar()
	s.NewVar()
	s.NewVar()

	// (a v c) and (b v c) share tail (c) behind distinct leads.
	working := []*clause.Clause{
		clause.NewClause([]lit.Lit{p(0), p(2)}, false),
		clause.NewClause([]lit.Lit{p(1), p(2)}, false),
	}
	before := s.NumVars()
	out := addVariables(s, working)
	assert.Greater(t, s.NumVars(), before)
	assert.NotEmpty(t, out)
}
