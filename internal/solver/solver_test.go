package solver

import (
	"testing"

	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVars(s *Solver, n int) []lit.Var {
	vs := make([]lit.Var, n)
	for i := range vs {
		vs[i] = s.NewVar()
	}
	return vs
}

func pos(v lit.Var) lit.Lit { return lit.New(v, false) }
func neg(v lit.Var) lit.Lit { return lit.New(v, true) }

// checkModel asserts every clause added to s is true under s.Model.
func checkModel(t *testing.T, s *Solver, clauses [][]lit.Lit) {
	t.Helper()
	for _, c := range clauses {
		sat := false
		for _, l := range c {
			v := s.Model[l.Var()]
			if (v == lit.True) != l.Sign() {
				sat = true
				break
			}
		}
		assert.Truef(t, sat, "clause %v unsatisfied by model %v", c, s.Model)
	}
}

func TestSolveTrivialSat(t *testing.T) {
	s := New(config.Default())
	vs := newVars(s, 2)

	clauses := [][]lit.Lit{
		{pos(vs[0]), pos(vs[1])},
		{neg(vs[0]), pos(vs[1])},
	}
	for _, c := range clauses {
		require.True(t, s.AddClause(c))
	}

	require.Equal(t, Sat, s.Solve(nil))
	checkModel(t, s, clauses)
}

func TestSolveTrivialUnsat(t *testing.T) {
	s := New(config.Default())
	vs := newVars(s, 1)

	require.True(t, s.AddClause([]lit.Lit{pos(vs[0])}))
	require.False(t, s.AddClause([]lit.Lit{neg(vs[0])}))

	require.Equal(t, Unsat, s.Solve(nil))
}

func TestSolveEmptyClauseAtLoadIsUnsat(t *testing.T) {
	s := New(config.Default())
	s.NewVar()

	require.False(t, s.AddClause(nil))
	require.False(t, s.OK)
	require.Equal(t, Unsat, s.Solve(nil))
}

// TestSolvePigeonhole exercises conflict-driven learning on a small
// pigeonhole instance (3 pigeons, 2 holes), which is UNSAT and requires
// more than unit propagation alone to resolve.
func TestSolvePigeonhole(t *testing.T) {
	s := New(config.Default())
	// x[p][h] true means pigeon p sits in hole h, p in {0,1,2}, h in {0,1}.
	var x [3][2]lit.Var
	for p := 0; p < 3; p++ {
		for h := 0; h < 2; h++ {
			x[p][h] = s.NewVar()
		}
	}

	// Every pigeon sits in at least one hole.
	for p := 0; p < 3; p++ {
		require.True(t, s.AddClause([]lit.Lit{pos(x[p][0]), pos(x[p][1])}))
	}
	// No two pigeons share a hole.
	for h := 0; h < 2; h++ {
		for p1 := 0; p1 < 3; p1++ {
			for p2 := p1 + 1; p2 < 3; p2++ {
				require.True(t, s.AddClause([]lit.Lit{neg(x[p1][h]), neg(x[p2][h])}))
			}
		}
	}

	require.Equal(t, Unsat, s.Solve(nil))
}

func TestSolveWithAssumptions(t *testing.T) {
	s := New(config.Default())
	vs := newVars(s, 2)

	require.True(t, s.AddClause([]lit.Lit{pos(vs[0]), pos(vs[1])}))

	require.Equal(t, Sat, s.Solve([]lit.Lit{neg(vs[0])}))
	assert.Equal(t, lit.True, s.Model[vs[1]])

	require.True(t, s.AddClause([]lit.Lit{neg(vs[1])}))
	require.Equal(t, Unsat, s.Solve([]lit.Lit{neg(vs[0])}))
}

// TestConflictContradictoryAssumptions covers spec.md §8's boundary case:
// assumptions {x, ~x} against an empty formula must yield a final conflict
// containing both literals, not just one.
func TestConflictContradictoryAssumptions(t *testing.T) {
	s := New(config.Default())
	vs := newVars(s, 1)
	x := vs[0]

	require.Equal(t, Unsat, s.Solve([]lit.Lit{pos(x), neg(x)}))
	assert.ElementsMatch(t, []lit.Lit{pos(x), neg(x)}, s.Conflict())
}

// TestConflictTwoAssumptionsViaClause covers end-to-end scenario 6:
// assumptions [x, y] against (~x v ~y) must yield a two-literal final
// conflict, since y is only falsified through x's propagation.
func TestConflictTwoAssumptionsViaClause(t *testing.T) {
	s := New(config.Default())
	vs := newVars(s, 2)
	x, y := vs[0], vs[1]

	require.True(t, s.AddClause([]lit.Lit{neg(x), neg(y)}))
	require.Equal(t, Unsat, s.Solve([]lit.Lit{pos(x), pos(y)}))
	assert.ElementsMatch(t, []lit.Lit{neg(x), neg(y)}, s.Conflict())
}

func TestSolveRespectsConflictBudget(t *testing.T) {
	cfg := config.Default()
	cfg.MaxConflicts = 0
	s := New(cfg)
	vs := newVars(s, 3)

	// A formula that needs search (not just propagation) to resolve.
	require.True(t, s.AddClause([]lit.Lit{pos(vs[0]), pos(vs[1]), pos(vs[2])}))
	require.True(t, s.AddClause([]lit.Lit{neg(vs[0]), pos(vs[1])}))
	require.True(t, s.AddClause([]lit.Lit{neg(vs[1]), pos(vs[2])}))
	require.True(t, s.AddClause([]lit.Lit{neg(vs[2]), pos(vs[0])}))

	assert.Equal(t, Unknown, s.Solve(nil))
}
