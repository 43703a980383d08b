package simplify

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
)

// replaceVariables collapses equivalence classes of the binary-implication
// graph, per spec.md §4.4's "Variable replacement": a clause (a ∨ b) yields
// implications ¬a→b and ¬b→a, and the strongly connected components of
// that graph are literal-equivalence classes. Each class is replaced by a
// representative literal (the lowest-indexed variable in the class); every
// clause is rewritten through it.
func replaceVariables(s *solver.Solver, clauses []*clause.Clause) ([]*clause.Clause, bool) {
	n := s.NumVars()
	if n == 0 {
		return clauses, true
	}

	g := newImplicationGraph(2 * n)
	for _, c := range clauses {
		if c.Size() != 2 {
			continue
		}
		a, b := c.At(0), c.At(1)
		g.addEdge(a.Negation().Index(), b.Index())
		g.addEdge(b.Negation().Index(), a.Index())
	}

	comps := g.tarjanSCC()

	doneVar := make(map[lit.Var]bool)
	for _, comp := range comps {
		if len(comp) < 2 {
			continue
		}
		members := make(map[lit.Var]lit.Lit, len(comp))
		contradiction := false
		for _, idx := range comp {
			l := lit.Lit{X: int32(idx)}
			if other, ok := members[l.Var()]; ok && !other.Equal(l) {
				contradiction = true
			}
			members[l.Var()] = l
		}
		if contradiction {
			s.OK = false
			return nil, false
		}

		var repVar lit.Var = lit.VarUndef
		for v := range members {
			if doneVar[v] {
				continue
			}
			if repVar == lit.VarUndef || v < repVar {
				repVar = v
			}
		}
		if repVar == lit.VarUndef {
			continue
		}
		repNode := members[repVar]

		for v, node := range members {
			if v == repVar || doneVar[v] {
				continue
			}
			e := lit.New(repVar, node.Sign() != repNode.Sign())
			s.MarkReplaced(v, e)
			doneVar[v] = true
		}
		doneVar[repVar] = true
	}

	if len(doneVar) == 0 {
		return clauses, true
	}

	out := make([]*clause.Clause, 0, len(clauses))
	for _, c := range clauses {
		lits := make([]lit.Lit, c.Size())
		for i := 0; i < c.Size(); i++ {
			lits[i] = resolveLit(s, c.At(i))
		}
		out = append(out, clause.NewClause(lits, false))
	}
	return out, true
}

// resolveLit follows s.ReplaceRep to the final representative literal for
// l, matching Solver.resolveReplacement's variable-level walk but at the
// literal level (preserving l's own sign).
func resolveLit(s *solver.Solver, l lit.Lit) lit.Lit {
	for steps := 0; steps < 64; steps++ {
		e, ok := s.ReplaceRep[l.Var()]
		if !ok || e.Var() == l.Var() {
			return l
		}
		l = lit.New(e.Var(), l.Sign() != e.Sign())
	}
	return l
}

// implicationGraph is an adjacency-list directed graph over literal indices
// (2*var + sign), used by replaceVariables' Tarjan pass.
type implicationGraph struct {
	adj [][]int
}

func newImplicationGraph(n int) *implicationGraph {
	return &implicationGraph{adj: make([][]int, n)}
}

func (g *implicationGraph) addEdge(from, to int) {
	if from >= len(g.adj) || to >= len(g.adj) {
		return
	}
	g.adj[from] = append(g.adj[from], to)
}

// tarjanSCC returns the graph's strongly connected components via an
// iterative Tarjan pass (iterative to avoid recursion depth limits on
// large implication graphs).
func (g *implicationGraph) tarjanSCC() [][]int {
	n := len(g.adj)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	var comps [][]int
	counter := 0

	type frame struct {
		v     int
		edge  int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		var work []frame
		work = append(work, frame{v: start, edge: 0})
		index[start] = counter
		lowlink[start] = counter
		counter++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.v

			if top.edge < len(g.adj[v]) {
				w := g.adj[v][top.edge]
				top.edge++
				if index[w] == -1 {
					index[w] = counter
					lowlink[w] = counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, frame{v: w, edge: 0})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if lowlink[v] < lowlink[parent.v] {
					lowlink[parent.v] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var comp []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				comps = append(comps, comp)
			}
		}
	}

	return comps
}
