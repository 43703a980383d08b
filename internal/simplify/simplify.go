// Package simplify implements the inprocessing passes named in spec.md
// §4.4: occurrence-list subsumption/strengthening, bounded variable
// elimination, bounded variable addition, variable replacement, and (per
// spec.md §4.5) component splitting, plus the hyper-binary-resolution
// prober supplemented from original_source/cmsat. It depends on package
// solver, never the reverse, so Solver only needs the Inprocessor interface
// (solver.go) to call back into here.
package simplify

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/solver"
)

// Simplifier is the solver.Inprocessor implementation wiring every pass
// this package provides, gated by the config toggles named in
// SPEC_FULL.md §2's Config field list.
type Simplifier struct {
	conf *config.Config
}

// New returns a Simplifier driven by cfg's Enable* toggles.
func New(conf *config.Config) *Simplifier {
	return &Simplifier{conf: conf}
}

// Simplify implements solver.Inprocessor. It runs each enabled pass once,
// in this order: probing, subsumption/strengthening, BVE (followed by a
// second subsumption/strengthening round), variable replacement (always
// run), BVA; it then re-adds the resulting irredundant clause set to s and
// finally runs component splitting. It returns false if any pass (or the
// AddClause re-insertion) proves the formula UNSAT.
func (si *Simplifier) Simplify(s *solver.Solver) bool {
	working := toWorkingSet(s.ExportIrredundant())

	if si.conf.EnableProbing {
		var ok bool
		working, ok = probe(s, working)
		if !ok {
			return false
		}
	}

	if si.conf.EnableSubsumption || si.conf.EnableStrengthen {
		working = subsumeAndStrengthen(working, si.conf.EnableSubsumption, si.conf.EnableStrengthen)
	}

	if si.conf.EnableBVE {
		var ok bool
		working, ok = eliminateVariables(s, working, si.conf.BVEAggressive)
		if !ok {
			return false
		}
	}

	if si.conf.EnableBVE && (si.conf.EnableSubsumption || si.conf.EnableStrengthen) {
		working = subsumeAndStrengthen(working, si.conf.EnableSubsumption, si.conf.EnableStrengthen)
	}

	replaced, ok := replaceVariables(s, working)
	if !ok {
		return false
	}
	working = replaced

	if si.conf.EnableBVA {
		working = addVariables(s, working)
	}

	s.ClearIrredundant()
	for _, c := range working {
		if !s.AddClause(c.Lits) {
			return false
		}
	}

	if si.conf.EnableComponents {
		return splitComponents(s)
	}
	return true
}

// toWorkingSet wraps raw literal slices as *clause.Clause so every pass
// gets the abstraction bitmask for free.
func toWorkingSet(lits [][]lit.Lit) []*clause.Clause {
	out := make([]*clause.Clause, 0, len(lits))
	for _, l := range lits {
		out = append(out, clause.NewClause(l, false))
	}
	return out
}
