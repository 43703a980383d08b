package solver

import (
	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/lit"
)

// pickBranchLit implements spec.md §4.3's decision rule: take the next
// pending assumption if one exists; otherwise pop the highest-activity
// undecided variable from the order heap, skipping assigned or
// non-decision variables lazily, then choose a polarity.
func (s *Solver) pickBranchLit() lit.Lit {
	if next := s.nextAssumption(); !next.Equal(lit.Undef) {
		return next
	}

	v := lit.VarUndef
	for v == lit.VarUndef || s.ValueVar(v) != lit.TriUndef || !s.Decision[v] {
		if s.VarOrder.Empty() {
			return lit.Undef
		}
		v = s.VarOrder.RemoveMax()
	}

	return lit.New(v, s.choosePolarity(v))
}

// choosePolarity picks the sign for a freshly decided variable per spec.md
// §4.3's three sources: cached polarity, configured policy, or a periodic
// flip.
func (s *Solver) choosePolarity(v lit.Var) bool {
	if s.Conf.PolarityFlipPeriod > 0 && s.Stats.DecisionCount > 0 &&
		s.Stats.DecisionCount%uint64(s.Conf.PolarityFlipPeriod) == 0 {
		return !s.Polarity[v]
	}
	if s.Conf.RandomVarFreq > 0 && s.rng.Float64() < s.Conf.RandomVarFreq {
		return s.rng.Float64() < 0.5
	}
	switch s.Conf.Polarity {
	case config.PolarityTrue:
		return false
	case config.PolarityFalse:
		return true
	case config.PolarityRandom:
		return s.rng.Float64() < 0.5
	default: // config.PolarityCached
		return s.Polarity[v]
	}
}
