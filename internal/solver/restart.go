package solver

import (
	"math"

	"github.com/gatosat/gatosat/internal/config"
)

// restartState holds the Luby/geometric restart counters the restart
// policies in spec.md §4.3 need; the glue/trail EMAs the glue-based policy
// reads live on Stats, not here.
type restartState struct {
	lubyIndex   int
	conflictsAtRestart int64
}

func newRestartState(cfg *config.Config) restartState {
	_ = cfg
	return restartState{}
}

// luby returns y^seq where seq is the index of x in the Luby sequence,
// exactly as the teacher's solver.go computes it.
func luby(y float64, x int) float64 {
	size, seq := 1, 0
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) >> 1
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}

// shouldRestart reports whether the configured restart policy says to stop
// the current search episode, given conflicts observed since the last
// restart. For Luby/geometric this is a simple counter; for glue-based it
// compares the short- and long-term glue EMAs, with blocking per spec.md
// §4.3 ("suppress a glue-based restart if the trail is growing much faster
// than its long-term average").
func (s *Solver) shouldRestart(conflictsSinceRestart int) bool {
	switch s.Conf.RestartPolicy {
	case config.RestartGeometric:
		limit := float64(s.Conf.RestartFirst) * math.Pow(s.Conf.RestartInc, float64(s.restartState.lubyIndex))
		return float64(conflictsSinceRestart) >= limit

	case config.RestartGlue:
		if conflictsSinceRestart < 50 {
			return false // let short-term EMA prime first
		}
		short := s.Stats.GlueShortTerm.Value()
		long := s.Stats.GlueLongTerm.Value()
		if long == 0 {
			return false
		}
		wantRestart := short > long*(1+s.Conf.GlueRestartMultiplier)
		if !wantRestart {
			return false
		}
		if s.Conf.BlockRestarts && s.Stats.Agility.Value() > s.Conf.AgilityLimit {
			s.Stats.BlockedRestarts++
			return false
		}
		// Trail growing much faster than its long-term average means the
		// search is still digging usefully; hold the restart back.
		trailLong := s.Stats.TrailLongTerm.Value()
		if s.Conf.BlockRestarts && trailLong > 0 &&
			s.Stats.TrailShortTerm.Value() > trailLong*(1+s.Conf.GlueRestartMultiplier) {
			s.Stats.BlockedRestarts++
			return false
		}
		return true

	default: // RestartLuby
		limit := luby(s.Conf.RestartInc, s.restartState.lubyIndex) * float64(s.Conf.RestartFirst)
		return float64(conflictsSinceRestart) >= limit
	}
}

// advanceRestartCounter bumps the restart-episode counter after an actual
// restart happens.
func (s *Solver) advanceRestartCounter() {
	s.restartState.lubyIndex++
	s.Stats.RestartCount++
	s.Reporter.Report(s.Stats.Snapshot())
}

// updateAgility folds in whether the just-made decision matched its cached
// polarity, per SPEC_FULL.md §5's agility signal (cmsat/solverconf.cpp's
// agilityG/agilityLimit). It also samples the current trail depth into the
// short/long-term trail EMAs shouldRestart's RestartGlue case reads, so the
// trail-growth restart-blocking condition always has a fresh sample per
// decision.
func (s *Solver) updateAgility(flipped bool) {
	sample := 0.0
	if flipped {
		sample = 1.0
	}
	s.Stats.Agility.Update(sample)

	depth := float64(len(s.Trail))
	s.Stats.TrailShortTerm.Update(depth)
	s.Stats.TrailLongTerm.Update(depth)
}
