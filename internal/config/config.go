// Package config holds the tunables that drive gatosat's search, restart,
// clause-cleaning, and inprocessing behaviour. Its shape follows
// EricR-saturday/config (a small struct holding tunables plus an injected
// *log.Logger rather than a package-global logger) and its field list
// follows cmsat/solverconf.cpp's constructor, restricted to the knobs this
// solver actually implements.
package config

import (
	"log"
	"os"
	"time"
)

// PolarityMode selects how pickBranchLit chooses the sign of a new
// decision, per spec.md §4.3.
type PolarityMode uint8

const (
	// PolarityCached uses the variable's last assigned polarity.
	PolarityCached PolarityMode = iota
	// PolarityTrue always picks the positive phase.
	PolarityTrue
	// PolarityFalse always picks the negative phase.
	PolarityFalse
	// PolarityRandom picks uniformly at random.
	PolarityRandom
)

// RestartPolicy selects among spec.md §4.3's restart strategies.
type RestartPolicy uint8

const (
	// RestartGeometric restarts every base*factor^k conflicts.
	RestartGeometric RestartPolicy = iota
	// RestartLuby uses the Luby sequence (the teacher's default).
	RestartLuby
	// RestartGlue restarts on short/long-term glue EMA divergence.
	RestartGlue
)

// Config is the full set of tunables for one Solver instance. Every field
// has a name tracing to cmsat/solverconf.cpp; fields not implemented by this
// core (SQL stats, gate shortening, symmetry) are intentionally omitted —
// they belong to the out-of-scope collaborators named in spec.md §1.
type Config struct {
	Logger *log.Logger

	// Variable activity (solverconf.cpp's var_inc_* fields).
	VarIncInit   float64
	VarDecay     float64
	RandomVarFreq float64
	Polarity     PolarityMode
	PolarityFlipPeriod int // periodic forced flip, spec.md §4.3(c)

	// Clause activity.
	ClauseIncInit float32
	ClauseDecay   float32

	// Restart control.
	RestartPolicy  RestartPolicy
	RestartFirst   int
	RestartInc     float64
	GlueRestartMultiplier float64 // force restart when shortGlueEMA > (1+mult)*longGlueEMA
	BlockRestarts  bool
	AgilityG       float64 // EMA decay for agility
	AgilityLimit   float64 // at or below this, agility does not block restarts

	// Clause database reduction.
	StartClean     int
	IncreaseClean  float64
	MaxNumLearntRatio float64

	// Minimisation.
	RecursiveMinim bool
	BinaryMinim    bool
	StampMinim     bool

	// Inprocessing toggles.
	EnableInprocessing bool
	EnableSubsumption  bool
	EnableStrengthen   bool
	EnableBVE          bool
	EnableBVA          bool
	EnableProbing      bool
	EnableComponents   bool
	BVEAggressive      bool
	SimplifyEveryConflicts int

	// Budgets.
	MaxConflicts int64 // <0 means unbounded
	MaxTime      time.Duration
	PropBudgetPerSimplify int64 // "bogo-prop" counter per spec.md §4.1

	// Misc.
	RandomSeed int64
	Verbosity  int
}

// Default returns the configuration the teacher's NewSolver hard-codes,
// extended with cmsat's defaults for the knobs the teacher omits.
func Default() *Config {
	return &Config{
		Logger: log.New(os.Stdout, "", log.Ldate|log.Ltime),

		VarIncInit:    1.0,
		VarDecay:      0.95,
		RandomVarFreq: 0,
		Polarity:      PolarityCached,
		PolarityFlipPeriod: 0,

		ClauseIncInit: 1.0,
		ClauseDecay:   0.999,

		RestartPolicy: RestartLuby,
		RestartFirst:  100,
		RestartInc:    2,
		GlueRestartMultiplier: 0.8,
		BlockRestarts: true,
		AgilityG:      0.9999,
		AgilityLimit:  0.03,

		StartClean:    10000,
		IncreaseClean: 1.1,
		MaxNumLearntRatio: 1.0 / 3.0,

		RecursiveMinim: true,
		BinaryMinim:    true,
		StampMinim:     false,

		EnableInprocessing: true,
		EnableSubsumption:  true,
		EnableStrengthen:   true,
		EnableBVE:          true,
		EnableBVA:          false,
		EnableProbing:      true,
		EnableComponents:   true,
		BVEAggressive:      false,
		SimplifyEveryConflicts: 5000,

		MaxConflicts: -1,
		MaxTime:      0,
		PropBudgetPerSimplify: 4_000_000,

		RandomSeed: 0,
		Verbosity:  0,
	}
}
