// Package stats holds the Reporter collaborator named in spec.md §6: a
// read-only periodic snapshot of solver counters. Its counter set is the
// teacher's statistics.go, extended with the EMA history fields described in
// SPEC_FULL.md §5 (supplemented from cmsat/searcher.h's Hist struct).
package stats

// EMA is a simple exponential moving average, used for the glue and
// agility histories cmsat/searcher.h tracks.
type EMA struct {
	value   float64
	decay   float64
	primed  bool
}

// NewEMA returns an EMA with the given decay factor (closer to 1 means
// slower-moving / longer memory).
func NewEMA(decay float64) *EMA {
	return &EMA{decay: decay}
}

// Update folds in a new sample.
func (e *EMA) Update(sample float64) {
	if !e.primed {
		e.value = sample
		e.primed = true
		return
	}
	e.value = e.decay*e.value + (1-e.decay)*sample
}

// Value returns the current average.
func (e *EMA) Value() float64 { return e.value }

// Statistics is the counter block surfaced by the Solver.Stats field. It mirrors
// the teacher's Statistics struct field-for-field, plus the glue/agility
// EMAs and a restart-blocking counter.
type Statistics struct {
	RestartCount       uint64
	DecisionCount      uint64
	PropagationCount   uint64
	ConflictCount      uint64
	NumLearnts         uint64
	NumClauses         uint64
	ReduceDBCount      uint64
	RemovedClauseCount uint64

	// Inprocessing.
	SubsumedCount    uint64
	StrengthenedCount uint64
	EliminatedVars   uint64
	ComponentsSolved uint64
	BlockedRestarts  uint64

	// History, per SPEC_FULL.md §5.
	GlueShortTerm  *EMA
	GlueLongTerm   *EMA
	TrailShortTerm *EMA
	TrailLongTerm  *EMA
	Agility        *EMA
}

// New returns a zeroed Statistics block with its EMAs built from cfg-style
// decay factors. Callers pass the decay factors explicitly so stats has no
// dependency on config.
func New(glueShortDecay, glueLongDecay, trailShortDecay, trailLongDecay, agilityDecay float64) *Statistics {
	return &Statistics{
		GlueShortTerm:  NewEMA(glueShortDecay),
		GlueLongTerm:   NewEMA(glueLongDecay),
		TrailShortTerm: NewEMA(trailShortDecay),
		TrailLongTerm:  NewEMA(trailLongDecay),
		Agility:        NewEMA(agilityDecay),
	}
}

// Snapshot is an immutable copy of Statistics suitable for handing to a
// Reporter without aliasing live solver state.
type Snapshot struct {
	RestartCount       uint64
	DecisionCount      uint64
	PropagationCount   uint64
	ConflictCount      uint64
	NumLearnts         uint64
	NumClauses         uint64
	ReduceDBCount      uint64
	RemovedClauseCount uint64
	SubsumedCount      uint64
	StrengthenedCount  uint64
	EliminatedVars     uint64
	ComponentsSolved   uint64
	BlockedRestarts    uint64
	GlueShortTerm      float64
	GlueLongTerm       float64
	TrailShortTerm     float64
	TrailLongTerm      float64
	Agility            float64
}

// Snapshot takes a point-in-time copy for a Reporter.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		RestartCount:       s.RestartCount,
		DecisionCount:      s.DecisionCount,
		PropagationCount:   s.PropagationCount,
		ConflictCount:      s.ConflictCount,
		NumLearnts:         s.NumLearnts,
		NumClauses:         s.NumClauses,
		ReduceDBCount:      s.ReduceDBCount,
		RemovedClauseCount: s.RemovedClauseCount,
		SubsumedCount:      s.SubsumedCount,
		StrengthenedCount:  s.StrengthenedCount,
		EliminatedVars:     s.EliminatedVars,
		ComponentsSolved:   s.ComponentsSolved,
		BlockedRestarts:    s.BlockedRestarts,
		GlueShortTerm:      s.GlueShortTerm.Value(),
		GlueLongTerm:       s.GlueLongTerm.Value(),
		TrailShortTerm:     s.TrailShortTerm.Value(),
		TrailLongTerm:      s.TrailLongTerm.Value(),
		Agility:            s.Agility.Value(),
	}
}

// Reporter receives periodic, read-only statistics snapshots, per spec.md
// §6's "Reporter" external collaborator.
type Reporter interface {
	Report(Snapshot)
}

// NopReporter discards every snapshot; it is the default when the caller
// supplies none.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Snapshot) {}
