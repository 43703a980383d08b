package solver

import (
	"github.com/gatosat/gatosat/internal/clause"
	"github.com/gatosat/gatosat/internal/lit"
)

// Propagate drains the trail from Qhead, performing unit propagation over
// the mixed binary/ternary/long watch store, per spec.md §4.1. It returns
// NoReason if the queue drained cleanly, or the falsified reason otherwise.
// Propagation never mutates clause structure on conflict.
//
// Watch-list filing convention: a watch for a clause containing literal X
// is filed under key ¬X (set up in attachBinary/attachTernary/attachLong).
// So when p is assigned true, s.Watches.At(p) holds exactly the watches for
// clauses containing ¬p — which is what spec.md §4.1 calls "walk[ing] the
// watch list of ¬p".
func (s *Solver) Propagate() Reason {
	for s.Qhead < len(s.Trail) {
		p := s.Trail[s.Qhead]
		s.Qhead++

		ws := s.Watches.At(p)
		keep := ws[:0]

		for i := 0; i < len(ws); i++ {
			w := ws[i]
			s.Stats.PropagationCount++

			switch w.Kind {
			case clause.Binary:
				if s.ValueLit(w.Lit2) == lit.True {
					keep = append(keep, w)
					continue
				}
				if s.ValueLit(w.Lit2) == lit.TriUndef {
					keep = append(keep, w)
					s.uncheckedEnqueue(w.Lit2, Reason{Kind: ReasonBinary, L1: w.Lit2, L2: p.Flip()})
					continue
				}
				keep = append(keep, ws[i:]...)
				s.Watches.Set(p, keep)
				s.Qhead = len(s.Trail)
				return Reason{Kind: ReasonBinary, L1: p.Flip(), L2: w.Lit2}

			case clause.Ternary:
				v2, v3 := s.ValueLit(w.Lit2), s.ValueLit(w.Lit3)
				if v2 == lit.True || v3 == lit.True {
					keep = append(keep, w)
					continue
				}
				if v2 == lit.TriUndef && v3 == lit.TriUndef {
					keep = append(keep, w)
					continue
				}
				if v2 == lit.False && v3 == lit.False {
					keep = append(keep, ws[i:]...)
					s.Watches.Set(p, keep)
					s.Qhead = len(s.Trail)
					return Reason{Kind: ReasonTernary, L1: p.Flip(), L2: w.Lit2, L3: w.Lit3}
				}
				keep = append(keep, w)
				if v2 == lit.TriUndef {
					s.uncheckedEnqueue(w.Lit2, Reason{Kind: ReasonTernary, L1: w.Lit2, L2: p.Flip(), L3: w.Lit3})
				} else {
					s.uncheckedEnqueue(w.Lit3, Reason{Kind: ReasonTernary, L1: w.Lit3, L2: p.Flip(), L3: w.Lit2})
				}

			default: // clause.Long
				if s.ValueLit(w.Blocker) == lit.True {
					keep = append(keep, w)
					continue
				}
				c := s.Arena.Get(w.Ref)
				falseLit := p.Flip()
				if c.At(0).Equal(falseLit) {
					c.Swap(0, 1)
				}
				first := c.At(0)
				blocked := w
				blocked.Blocker = first
				if !first.Equal(w.Blocker) && s.ValueLit(first) == lit.True {
					keep = append(keep, blocked)
					continue
				}

				found := false
				for k := 2; k < c.Size(); k++ {
					if s.ValueLit(c.At(k)) != lit.False {
						c.Swap(1, k)
						s.Watches.Append(c.At(1).Flip(), clause.NewLong(w.Ref, c.At(0), c.Abstraction()))
						found = true
						break
					}
				}
				if found {
					continue
				}

				keep = append(keep, blocked)
				if s.ValueLit(first) == lit.False {
					keep = append(keep, ws[i+1:]...)
					s.Watches.Set(p, keep)
					s.Qhead = len(s.Trail)
					return Reason{Kind: ReasonLong, Ref: w.Ref}
				}
				s.uncheckedEnqueue(first, Reason{Kind: ReasonLong, Ref: w.Ref})
			}
		}
		s.Watches.Set(p, keep)
	}

	return NoReason
}
