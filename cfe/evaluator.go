package cfe

import (
	"fmt"

	"github.com/katalvlaran/attribution/matrix"
	"github.com/katalvlaran/attribution/state"
)

// Evaluator computes the characteristic function v(S) = P(reach CONVERSION
// from START | only channels in S are present) for an absorbing chain T
// over idx's canonical state order (spec.md §4.3).
//
// An Evaluator is scoped to one attribution call: it holds a clone-on-write
// view of T and memoizes v(S) by S's bitmask so the solver's Shapley
// enumeration (2^n subsets, n <= shapleyMaxChannels) never recomputes the
// same coalition twice.
type Evaluator struct {
	t   *matrix.Dense
	idx *state.Index

	cache map[uint16]float64
}

// NewEvaluator builds an Evaluator over t (the engine's row-stochastic
// transition matrix) and idx (its canonical state order).
func NewEvaluator(t *matrix.Dense, idx *state.Index) *Evaluator {
	return &Evaluator{t: t, idx: idx, cache: make(map[uint16]float64)}
}

// FullCoalition returns the bitmask with one bit set per channel in idx,
// i.e. the grand coalition N.
func (e *Evaluator) FullCoalition() uint16 {
	var mask uint16
	for i := 0; i < e.idx.NumChannels(); i++ {
		mask |= 1 << uint(i)
	}

	return mask
}

// BitOf returns the bit position of channel within a coalition bitmask, or
// an error if channel is not a known channel of idx. Callers build
// coalition bitmasks by OR-ing 1<<BitOf(c) for each member channel.
func (e *Evaluator) BitOf(channel string) (int, error) {
	for i, c := range e.idx.Channels() {
		if c == channel {
			return i, nil
		}
	}

	return 0, fmt.Errorf("cfe: BitOf(%q): %w", channel, state.ErrUnknownState)
}

// Evaluate returns v(S) for the coalition encoded by mask (bit i set means
// idx.Channels()[i] is a member). A singular (I-Q) — which can only arise
// from a degenerate, never-visited coalition — yields v(S) = 0 rather than
// an error, per the engine's numerical policy (spec.md §9).
func (e *Evaluator) Evaluate(mask uint16) (float64, error) {
	if v, ok := e.cache[mask]; ok {
		return v, nil
	}

	restricted := e.restrict(mask)

	nTransient := e.idx.Len() - 2 // everything but CONVERSION, NULL
	q, err := submatrix(restricted, 0, nTransient, 0, nTransient)
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}
	r, err := submatrix(restricted, 0, nTransient, nTransient, e.idx.Len())
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}

	id, err := matrix.Identity(nTransient)
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}
	iMinusQ, err := matrix.Sub(id, q)
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}

	n, err := matrix.Inverse(iMinusQ)
	if err != nil {
		e.cache[mask] = 0
		return 0, nil // SingularChain: v(S) = 0, never surfaced as an error
	}

	b, err := matrix.Mul(n, r)
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}

	// Row 0 of the transient block is always START (state.Index places it
	// first); column 0 of R is always CONVERSION (ConversionPos == nTransient,
	// immediately followed by NullPos).
	v, err := b.At(e.idx.StartPos(), 0)
	if err != nil {
		return 0, fmt.Errorf("cfe.Evaluate: %w", err)
	}

	e.cache[mask] = v

	return v, nil
}

// restrict clones e.t and redirects every channel absent from mask to NULL:
// mass flowing into the excluded channel is rerouted into NULL, and the
// excluded channel's own outgoing row is collapsed entirely into NULL
// (spec.md §4.3's removal policy).
func (e *Evaluator) restrict(mask uint16) *matrix.Dense {
	clone := e.t.Clone().(*matrix.Dense)
	n := e.idx.Len()
	nullPos := e.idx.NullPos()

	for i, channel := range e.idx.Channels() {
		if mask&(1<<uint(i)) != 0 {
			continue // channel is a coalition member, left untouched
		}
		pos := e.idx.MustPosOf(channel)

		// Redirect incoming mass: for every row, move its entry in column
		// `pos` into column `nullPos`, then zero it.
		for row := 0; row < n; row++ {
			v, _ := clone.At(row, pos)
			if v == 0 {
				continue
			}
			cur, _ := clone.At(row, nullPos)
			_ = clone.Set(row, nullPos, cur+v)
			_ = clone.Set(row, pos, 0)
		}

		// Collapse outgoing mass: the excluded channel's entire row is
		// redirected to NULL with probability 1.
		for col := 0; col < n; col++ {
			_ = clone.Set(pos, col, 0)
		}
		_ = clone.Set(pos, nullPos, 1)
	}

	return clone
}

// submatrix extracts rows [r0,r1) and columns [c0,c1) of src into a new
// Dense matrix.
func submatrix(src *matrix.Dense, r0, r1, c0, c1 int) (*matrix.Dense, error) {
	out, err := matrix.NewDense(r1-r0, c1-c0)
	if err != nil {
		return nil, err
	}
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			v, err := src.At(i, j)
			if err != nil {
				return nil, err
			}
			_ = out.Set(i-r0, j-c0, v)
		}
	}

	return out, nil
}
