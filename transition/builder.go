package transition

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/attribution/matrix"
	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/state"
)

// RowSumTolerance is the allowed deviation of a positive-mass row's sum
// from 1.0 (spec.md §3, §4.2).
const RowSumTolerance = 1e-6

// ErrRowNotStochastic indicates BuildT's own post-normalization check
// failed — an implementation defect, never a user-triggered condition.
var ErrRowNotStochastic = errors.New("transition: row does not sum to 1 within tolerance")

// Channels enumerates the distinct channels observed across paths, in
// first-seen order (BuildIndex sorts them into canonical order).
func Channels(paths []pathbuilder.Path) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range paths {
		for _, n := range p.Nodes {
			switch n.Channel {
			case state.Start, state.Conversion, state.Null:
				continue
			}
			if _, ok := seen[n.Channel]; !ok {
				seen[n.Channel] = struct{}{}
				out = append(out, n.Channel)
			}
		}
	}

	return out
}

// BuildIndex returns the canonical state.Index for the channels observed
// in paths.
func BuildIndex(paths []pathbuilder.Path) *state.Index {
	return state.NewIndex(Channels(paths))
}

// BuildCounts accumulates psychographically weighted transition counts
// (spec.md §4.2, second pass) into an n x n Dense matrix: for each path
// and each consecutive pair (a, b), counts[index(a),index(b)] +=
// weight(a.ContextKey). Counts are NOT normalized — this is the raw
// pseudo-count matrix the Dirichlet UQ routine needs (spec.md §4.6.2).
func BuildCounts(paths []pathbuilder.Path, weights map[string]float64, idx *state.Index) (*matrix.Dense, error) {
	n := idx.Len()
	counts, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("BuildCounts: %w", err)
	}

	for _, p := range paths {
		for i := 0; i+1 < len(p.Nodes); i++ {
			a, b := p.Nodes[i], p.Nodes[i+1]
			ai, err := idx.PosOf(a.Channel)
			if err != nil {
				return nil, fmt.Errorf("BuildCounts: %w", err)
			}
			bi, err := idx.PosOf(b.Channel)
			if err != nil {
				return nil, fmt.Errorf("BuildCounts: %w", err)
			}
			w := WeightOf(weights, a.ContextKey)
			cur, _ := counts.At(ai, bi)
			_ = counts.Set(ai, bi, cur+w)
		}
	}

	return counts, nil
}

// Normalize row-normalizes counts into a row-stochastic matrix: rows with
// positive mass are divided by their sum; rows with zero mass are left
// as zero rows (spec.md §4.2 — only possible for states never visited as
// a source, which cannot participate in START's absorption). Verifies
// every positive-mass row sums to 1 within RowSumTolerance before
// returning.
func Normalize(counts *matrix.Dense) (*matrix.Dense, error) {
	n := counts.Rows()
	t, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("Normalize: %w", err)
	}

	for i := 0; i < n; i++ {
		sum := counts.RowSum(i)
		if sum <= 0 {
			continue // degenerate row: no outflow observed, stays all-zero
		}
		for j := 0; j < n; j++ {
			v, _ := counts.At(i, j)
			_ = t.Set(i, j, v/sum)
		}
		rowSum := t.RowSum(i)
		if math.Abs(rowSum-1.0) > RowSumTolerance {
			return nil, fmt.Errorf("Normalize: row %d sums to %g: %w", i, rowSum, ErrRowNotStochastic)
		}
	}

	return t, nil
}

// BuildT is the full TMB contract: build_T(paths, weights) -> (T, state_index).
//
// CONVERSION and NULL never appear as the source of a path transition (a
// path always ends at one of them), so their counts rows are structurally
// zero rather than data-driven; BuildT forces them to the identity rows
// the absorbing-state invariant requires (spec.md §3) after normalizing
// the data-driven rows.
func BuildT(paths []pathbuilder.Path, weights map[string]float64) (*matrix.Dense, *state.Index, error) {
	idx := BuildIndex(paths)
	counts, err := BuildCounts(paths, weights, idx)
	if err != nil {
		return nil, nil, err
	}
	t, err := Normalize(counts)
	if err != nil {
		return nil, nil, err
	}
	ForceAbsorbingIdentity(t, idx)

	return t, idx, nil
}

// ForceAbsorbingIdentity sets T's CONVERSION and NULL rows to identity
// rows, independent of any observed counts. Exported so the Dirichlet-
// rowwise UQ routine (package uq) can apply the same structural fixup to
// each sampled replicate matrix, which — like the raw counts matrix —
// never carries outgoing mass for these two rows.
func ForceAbsorbingIdentity(t *matrix.Dense, idx *state.Index) {
	n := idx.Len()
	for _, pos := range []int{idx.ConversionPos(), idx.NullPos()} {
		for j := 0; j < n; j++ {
			v := 0.0
			if j == pos {
				v = 1.0
			}
			_ = t.Set(pos, j, v)
		}
	}
}
