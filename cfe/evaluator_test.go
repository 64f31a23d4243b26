package cfe_test

import (
	"testing"

	"github.com/katalvlaran/attribution/cfe"
	"github.com/katalvlaran/attribution/matrix"
	"github.com/katalvlaran/attribution/state"
	"github.com/stretchr/testify/require"
)

// buildChain constructs a row-stochastic T over channels {A, B}:
//
//	START -> A (1.0)
//	A -> B (0.6), A -> CONVERSION (0.4)
//	B -> CONVERSION (0.7), B -> NULL (0.3)
//	CONVERSION, NULL: identity rows.
func buildChain(t *testing.T) (*matrix.Dense, *state.Index) {
	t.Helper()

	idx := state.NewIndex([]string{"A", "B"})
	n := idx.Len()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)

	set := func(from, to string, v float64) {
		fi, err := idx.PosOf(from)
		require.NoError(t, err)
		ti, err := idx.PosOf(to)
		require.NoError(t, err)
		require.NoError(t, m.Set(fi, ti, v))
	}

	set(state.Start, "A", 1.0)
	set("A", "B", 0.6)
	set("A", state.Conversion, 0.4)
	set("B", state.Conversion, 0.7)
	set("B", state.Null, 0.3)
	set(state.Conversion, state.Conversion, 1.0)
	set(state.Null, state.Null, 1.0)

	return m, idx
}

func TestEvaluate_EmptyCoalitionIsZero(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	v, err := e.Evaluate(0)
	require.NoError(t, err)
	require.Equal(t, 0.0, v)
}

func TestEvaluate_FullCoalitionInRange(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	v, err := e.Evaluate(e.FullCoalition())
	require.NoError(t, err)
	require.InDelta(t, 0.4+0.6*0.7, v, 1e-9)
	require.GreaterOrEqual(t, v, 0.0)
	require.LessOrEqual(t, v, 1.0)
}

func TestEvaluate_Monotonicity(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	aBit, err := e.BitOf("A")
	require.NoError(t, err)
	bBit, err := e.BitOf("B")
	require.NoError(t, err)

	vEmpty, err := e.Evaluate(0)
	require.NoError(t, err)
	vA, err := e.Evaluate(uint16(1 << uint(aBit)))
	require.NoError(t, err)
	vFull, err := e.Evaluate(uint16(1<<uint(aBit) | 1<<uint(bBit)))
	require.NoError(t, err)

	const eps = 1e-9
	require.LessOrEqual(t, vEmpty, vA+eps)
	require.LessOrEqual(t, vA, vFull+eps)
}

func TestEvaluate_OnlyAChannel_ARedirectsToNull(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	aBit, err := e.BitOf("A")
	require.NoError(t, err)

	// With B excluded, B's entire mass (both incoming share from A and
	// outgoing share to CONVERSION/NULL) redirects into NULL, so v({A}) is
	// exactly A's direct conversion share.
	v, err := e.Evaluate(uint16(1 << uint(aBit)))
	require.NoError(t, err)
	require.InDelta(t, 0.4, v, 1e-9)
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	full := e.FullCoalition()
	v1, err := e.Evaluate(full)
	require.NoError(t, err)
	v2, err := e.Evaluate(full)
	require.NoError(t, err)
	require.Equal(t, v1, v2)
}

func TestEvaluate_UnknownChannelBit(t *testing.T) {
	t.Parallel()

	tm, idx := buildChain(t)
	e := cfe.NewEvaluator(tm, idx)

	_, err := e.BitOf("Z")
	require.ErrorIs(t, err, state.ErrUnknownState)
}
