package transition_test

import (
	"testing"

	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/state"
	"github.com/katalvlaran/attribution/transition"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeight(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.5, transition.DefaultWeight("visitor_high_intent"))
	require.Equal(t, 1.1, transition.DefaultWeight("medium_intent_lead"))
	require.Equal(t, 0.85, transition.DefaultWeight("low_intent"))
	require.Equal(t, 1.0, transition.DefaultWeight("unknown_context"))
}

func TestWeightOf_ExplicitOverride(t *testing.T) {
	t.Parallel()

	w := map[string]float64{"custom": 3.0}
	require.Equal(t, 3.0, transition.WeightOf(w, "custom"))
	require.Equal(t, 1.0, transition.WeightOf(w, "unknown_context"))
}

func TestBuildT_RowStochastic(t *testing.T) {
	t.Parallel()

	paths := []pathbuilder.Path{
		{Nodes: []pathbuilder.Node{
			{Channel: state.Start}, {Channel: "A", ContextKey: "standard"}, {Channel: state.Conversion},
		}},
		{Nodes: []pathbuilder.Node{
			{Channel: state.Start}, {Channel: "B", ContextKey: "standard"}, {Channel: state.Null},
		}},
	}

	T, idx, err := transition.BuildT(paths, nil)
	require.NoError(t, err)

	n := idx.Len()
	for i := 0; i < n; i++ {
		sum := T.RowSum(i)
		require.True(t, sum == 0 || (sum > 1-1e-6 && sum < 1+1e-6), "row %d sum=%g", i, sum)
	}

	// CONVERSION and NULL rows must be identity rows.
	cv, _ := T.At(idx.ConversionPos(), idx.ConversionPos())
	require.Equal(t, 1.0, cv)
	nl, _ := T.At(idx.NullPos(), idx.NullPos())
	require.Equal(t, 1.0, nl)
}

func TestBuildT_SingleChannel_RepeatedTouchesCountAsSelfLoops(t *testing.T) {
	t.Parallel()

	paths := []pathbuilder.Path{
		{Nodes: []pathbuilder.Node{
			{Channel: state.Start}, {Channel: "A"}, {Channel: "A"}, {Channel: "A"}, {Channel: state.Conversion},
		}},
	}

	T, idx, err := transition.BuildT(paths, nil)
	require.NoError(t, err)

	// A's outgoing transitions are A->A twice and A->CONVERSION once.
	aPos, _ := idx.PosOf("A")
	v, _ := T.At(aPos, idx.ConversionPos())
	require.InDelta(t, 1.0/3.0, v, 1e-9)
}

func TestChannels_ExcludesSentinels(t *testing.T) {
	t.Parallel()

	paths := []pathbuilder.Path{
		{Nodes: []pathbuilder.Node{{Channel: state.Start}, {Channel: "X"}, {Channel: state.Null}}},
	}
	chs := transition.Channels(paths)
	require.Equal(t, []string{"X"}, chs)
}
