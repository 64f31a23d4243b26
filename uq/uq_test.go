package uq_test

import (
	"testing"

	"github.com/katalvlaran/attribution/events"
	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/transition"
	"github.com/katalvlaran/attribution/uq"
	"github.com/stretchr/testify/require"
)

func samplePaths(t *testing.T) []pathbuilder.Path {
	t.Helper()
	evs := []events.Event{
		{Timestamp: 1, Channel: "email", UserID: "u1"},
		{Timestamp: 2, Channel: "search", UserID: "u1"},
		{Timestamp: 3, Channel: "social", UserID: "u1", ConversionValue: 100},

		{Timestamp: 1, Channel: "email", UserID: "u2"},
		{Timestamp: 2, Channel: "social", UserID: "u2"},

		{Timestamp: 1, Channel: "search", UserID: "u3", ConversionValue: 50},
	}
	return pathbuilder.BuildPaths(evs, pathbuilder.DefaultSessionGap)
}

func TestPathBootstrap_PercentilesOrdered(t *testing.T) {
	t.Parallel()

	paths := samplePaths(t)
	result, err := uq.PathBootstrap(paths, 42, 50)
	require.NoError(t, err)
	require.Equal(t, 50, result.NumReplicates+result.NumSkipped)

	for _, c := range result.Channels {
		p := result.HybridShare[c]
		require.LessOrEqual(t, p.P05, p.P25)
		require.LessOrEqual(t, p.P25, p.P50)
		require.LessOrEqual(t, p.P50, p.P75)
		require.LessOrEqual(t, p.P75, p.P95)
	}
}

func TestPathBootstrap_RankStabilityInRange(t *testing.T) {
	t.Parallel()

	paths := samplePaths(t)
	result, err := uq.PathBootstrap(paths, 7, 30)
	require.NoError(t, err)

	for _, c := range result.Channels {
		rs := result.RankStability[c]
		require.GreaterOrEqual(t, rs.Rank1, 0.0)
		require.LessOrEqual(t, rs.Rank1, 1.0)
		require.GreaterOrEqual(t, rs.Top2, 0.0)
		require.LessOrEqual(t, rs.Top2, 1.0)
		// top2 can never be rarer than rank1: every replicate counted in
		// rank1 is also counted in top2.
		require.GreaterOrEqual(t, rs.Top2, rs.Rank1)
	}
}

func TestPathBootstrap_Deterministic(t *testing.T) {
	t.Parallel()

	paths := samplePaths(t)
	r1, err := uq.PathBootstrap(paths, 99, 20)
	require.NoError(t, err)
	r2, err := uq.PathBootstrap(paths, 99, 20)
	require.NoError(t, err)

	for _, c := range r1.Channels {
		require.Equal(t, r1.HybridShare[c], r2.HybridShare[c])
	}
}

func TestDirichletRowwise_PercentilesOrdered(t *testing.T) {
	t.Parallel()

	paths := samplePaths(t)
	idx := transition.BuildIndex(paths)
	counts, err := transition.BuildCounts(paths, nil, idx)
	require.NoError(t, err)

	result, err := uq.DirichletRowwise(counts, idx, uq.DefaultDirichletPrior, 11, 40)
	require.NoError(t, err)
	require.Equal(t, 40, result.NumReplicates+result.NumSkipped)

	for _, c := range result.Channels {
		p := result.MarkovShare[c]
		require.LessOrEqual(t, p.P05, p.P50)
		require.LessOrEqual(t, p.P50, p.P95)
	}
}

func TestDirichletRowwise_DiagnosticsRowStochastic(t *testing.T) {
	t.Parallel()

	paths := samplePaths(t)
	idx := transition.BuildIndex(paths)
	counts, err := transition.BuildCounts(paths, nil, idx)
	require.NoError(t, err)

	result, err := uq.DirichletRowwise(counts, idx, uq.DefaultDirichletPrior, 3, 10)
	require.NoError(t, err)
	require.InDelta(t, 0, result.Diagnostics.RowStochasticMaxAbsError, 1e-6)
}
