package pathbuilder_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/attribution/events"
	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/state"
	"github.com/stretchr/testify/require"
)

func TestBuildPaths_Empty(t *testing.T) {
	t.Parallel()

	paths := pathbuilder.BuildPaths(nil, 0)
	require.NotNil(t, paths)
	require.Empty(t, paths)
}

func TestBuildPaths_SingleChannelConversion(t *testing.T) {
	t.Parallel()

	// S1 from spec.md §8.
	evs := []events.Event{
		{Timestamp: 1, Channel: "A", ContextKey: "standard", Fingerprint: "f1"},
		{Timestamp: 2, Channel: "A", ContextKey: "standard", Fingerprint: "f1"},
		{Timestamp: 3, Channel: "A", ContextKey: "standard", ConversionValue: 100, Fingerprint: "f1"},
	}

	paths := pathbuilder.BuildPaths(evs, pathbuilder.DefaultSessionGap)
	require.Len(t, paths, 1)
	p := paths[0]
	require.Equal(t, state.Start, p.Nodes[0].Channel)
	require.Equal(t, "A", p.Nodes[1].Channel)
	require.Equal(t, "A", p.Nodes[2].Channel)
	require.Equal(t, "A", p.Nodes[3].Channel)
	require.Equal(t, state.Conversion, p.Terminal())
}

func TestBuildPaths_SessionSplitByGap(t *testing.T) {
	t.Parallel()

	gap := 45 * time.Minute
	evs := []events.Event{
		{Timestamp: 0, Channel: "A", Fingerprint: "f1"},
		{Timestamp: gap.Seconds() + 1, Channel: "B", Fingerprint: "f1"},
	}

	paths := pathbuilder.BuildPaths(evs, gap)
	require.Len(t, paths, 2)
	require.Equal(t, state.Null, paths[0].Terminal())
	require.Equal(t, state.Null, paths[1].Terminal())
}

func TestBuildPaths_StableSortOnTies(t *testing.T) {
	t.Parallel()

	evs := []events.Event{
		{Timestamp: 5, Channel: "B", Fingerprint: "f1"},
		{Timestamp: 5, Channel: "A", Fingerprint: "f1"},
	}

	paths := pathbuilder.BuildPaths(evs, pathbuilder.DefaultSessionGap)
	require.Len(t, paths, 1)
	require.Equal(t, "B", paths[0].Nodes[1].Channel)
	require.Equal(t, "A", paths[0].Nodes[2].Channel)
}

func TestBuildPaths_SynthesizedFingerprintGroupsByDeviceSignature(t *testing.T) {
	t.Parallel()

	evs := []events.Event{
		{Timestamp: 1, Channel: "A", OSVersion: "ios17", TimezoneOffset: -300},
		{Timestamp: 2, Channel: "B", OSVersion: "ios17", TimezoneOffset: -300},
		{Timestamp: 3, Channel: "C", OSVersion: "android14", TimezoneOffset: 60},
	}

	paths := pathbuilder.BuildPaths(evs, pathbuilder.DefaultSessionGap)
	require.Len(t, paths, 2)
}

func TestBuildPaths_IdentityKeyPriority(t *testing.T) {
	t.Parallel()

	// Same user_id but different fingerprints must still group together.
	evs := []events.Event{
		{Timestamp: 1, Channel: "A", UserID: "u1", Fingerprint: "fp-a"},
		{Timestamp: 2, Channel: "B", UserID: "u1", Fingerprint: "fp-b"},
	}
	paths := pathbuilder.BuildPaths(evs, pathbuilder.DefaultSessionGap)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Nodes, 4) // START, A, B, NULL
}
