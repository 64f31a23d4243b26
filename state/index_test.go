package state_test

import (
	"testing"

	"github.com/katalvlaran/attribution/state"
	"github.com/stretchr/testify/require"
)

func TestNewIndex_CanonicalOrder(t *testing.T) {
	t.Parallel()

	idx := state.NewIndex([]string{"Social", "Email", "Search", "Email"})
	require.Equal(t, []string{"START", "Email", "Search", "Social", "CONVERSION", "NULL"}, idx.Names())
	require.Equal(t, 6, idx.Len())
	require.Equal(t, []string{"Email", "Search", "Social"}, idx.Channels())
}

func TestIndex_PosOf(t *testing.T) {
	t.Parallel()

	idx := state.NewIndex([]string{"A", "B"})
	require.Equal(t, 0, idx.StartPos())
	p, err := idx.PosOf("A")
	require.NoError(t, err)
	require.Equal(t, 1, p)
	require.Equal(t, 4, idx.ConversionPos())
	require.Equal(t, 5, idx.NullPos())

	_, err = idx.PosOf("nope")
	require.ErrorIs(t, err, state.ErrUnknownState)
}

func TestNewIndex_EmptyChannels(t *testing.T) {
	t.Parallel()

	idx := state.NewIndex(nil)
	require.Equal(t, []string{"START", "CONVERSION", "NULL"}, idx.Names())
	require.Equal(t, 0, idx.NumChannels())
}
