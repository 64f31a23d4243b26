package matrix_test

import (
	"testing"

	"github.com/katalvlaran/attribution/matrix"
	"github.com/stretchr/testify/require"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(3, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_AtSet_BoundsChecked(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Set(0, 1, 4.5))
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 4.5, v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)

	err = m.Set(0, -1, 1.0)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)
}

func TestDense_Clone_IsIndependent(t *testing.T) {
	t.Parallel()

	m, _ := matrix.NewDense(2, 2)
	_ = m.Set(0, 0, 1.0)

	c := m.Clone()
	_ = m.Set(0, 0, 99.0)

	v, _ := c.At(0, 0)
	require.Equal(t, 1.0, v, "clone must not observe later mutation of the original")
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	id, err := matrix.Identity(3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := id.At(i, j)
			if i == j {
				require.Equal(t, 1.0, v)
			} else {
				require.Equal(t, 0.0, v)
			}
		}
	}
}

func TestRowSum(t *testing.T) {
	t.Parallel()

	m, _ := matrix.NewDense(1, 3)
	_ = m.Set(0, 0, 0.2)
	_ = m.Set(0, 1, 0.3)
	_ = m.Set(0, 2, 0.5)

	require.InDelta(t, 1.0, m.RowSum(0), 1e-12)
}
