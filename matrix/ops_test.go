package matrix_test

import (
	"testing"

	"github.com/katalvlaran/attribution/matrix"
	"github.com/stretchr/testify/require"
)

func denseFromRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			require.NoError(t, m.Set(i, j, v))
		}
	}
	return m
}

func TestSub_NilGuards(t *testing.T) {
	t.Parallel()

	a, _ := matrix.NewDense(1, 1)
	_, err := matrix.Sub(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.Sub(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSub_DimensionMismatch(t *testing.T) {
	t.Parallel()

	a, _ := matrix.NewDense(2, 2)
	b, _ := matrix.NewDense(3, 3)
	_, err := matrix.Sub(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSub_HappyPath(t *testing.T) {
	t.Parallel()

	a := denseFromRows(t, [][]float64{{5, 6}, {7, 8}})
	b := denseFromRows(t, [][]float64{{1, 2}, {3, 4}})

	res, err := matrix.Sub(a, b)
	require.NoError(t, err)
	v00, _ := res.At(0, 0)
	v11, _ := res.At(1, 1)
	require.Equal(t, 4.0, v00)
	require.Equal(t, 4.0, v11)
}

func TestMul_DimensionMismatch(t *testing.T) {
	t.Parallel()

	a, _ := matrix.NewDense(2, 3)
	b, _ := matrix.NewDense(2, 2)
	_, err := matrix.Mul(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMul_Identity(t *testing.T) {
	t.Parallel()

	a := denseFromRows(t, [][]float64{{1, 2}, {3, 4}})
	id, _ := matrix.Identity(2)

	res, err := matrix.Mul(a, id)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			exp, _ := a.At(i, j)
			got, _ := res.At(i, j)
			require.Equal(t, exp, got)
		}
	}
}

func TestInverse_Identity(t *testing.T) {
	t.Parallel()

	id, _ := matrix.Identity(4)
	inv, err := matrix.Inverse(id)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			exp, _ := id.At(i, j)
			got, _ := inv.At(i, j)
			require.InDelta(t, exp, got, 1e-9)
		}
	}
}

func TestInverse_Known2x2(t *testing.T) {
	t.Parallel()

	// A = [[4,7],[2,6]], det=10, A^-1 = [[0.6,-0.7],[-0.2,0.4]]
	a := denseFromRows(t, [][]float64{{4, 7}, {2, 6}})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)

	exp := [][]float64{{0.6, -0.7}, {-0.2, 0.4}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			got, _ := inv.At(i, j)
			require.InDelta(t, exp[i][j], got, 1e-9)
		}
	}
}

func TestInverse_RequiresPivoting(t *testing.T) {
	t.Parallel()

	// Zero in the (0,0) position forces a row swap during elimination.
	a := denseFromRows(t, [][]float64{{0, 1}, {1, 1}})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)

	prod, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			got, _ := prod.At(i, j)
			if i == j {
				require.InDelta(t, 1.0, got, 1e-9)
			} else {
				require.InDelta(t, 0.0, got, 1e-9)
			}
		}
	}
}

func TestInverse_Singular(t *testing.T) {
	t.Parallel()

	a := denseFromRows(t, [][]float64{{1, 2}, {2, 4}})
	_, err := matrix.Inverse(a)
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestInverse_NonSquare(t *testing.T) {
	t.Parallel()

	a, _ := matrix.NewDense(2, 3)
	_, err := matrix.Inverse(a)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}
