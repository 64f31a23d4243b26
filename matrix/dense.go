// Package matrix implements the dense row-stochastic matrices the
// attribution engine is built on: the transition matrix transition.BuildT
// produces, the fundamental matrix cfe.Evaluator inverts, and every
// Dirichlet-resampled replicate uq draws. A flat row-major backing slice
// keeps the Gauss-Jordan solve (see inverse.go) cache-friendly at the
// state-count sizes this engine ever sees (at most 15: 12 channels plus
// START/CONVERSION/NULL).
package matrix

import (
	"fmt"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values. data holds r*c elements.
type Dense struct {
	r, c int
	data []float64
}

// NewDense allocates an r×c Dense matrix initialized to zeros.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int {
	return m.r
}

// Cols returns the number of columns.
func (m *Dense) Cols() int {
	return m.c
}

// indexOf computes the flat index for (row, col).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf("At", row, col, ErrIndexOutOfBounds)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Clone returns a deep copy, used by cfe.Evaluator to restrict a coalition
// without mutating the caller's transition matrix.
func (m *Dense) Clone() Matrix {
	copyData := make([]float64, len(m.data))
	copy(copyData, m.data)

	return &Dense{r: m.r, c: m.c, data: copyData}
}

// Identity returns a new n×n Dense matrix with ones on the diagonal, used
// both as the I in (I-Q) and by transition.ForceAbsorbingIdentity for the
// CONVERSION/NULL rows.
func Identity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1.0
	}

	return m, nil
}

// RowSum returns the sum of row i. Callers pass in-bounds indices;
// transition.Normalize and the row-stochastic diagnostics in uq use it.
func (m *Dense) RowSum(row int) float64 {
	var sum float64
	base := row * m.c
	for j := 0; j < m.c; j++ {
		sum += m.data[base+j]
	}

	return sum
}

// String implements fmt.Stringer for debugging a transition matrix or
// fundamental-matrix intermediate by hand.
func (m *Dense) String() string {
	var s string
	for i := 0; i < m.r; i++ {
		s += "["
		for j := 0; j < m.c; j++ {
			s += fmt.Sprintf("%g", m.data[i*m.c+j])
			if j < m.c-1 {
				s += ", "
			}
		}
		s += "]\n"
	}

	return s
}
