package matrix

import "math"

// singularityThreshold is the minimum acceptable pivot magnitude after
// partial pivoting; below this, the matrix is treated as singular.
// Chosen per spec: characteristic-function evaluation on a singular
// (I-Q) falls back to v=0 rather than propagating an error — see
// attribution/cfe.Evaluate.
const singularityThreshold = 1e-10

// Inverse computes the inverse of square matrix m via Gauss-Jordan
// elimination with partial pivoting (largest available pivot in the
// current column, searched among the remaining rows).
//
// Blueprint:
//
//	Stage 1 (Validate): m must be square.
//	Stage 2 (Prepare): build an augmented [A | I] work table as a flat buffer.
//	Stage 3 (Eliminate): for each column, pick the largest-magnitude pivot,
//	  swap it into place, normalize the row, and eliminate the column from
//	  every other row.
//	Stage 4 (Finalize): the right half of the augmented table is A^-1.
//
// Returns ErrSingular if any pivot magnitude falls below singularityThreshold.
// Complexity: O(n^3) time, O(n^2) memory.
func Inverse(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := m.Rows()
	// aug is an n x 2n flat buffer: aug[i*2n : i*2n+n] is A's row i,
	// aug[i*2n+n : i*2n+2n] is the accumulating inverse row i.
	width := 2 * n
	aug := make([]float64, n*width)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, _ := m.At(i, j)
			aug[i*width+j] = v
		}
		aug[i*width+n+i] = 1.0
	}

	for col := 0; col < n; col++ {
		// Stage 3.1: partial pivot search — largest |aug[row][col]| at row >= col.
		pivotRow := col
		best := math.Abs(aug[col*width+col])
		for row := col + 1; row < n; row++ {
			cand := math.Abs(aug[row*width+col])
			if cand > best {
				best = cand
				pivotRow = row
			}
		}
		if best < singularityThreshold {
			return nil, matrixErrorf(opInverse, ErrSingular)
		}

		// Stage 3.2: swap pivot row into place.
		if pivotRow != col {
			rowA := aug[col*width : col*width+width]
			rowB := aug[pivotRow*width : pivotRow*width+width]
			for k := 0; k < width; k++ {
				rowA[k], rowB[k] = rowB[k], rowA[k]
			}
		}

		// Stage 3.3: normalize pivot row so aug[col][col] == 1.
		pivot := aug[col*width+col]
		base := col * width
		for k := 0; k < width; k++ {
			aug[base+k] /= pivot
		}

		// Stage 3.4: eliminate column `col` from every other row.
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row*width+col]
			if factor == 0 {
				continue
			}
			rowBase := row * width
			for k := 0; k < width; k++ {
				aug[rowBase+k] -= factor * aug[base+k]
			}
		}
	}

	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			inv.data[i*n+j] = aug[i*width+n+j]
		}
	}

	return inv, nil
}
