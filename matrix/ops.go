// Package matrix provides universal operations on any Matrix implementation,
// including element-wise subtraction and matrix multiplication. All
// functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
package matrix

import "fmt"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opSub     = "Sub"
	opMul     = "Mul"
	opInverse = "Inverse"
)

// matrixErrorf wraps an underlying error with the given tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Sub returns a new Matrix with the element-wise difference a - b.
//
// Contract: non-nil inputs, identical shapes.
// Determinism: fixed loop order (fast: flat; fallback: i→j).
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}

	// Fast path: *Dense x *Dense -> single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			length := rows * cols
			for idx := 0; idx < length; idx++ {
				res.data[idx] = da.data[idx] - db.data[idx]
			}

			return res, nil
		}
	}

	// Fallback: generic interface loop, fixed i->j order.
	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			_ = res.Set(i, j, av-bv)
		}
	}

	return res, nil
}

// Mul performs standard matrix multiplication c = a x b.
//
// Contract: a, b non-nil; a.Cols() == b.Rows().
// Determinism & Performance: fast path (*Dense x *Dense) uses fixed
// i->k->j with row-major strides; fallback uses fixed i->j->k.
// Complexity: Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var i, k, j int
			var aik float64
			for i = 0; i < aRows; i++ {
				for k = 0; k < aCols; k++ {
					aik = da.data[i*aCols+k]
					if aik == 0 {
						continue // skip zero contributions in the (often sparse-like) T rows
					}
					for j = 0; j < bCols; j++ {
						res.data[i*bCols+j] += aik * db.data[k*bCols+j]
					}
				}
			}

			return res, nil
		}
	}

	var i, k, j int
	var av, bv float64
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			var sum float64
			for k = 0; k < aCols; k++ {
				av, _ = a.At(i, k)
				bv, _ = b.At(k, j)
				sum += av * bv
			}
			_ = res.Set(i, j, sum)
		}
	}

	return res, nil
}
