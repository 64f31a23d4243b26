// Package matrix: shape validators run before every dense operation that
// assumes conforming operands — Sub/Mul (ops.go) and Inverse
// (inverse.go) all call these first so a caller gets a ValidateX-sourced
// sentinel instead of an out-of-bounds panic deep inside the kernel.
package matrix

import (
	"fmt"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures m is non-nil.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return fmt.Errorf("ValidateNotNil: %w", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape checks that a and b have identical dimensions, e.g.
// the identity and Q blocks Sub subtracts in cfe.Evaluate.
func ValidateSameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}

	rowsA, colsA := a.Rows(), a.Cols()
	rowsB, colsB := b.Rows(), b.Cols()
	if rowsA != rowsB {
		return validatorErrorf("ValidateSameShape", fmt.Errorf("row count mismatch %d != %d: %w", rowsA, rowsB, ErrDimensionMismatch))
	}
	if colsA != colsB {
		return validatorErrorf("ValidateSameShape", fmt.Errorf("column count mismatch %d != %d: %w", colsA, colsB, ErrDimensionMismatch))
	}

	return nil
}

// ValidateSquare checks that m is square, required before Identity-sized
// operations like Inverse's (I-Q) solve.
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}

	r, c := m.Rows(), m.Cols()
	if r != c {
		return validatorErrorf("ValidateSquare", fmt.Errorf("%dx%d not square: %w", r, c, ErrNonSquare))
	}

	return nil
}
