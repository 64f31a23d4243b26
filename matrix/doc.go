// Package matrix is the attribution engine's linear algebra kernel (LAK).
//
// It provides a dense, row-major real matrix type and the small set of
// operations the attribution solver needs: multiply, subtract, identity,
// and an in-place Gauss-Jordan inverse with partial pivoting. Matrices in
// this domain are always small (state count n <= a few dozen), so no
// sparse representation is introduced — see DESIGN.md.
//
//	go get github.com/katalvlaran/attribution/matrix
package matrix
