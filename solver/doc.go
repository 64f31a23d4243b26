// Package solver implements the attribution solver (AS): the top-level
// Attribute operation that turns a set of normalized events into Markov
// removal-effect shares, exact Shapley values, and their alpha-weighted
// hybrid blend, together with the monetary conservation and
// sum-to-one invariant checks spec.md §4.4-§4.5 require.
package solver
