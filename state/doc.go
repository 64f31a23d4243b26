// Package state defines the canonical state ordering shared by every
// downstream component: the transition-matrix builder, the
// characteristic-function evaluator, the attribution solver, and the IR
// emitter all index rows/columns through one state.Index built the same
// way, so "START" always lands on row 0 no matter which component built
// the index.
package state
