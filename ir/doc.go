// Package ir defines the versioned intermediate-representation artifact
// the engine emits: a Document capturing the transition matrix, the
// Markov/Shapley/hybrid share and monetary-value maps, and run metadata
// (spec.md §5), plus a RobustnessArtifact wrapper for the UQ and
// sensitivity routines' output, tagged with a run_id (google/uuid) for
// log correlation across a multi-artifact run.
//
// Every map field serializes via encoding/json, which sorts map[string]T
// keys lexicographically on marshal — the one property this package
// relies on for byte-stable output across runs with identical inputs.
package ir
