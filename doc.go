// Package attribution is a multi-touch marketing attribution engine: it
// turns normalized touchpoint events into per-channel credit shares via
// Markov-chain removal effects and exact Shapley values, blends the two,
// and quantifies how much to trust the result.
//
// Pipeline, package by package:
//
//	events/      — the normalized Event record and its validation rules
//	pathbuilder/ — groups events into sessions and builds ordered Paths
//	transition/  — accumulates psychographically weighted Paths into a
//	               row-stochastic transition matrix over a canonical
//	               state.Index
//	state/       — the fixed {START, channels..., CONVERSION, NULL} order
//	               every dense matrix in the engine shares
//	matrix/      — the dense linear-algebra kernel (Gauss-Jordan inverse
//	               with partial pivoting) the Markov fundamental-matrix
//	               computation depends on
//	rng/         — the seedable PRNG (Box-Muller normal, Marsaglia-Tsang
//	               gamma, Dirichlet) the uncertainty routines depend on
//	cfe/         — the characteristic-function evaluator v(S): the
//	               START -> CONVERSION absorption probability under a
//	               coalition-restricted chain
//	solver/      — Attribute: removal effects, exact Shapley values, the
//	               alpha-weighted hybrid blend, and its invariant checks
//	uq/          — path-bootstrap and Dirichlet-rowwise uncertainty
//	               quantification over the solver's output
//	sensitivity/ — alpha-sweep and lambda-sweep robustness analysis
//	ir/          — the versioned output artifact
//	config/      — engine tunables, loaded from environment or YAML
//	logging/     — the structured logger used at the edges of a run
//
// The engine never parses raw event export formats and never touches
// user identifiers beyond what pathbuilder needs to group a session —
// see events' and pathbuilder's package docs for the exact boundary.
package attribution
