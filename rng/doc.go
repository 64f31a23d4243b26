// Package rng is the attribution engine's seedable random module (RNG).
//
// It wraps math/rand.Rand (the same PRNG source builder.WithSeed uses in
// the graph-construction corpus this engine is descended from) behind an
// explicit, non-global object: Uniform, Normal (Box-Muller), Gamma
// (Marsaglia-Tsang with a rejection fallback for shape < 1), and Dirichlet.
// Every stochastic artifact the engine produces threads one of these
// through explicitly — there is no package-level random state.
package rng
