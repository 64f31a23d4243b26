// Package sensitivity implements the alpha-sweep and lambda-sweep
// robustness analyses from spec.md §4.7: alpha-sweep holds the Markov and
// Shapley shares fixed (they do not depend on alpha) and rescans the
// hybrid blend across a grid of alpha values; lambda-sweep rescales every
// observed context key's psychographic weight toward or away from 1.0
// (w'(k) = 1 + lambda*(w(k)-1)) and reruns the full solver per grid
// point, since weight scaling changes the transition matrix itself.
package sensitivity
