// Package transition implements the transition matrix builder (TMB): it
// accumulates psychographically weighted transition counts from a set of
// paths into a row-stochastic matrix over state.Index's canonical state
// order, and supplies the default psychographic weight rules from
// spec.md §3.
package transition
