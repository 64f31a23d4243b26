// Package cfe implements the characteristic-function evaluator: for a
// coalition S of channels, it rebuilds a chain in which every channel
// outside S is redirected to state.Null (both its incoming and outgoing
// mass), then returns the START -> CONVERSION absorption probability via
// the fundamental matrix N = (I-Q)^-1.
//
// Per spec.md §9's design note, coalitions are represented as a bitmask
// (up to shapleyMaxChannels = 12 bits, enforced by the solver's
// guardrail) rather than a sorted-string join, so the v(S) memoization
// cache is a plain map[uint16]float64 and Shapley enumeration over 2^n
// subsets is a simple integer counter.
package cfe
