// Package uq implements the two uncertainty-quantification routines from
// spec.md §4.6: path bootstrap (resample paths with replacement, rebuild
// T, rerun the solver) and Dirichlet-rowwise posterior sampling (treat
// each row of T as a Dirichlet posterior seeded by observed pseudo-counts
// and a prior, sample alternate row-stochastic matrices directly). Both
// produce a set of B replicate share maps, summarized per channel as
// percentiles (p05/p25/p50/p75/p95) with monotonicity enforced across the
// percentile ladder.
package uq
