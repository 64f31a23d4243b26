package uq

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/attribution/matrix"
	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/rng"
	"github.com/katalvlaran/attribution/solver"
	"github.com/katalvlaran/attribution/state"
	"github.com/katalvlaran/attribution/transition"
)

// DefaultB is the default replicate count for both UQ routines.
const DefaultB = 200

// DefaultDirichletPrior is the default Dirichlet pseudo-count prior
// alpha_0 added to every row of the observed counts matrix before
// sampling (spec.md §4.6.2).
const DefaultDirichletPrior = 0.1

// ErrUQReplicateDegenerate marks a replicate the caller chose to skip
// rather than fail the whole routine over (e.g. a resample that
// collapses every path into a single degenerate channel set). It is
// never returned from PathBootstrap/DirichletRowwise directly — callers
// inspect Result.NumSkipped for how many replicates this affected.
var ErrUQReplicateDegenerate = errors.New("uq: replicate produced a degenerate result and was skipped")

// Percentiles is the p05/p25/p50/p75/p95 ladder over a channel's share
// across replicates, computed from a sorted sample via index =
// floor(p*N/100) clamped to [0, N-1], then adjusted upward where needed
// so P05 <= P25 <= P50 <= P75 <= P95 always holds even under ties.
type Percentiles struct {
	P05, P25, P50, P75, P95 float64
}

// Diagnostics reports basic health checks on the transition matrix a
// replicate (or the point estimate) was built from.
type Diagnostics struct {
	RowStochasticMaxAbsError float64
	MinEntry                 float64
	MaxEntry                 float64
}

// RankStability reports, per channel, the fraction of replicates in
// which the channel's descending-hybrid-share rank placed it first
// (Rank1) or within the top two (Top2) (spec.md §4.6).
type RankStability struct {
	Rank1 float64
	Top2  float64
}

// Result is the output of either UQ routine: per-channel percentile
// summaries for all three share types, a rank-stability table, and
// diagnostics from the point-estimate matrix.
type Result struct {
	Channels      []string
	MarkovShare   map[string]Percentiles
	ShapleyShare  map[string]Percentiles
	HybridShare   map[string]Percentiles
	RankStability map[string]RankStability

	NumReplicates int
	NumSkipped    int
	Diagnostics   Diagnostics
}

// PathBootstrap runs the path-bootstrap UQ routine (spec.md §4.6.1): b
// times, resample len(paths) paths with replacement, rebuild T, and rerun
// the solver; summarize the resulting share distributions. Replicates
// whose solver call returns an error are skipped and counted in
// Result.NumSkipped rather than failing the call.
func PathBootstrap(paths []pathbuilder.Path, seed int64, b int, solverOpts ...solver.Option) (*Result, error) {
	if b <= 0 {
		b = DefaultB
	}

	point, err := solver.AttributeFromPaths(paths, solverOpts...)
	if err != nil {
		return nil, fmt.Errorf("uq.PathBootstrap: point estimate: %w", err)
	}

	r := rng.New(seed)
	var markovReps, shapleyReps, hybridReps []map[string]float64
	skipped := 0
	for i := 0; i < b; i++ {
		resampled := resamplePaths(paths, r)
		rep, err := solver.AttributeFromPaths(resampled, solverOpts...)
		if err != nil {
			skipped++
			continue
		}
		markovReps = append(markovReps, rep.MarkovShare)
		shapleyReps = append(shapleyReps, rep.ShapleyShare)
		hybridReps = append(hybridReps, rep.HybridShare)
	}

	return summarize(point, markovReps, shapleyReps, hybridReps, b, skipped), nil
}

// DirichletRowwise runs the Dirichlet-rowwise UQ routine (spec.md
// §4.6.2): treats each row of counts (the raw, un-normalized pseudo-count
// matrix from transition.BuildCounts) plus a uniform prior as Dirichlet
// parameters, samples b alternate row-stochastic matrices directly
// (skipping path resampling and rebuilding entirely), and summarizes the
// resulting share distributions. CONVERSION and NULL rows are forced to
// their structural identity rows on every replicate, exactly as BuildT
// does for the point estimate.
func DirichletRowwise(counts *matrix.Dense, idx *state.Index, prior float64, seed int64, b int, solverOpts ...solver.Option) (*Result, error) {
	if b <= 0 {
		b = DefaultB
	}
	if prior < 0 {
		prior = DefaultDirichletPrior
	}

	pointT, err := transition.Normalize(counts)
	if err != nil {
		return nil, fmt.Errorf("uq.DirichletRowwise: %w", err)
	}
	transition.ForceAbsorbingIdentity(pointT, idx)
	point, err := solver.AttributeFromMatrix(pointT, idx, solverOpts...)
	if err != nil {
		return nil, fmt.Errorf("uq.DirichletRowwise: point estimate: %w", err)
	}

	r := rng.New(seed)
	var markovReps, shapleyReps, hybridReps []map[string]float64
	skipped := 0
	for b0 := 0; b0 < b; b0++ {
		sampledT, err := sampleDirichletMatrix(counts, idx, prior, r)
		if err != nil {
			return nil, fmt.Errorf("uq.DirichletRowwise: %w", err)
		}
		rep, err := solver.AttributeFromMatrix(sampledT, idx, solverOpts...)
		if err != nil {
			skipped++
			continue
		}
		markovReps = append(markovReps, rep.MarkovShare)
		shapleyReps = append(shapleyReps, rep.ShapleyShare)
		hybridReps = append(hybridReps, rep.HybridShare)
	}

	return summarize(point, markovReps, shapleyReps, hybridReps, b, skipped), nil
}

func resamplePaths(paths []pathbuilder.Path, r *rng.RNG) []pathbuilder.Path {
	n := len(paths)
	out := make([]pathbuilder.Path, n)
	for i := 0; i < n; i++ {
		j := int(r.Uniform() * float64(n))
		if j >= n {
			j = n - 1
		}
		out[i] = paths[j]
	}

	return out
}

// sampleDirichletMatrix draws one replicate row-stochastic matrix: each
// transient row i is Dirichlet(counts[i,:] + prior); CONVERSION and NULL
// rows are forced to identity (they are never resampled — the engine has
// no data to inform a distribution over terminal-state self-transitions).
func sampleDirichletMatrix(counts *matrix.Dense, idx *state.Index, prior float64, r *rng.RNG) (*matrix.Dense, error) {
	n := idx.Len()
	out, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		if i == idx.ConversionPos() || i == idx.NullPos() {
			continue // set by ForceAbsorbingIdentity below
		}
		alpha := make([]float64, n)
		for j := 0; j < n; j++ {
			v, _ := counts.At(i, j)
			alpha[j] = v + prior
		}
		row, err := r.Dirichlet(alpha)
		if err != nil {
			return nil, fmt.Errorf("sampleDirichletMatrix: row %d: %w", i, err)
		}
		for j, v := range row {
			_ = out.Set(i, j, v)
		}
	}
	transition.ForceAbsorbingIdentity(out, idx)

	return out, nil
}

func summarize(point *solver.Result, markovReps, shapleyReps, hybridReps []map[string]float64, b, skipped int) *Result {
	return &Result{
		Channels:      point.Channels,
		MarkovShare:   percentilesPerChannel(point.Channels, markovReps),
		ShapleyShare:  percentilesPerChannel(point.Channels, shapleyReps),
		HybridShare:   percentilesPerChannel(point.Channels, hybridReps),
		RankStability: rankStability(point.Channels, hybridReps),
		NumReplicates: len(hybridReps),
		NumSkipped:    skipped,
		Diagnostics:   diagnosticsOf(point.T, point.Idx),
	}
}

func percentilesPerChannel(channels []string, reps []map[string]float64) map[string]Percentiles {
	out := make(map[string]Percentiles, len(channels))
	for _, c := range channels {
		samples := make([]float64, len(reps))
		for i, rep := range reps {
			samples[i] = rep[c] // zero value if the replicate never observed c
		}
		out[c] = percentilesOf(samples)
	}

	return out
}

func percentilesOf(samples []float64) Percentiles {
	if len(samples) == 0 {
		return Percentiles{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	at := func(p int) float64 {
		idx := p * len(sorted) / 100
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return sorted[idx]
	}

	result := Percentiles{P05: at(5), P25: at(25), P50: at(50), P75: at(75), P95: at(95)}

	// Monotonicity enforcement: guards against the degenerate case where a
	// percentile ladder computed from a very small sample would otherwise
	// appear to decrease.
	if result.P25 < result.P05 {
		result.P25 = result.P05
	}
	if result.P50 < result.P25 {
		result.P50 = result.P25
	}
	if result.P75 < result.P50 {
		result.P75 = result.P50
	}
	if result.P95 < result.P75 {
		result.P95 = result.P75
	}

	return result
}

// rankStability reports, per channel, the fraction of replicates in which
// its descending-hybrid-share rank is first, and the fraction in which it
// is within the top two.
func rankStability(channels []string, reps []map[string]float64) map[string]RankStability {
	rank1 := make(map[string]int, len(channels))
	top2 := make(map[string]int, len(channels))
	for _, rep := range reps {
		repRank := rankOf(channels, rep)
		for _, c := range channels {
			if repRank[c] == 1 {
				rank1[c]++
			}
			if repRank[c] <= 2 {
				top2[c]++
			}
		}
	}

	out := make(map[string]RankStability, len(channels))
	for _, c := range channels {
		if len(reps) == 0 {
			out[c] = RankStability{}
			continue
		}
		out[c] = RankStability{
			Rank1: float64(rank1[c]) / float64(len(reps)),
			Top2:  float64(top2[c]) / float64(len(reps)),
		}
	}

	return out
}

// rankOf assigns each channel a 1-based rank by descending share, ties
// broken by ascending channel name for determinism.
func rankOf(channels []string, share map[string]float64) map[string]int {
	ordered := append([]string(nil), channels...)
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := share[ordered[i]], share[ordered[j]]
		if si != sj {
			return si > sj
		}
		return ordered[i] < ordered[j]
	})

	out := make(map[string]int, len(ordered))
	for i, c := range ordered {
		out[c] = i + 1
	}

	return out
}

func diagnosticsOf(t *matrix.Dense, idx *state.Index) Diagnostics {
	n := idx.Len()
	var maxAbsErr, minEntry, maxEntry float64
	minEntry = 1
	for i := 0; i < n; i++ {
		sum := t.RowSum(i)
		if sum > 0 {
			if d := abs(sum - 1.0); d > maxAbsErr {
				maxAbsErr = d
			}
		}
		for j := 0; j < n; j++ {
			v, _ := t.At(i, j)
			if v < minEntry {
				minEntry = v
			}
			if v > maxEntry {
				maxEntry = v
			}
		}
	}

	return Diagnostics{RowStochasticMaxAbsError: maxAbsErr, MinEntry: minEntry, MaxEntry: maxEntry}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
