package sensitivity

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/solver"
	"github.com/katalvlaran/attribution/transition"
)

// DefaultAlphaGrid is the 21-point grid [0, 0.05, 0.10, ..., 1.0]
// (spec.md §4.7).
var DefaultAlphaGrid = buildAlphaGrid()

func buildAlphaGrid() []float64 {
	grid := make([]float64, 21)
	for i := range grid {
		grid[i] = float64(i) * 0.05
	}

	return grid
}

// DefaultLambdaGrid is the default weight-scaling grid (spec.md §4.7).
var DefaultLambdaGrid = []float64{0, 0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Sensitivity labels how much a channel's hybrid share moves across a
// sweep, relative to its mean share over the grid.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// relativeRangeThresholds: below lowThreshold is "low", below
// mediumThreshold is "medium", otherwise "high". Chosen so a channel
// whose share barely moves across the full grid (less than a twentieth
// of its own mean) reads as stable, and one that swings by a fifth of its
// own mean or more reads as high-sensitivity.
const (
	lowThreshold    = 0.05
	mediumThreshold = 0.20
)

// RankStability reports, per channel, the fraction of grid points at
// which the channel's descending-hybrid-share rank placed it first
// (Rank1) or within the top two (Top2) (spec.md §4.7).
type RankStability struct {
	Rank1 float64
	Top2  float64
}

// ChannelSeries is one channel's hybrid share at every grid point, plus
// summary statistics over the series.
type ChannelSeries struct {
	Values         []float64
	Min, Max, Mean float64
	RelativeRange  float64
	Sensitivity    Sensitivity
	RankStability  RankStability
}

// AlphaSweepResult is the output of AlphaSweep.
type AlphaSweepResult struct {
	Grid     []float64
	Channels []string
	Series   map[string]ChannelSeries
}

// LambdaSweepResult is the output of LambdaSweep.
type LambdaSweepResult struct {
	Grid     []float64
	Channels []string
	Series   map[string]ChannelSeries
}

// AlphaSweep computes Markov and Shapley shares once (they are
// alpha-independent) and rescans the hybrid blend across grid. A nil
// grid uses DefaultAlphaGrid.
func AlphaSweep(paths []pathbuilder.Path, grid []float64, solverOpts ...solver.Option) (*AlphaSweepResult, error) {
	if grid == nil {
		grid = DefaultAlphaGrid
	}

	base, err := solver.AttributeFromPaths(paths, solverOpts...)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.AlphaSweep: %w", err)
	}

	valuesByChannel := make(map[string][]float64, len(base.Channels))
	for _, c := range base.Channels {
		values := make([]float64, len(grid))
		for i, alpha := range grid {
			values[i] = alpha*base.MarkovShare[c] + (1-alpha)*base.ShapleyShare[c]
		}
		valuesByChannel[c] = values
	}
	rankStability := rankStabilityAcrossGrid(base.Channels, valuesByChannel)

	series := make(map[string]ChannelSeries, len(base.Channels))
	for _, c := range base.Channels {
		s := summarizeSeries(valuesByChannel[c])
		s.RankStability = rankStability[c]
		series[c] = s
	}

	return &AlphaSweepResult{Grid: grid, Channels: base.Channels, Series: series}, nil
}

// LambdaSweep reruns the full solver at every lambda in grid, rescaling
// every observed context key's weight via w'(k) = 1 + lambda*(w(k)-1)
// before rebuilding T. A nil grid uses DefaultLambdaGrid; alpha fixes the
// hybrid blend used to report the series.
func LambdaSweep(paths []pathbuilder.Path, grid []float64, weights map[string]float64, alpha float64, solverOpts ...solver.Option) (*LambdaSweepResult, error) {
	if grid == nil {
		grid = DefaultLambdaGrid
	}

	keys := distinctContextKeys(paths)

	var channels []string
	values := make(map[string][]float64)
	for _, lambda := range grid {
		scaled := make(map[string]float64, len(keys))
		for _, k := range keys {
			base := transition.WeightOf(weights, k)
			scaled[k] = 1 + lambda*(base-1)
		}

		opts := append(append([]solver.Option{}, solverOpts...), solver.WithWeights(scaled), solver.WithAlpha(alpha))
		result, err := solver.AttributeFromPaths(paths, opts...)
		if err != nil {
			return nil, fmt.Errorf("sensitivity.LambdaSweep: lambda=%g: %w", lambda, err)
		}
		if channels == nil {
			channels = result.Channels
		}
		for _, c := range channels {
			values[c] = append(values[c], result.HybridShare[c])
		}
	}

	rankStability := rankStabilityAcrossGrid(channels, values)

	series := make(map[string]ChannelSeries, len(channels))
	for _, c := range channels {
		s := summarizeSeries(values[c])
		s.RankStability = rankStability[c]
		series[c] = s
	}

	return &LambdaSweepResult{Grid: grid, Channels: channels, Series: series}, nil
}

// distinctContextKeys returns every non-sentinel node's context key
// observed across paths, in first-seen order.
func distinctContextKeys(paths []pathbuilder.Path) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range paths {
		for _, n := range p.Nodes {
			if n.ContextKey == "" {
				continue
			}
			if _, ok := seen[n.ContextKey]; !ok {
				seen[n.ContextKey] = struct{}{}
				out = append(out, n.ContextKey)
			}
		}
	}

	return out
}

func summarizeSeries(values []float64) ChannelSeries {
	if len(values) == 0 {
		return ChannelSeries{}
	}

	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	var relRange float64
	if mean > 0 {
		relRange = (max - min) / mean
	}

	sensitivity := SensitivityHigh
	switch {
	case relRange < lowThreshold:
		sensitivity = SensitivityLow
	case relRange < mediumThreshold:
		sensitivity = SensitivityMedium
	}

	return ChannelSeries{
		Values:        values,
		Min:           min,
		Max:           max,
		Mean:          mean,
		RelativeRange: relRange,
		Sensitivity:   sensitivity,
	}
}

// rankStabilityAcrossGrid reports, per channel, the fraction of grid
// points at which its descending-hybrid-share rank among channels was
// first, and the fraction at which it was in the top two.
func rankStabilityAcrossGrid(channels []string, valuesByChannel map[string][]float64) map[string]RankStability {
	gridLen := 0
	for _, c := range channels {
		gridLen = len(valuesByChannel[c])
		break
	}

	rank1 := make(map[string]int, len(channels))
	top2 := make(map[string]int, len(channels))
	for g := 0; g < gridLen; g++ {
		pointShare := make(map[string]float64, len(channels))
		for _, c := range channels {
			pointShare[c] = valuesByChannel[c][g]
		}
		ranked := rankOf(channels, pointShare)
		for _, c := range channels {
			if ranked[c] == 1 {
				rank1[c]++
			}
			if ranked[c] <= 2 {
				top2[c]++
			}
		}
	}

	out := make(map[string]RankStability, len(channels))
	for _, c := range channels {
		if gridLen == 0 {
			out[c] = RankStability{}
			continue
		}
		out[c] = RankStability{
			Rank1: float64(rank1[c]) / float64(gridLen),
			Top2:  float64(top2[c]) / float64(gridLen),
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
