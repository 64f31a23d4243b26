package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/attribution/cfe"
	"github.com/katalvlaran/attribution/events"
	"github.com/katalvlaran/attribution/matrix"
	"github.com/katalvlaran/attribution/pathbuilder"
	"github.com/katalvlaran/attribution/state"
	"github.com/katalvlaran/attribution/transition"
)

// ShareTolerance is the allowed deviation of a share map's sum from 1.0
// (spec.md §4.4's sum-to-one invariant).
const ShareTolerance = 1e-6

// ValueTolerance is the allowed deviation of a value map's sum from the
// total conversion value (spec.md §4.5's monetary conservation invariant).
const ValueTolerance = 1.0

var (
	// ErrTooManyChannels indicates the observed channel count exceeds the
	// exact-Shapley guardrail; callers must reduce cardinality (e.g. bucket
	// long-tail channels) before calling Attribute.
	ErrTooManyChannels = errors.New("solver: channel count exceeds exact Shapley guardrail")

	// ErrInvariantViolated is fatal: it indicates an internal computation
	// defect (share or monetary conservation failed), never a user input
	// problem, and must never be silently swallowed by a caller.
	ErrInvariantViolated = errors.New("solver: output invariant violated")
)

// Result is the full output of one Attribute call: per-channel Markov,
// Shapley, and hybrid shares and monetary values, plus the model
// artifacts (T, Index) needed to report or re-run UQ/sensitivity analysis.
type Result struct {
	Channels []string
	T        *matrix.Dense
	Idx      *state.Index

	MarkovShare  map[string]float64
	ShapleyShare map[string]float64
	HybridShare  map[string]float64

	MarkovValue  map[string]float64
	ShapleyValue map[string]float64
	HybridValue  map[string]float64

	Alpha                float64
	Weights              map[string]float64
	TotalConversionValue float64
	NumPaths             int
	NumConversions       int
	ConversionRate       float64
}

// Attribute runs the full pipeline: validate -> build paths -> build T ->
// compute Markov removal effects and exact Shapley values -> blend ->
// check invariants.
func Attribute(evs []events.Event, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if err := events.ValidateAll(evs); err != nil {
		return nil, fmt.Errorf("solver.Attribute: %w", err)
	}

	sessionGap := cfg.sessionGap
	if sessionGap <= 0 {
		sessionGap = pathbuilder.DefaultSessionGap
	}
	paths := pathbuilder.BuildPaths(evs, sessionGap)

	result, err := attributeFromPaths(paths, cfg)
	if err != nil {
		return nil, fmt.Errorf("solver.Attribute: %w", err)
	}
	result.TotalConversionValue = sumConversionValue(evs)
	result.MarkovValue = scaleShares(result.MarkovShare, result.TotalConversionValue)
	result.ShapleyValue = scaleShares(result.ShapleyShare, result.TotalConversionValue)
	result.HybridValue = scaleShares(result.HybridShare, result.TotalConversionValue)

	if err := checkInvariants(result); err != nil {
		return nil, err
	}

	return result, nil
}

// AttributeFromPaths runs the same pipeline as Attribute but starting from
// already-built paths, skipping event validation and session splitting.
// The UQ path-bootstrap routine (spec.md §4.6.1) uses this to re-run the
// solver on each resample without re-deriving sessions from raw events,
// and it never needs a monetary total (bootstrap replicates compare
// shares, not dollar values), so TotalConversionValue/*Value are left
// zero on the returned Result.
func AttributeFromPaths(paths []pathbuilder.Path, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	result, err := attributeFromPaths(paths, cfg)
	if err != nil {
		return nil, fmt.Errorf("solver.AttributeFromPaths: %w", err)
	}

	return result, nil
}

func attributeFromPaths(paths []pathbuilder.Path, cfg config) (*Result, error) {
	if len(paths) == 0 {
		// spec.md §7 EmptyInput: zero paths is non-fatal. Report an empty
		// result rather than erroring, so a caller with a quiet window can
		// still emit a valid (zeroed) IR document.
		return &Result{
			Channels:     []string{},
			MarkovShare:  map[string]float64{},
			ShapleyShare: map[string]float64{},
			HybridShare:  map[string]float64{},
			MarkovValue:  map[string]float64{},
			ShapleyValue: map[string]float64{},
			HybridValue:  map[string]float64{},
			Alpha:        cfg.alpha,
			Weights:      cfg.weights,
		}, nil
	}

	t, idx, err := transition.BuildT(paths, cfg.weights)
	if err != nil {
		return nil, err
	}

	result, err := attributeFromMatrix(t, idx, cfg)
	if err != nil {
		return nil, err
	}
	numConversions := countConversions(paths)
	result.NumPaths = len(paths)
	result.NumConversions = numConversions
	result.ConversionRate = float64(numConversions) / float64(len(paths))

	if err := checkInvariants(result); err != nil {
		return nil, err
	}

	return result, nil
}

// AttributeFromMatrix runs Markov/Shapley/hybrid attribution directly on a
// pre-built row-stochastic matrix, skipping path construction entirely.
// The Dirichlet-rowwise UQ routine (spec.md §4.6.2) uses this to evaluate
// each sampled replicate T without re-deriving it from paths; NumPaths,
// NumConversions and the monetary value maps are left zero since no path
// or conversion-value data is available at this layer.
func AttributeFromMatrix(t *matrix.Dense, idx *state.Index, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	result, err := attributeFromMatrix(t, idx, cfg)
	if err != nil {
		return nil, fmt.Errorf("solver.AttributeFromMatrix: %w", err)
	}
	if err := checkInvariants(result); err != nil {
		return nil, err
	}

	return result, nil
}

func attributeFromMatrix(t *matrix.Dense, idx *state.Index, cfg config) (*Result, error) {
	if idx.NumChannels() > cfg.shapleyMaxChannels {
		return nil, fmt.Errorf("%d channels > %d: %w", idx.NumChannels(), cfg.shapleyMaxChannels, ErrTooManyChannels)
	}

	ev := cfe.NewEvaluator(t, idx)
	channels := idx.Channels()

	markovValue, err := markovRemovalEffects(ev, channels)
	if err != nil {
		return nil, err
	}
	shapleyValue, err := exactShapley(ev, channels)
	if err != nil {
		return nil, err
	}

	markovShare := normalizeToShares(markovValue)
	shapleyShare := normalizeToShares(shapleyValue)
	hybridShare := blend(markovShare, shapleyShare, cfg.alpha)

	return &Result{
		Channels:     channels,
		T:            t,
		Idx:          idx,
		MarkovShare:  markovShare,
		ShapleyShare: shapleyShare,
		HybridShare:  hybridShare,
		Alpha:        cfg.alpha,
		Weights:      cfg.weights,
	}, nil
}

// markovRemovalEffects computes removalEffect[c] = v(N) - v(N\{c}) for
// every channel c (spec.md §4.4).
func markovRemovalEffects(ev *cfe.Evaluator, channels []string) (map[string]float64, error) {
	full := ev.FullCoalition()
	vFull, err := ev.Evaluate(full)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(channels))
	for _, c := range channels {
		bit, err := ev.BitOf(c)
		if err != nil {
			return nil, err
		}
		without := full &^ (1 << uint(bit))
		vWithout, err := ev.Evaluate(without)
		if err != nil {
			return nil, err
		}
		effect := vFull - vWithout
		if effect < 0 {
			effect = 0 // numerical noise only; removal can never increase v(N)
		}
		out[c] = effect
	}

	return out, nil
}

// exactShapley computes the exact Shapley value of every channel via
// bitmask coalition enumeration over the other channels (spec.md §4.4,
// §9's bitset redesign note): for each channel c, every subset S of
// N\{c} contributes weight(|S|) * (v(S∪{c}) - v(S)).
func exactShapley(ev *cfe.Evaluator, channels []string) (map[string]float64, error) {
	n := len(channels)
	full := ev.FullCoalition()
	fact := factorials(n)

	out := make(map[string]float64, n)
	for _, c := range channels {
		bit, err := ev.BitOf(c)
		if err != nil {
			return nil, err
		}
		cBit := uint16(1 << uint(bit))
		others := full &^ cBit

		var value float64
		sub := others
		for {
			size := popcount(sub)
			weight := fact[size] * fact[n-size-1] / fact[n]

			vWith, err := ev.Evaluate(sub | cBit)
			if err != nil {
				return nil, err
			}
			vWithout, err := ev.Evaluate(sub)
			if err != nil {
				return nil, err
			}
			value += weight * (vWith - vWithout)

			if sub == 0 {
				break
			}
			sub = (sub - 1) & others
		}
		out[c] = value
	}

	return out, nil
}

func popcount(mask uint16) int {
	count := 0
	for mask != 0 {
		count++
		mask &= mask - 1
	}

	return count
}

// factorials returns fact[k] = k! for k in [0,n], as float64 (exact for
// n <= 20, well within the shapleyMaxChannels guardrail).
func factorials(n int) []float64 {
	fact := make([]float64, n+1)
	fact[0] = 1
	for k := 1; k <= n; k++ {
		fact[k] = fact[k-1] * float64(k)
	}

	return fact
}

// normalizeToShares divides each value by the sum of all values, yielding
// a map that sums to 1.0 within ShareTolerance. An all-zero input (no
// channel ever contributed to a conversion) yields a uniform share.
func normalizeToShares(values map[string]float64) map[string]float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	out := make(map[string]float64, len(values))
	if sum <= 0 {
		uniform := 0.0
		if len(values) > 0 {
			uniform = 1.0 / float64(len(values))
		}
		for c := range values {
			out[c] = uniform
		}

		return out
	}

	for c, v := range values {
		out[c] = v / sum
	}

	return out
}

// blend computes hybrid = alpha*markov + (1-alpha)*shapley per channel.
func blend(markov, shapley map[string]float64, alpha float64) map[string]float64 {
	out := make(map[string]float64, len(markov))
	for c := range markov {
		out[c] = alpha*markov[c] + (1-alpha)*shapley[c]
	}

	return out
}

// scaleShares multiplies each share by total, producing a monetary value map.
func scaleShares(shares map[string]float64, total float64) map[string]float64 {
	out := make(map[string]float64, len(shares))
	for c, s := range shares {
		out[c] = s * total
	}

	return out
}

func sumConversionValue(evs []events.Event) float64 {
	var total float64
	for _, e := range evs {
		total += e.ConversionValue
	}

	return total
}

func countConversions(paths []pathbuilder.Path) int {
	count := 0
	for _, p := range paths {
		if p.Terminal() == state.Conversion {
			count++
		}
	}

	return count
}

// checkInvariants verifies the sum-to-one and monetary-conservation
// invariants on every share/value map in result.
func checkInvariants(result *Result) error {
	for name, shares := range map[string]map[string]float64{
		"markov":  result.MarkovShare,
		"shapley": result.ShapleyShare,
		"hybrid":  result.HybridShare,
	} {
		var sum float64
		for _, s := range shares {
			sum += s
		}
		if len(shares) > 0 && math.Abs(sum-1.0) > ShareTolerance {
			return fmt.Errorf("solver.Attribute: %s shares sum to %g: %w", name, sum, ErrInvariantViolated)
		}
	}

	if result.TotalConversionValue > 0 {
		for name, values := range map[string]map[string]float64{
			"markov":  result.MarkovValue,
			"shapley": result.ShapleyValue,
			"hybrid":  result.HybridValue,
		} {
			var sum float64
			for _, v := range values {
				sum += v
			}
			if math.Abs(sum-result.TotalConversionValue) > ValueTolerance {
				return fmt.Errorf("solver.Attribute: %s values sum to %g, want %g: %w", name, sum, result.TotalConversionValue, ErrInvariantViolated)
			}
		}
	}

	return nil
}
