package state

import (
	"errors"
	"fmt"
	"sort"
)

// Reserved state names. A channel carrying any of these is invalid input
// (see events.ErrReservedChannel) — the engine never observes a
// user-supplied channel equal to a sentinel.
const (
	Start      = "START"
	Conversion = "CONVERSION"
	Null       = "NULL"
)

// ErrUnknownState indicates a lookup for a name absent from the index.
var ErrUnknownState = errors.New("state: unknown state name")

// Index is the stable total order over {START, channels..., CONVERSION, NULL}
// used as row/column indices by every dense matrix in the engine.
//
// Ordering (fixed by spec): START first, then channels in ascending
// lexicographic order, then CONVERSION, then NULL.
type Index struct {
	names    []string
	pos      map[string]int
	channels []string // the channel slice only, in the same ascending order
}

// NewIndex builds a canonical Index from an arbitrary (possibly unsorted,
// possibly duplicated) set of observed channel names.
// Complexity: O(n log n) for the sort.
func NewIndex(channels []string) *Index {
	seen := make(map[string]struct{}, len(channels))
	uniq := make([]string, 0, len(channels))
	for _, c := range channels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	sort.Strings(uniq)

	names := make([]string, 0, len(uniq)+3)
	names = append(names, Start)
	names = append(names, uniq...)
	names = append(names, Conversion, Null)

	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}

	return &Index{names: names, pos: pos, channels: uniq}
}

// Len returns the total number of states (channels + 3 sentinels).
func (idx *Index) Len() int { return len(idx.names) }

// Names returns the canonical state order. The returned slice must not be
// mutated by callers.
func (idx *Index) Names() []string { return idx.names }

// Channels returns the channel-only slice (no sentinels), in canonical
// ascending order. The returned slice must not be mutated by callers.
func (idx *Index) Channels() []string { return idx.channels }

// NumChannels returns len(Channels()).
func (idx *Index) NumChannels() int { return len(idx.channels) }

// PosOf returns the row/column index of name, or ErrUnknownState.
func (idx *Index) PosOf(name string) (int, error) {
	p, ok := idx.pos[name]
	if !ok {
		return 0, fmt.Errorf("PosOf(%q): %w", name, ErrUnknownState)
	}
	return p, nil
}

// MustPosOf is PosOf but panics on an unknown name; only safe to call with
// names already known to originate from this same Index (e.g. its own
// Names()/Channels() slices), never with caller-supplied strings.
func (idx *Index) MustPosOf(name string) int {
	p, err := idx.PosOf(name)
	if err != nil {
		panic(err)
	}
	return p
}

// StartPos, ConversionPos and NullPos are convenience accessors for the
// three sentinel positions, all O(1) map lookups.
func (idx *Index) StartPos() int      { return idx.pos[Start] }
func (idx *Index) ConversionPos() int { return idx.pos[Conversion] }
func (idx *Index) NullPos() int       { return idx.pos[Null] }
