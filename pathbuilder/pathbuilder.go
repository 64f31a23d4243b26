package pathbuilder

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/katalvlaran/attribution/events"
	"github.com/katalvlaran/attribution/state"
)

// DefaultSessionGap is the default inactivity threshold (45 minutes) that
// splits a user's events into separate sessions. spec.md §9 fixes this
// value; the source material disagreed between 45 and 30 minutes.
const DefaultSessionGap = 45 * time.Minute

// Node is one (channel, context_key) touchpoint inside a Path. START and
// the terminal state are represented with an empty ContextKey — only
// real touchpoints carry a psychographic context.
type Node struct {
	Channel    string
	ContextKey string
}

// Path is an ordered sequence of Nodes: [START] + touchpoints + [terminal].
type Path struct {
	Nodes []Node
}

// Terminal returns the last node's channel, i.e. state.Conversion or
// state.Null. Panics only if Nodes is empty, which BuildPaths never
// produces.
func (p Path) Terminal() string {
	return p.Nodes[len(p.Nodes)-1].Channel
}

// groupKey computes the grouping identity for an event: the first
// available of user_id, session_id, fingerprint, in that order, or a
// synthesized fingerprint from os_version+timezone_offset.
func groupKey(e events.Event) string {
	if e.UserID != "" {
		return "uid:" + e.UserID
	}
	if e.SessionID != "" {
		return "sid:" + e.SessionID
	}
	if e.Fingerprint != "" {
		return "fp:" + e.Fingerprint
	}

	// Synthesize a stable non-cryptographic fingerprint from the only two
	// remaining identity-adjacent fields.
	h := xxhash.New()
	_, _ = h.WriteString(e.OSVersion)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.Itoa(e.TimezoneOffset))

	return fmt.Sprintf("synth:%x", h.Sum64())
}

// BuildPaths groups events into sessions and converts each session into a
// Path. Events are assumed already validated (events.ValidateAll); this
// function does not re-validate channel names.
//
// Algorithm (spec.md §4.1):
//  1. Group by groupKey.
//  2. Within each group, stable-sort by Timestamp ascending.
//  3. Split into sessions wherever the gap between consecutive events
//     exceeds sessionGap.
//  4. Emit [START] + nodes + [CONVERSION|NULL], CONVERSION iff any event
//     in the session has ConversionValue > 0.
//
// An empty input yields an empty, non-nil path list. Timestamp deltas are
// compared directly against sessionGap.Seconds(), so callers must supply
// Event.Timestamp in seconds to match the default 2700s session gap.
// Complexity: O(n log n) for the grouping sort.
func BuildPaths(evs []events.Event, sessionGap time.Duration) []Path {
	if len(evs) == 0 {
		return []Path{}
	}
	if sessionGap <= 0 {
		sessionGap = DefaultSessionGap
	}

	groups := make(map[string][]events.Event, len(evs))
	order := make([]string, 0) // first-seen group order, for determinism
	for _, e := range evs {
		k := groupKey(e)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	var paths []Path
	for _, k := range order {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp < group[j].Timestamp
		})

		sessGapSeconds := sessionGap.Seconds()
		start := 0
		for i := 1; i <= len(group); i++ {
			if i < len(group) && (group[i].Timestamp-group[i-1].Timestamp) <= sessGapSeconds {
				continue
			}
			paths = append(paths, sessionToPath(group[start:i]))
			start = i
		}
	}

	if paths == nil {
		paths = []Path{}
	}

	return paths
}

func sessionToPath(session []events.Event) Path {
	nodes := make([]Node, 0, len(session)+2)
	nodes = append(nodes, Node{Channel: state.Start})

	terminal := state.Null
	for _, e := range session {
		nodes = append(nodes, Node{Channel: e.Channel, ContextKey: e.EffectiveContextKey()})
		if e.ConversionValue > 0 {
			terminal = state.Conversion
		}
	}
	nodes = append(nodes, Node{Channel: terminal})

	return Path{Nodes: nodes}
}
