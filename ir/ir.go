package ir

import (
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/attribution/solver"
)

// Version is the ir_version stamped on every Document emitted by this
// build of the engine. Bump it whenever a field is added, renamed, or
// removed — never reuse a version number for an incompatible schema.
const Version = "1.0.0"

// Model describes the channel universe and state order a Document's
// transition matrix is defined over.
type Model struct {
	Name     string   `json:"name"`
	States   []string `json:"states"`
	Channels []string `json:"channels"`
}

// ShareBlock carries one attribution method's per-channel share (summing
// to 1.0) and monetary value (summing to total_conversion_value).
type ShareBlock struct {
	Share map[string]float64 `json:"share"`
	Value map[string]float64 `json:"value"`
}

// Notes documents the privacy posture of the artifact: it never embeds
// raw events or any caller-supplied identifier (user_id, session_id,
// fingerprint), only aggregate channel-level statistics.
type Notes struct {
	NoRawEvents   bool   `json:"no_raw_events"`
	NoIdentifiers bool   `json:"no_identifiers"`
	GeneratedAt   string `json:"generated_at"`
}

// Document is the versioned attribution output artifact (spec.md §5).
type Document struct {
	IRVersion            string             `json:"ir_version"`
	Model                Model              `json:"model"`
	TransitionMatrix     [][]float64        `json:"transition_matrix"`
	Markov               ShareBlock         `json:"markov"`
	Shapley              ShareBlock         `json:"shapley"`
	Hybrid               ShareBlock         `json:"hybrid"`
	Alpha                float64            `json:"alpha"`
	TotalConversionValue float64            `json:"total_conversion_value"`
	PsychographicWeights map[string]float64 `json:"psychographic_weights,omitempty"`
	NumPaths             int                `json:"num_paths"`
	NumConversions       int                `json:"num_conversions"`
	ConversionRate       float64            `json:"conversion_rate"`
	Notes                Notes              `json:"notes"`
}

// BuildDocument assembles a Document from a solver.Result. modelName
// identifies the run in downstream dashboards/log correlation; it carries
// no semantic weight for the engine itself.
func BuildDocument(result *solver.Result, modelName string, generatedAt time.Time) *Document {
	return &Document{
		IRVersion: Version,
		Model: Model{
			Name:     modelName,
			States:   result.Idx.Names(),
			Channels: result.Channels,
		},
		TransitionMatrix:     denseToRows(result.T),
		Markov:               ShareBlock{Share: result.MarkovShare, Value: result.MarkovValue},
		Shapley:              ShareBlock{Share: result.ShapleyShare, Value: result.ShapleyValue},
		Hybrid:               ShareBlock{Share: result.HybridShare, Value: result.HybridValue},
		Alpha:                result.Alpha,
		TotalConversionValue: result.TotalConversionValue,
		PsychographicWeights: result.Weights,
		NumPaths:             result.NumPaths,
		NumConversions:       result.NumConversions,
		ConversionRate:       result.ConversionRate,
		Notes: Notes{
			NoRawEvents:   true,
			NoIdentifiers: true,
			GeneratedAt:   generatedAt.UTC().Format(time.RFC3339),
		},
	}
}

func denseToRows(m interface {
	Rows() int
	Cols() int
	At(int, int) (float64, error)
}) [][]float64 {
	rows := make([][]float64, m.Rows())
	for i := range rows {
		row := make([]float64, m.Cols())
		for j := range row {
			v, _ := m.At(i, j)
			row[j] = v
		}
		rows[i] = row
	}

	return rows
}

// RobustnessArtifactType enumerates the kinds of robustness analysis
// output this package can wrap.
type RobustnessArtifactType string

const (
	ArtifactPathBootstrap    RobustnessArtifactType = "uq_bootstrap"
	ArtifactDirichletRowwise RobustnessArtifactType = "uq_transition_dirichlet"
	ArtifactAlphaSweep       RobustnessArtifactType = "sensitivity_alpha"
	ArtifactLambdaSweep      RobustnessArtifactType = "sensitivity_lambda"
)

// RobustnessArtifact wraps one UQ or sensitivity routine's output with
// the metadata needed to correlate it back to a specific run in logs: a
// type tag, the schema version, the seed that produced it (0 for
// deterministic sweeps with no RNG), and a fresh run_id.
type RobustnessArtifact struct {
	Type        RobustnessArtifactType `json:"type"`
	Version     string                 `json:"version"`
	Seed        int64                  `json:"seed"`
	RunID       string                 `json:"run_id"`
	GeneratedAt string                 `json:"generated_at"`
	Payload     interface{}            `json:"payload"`
}

// NewRobustnessArtifact builds a RobustnessArtifact, stamping a fresh
// run_id via uuid.NewString().
func NewRobustnessArtifact(artifactType RobustnessArtifactType, seed int64, payload interface{}, generatedAt time.Time) *RobustnessArtifact {
	return &RobustnessArtifact{
		Type:        artifactType,
		Version:     Version,
		Seed:        seed,
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Payload:     payload,
	}
}
