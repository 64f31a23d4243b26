package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a configured zerolog.Logger: human-readable console output
// at DebugLevel when env == "development", InfoLevel otherwise.
func New(env string) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	lvl := zerolog.InfoLevel
	if env == "development" {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(out).With().Timestamp().Logger()
}

// RunFields returns the common log fields every attribution run should
// attach: a run_id for correlating the Document with its RobustnessArtifacts,
// and the channel count that drove the Shapley guardrail decision.
func RunFields(e *zerolog.Event, runID string, numChannels int) *zerolog.Event {
	return e.Str("run_id", runID).Int("num_channels", numChannels)
}
