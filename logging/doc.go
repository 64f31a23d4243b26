// Package logging constructs the engine's structured logger. Logging
// lives only at the edges — solver, cfe, uq, and sensitivity are pure
// functions over their inputs and never log — so this package exists
// solely for cmd-level and example callers that want a consistent
// zerolog.Logger across a run.
package logging
