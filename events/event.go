package events

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/attribution/state"
)

// DefaultContextKey is used when an Event carries no context_key.
const DefaultContextKey = "unknown_context"

// Sentinel errors for event validation. Callers branch on these via
// errors.Is; the engine itself never panics on malformed input.
var (
	// ErrReservedChannel indicates Channel collides with a sentinel state name.
	ErrReservedChannel = errors.New("events: channel name is reserved")

	// ErrEmptyChannel indicates an empty Channel field.
	ErrEmptyChannel = errors.New("events: channel must not be empty")

	// ErrNegativeConversionValue indicates ConversionValue < 0.
	ErrNegativeConversionValue = errors.New("events: conversion value must be >= 0")
)

// Event is one normalized touchpoint. Events are immutable once
// constructed — nothing in this module mutates a value received by value.
type Event struct {
	Timestamp        float64 // monotone, seconds or ms; unit is caller-consistent
	Channel          string
	ContextKey       string
	ConversionValue  float64
	UserID           string
	SessionID        string
	Fingerprint      string
	OSVersion        string
	TimezoneOffset   int
}

// Validate checks the single-event invariants from spec.md §3: a
// non-empty, non-reserved Channel and a non-negative ConversionValue. It
// does NOT check the "terminal without positive conversion value" cross-
// session rule (§9 open question), and neither does pathbuilder: it ends
// any session holding a positive ConversionValue at CONVERSION.
func (e Event) Validate() error {
	if e.Channel == "" {
		return ErrEmptyChannel
	}
	switch e.Channel {
	case state.Start, state.Conversion, state.Null:
		return fmt.Errorf("Validate(%q): %w", e.Channel, ErrReservedChannel)
	}
	if e.ConversionValue < 0 {
		return fmt.Errorf("Validate(%q): %w", e.Channel, ErrNegativeConversionValue)
	}

	return nil
}

// EffectiveContextKey returns ContextKey, or DefaultContextKey if empty.
func (e Event) EffectiveContextKey() string {
	if e.ContextKey == "" {
		return DefaultContextKey
	}

	return e.ContextKey
}

// ValidateAll validates every event in evs and returns the first error
// encountered, wrapped with its index for diagnosability.
func ValidateAll(evs []Event) error {
	for i, e := range evs {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	return nil
}
