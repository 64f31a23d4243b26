package events_test

import (
	"testing"

	"github.com/katalvlaran/attribution/events"
	"github.com/stretchr/testify/require"
)

func TestValidate_ReservedChannel(t *testing.T) {
	t.Parallel()

	e := events.Event{Channel: "CONVERSION"}
	require.ErrorIs(t, e.Validate(), events.ErrReservedChannel)
}

func TestValidate_EmptyChannel(t *testing.T) {
	t.Parallel()

	e := events.Event{Channel: ""}
	require.ErrorIs(t, e.Validate(), events.ErrEmptyChannel)
}

func TestValidate_NegativeConversionValue(t *testing.T) {
	t.Parallel()

	e := events.Event{Channel: "Email", ConversionValue: -1}
	require.ErrorIs(t, e.Validate(), events.ErrNegativeConversionValue)
}

func TestValidate_HappyPath(t *testing.T) {
	t.Parallel()

	e := events.Event{Channel: "Email", ConversionValue: 10}
	require.NoError(t, e.Validate())
}

func TestEffectiveContextKey_DefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	e := events.Event{Channel: "Email"}
	require.Equal(t, events.DefaultContextKey, e.EffectiveContextKey())

	e.ContextKey = "high_intent_visitor"
	require.Equal(t, "high_intent_visitor", e.EffectiveContextKey())
}

func TestValidateAll_ReportsIndex(t *testing.T) {
	t.Parallel()

	evs := []events.Event{
		{Channel: "Email"},
		{Channel: "NULL"},
	}
	err := events.ValidateAll(evs)
	require.Error(t, err)
	require.ErrorIs(t, err, events.ErrReservedChannel)
}
