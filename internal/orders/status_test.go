package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusDelivered.Terminal())
	require.True(t, StatusCancelled.Terminal())

	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProduction, StatusReadyForDelivery, StatusInTransit} {
		require.False(t, s.Terminal(), "status %s must not be terminal", s)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusReadyForDelivery, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusInTransit, false},
		{StatusInProduction, StatusReadyForDelivery, true},
		{StatusReadyForDelivery, StatusInTransit, true},
		{StatusReadyForDelivery, StatusDelivered, false}, // must pass through IT
		{StatusInTransit, StatusDelivered, true},
		{StatusInTransit, StatusCancelled, true},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestNoTransitionsOutOfTerminal(t *testing.T) {
	require.Empty(t, NextStatuses(StatusDelivered))
	require.Empty(t, NextStatuses(StatusCancelled))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProduction,
		StatusReadyForDelivery, StatusInTransit, StatusDelivered, StatusCancelled} {
		require.True(t, s.Valid())
	}
	require.False(t, Status("XX").Valid())
	require.False(t, Status("").Valid())
}

func TestDisplayNames(t *testing.T) {
	require.Equal(t, "Ready for Delivery", StatusReadyForDelivery.DisplayName())
	require.Equal(t, "In Transit", StatusInTransit.DisplayName())
	// unknown codes fall back to the code itself
	require.Equal(t, "XX", Status("XX").DisplayName())
}
