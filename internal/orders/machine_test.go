package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttemptTransitionAccepted(t *testing.T) {
	o := &Order{ID: "o1", Status: StatusPending, Version: 4}
	res, err := AttemptTransition(o, StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, StatusPending, res.From)
	require.Equal(t, StatusConfirmed, res.To)
	require.Equal(t, int64(4), res.ExpectedVersion)
}

func TestAttemptTransitionRejectsNoOp(t *testing.T) {
	o := &Order{Status: StatusConfirmed}
	_, err := AttemptTransition(o, StatusConfirmed)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAttemptTransitionRejectsFromTerminal(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusCancelled} {
		o := &Order{Status: s}
		_, err := AttemptTransition(o, StatusPending)
		require.ErrorIs(t, err, ErrIllegalTransition, "from %s", s)
	}
}

func TestAttemptTransitionRejectsOffMatrix(t *testing.T) {
	o := &Order{Status: StatusReadyForDelivery}
	_, err := AttemptTransition(o, StatusDelivered) // skipping IT
	require.ErrorIs(t, err, ErrIllegalTransition)
}
