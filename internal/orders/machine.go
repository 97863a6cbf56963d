package orders

// TransitionResult is an accepted transition: the status to write and the
// version the write must be conditioned on.
type TransitionResult struct {
	From            Status
	To              Status
	ExpectedVersion int64
}

// AttemptTransition validates a requested transition against the catalog.
// Pure function of (current status, requested status); holds no state.
//
// A request for the current status is rejected here: the facade detects that
// case first and reports it as a benign no-op, so by the time the machine is
// asked the statuses must differ.
func AttemptTransition(o *Order, to Status) (TransitionResult, error) {
	if to == o.Status {
		return TransitionResult{}, ErrIllegalTransition
	}
	if o.Status.Terminal() {
		return TransitionResult{}, ErrIllegalTransition
	}
	if !CanTransition(o.Status, to) {
		return TransitionResult{}, ErrIllegalTransition
	}
	return TransitionResult{From: o.Status, To: to, ExpectedVersion: o.Version}, nil
}
