package orders

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")

	// Target not reachable from the current state per the transition matrix.
	ErrIllegalTransition = errors.New("illegal transition")

	// Role not permitted to request this transition.
	ErrUnauthorized = errors.New("role not authorized for transition")

	// Version mismatch that survived the bounded retry loop.
	ErrConcurrentModification = errors.New("order modified concurrently")

	// Invoice creation failed after the order was committed as delivered.
	// Never rolls back the transition; retried by the billing worker.
	ErrInvoiceFailed = errors.New("invoice creation failed")
)
