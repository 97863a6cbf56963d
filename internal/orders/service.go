package orders

import (
	"context"
	"errors"
	"fmt"
)

// OrderStore is the persistence boundary the facade mutates orders through.
// CompareAndSetStatus is the only path that writes status/version.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*Order, error)
	// CompareAndSetStatus commits the transition iff the stored version still
	// equals expectedVersion. Returns the new version, or
	// ErrConcurrentModification on a version mismatch.
	CompareAndSetStatus(ctx context.Context, orderID string, expectedVersion int64, to Status) (int64, error)
}

// EventLog is the append-only per-order status history.
type EventLog interface {
	Append(ctx context.Context, ev DeliveryEvent) (int64, error)
	History(ctx context.Context, orderID string) ([]DeliveryEvent, error)
}

// Invoicer is invoked exactly once per order when it reaches DE.
// Implementations must be idempotent: a second call for the same order
// reports created=false and does nothing.
type Invoicer interface {
	OnDelivered(ctx context.Context, o *Order) (created bool, err error)
}

type TransitionRequest struct {
	OrderID   string
	Target    Status
	ActorRole Role
	ActorID   string
	Location  string
	Notes     string
}

type TransitionOutcome struct {
	OrderID        string
	From           Status
	Status         Status
	Version        int64
	Sequence       int64
	AlreadyApplied bool  // benign retry: order was already in the target state
	InvoiceCreated bool
	InvoiceErr     error // wraps ErrInvoiceFailed; never fails the transition
}

const defaultCASRetries = 3

// Service is the lifecycle facade: the single mutating entry point for an
// order's status.
type Service struct {
	Store    OrderStore
	Log      EventLog
	Invoices Invoicer

	// CASRetries bounds the automatic re-read-and-revalidate loop on version
	// conflicts. Zero means defaultCASRetries.
	CASRetries int
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.Store.Get(ctx, orderID)
}

func (s *Service) GetHistory(ctx context.Context, orderID string) ([]DeliveryEvent, error) {
	return s.Log.History(ctx, orderID)
}

// RequestTransition validates, authorizes and commits a status change, appends
// the delivery event, and fires the invoice trigger when the order reaches DE.
//
// Matrix legality is checked before authorization, so an off-matrix request is
// always ErrIllegalTransition even for a role that could never request it.
// Version conflicts are retried by re-reading; a retry that finds the order
// already in the target state is reported as a benign no-op.
func (s *Service) RequestTransition(ctx context.Context, req TransitionRequest) (*TransitionOutcome, error) {
	if !req.Target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, req.Target)
	}

	retries := s.CASRetries
	if retries <= 0 {
		retries = defaultCASRetries
	}

	for attempt := 0; attempt <= retries; attempt++ {
		o, err := s.Store.Get(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}

		if o.Status == req.Target {
			// Retried request whose original already committed.
			return &TransitionOutcome{
				OrderID:        o.ID,
				From:           o.Status,
				Status:         o.Status,
				Version:        o.Version,
				AlreadyApplied: true,
			}, nil
		}

		res, err := AttemptTransition(o, req.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, req.Target)
		}
		if !IsAuthorized(req.ActorRole, o.Status, req.Target) {
			return nil, fmt.Errorf("%w: role %s for %s -> %s", ErrUnauthorized, req.ActorRole, o.Status, req.Target)
		}

		newVersion, err := s.Store.CompareAndSetStatus(ctx, o.ID, res.ExpectedVersion, res.To)
		if errors.Is(err, ErrConcurrentModification) {
			continue // someone else won; re-read and re-evaluate
		}
		if err != nil {
			return nil, err
		}

		seq, err := s.Log.Append(ctx, DeliveryEvent{
			OrderID:   o.ID,
			Status:    res.To,
			ActorRole: req.ActorRole,
			ActorID:   req.ActorID,
			Location:  req.Location,
			Notes:     req.Notes,
		})
		if err != nil {
			return nil, fmt.Errorf("append delivery event: %w", err)
		}

		out := &TransitionOutcome{
			OrderID:  o.ID,
			From:     res.From,
			Status:   res.To,
			Version:  newVersion,
			Sequence: seq,
		}

		if res.To == StatusDelivered && s.Invoices != nil {
			created, err := s.Invoices.OnDelivered(ctx, o)
			if err != nil {
				// The order stays delivered; invoicing is retried separately.
				out.InvoiceErr = fmt.Errorf("%w: %v", ErrInvoiceFailed, err)
			} else {
				out.InvoiceCreated = created
			}
		}
		return out, nil
	}

	return nil, ErrConcurrentModification
}
