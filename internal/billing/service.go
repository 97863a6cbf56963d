package billing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fabrile/go-order-lifecycle/internal/metrics"
	"github.com/fabrile/go-order-lifecycle/internal/orders"
)

// InvoiceStore is what the trigger needs from persistence; Insert must be
// atomic check-then-create keyed by order id.
type InvoiceStore interface {
	Insert(ctx context.Context, inv *Invoice) (created bool, err error)
}

// Service implements the orders.Invoicer trigger.
type Service struct {
	Invoices InvoiceStore
	Log      *logrus.Logger
}

// OnDelivered creates the order's invoice at most once. Safe to call again on
// retried delivery confirmations; the duplicate call reports created=false.
func (s *Service) OnDelivered(ctx context.Context, o *orders.Order) (bool, error) {
	inv := BuildInvoice(o, time.Now())
	created, err := s.Invoices.Insert(ctx, inv)
	if err != nil {
		metrics.InvoiceFailuresTotal.Inc()
		return false, err
	}
	if created {
		metrics.InvoicesCreatedTotal.Inc()
		s.Log.WithFields(logrus.Fields{
			"order_id":       o.ID,
			"order_number":   o.OrderNumber,
			"invoice_number": inv.InvoiceNumber,
		}).Info("invoice created for delivered order")
	}
	return created, nil
}
