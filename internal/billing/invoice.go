package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fabrile/go-order-lifecycle/internal/orders"
)

const (
	taxRatePct   = 20 // VAT
	paymentTerms = 30 * 24 * time.Hour
)

// BuildInvoice derives a PENDING invoice from a delivered order. The invoice
// number is assigned at insert time, not here.
func BuildInvoice(o *orders.Order, now time.Time) *Invoice {
	subtotal := o.TotalCents
	tax := subtotal * taxRatePct / 100
	issue := now.UTC().Truncate(24 * time.Hour)
	return &Invoice{
		ID:            uuid.NewString(),
		OrderID:       o.ID,
		ClientID:      o.ClientID,
		Status:        InvoicePending,
		IssueDate:     issue,
		DueDate:       issue.Add(paymentTerms),
		SubtotalCents: subtotal,
		TaxRatePct:    taxRatePct,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
		Notes:         fmt.Sprintf("Automatically generated for delivered order %s", o.OrderNumber),
	}
}
