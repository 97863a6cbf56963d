package billing

import "time"

// InvoiceStatus uses the billing system's 2-letter wire codes.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DR"
	InvoicePending       InvoiceStatus = "PE"
	InvoicePaid          InvoiceStatus = "PA"
	InvoicePartiallyPaid InvoiceStatus = "PP"
	InvoiceOverdue       InvoiceStatus = "OV"
	InvoiceCancelled     InvoiceStatus = "CA"
)

type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	OrderID       string        `json:"order_id"`
	ClientID      string        `json:"client_id"`
	Status        InvoiceStatus `json:"status"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	SubtotalCents int           `json:"subtotal_cents"`
	TaxRatePct    int           `json:"tax_rate_pct"`
	TaxCents      int           `json:"tax_cents"`
	TotalCents    int           `json:"total_cents"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
}
