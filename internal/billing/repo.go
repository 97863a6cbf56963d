package billing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepo struct{ DB *pgxpool.Pool }

// Insert creates the invoice unless one already exists for the order.
// The unique constraint on order_id makes check-then-create atomic: under a
// race exactly one insert wins and the other sees created=false.
func (r *InvoiceRepo) Insert(ctx context.Context, inv *Invoice) (created bool, err error) {
	var number string
	err = r.DB.QueryRow(ctx, `
		INSERT INTO invoices
			(id, invoice_number, order_id, client_id, status, issue_date, due_date,
			 subtotal_cents, tax_rate_pct, tax_cents, total_cents, notes)
		VALUES ($1, 'INV' || lpad(nextval('invoice_number_seq')::text, 6, '0'),
		        $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING invoice_number
	`, inv.ID, inv.OrderID, inv.ClientID, inv.Status, inv.IssueDate, inv.DueDate,
		inv.SubtotalCents, inv.TaxRatePct, inv.TaxCents, inv.TotalCents, inv.Notes,
	).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil // invoice already existed
	}
	if err != nil {
		return false, err
	}
	inv.InvoiceNumber = number
	return true, nil
}

func (r *InvoiceRepo) GetByOrder(ctx context.Context, orderID string) (*Invoice, error) {
	var inv Invoice
	err := r.DB.QueryRow(ctx, `
		SELECT id, invoice_number, order_id, client_id, status, issue_date, due_date,
		       subtotal_cents, tax_rate_pct, tax_cents, total_cents, notes, created_at
		FROM invoices WHERE order_id=$1
	`, orderID).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.ClientID, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.SubtotalCents, &inv.TaxRatePct,
		&inv.TaxCents, &inv.TotalCents, &inv.Notes, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
