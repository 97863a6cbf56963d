package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

type ItemInput struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

type CreateOrderInput struct {
	ClientID        string      `json:"client_id"`
	ClientReference string      `json:"client_reference"`
	Items           []ItemInput `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
	DeliveryNotes   string      `json:"delivery_notes"`
}

// Create inserts a new order in PE at version 0, with its items, in one tx.
// Idempotent via client_reference: if a reference was already used the
// existing order is returned (existed=true) and nothing is written.
func (r *Repo) Create(ctx context.Context, in CreateOrderInput) (o *Order, existed bool, err error) {
	if in.ClientReference != "" {
		var id string
		err := r.DB.QueryRow(ctx,
			`SELECT id FROM orders WHERE client_reference=$1`, in.ClientReference).Scan(&id)
		if err == nil {
			o, err := r.Get(ctx, id)
			return o, true, err
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, err
		}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	total := 0
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, false, fmt.Errorf("invalid quantity for product %s", it.ProductID)
		}
		total += it.Quantity * it.UnitPriceCents
	}

	orderID := uuid.NewString()
	var number string
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, client_id, client_reference, status, version,
		                    total_cents, shipping_address, delivery_notes)
		VALUES ($1, 'ORD-' || lpad(nextval('order_number_seq')::text, 6, '0'),
		        $2, NULLIF($3, ''), $4, 0, $5, $6, $7)
		RETURNING order_number
	`, orderID, in.ClientID, in.ClientReference, StatusPending, total, in.ShippingAddress, in.DeliveryNotes).Scan(&number)
	if err != nil {
		return nil, false, err
	}

	for _, it := range in.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPriceCents,
		); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	o, err = r.Get(ctx, orderID)
	return o, false, err
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var ref *string
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, client_id, client_reference, status, version,
		       total_cents, shipping_address, delivery_notes, delivery_date,
		       created_at, updated_at
		FROM orders WHERE id=$1
	`, orderID).Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &ref, &o.Status, &o.Version,
		&o.TotalCents, &o.ShippingAddress, &o.DeliveryNotes, &o.DeliveryDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if ref != nil {
		o.ClientReference = *ref
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, quantity, unit_price_cents
		FROM order_items WHERE order_id=$1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// CompareAndSetStatus is the only writer of status/version. The WHERE clause
// on version makes concurrent transitions lose cleanly instead of overwriting.
func (r *Repo) CompareAndSetStatus(ctx context.Context, orderID string, expectedVersion int64, to Status) (int64, error) {
	var newVersion int64
	err := r.DB.QueryRow(ctx, `
		UPDATE orders
		SET status=$3, version=version+1, updated_at=now()
		WHERE id=$1 AND version=$2
		RETURNING version
	`, orderID, expectedVersion, to).Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		// Missing row or stale version; look again to tell them apart.
		var exists bool
		if err2 := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, orderID).Scan(&exists); err2 != nil {
			return 0, err2
		}
		if !exists {
			return 0, ErrOrderNotFound
		}
		return 0, ErrConcurrentModification
	}
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}
