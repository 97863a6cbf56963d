package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventLogRepo struct{ DB *pgxpool.Pool }

// Two appends for the same order can race on the same sequence number; the
// (order_id, sequence_number) primary key rejects the loser and we try again.
const appendRetries = 5

// Append writes the next delivery event for the order and returns its
// sequence number. Sequence numbers are contiguous per order, starting at 1.
func (l *EventLogRepo) Append(ctx context.Context, ev DeliveryEvent) (int64, error) {
	for i := 0; i < appendRetries; i++ {
		var seq int64
		err := l.DB.QueryRow(ctx, `
			INSERT INTO delivery_events
				(order_id, sequence_number, status, actor_role, actor_id, location, notes)
			SELECT $1, COALESCE(MAX(sequence_number), 0) + 1, $2, $3, $4, $5, $6
			FROM delivery_events WHERE order_id=$1
			RETURNING sequence_number
		`, ev.OrderID, ev.Status, ev.ActorRole, ev.ActorID, ev.Location, ev.Notes).Scan(&seq)
		if err == nil {
			return seq, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return 0, err
	}
	return 0, errors.New("delivery event append: sequence contention")
}

// History returns the order's full event sequence, oldest first. Reading is
// side-effect-free and can be repeated.
func (l *EventLogRepo) History(ctx context.Context, orderID string) ([]DeliveryEvent, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT order_id, sequence_number, status, actor_role, actor_id, location, notes, recorded_at
		FROM delivery_events WHERE order_id=$1 ORDER BY sequence_number
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeliveryEvent
	for rows.Next() {
		var ev DeliveryEvent
		if err := rows.Scan(&ev.OrderID, &ev.SequenceNumber, &ev.Status, &ev.ActorRole,
			&ev.ActorID, &ev.Location, &ev.Notes, &ev.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
