package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	kafkax "github.com/fabrile/go-order-lifecycle/internal/kafka"
	"github.com/fabrile/go-order-lifecycle/internal/orders"
	"github.com/fabrile/go-order-lifecycle/internal/redisx"
)

// Worker consumes order.delivered events and makes sure the invoice exists.
// This is the retry path for invoices that failed during the synchronous
// trigger: the event is redelivered until the insert succeeds.
type Worker struct {
	Service *Service
	Redis   *redis.Client
	Log     *logrus.Logger
}

// HandleOrderDelivered is installed as the consumer handler. Returning an
// error leaves the offset uncommitted so the event is retried.
func (w *Worker) HandleOrderDelivered(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderDelivered {
		return nil // ignore
	}

	// Dedup on event_id; the invoice unique constraint is the real guard,
	// this just skips pointless DB round trips on redelivery.
	dkey := fmt.Sprintf(redisx.KeyDedup, "billing", env.EventID)
	if exists, _ := redisx.Exists(ctx, w.Redis, dkey); exists {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderDeliveredPayload](env.Payload)
	if err != nil {
		return err
	}

	o := &orders.Order{
		ID:          p.OrderID,
		OrderNumber: p.OrderNumber,
		ClientID:    p.ClientID,
		TotalCents:  p.TotalCents,
		Status:      orders.StatusDelivered,
	}
	created, err := w.Service.OnDelivered(ctx, o)
	if err != nil {
		w.Log.WithError(err).WithField("order_id", p.OrderID).Warn("invoice retry failed")
		return err
	}
	if !created {
		w.Log.WithField("order_id", p.OrderID).Debug("invoice already present")
	}

	_ = w.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
