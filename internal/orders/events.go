package orders

import (
	"encoding/json"
	"time"
)

const (
	EventStatusChanged  = "OrderStatusChanged"
	EventOrderDelivered = "OrderDelivered"
)

type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "order-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type StatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
	Version   int64  `json:"version"`
	Sequence  int64  `json:"sequence"`
	ActorRole Role   `json:"actor_role"`
	ActorID   string `json:"actor_id"`
}

type OrderDeliveredPayload struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ClientID    string    `json:"client_id"`
	TotalCents  int       `json:"total_cents"`
	DeliveredAt time.Time `json:"delivered_at"`
}
