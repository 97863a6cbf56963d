package orders

import "time"

type Order struct {
	ID              string     `json:"id"`
	OrderNumber     string     `json:"order_number"`
	ClientID        string     `json:"client_id"`
	ClientReference string     `json:"client_reference,omitempty"`
	Status          Status     `json:"status"`
	Version         int64      `json:"version"`
	TotalCents      int        `json:"total_cents"`
	ShippingAddress string     `json:"shipping_address"`
	DeliveryNotes   string     `json:"delivery_notes,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	Items           []Item     `json:"items,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Item struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

// DeliveryEvent is one entry of an order's append-only status history.
// Sequence numbers are contiguous per order, starting at 1.
type DeliveryEvent struct {
	OrderID        string    `json:"order_id"`
	SequenceNumber int64     `json:"sequence_number"`
	Status         Status    `json:"status"`
	ActorRole      Role      `json:"actor_role"`
	ActorID        string    `json:"actor_id"`
	Location       string    `json:"location,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}
