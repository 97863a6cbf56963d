package orders

// Status is the 2-letter wire code stored in the DB. Codes are stable; never rename.
type Status string

const (
	StatusPending          Status = "PE"
	StatusConfirmed        Status = "CO"
	StatusInProduction     Status = "PR"
	StatusReadyForDelivery Status = "RD"
	StatusInTransit        Status = "IT"
	StatusDelivered        Status = "DE"
	StatusCancelled        Status = "CA"
)

var displayNames = map[Status]string{
	StatusPending:          "Pending",
	StatusConfirmed:        "Confirmed",
	StatusInProduction:     "In Production",
	StatusReadyForDelivery: "Ready for Delivery",
	StatusInTransit:        "In Transit",
	StatusDelivered:        "Delivered",
	StatusCancelled:        "Cancelled",
}

// validNext is the single source of truth for legal transitions.
// DE and CA are terminal (no outgoing edges).
var validNext = map[Status]map[Status]bool{
	StatusPending:          {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:        {StatusReadyForDelivery: true, StatusCancelled: true},
	StatusInProduction:     {StatusReadyForDelivery: true, StatusCancelled: true},
	StatusReadyForDelivery: {StatusInTransit: true, StatusCancelled: true},
	StatusInTransit:        {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

func (s Status) DisplayName() string {
	if n, ok := displayNames[s]; ok {
		return n
	}
	return string(s)
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// NextStatuses returns the states reachable from `from` in one step.
func NextStatuses(from Status) []Status {
	out := make([]Status, 0, len(validNext[from]))
	for s := range validNext[from] {
		out = append(out, s)
	}
	return out
}
