package orders

// Role is the caller's 2-letter role code, resolved upstream by the identity
// service and trusted here.
type Role string

const (
	RoleClient           Role = "CL"
	RoleCommercial       Role = "CO"
	RoleDeliveryAgent    Role = "DA"
	RoleWarehouseManager Role = "WM"
	RoleBillingManager   Role = "BM"
	RoleAdmin            Role = "AD"
)

type transition struct {
	From Status
	To   Status
}

// allowedTransitions is a closed table: an unmapped (role, from, to) triple is
// always denied. Only commercial may cancel, and only before the order leaves
// PENDING/CONFIRMED.
var allowedTransitions = map[Role]map[transition]bool{
	RoleCommercial: {
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
	},
	RoleDeliveryAgent: {
		{StatusConfirmed, StatusReadyForDelivery}: true,
		{StatusReadyForDelivery, StatusInTransit}: true,
		{StatusInTransit, StatusDelivered}:        true,
	},
	RoleWarehouseManager: {
		{StatusInProduction, StatusReadyForDelivery}: true,
	},
}

func IsAuthorized(role Role, from, to Status) bool {
	return allowedTransitions[role][transition{from, to}]
}

// AllowedTargets is the one place that answers "what actions does this role
// get for an order in this state". Dashboards query this instead of
// re-deriving it per page. Only transitions that are both in the role table
// and legal per the matrix are returned.
func AllowedTargets(role Role, from Status) []Status {
	var out []Status
	for t := range allowedTransitions[role] {
		if t.From == from && CanTransition(t.From, t.To) {
			out = append(out, t.To)
		}
	}
	return out
}
