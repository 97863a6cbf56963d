package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAuthorized(t *testing.T) {
	cases := []struct {
		role     Role
		from, to Status
		want     bool
	}{
		{RoleCommercial, StatusPending, StatusConfirmed, true},
		{RoleCommercial, StatusPending, StatusCancelled, true},
		{RoleCommercial, StatusConfirmed, StatusCancelled, true},
		{RoleCommercial, StatusInTransit, StatusCancelled, false}, // too late to cancel
		{RoleCommercial, StatusConfirmed, StatusReadyForDelivery, false},

		{RoleDeliveryAgent, StatusConfirmed, StatusReadyForDelivery, true},
		{RoleDeliveryAgent, StatusReadyForDelivery, StatusInTransit, true},
		{RoleDeliveryAgent, StatusInTransit, StatusDelivered, true},
		{RoleDeliveryAgent, StatusPending, StatusConfirmed, false},
		{RoleDeliveryAgent, StatusInTransit, StatusCancelled, false},

		{RoleWarehouseManager, StatusInProduction, StatusReadyForDelivery, true},
		{RoleWarehouseManager, StatusInTransit, StatusCancelled, false},
		{RoleWarehouseManager, StatusPending, StatusConfirmed, false},

		// roles with no transition grants at all
		{RoleClient, StatusPending, StatusCancelled, false},
		{RoleBillingManager, StatusPending, StatusConfirmed, false},
		{RoleAdmin, StatusPending, StatusConfirmed, false},

		// unknown role is denied, never implicitly allowed
		{Role("ZZ"), StatusPending, StatusConfirmed, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, IsAuthorized(c.role, c.from, c.to),
			"role=%s %s -> %s", c.role, c.from, c.to)
	}
}

func TestAllowedTargets(t *testing.T) {
	targets := AllowedTargets(RoleCommercial, StatusPending)
	require.ElementsMatch(t, []Status{StatusConfirmed, StatusCancelled}, targets)

	targets = AllowedTargets(RoleDeliveryAgent, StatusInTransit)
	require.Equal(t, []Status{StatusDelivered}, targets)

	// nothing for a role past its involvement
	require.Empty(t, AllowedTargets(RoleCommercial, StatusInTransit))
	require.Empty(t, AllowedTargets(RoleDeliveryAgent, StatusDelivered))
	require.Empty(t, AllowedTargets(RoleClient, StatusPending))
}
