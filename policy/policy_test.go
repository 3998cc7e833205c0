package policy

import (
	"testing"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"github.com/stretchr/testify/assert"
)

var (
	admin        = models.Principal{ID: "u-admin", Role: models.RoleAdmin, Country: "USA"}
	managerIndia = models.Principal{ID: "u-mgr-in", Role: models.RoleManager, Country: "India"}
	memberIndia  = models.Principal{ID: "u-mem-in", Role: models.RoleMember, Country: "India"}
)

func TestDecideListOperations(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		op        Operation
		effect    Effect
		scope     Scope
	}{
		{"admin restaurants unscoped", admin, ListRestaurants, Allow, Scope{}},
		{"manager restaurants own country", managerIndia, ListRestaurants, AllowWithScope, Scope{Country: "India"}},
		{"member restaurants own country", memberIndia, ListRestaurants, AllowWithScope, Scope{Country: "India"}},
		{"admin menus unscoped", admin, ListMenus, Allow, Scope{}},
		{"member menus own country", memberIndia, ListMenus, AllowWithScope, Scope{Country: "India"}},
		{"admin orders unscoped", admin, ListOrders, Allow, Scope{}},
		{"manager orders own country", managerIndia, ListOrders, AllowWithScope, Scope{Country: "India"}},
		{"member orders denied", memberIndia, ListOrders, Deny, Scope{}},
		{"admin payment methods all", admin, ListPaymentMethods, Allow, Scope{}},
		{"manager payment methods own", managerIndia, ListPaymentMethods, AllowWithScope, Scope{UserID: "u-mgr-in"}},
		{"member payment methods own", memberIndia, ListPaymentMethods, AllowWithScope, Scope{UserID: "u-mem-in"}},
		{"admin cart own any country", admin, ListCart, AllowWithScope, Scope{UserID: "u-admin"}},
		{"member cart own country", memberIndia, ListCart, AllowWithScope, Scope{UserID: "u-mem-in", Country: "India"}},
		{"member clear ignores country", memberIndia, ClearCart, AllowWithScope, Scope{UserID: "u-mem-in"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.principal, tc.op, nil)
			assert.Equal(t, tc.effect, d.Effect)
			assert.Equal(t, tc.scope, d.Scope)
		})
	}
}

func TestDecideTargetedOperations(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		op        Operation
		target    Target
		allowed   bool
		reason    string
	}{
		{"admin orders anywhere", admin, CreateOrder, Target{Country: "India"}, true, ""},
		{"manager orders at home", managerIndia, CreateOrder, Target{Country: "India"}, true, ""},
		{"manager orders abroad", managerIndia, CreateOrder, Target{Country: "USA"}, false, "Cannot create orders for restaurants outside your country"},
		{"member cannot order", memberIndia, CreateOrder, Target{Country: "India"}, false, "Members cannot place orders"},
		{"manager cancels abroad", managerIndia, CancelOrder, Target{Country: "USA"}, false, "Cannot cancel orders for restaurants outside your country"},
		{"member cannot cancel", memberIndia, CancelOrder, Target{Country: "India"}, false, "Members cannot cancel orders"},
		{"admin cancels anywhere", admin, CancelOrder, Target{Country: "UK"}, true, ""},
		{"member adds at home", memberIndia, AddCartItem, Target{Country: "India", OwnerID: "u-mem-in"}, true, ""},
		{"member adds abroad", memberIndia, AddCartItem, Target{Country: "UK", OwnerID: "u-mem-in"}, false, "Cannot add items from restaurants outside your country"},
		{"admin adds abroad", admin, AddCartItem, Target{Country: "UK", OwnerID: "u-admin"}, true, ""},
		{"manager pays for self", managerIndia, CreatePaymentMethod, Target{OwnerID: "u-mgr-in"}, true, ""},
		{"manager pays for other", managerIndia, CreatePaymentMethod, Target{OwnerID: "someone"}, false, "Cannot update other users' payment methods"},
		{"admin pays for other", admin, CreatePaymentMethod, Target{OwnerID: "someone"}, true, ""},
		{"member cannot add payment", memberIndia, CreatePaymentMethod, Target{OwnerID: "u-mem-in"}, false, "Members cannot update payment methods"},
		{"member reads foreign restaurant", memberIndia, ReadRestaurant, Target{Country: "USA"}, false, "Cannot view restaurants outside your country"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := tc.target
			d := Decide(tc.principal, tc.op, &target)
			assert.Equal(t, tc.allowed, d.Allowed())
			if tc.allowed {
				assert.NoError(t, d.Err())
				return
			}
			assert.Equal(t, tc.reason, d.Reason)
			assert.True(t, apperr.Is(d.Err(), apperr.KindForbidden))
		})
	}
}

func TestDecideRejectsUnknownRoleAndOperation(t *testing.T) {
	ghost := models.Principal{ID: "x", Role: "superuser", Country: "India"}
	assert.Equal(t, Deny, Decide(ghost, ListRestaurants, nil).Effect)
	assert.Equal(t, Deny, Decide(admin, Operation("orders:refund"), nil).Effect)
}

// A non-admin scope never admits a row from another country.
func TestNonAdminScopesNeverCrossCountries(t *testing.T) {
	for op, r := range rules {
		if !r.country {
			continue
		}
		for _, p := range []models.Principal{managerIndia, memberIndia} {
			d := Decide(p, op, nil)
			if !d.Allowed() {
				continue
			}
			assert.False(t, d.Scope.Permits("USA", p.ID), "op %s role %s", op, p.Role)
			assert.True(t, d.Scope.Permits("India", p.ID), "op %s role %s", op, p.Role)
		}
	}
}

func TestEffectString(t *testing.T) {
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "allow-with-scope", AllowWithScope.String())
}
