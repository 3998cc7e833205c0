// Package policy decides, for a principal and an operation, whether the
// operation may run and which rows it may touch.
//
// Every engine consults Decide before reading or writing. A non-admin
// decision is always scoped to the principal's country wherever the
// operation's rows carry one.
package policy

import (
	"food-ordering-api/apperr"
	"food-ordering-api/models"
)

type Operation string

const (
	ListRestaurants     Operation = "restaurants:list"
	ReadRestaurant      Operation = "restaurants:read"
	ListMenus           Operation = "menus:list"
	ListOrders          Operation = "orders:list"
	ReadOrder           Operation = "orders:read"
	CreateOrder         Operation = "orders:create"
	CancelOrder         Operation = "orders:cancel"
	ListPaymentMethods  Operation = "payment-methods:list"
	CreatePaymentMethod Operation = "payment-methods:create"
	ListCart            Operation = "cart:list"
	AddCartItem         Operation = "cart:add"
	RemoveCartItem      Operation = "cart:remove"
	ClearCart           Operation = "cart:clear"
)

type Effect int

const (
	Deny Effect = iota
	Allow
	AllowWithScope
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case AllowWithScope:
		return "allow-with-scope"
	default:
		return "deny"
	}
}

// Scope is the row predicate of a list operation. Empty fields do not
// restrict.
type Scope struct {
	Country string
	UserID  string
}

// Permits reports whether a row with the given effective country and owner
// falls inside the scope
func (s Scope) Permits(country, ownerID string) bool {
	if s.Country != "" && s.Country != country {
		return false
	}
	if s.UserID != "" && s.UserID != ownerID {
		return false
	}
	return true
}

// Target describes the entity a single-row operation acts on
type Target struct {
	Country string
	OwnerID string
}

type Decision struct {
	Effect Effect
	Scope  Scope
	Reason string
}

func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

// Err returns a FORBIDDEN error for a denial, nil otherwise
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return apperr.Forbidden(d.Reason)
}

func deny(reason string) Decision {
	return Decision{Effect: Deny, Reason: reason}
}

// Decide evaluates op for p. target is nil for list operations and for
// checks made before the target entity is loaded.
func Decide(p models.Principal, op Operation, target *Target) Decision {
	r, ok := rules[op]
	if !ok {
		return deny("Unknown operation")
	}
	if !p.Role.Valid() {
		return deny("Insufficient permissions")
	}
	if !r.permits(p.Role) {
		return deny(r.roleReason)
	}

	var scope Scope
	if r.country && !p.IsAdmin() {
		scope.Country = p.Country
	}
	switch r.owner {
	case ownerAlways:
		scope.UserID = p.ID
	case ownerUnlessAdmin:
		if !p.IsAdmin() {
			scope.UserID = p.ID
		}
	}

	if target != nil {
		if scope.Country != "" && target.Country != scope.Country {
			return deny(r.countryReason)
		}
		if scope.UserID != "" && target.OwnerID != "" && target.OwnerID != scope.UserID {
			return deny(r.ownerReason)
		}
		return Decision{Effect: Allow}
	}

	if scope == (Scope{}) {
		return Decision{Effect: Allow}
	}
	return Decision{Effect: AllowWithScope, Scope: scope}
}
