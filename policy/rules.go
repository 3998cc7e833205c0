package policy

import "food-ordering-api/models"

type ownerScope int

const (
	ownerNone ownerScope = iota
	ownerUnlessAdmin
	ownerAlways
)

type rule struct {
	roles         []models.UserRole
	country       bool
	owner         ownerScope
	roleReason    string
	countryReason string
	ownerReason   string
}

func (r rule) permits(role models.UserRole) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var everyone = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleMember}

var staff = []models.UserRole{models.RoleAdmin, models.RoleManager}

var rules = map[Operation]rule{
	ListRestaurants: {
		roles:   everyone,
		country: true,
	},
	ReadRestaurant: {
		roles:         everyone,
		country:       true,
		countryReason: "Cannot view restaurants outside your country",
	},
	ListMenus: {
		roles:   everyone,
		country: true,
	},
	ListOrders: {
		roles:      staff,
		country:    true,
		roleReason: "Members cannot view orders",
	},
	ReadOrder: {
		roles:         staff,
		country:       true,
		roleReason:    "Members cannot view orders",
		countryReason: "Cannot view orders for restaurants outside your country",
	},
	CreateOrder: {
		roles:         staff,
		country:       true,
		roleReason:    "Members cannot place orders",
		countryReason: "Cannot create orders for restaurants outside your country",
	},
	CancelOrder: {
		roles:         staff,
		country:       true,
		roleReason:    "Members cannot cancel orders",
		countryReason: "Cannot cancel orders for restaurants outside your country",
	},
	ListPaymentMethods: {
		roles: everyone,
		owner: ownerUnlessAdmin,
	},
	CreatePaymentMethod: {
		roles:       staff,
		owner:       ownerUnlessAdmin,
		roleReason:  "Members cannot update payment methods",
		ownerReason: "Cannot update other users' payment methods",
	},
	ListCart: {
		roles:   everyone,
		country: true,
		owner:   ownerAlways,
	},
	AddCartItem: {
		roles:         everyone,
		country:       true,
		owner:         ownerAlways,
		countryReason: "Cannot add items from restaurants outside your country",
		ownerReason:   "Cannot modify another user's cart",
	},
	RemoveCartItem: {
		roles: everyone,
		owner: ownerAlways,
	},
	// Clearing is a self-service reset of the whole cart, every country.
	ClearCart: {
		roles: everyone,
		owner: ownerAlways,
	},
}
