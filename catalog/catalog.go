// Package catalog serves restaurant and menu reads, scoped per principal.
package catalog

import (
	"context"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ListRestaurants honours country only for admins; everyone else always
// gets their own country.
func (s *Service) ListRestaurants(ctx context.Context, p models.Principal, country string) ([]models.Restaurant, error) {
	d := policy.Decide(p, policy.ListRestaurants, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}

	filter := store.RestaurantFilter{Country: d.Scope.Country}
	if p.IsAdmin() {
		filter.Country = country
	}
	restaurants, err := s.store.ListRestaurants(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list restaurants", err)
	}
	return restaurants, nil
}

func (s *Service) GetRestaurant(ctx context.Context, p models.Principal, id string) (*models.Restaurant, error) {
	restaurant, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "Restaurant not found")
	}
	d := policy.Decide(p, policy.ReadRestaurant, &policy.Target{Country: restaurant.Country})
	if err := d.Err(); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// ListMenus returns menus, optionally of one restaurant. A restaurant
// outside a non-admin's country simply yields no menus.
func (s *Service) ListMenus(ctx context.Context, p models.Principal, restaurantID string) ([]models.Menu, error) {
	d := policy.Decide(p, policy.ListMenus, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}

	menus, err := s.store.ListMenus(ctx, store.MenuFilter{
		RestaurantID: restaurantID,
		Country:      d.Scope.Country,
	})
	if err != nil {
		return nil, apperr.Internal("failed to list menus", err)
	}
	return menus, nil
}
