package store

import (
	"context"

	"food-ordering-api/models"
)

type RestaurantFilter struct {
	Country string
}

type MenuFilter struct {
	RestaurantID string
	Country      string
}

func (s *Store) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (s *Store) ListRestaurants(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := s.db.WithContext(ctx)
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	err := query.Order("country, name").Find(&restaurants).Error
	return restaurants, err
}

func (s *Store) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return s.db.WithContext(ctx).Create(restaurant).Error
}

// GetMenu loads a menu together with its owning restaurant
func (s *Store) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.WithContext(ctx).Preload("Restaurant").First(&menu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *Store) ListMenus(ctx context.Context, f MenuFilter) ([]models.Menu, error) {
	var menus []models.Menu
	query := s.db.WithContext(ctx).Scopes(inCountry(f.Country))
	if f.RestaurantID != "" {
		query = query.Where("restaurant_id = ?", f.RestaurantID)
	}
	err := query.Order("restaurant_id, name").Find(&menus).Error
	return menus, err
}

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return s.db.WithContext(ctx).Create(menu).Error
}
