package store

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartFilter struct {
	UserID  string
	Country string
}

func (s *Store) FindCartItem(ctx context.Context, userID, menuID string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).Preload("Menu").
		Where("user_id = ? AND menu_id = ?", userID, menuID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListCartItems returns matching items, most recently created first
func (s *Store) ListCartItems(ctx context.Context, f CartFilter) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Scopes(ownedBy(f.UserID), inCountry(f.Country)).
		Preload("Menu").
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

// MergeCartItem inserts item, or when the user already holds the menu adds
// item.Quantity to the stored quantity and overwrites the price. The whole
// merge is one statement so concurrent adds cannot lose an increment.
func (s *Store) MergeCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	err := s.db.WithContext(ctx).Omit("Menu").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "menu_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"price":      gorm.Expr("excluded.price"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
	if err != nil {
		return nil, err
	}
	return s.FindCartItem(ctx, item.UserID, item.MenuID)
}

// DeleteCartItem removes the item only when it belongs to userID. A missing
// item and a foreign item both report gorm.ErrRecordNotFound.
func (s *Store) DeleteCartItem(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
