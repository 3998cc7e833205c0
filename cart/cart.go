// Package cart manages a user's shopping cart. Adding a menu the user
// already holds merges into the existing line: quantities add up and the
// most recently submitted unit price wins.
package cart

import (
	"context"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Engine struct {
	store *store.Store
	log   *zap.Logger
}

func NewEngine(st *store.Store, log *zap.Logger) *Engine {
	return &Engine{store: st, log: log}
}

type AddInput struct {
	MenuID       string
	RestaurantID string
	Quantity     int
	Price        decimal.Decimal
}

func (e *Engine) Add(ctx context.Context, p models.Principal, in AddInput) (*models.CartItem, error) {
	if err := policy.Decide(p, policy.AddCartItem, nil).Err(); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, apperr.InvalidRequest("Quantity must be at least 1")
	}
	if in.Price.IsNegative() {
		return nil, apperr.InvalidRequest("Price must not be negative")
	}

	var result *models.CartItem
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		menu, err := tx.GetMenu(ctx, in.MenuID)
		if err != nil {
			return apperr.FromStore(err, "Menu or restaurant not found")
		}
		restaurant, err := tx.GetRestaurant(ctx, in.RestaurantID)
		if err != nil {
			return apperr.FromStore(err, "Menu or restaurant not found")
		}
		if menu.RestaurantID != restaurant.ID {
			return apperr.InvalidRequest("Menu does not belong to this restaurant")
		}

		target := &policy.Target{Country: restaurant.Country, OwnerID: p.ID}
		if err := policy.Decide(p, policy.AddCartItem, target).Err(); err != nil {
			return err
		}

		item, err := tx.MergeCartItem(ctx, &models.CartItem{
			UserID:       p.ID,
			MenuID:       menu.ID,
			RestaurantID: restaurant.ID,
			Quantity:     in.Quantity,
			Price:        in.Price,
		})
		if err != nil {
			return apperr.FromStore(err, "Cart item not found")
		}
		item.Name = menu.Name
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Debug("cart item added",
		zap.String("user_id", p.ID),
		zap.String("menu_id", result.MenuID),
		zap.Int("quantity", result.Quantity),
	)
	return result, nil
}

// List returns the principal's cart, newest first. Non-admins only see
// lines from restaurants in their own country.
func (e *Engine) List(ctx context.Context, p models.Principal) ([]models.CartItem, error) {
	d := policy.Decide(p, policy.ListCart, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}
	items, err := e.store.ListCartItems(ctx, store.CartFilter{UserID: d.Scope.UserID, Country: d.Scope.Country})
	if err != nil {
		return nil, apperr.Internal("failed to load cart", err)
	}
	return items, nil
}

// Remove deletes one of the principal's own lines. Another user's line is
// reported exactly like a missing one.
func (e *Engine) Remove(ctx context.Context, p models.Principal, itemID string) error {
	d := policy.Decide(p, policy.RemoveCartItem, nil)
	if err := d.Err(); err != nil {
		return err
	}
	if err := e.store.DeleteCartItem(ctx, d.Scope.UserID, itemID); err != nil {
		return apperr.FromStore(err, "Cart item not found")
	}
	return nil
}

// Clear empties the principal's whole cart across all countries
func (e *Engine) Clear(ctx context.Context, p models.Principal) error {
	d := policy.Decide(p, policy.ClearCart, nil)
	if err := d.Err(); err != nil {
		return err
	}
	n, err := e.store.ClearCart(ctx, d.Scope.UserID)
	if err != nil {
		return apperr.Internal("failed to clear cart", err)
	}
	e.log.Debug("cart cleared", zap.String("user_id", p.ID), zap.Int64("removed", n))
	return nil
}
