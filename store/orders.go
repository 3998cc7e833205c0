package store

import (
	"context"

	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Country string
	UserID  string
}

// GetOrder loads an order with its restaurant, which carries the order's
// effective country
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Restaurant").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns matching orders newest first, each with its items in
// insertion order and the items' menus
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Scopes(inCountry(f.Country), ownedBy(f.UserID)).
		Preload("Restaurant").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Items.Menu").
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// CreateOrder persists the order row only; items are written separately
// so callers control them inside their transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Omit("Items", "StatusHistory", "Restaurant").Create(order).Error
}

func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	return s.db.WithContext(ctx).Omit("Menu").Create(item).Error
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) AddStatusHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	return s.db.WithContext(ctx).Create(h).Error
}

func (s *Store) ListStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&history).Error
	return history, err
}

// StatusTotals is one row of the per-status order aggregate
type StatusTotals struct {
	Status models.OrderStatus
	Count  int64
	Total  decimal.Decimal
}

func (s *Store) SummarizeOrders(ctx context.Context, f OrderFilter) ([]StatusTotals, error) {
	var rows []StatusTotals
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Scopes(inCountry(f.Country), ownedBy(f.UserID)).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
