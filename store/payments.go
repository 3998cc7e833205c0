package store

import (
	"context"

	"food-ordering-api/models"
)

type PaymentMethodFilter struct {
	UserID string
}

func (s *Store) ListPaymentMethods(ctx context.Context, f PaymentMethodFilter) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := s.db.WithContext(ctx).Scopes(ownedBy(f.UserID)).Order("created_at asc").Find(&methods).Error
	return methods, err
}

func (s *Store) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	return s.db.WithContext(ctx).Create(pm).Error
}
