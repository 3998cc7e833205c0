// Package payments manages the stored payment methods of users. Only the
// card's last four digits are kept; no card is ever verified or charged.
package payments

import (
	"context"
	"regexp"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"go.uber.org/zap"
)

var last4Pattern = regexp.MustCompile(`^[0-9]{4}$`)

type Service struct {
	store *store.Store
	log   *zap.Logger
}

func NewService(st *store.Store, log *zap.Logger) *Service {
	return &Service{store: st, log: log}
}

type CreateInput struct {
	UserID    string
	CardLast4 string
	Type      models.PaymentType
}

// Create attaches a payment method to UserID. Managers may only add to
// their own account; admins may add to anyone's.
func (s *Service) Create(ctx context.Context, p models.Principal, in CreateInput) (*models.PaymentMethod, error) {
	if err := policy.Decide(p, policy.CreatePaymentMethod, nil).Err(); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		in.UserID = p.ID
	}
	if err := policy.Decide(p, policy.CreatePaymentMethod, &policy.Target{OwnerID: in.UserID}).Err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		return nil, apperr.FromStore(err, "User not found")
	}
	if !last4Pattern.MatchString(in.CardLast4) {
		return nil, apperr.InvalidRequest("Card last 4 must be exactly 4 digits")
	}
	if !in.Type.Valid() {
		return nil, apperr.InvalidRequest("Invalid payment method type")
	}

	method := &models.PaymentMethod{UserID: in.UserID, CardLast4: in.CardLast4, Type: in.Type}
	if err := s.store.CreatePaymentMethod(ctx, method); err != nil {
		return nil, apperr.Internal("failed to create payment method", err)
	}
	s.log.Info("payment method added",
		zap.String("payment_method_id", method.ID),
		zap.String("user_id", method.UserID),
		zap.String("actor_id", p.ID),
	)
	return method, nil
}

// List returns every payment method for admins and the caller's own
// otherwise
func (s *Service) List(ctx context.Context, p models.Principal) ([]models.PaymentMethod, error) {
	d := policy.Decide(p, policy.ListPaymentMethods, nil)
	if err := d.Err(); err != nil {
		return nil, err
	}
	methods, err := s.store.ListPaymentMethods(ctx, store.PaymentMethodFilter{UserID: d.Scope.UserID})
	if err != nil {
		return nil, apperr.Internal("failed to list payment methods", err)
	}
	return methods, nil
}
