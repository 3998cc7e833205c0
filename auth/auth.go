// Package auth verifies login credentials.
package auth

import (
	"context"
	"errors"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Verifier checks an email/credential pair and returns the matching user
type Verifier interface {
	Verify(ctx context.Context, email, credential string) (*models.User, error)
}

type userFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// BcryptVerifier compares credentials against bcrypt password hashes
type BcryptVerifier struct {
	users userFinder
}

func NewBcryptVerifier(users userFinder) *BcryptVerifier {
	return &BcryptVerifier{users: users}
}

func (v *BcryptVerifier) Verify(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := v.users.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Internal("user lookup failed", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("Account is disabled")
	}
	return user, nil
}

// HashPassword hashes a password for storage
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
