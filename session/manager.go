package session

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the fixed validity of a login session
const DefaultTTL = 24 * time.Hour

type Claims struct {
	Role    models.UserRole `json:"role"`
	Country string          `json:"country"`
	jwt.RegisteredClaims
}

// Manager turns principals into signed tokens and back. The token names a
// stored session, so logout takes effect before the token expires.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, secret []byte, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{store: store, secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL is how long an issued session stays valid
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for p and returns its token
func (m *Manager) Issue(ctx context.Context, p models.Principal) (string, time.Time, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		Principal: p,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := Claims{
		Role:    p.Role,
		Country: p.Country,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", time.Time{}, err
	}
	return token, s.ExpiresAt, nil
}

// Resolve returns the principal of a live session. Any failure is
// UNAUTHENTICATED.
func (m *Manager) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, apperr.Unauthenticated("Unauthorized")
	}
	claims, err := m.parse(token, true)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, apperr.Unauthenticated("Session expired")
		}
		return models.Principal{}, apperr.Unauthenticated("Unauthorized")
	}

	s, err := m.store.Get(ctx, claims.ID)
	if errors.Is(err, ErrNotFound) {
		return models.Principal{}, apperr.Unauthenticated("Session expired")
	}
	if err != nil {
		return models.Principal{}, apperr.Internal("session lookup failed", err)
	}
	return s.Principal, nil
}

// Revoke deletes the session behind token. Unknown or malformed tokens are
// ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.parse(token, false)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) parse(token string, validate bool) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
