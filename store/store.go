// Package store is the persistence layer. It knows how to read and write
// entities and how to apply list filters; it carries no business rules.
package store

import (
	"context"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and maintenance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// inCountry restricts rows carrying a restaurant_id to restaurants of the
// given country. An empty country leaves the query untouched.
func inCountry(country string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if country == "" {
			return db
		}
		return db.Where("restaurant_id IN (SELECT id FROM restaurants WHERE country = ?)", country)
	}
}

func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == "" {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}
