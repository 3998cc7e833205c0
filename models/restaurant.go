package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null"`
	Country     string    `json:"country" gorm:"not null;index"`
	Description string    `json:"description"`
	Menus       []Menu    `json:"-" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Menu is a single dish offered by a restaurant. Its country is always the
// owning restaurant's country.
type Menu struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID string          `json:"restaurantId" gorm:"type:varchar(36);not null;index"`
	Restaurant   *Restaurant     `json:"-" gorm:"foreignKey:RestaurantID"`
	Name         string          `json:"name" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
