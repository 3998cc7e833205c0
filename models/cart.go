package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. (user_id, menu_id) is unique;
// repeated adds merge into the existing row.
type CartItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string          `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_menu"`
	MenuID       string          `json:"menuId" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_menu"`
	Menu         *Menu           `json:"-" gorm:"foreignKey:MenuID"`
	RestaurantID string          `json:"restaurantId" gorm:"type:varchar(36);not null;index"`
	Name         string          `json:"name" gorm:"-"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // last written unit price
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AfterFind fills the display name from the preloaded menu
func (c *CartItem) AfterFind(tx *gorm.DB) error {
	if c.Menu != nil {
		c.Name = c.Menu.Name
	}
	return nil
}

// All returns every model for auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Menu{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&PaymentMethod{},
		&CartItem{},
	}
}
