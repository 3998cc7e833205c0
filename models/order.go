package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the states of an order
type OrderStatus string

const (
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string               `json:"userId" gorm:"type:varchar(36);not null;index"`
	RestaurantID  string               `json:"restaurantId" gorm:"type:varchar(36);not null;index"`
	Restaurant    *Restaurant          `json:"-" gorm:"foreignKey:RestaurantID"`
	TotalAmount   decimal.Decimal      `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'confirmed'"`
	Items         []OrderItem          `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory []OrderStatusHistory `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"orderId" gorm:"type:varchar(36);not null;index"`
	MenuID    string          `json:"menuId" gorm:"type:varchar(36);not null"`
	Menu      *Menu           `json:"-" gorm:"foreignKey:MenuID"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	Position  int             `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// OrderStatusHistory records every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"orderId" gorm:"type:varchar(36);not null;index"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}
