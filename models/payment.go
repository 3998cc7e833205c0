package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentType string

const (
	PaymentCreditCard PaymentType = "credit_card"
	PaymentDebitCard  PaymentType = "debit_card"
	PaymentUPI        PaymentType = "upi"
	PaymentPaypal     PaymentType = "paypal"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentPaypal:
		return true
	}
	return false
}

type PaymentMethod struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `json:"userId" gorm:"type:varchar(36);not null;index"`
	CardLast4 string      `json:"cardLast4" gorm:"type:varchar(4);not null"`
	Type      PaymentType `json:"type" gorm:"not null"`
	CreatedAt time.Time   `json:"-"`
}

func (p *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
