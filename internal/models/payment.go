package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusExpired = "expired"
	PaymentStatusFailed  = "failed"
)

type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null"`
	Status     string          `gorm:"not null;default:'pending'"`
	InvoiceID  string
	ExternalID string    `gorm:"index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	User       *User     `gorm:"foreignKey:UserID"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Event      *Event    `gorm:"foreignKey:EventID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return
}
