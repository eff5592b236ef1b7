package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ticket rows are hard-deleted on cancellation so the user/event unique
// index does not block a later repurchase.
type Ticket struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	PurchasedAt time.Time
	IsUsed      bool      `gorm:"not null;default:false"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_user_event"`
	User        User
	EventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_user_event"`
	Event       Event
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.PurchasedAt.IsZero() {
		ticket.PurchasedAt = time.Now()
	}
	return
}
