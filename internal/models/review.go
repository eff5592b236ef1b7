package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"size:1000"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_event"`
	Event     Event
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_event"`
	User      User
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (review *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return
}
