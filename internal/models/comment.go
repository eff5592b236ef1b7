package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Text      string    `gorm:"size:1000;not null"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Event     Event
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      User
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (comment *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return
}
