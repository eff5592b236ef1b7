package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationNewEvent      = "new_event"
	NotificationEventReminder = "event_reminder"
	NotificationNewComment    = "new_comment"
	NotificationNewReview     = "new_review"
	NotificationNewFollower   = "new_follower"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      *User     `gorm:"foreignKey:UserID"`
	Type      string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	EventID   *uuid.UUID `gorm:"type:uuid;index"`
	Event     *Event     `gorm:"foreignKey:EventID"`
	IsRead    bool       `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return
}
