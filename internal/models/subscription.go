package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair"`
	Follower   *User     `gorm:"foreignKey:FollowerID"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair"`
	Followee   *User     `gorm:"foreignKey:FolloweeID"`
	CreatedAt  time.Time
}

func (subscription *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	return
}
