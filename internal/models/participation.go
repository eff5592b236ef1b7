package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipationStatus string

const (
	StatusGoing      ParticipationStatus = "going"
	StatusInterested ParticipationStatus = "interested"
	StatusNotGoing   ParticipationStatus = "not_going"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusInterested, StatusNotGoing:
		return true
	}
	return false
}

type Participation struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_participation_user_event"`
	EventID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_participation_user_event"`
	Status    ParticipationStatus `gorm:"not null"`
	JoinedAt  time.Time
	User      User
	Event     Event
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (participation *Participation) BeforeCreate(tx *gorm.DB) (err error) {
	if participation.ID == uuid.Nil {
		participation.ID = uuid.New()
	}
	if participation.JoinedAt.IsZero() {
		participation.JoinedAt = time.Now()
	}
	return
}
