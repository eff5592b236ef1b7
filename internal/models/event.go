package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Title       string    `gorm:"not null"`
	Description string
	EventDate   time.Time `gorm:"not null;index"`
	Location    string
	BannerPath  string
	TicketPrice decimal.Decimal `gorm:"type:numeric;not null"`
	Capacity    *int
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Category    Category
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	User        User

	Participations []Participation `gorm:"foreignKey:EventID"`
	Comments       []Comment       `gorm:"foreignKey:EventID"`
	Reviews        []Review        `gorm:"foreignKey:EventID"`
	Tickets        []Ticket        `gorm:"foreignKey:EventID"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
