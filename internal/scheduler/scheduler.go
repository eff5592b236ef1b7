package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/models"
)

// Scheduler sends reminder notifications for upcoming events.
type Scheduler struct {
	db   *gorm.DB
	cron *cron.Cron
}

func New(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:   db,
		cron: cron.New(),
	}
}

// Start registers an hourly job that reminds participants of events
// starting within the next 24 hours.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.sendEventReminders(); err != nil {
			log.Printf("failed to send event reminders: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sendEventReminders() error {
	now := time.Now()

	var events []models.Event
	if err := s.db.Where("event_date > ? AND event_date < ?", now, now.Add(24*time.Hour)).Find(&events).Error; err != nil {
		return err
	}

	for _, event := range events {
		var participations []models.Participation
		if err := s.db.Where("event_id = ? AND status IN ?", event.ID,
			[]models.ParticipationStatus{models.StatusGoing, models.StatusInterested}).
			Find(&participations).Error; err != nil {
			return err
		}

		for _, participation := range participations {
			var existing int64
			if err := s.db.Model(&models.Notification{}).
				Where("user_id = ? AND event_id = ? AND type = ?",
					participation.UserID, event.ID, models.NotificationEventReminder).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			eventID := event.ID
			notification := models.Notification{
				UserID:  participation.UserID,
				Type:    models.NotificationEventReminder,
				Message: fmt.Sprintf("%s starts at %s", event.Title, event.EventDate.Format(time.RFC1123)),
				EventID: &eventID,
			}
			if err := s.db.Create(&notification).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
