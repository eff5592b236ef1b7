package notifier

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/models"
)

// NotifyNewEvent fans out a notification to every follower of the
// event's organizer.
func NotifyNewEvent(db *gorm.DB, event *models.Event) error {
	var followerIDs []uuid.UUID
	if err := db.Model(&models.Subscription{}).
		Where("followee_id = ?", event.UserID).
		Pluck("follower_id", &followerIDs).Error; err != nil {
		return err
	}

	if len(followerIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		eventID := event.ID
		notifications = append(notifications, models.Notification{
			UserID:  followerID,
			Type:    models.NotificationNewEvent,
			Message: fmt.Sprintf("New event: %s", event.Title),
			EventID: &eventID,
		})
	}

	return db.Create(&notifications).Error
}

func NotifyNewComment(db *gorm.DB, event *models.Event, author *models.User) error {
	if event.UserID == author.ID {
		return nil
	}

	eventID := event.ID
	notification := models.Notification{
		UserID:  event.UserID,
		Type:    models.NotificationNewComment,
		Message: fmt.Sprintf("%s commented on %s", author.Name, event.Title),
		EventID: &eventID,
	}
	return db.Create(&notification).Error
}

func NotifyNewReview(db *gorm.DB, event *models.Event, author *models.User, rating int) error {
	if event.UserID == author.ID {
		return nil
	}

	eventID := event.ID
	notification := models.Notification{
		UserID:  event.UserID,
		Type:    models.NotificationNewReview,
		Message: fmt.Sprintf("%s rated %s %d/5", author.Name, event.Title, rating),
		EventID: &eventID,
	}
	return db.Create(&notification).Error
}

func NotifyNewFollower(db *gorm.DB, followeeID uuid.UUID, follower *models.User) error {
	notification := models.Notification{
		UserID:  followeeID,
		Type:    models.NotificationNewFollower,
		Message: fmt.Sprintf("%s started following you", follower.Name),
	}
	return db.Create(&notification).Error
}
