package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/models"
	"github.com/kvasnikov/eventhub/internal/notifier"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

func CreateReview(c *gin.Context) {
	eventID := c.Param("id")

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Rating must be between 1 and 5.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	if event.UserID == userUUID {
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot review your own event.")
		return
	}

	if time.Now().Before(event.EventDate) {
		helpers.RespondWithError(c, http.StatusBadRequest, "You can only review an event after it has taken place.")
		return
	}

	var existing models.Review
	if result := gormDB.Where("user_id = ? AND event_id = ?", userUUID, event.ID).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "You have already reviewed this event.")
		return
	}

	var user models.User
	if err := gormDB.Where("id = ?", userUUID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	review := models.Review{
		Rating:  req.Rating,
		Comment: req.Comment,
		EventID: event.ID,
		UserID:  user.ID,
	}

	if err := gormDB.Create(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create review.")
		return
	}

	if err := notifier.NotifyNewReview(gormDB, &event, &user, review.Rating); err != nil {
		fmt.Printf("Error notifying organizer: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Review added successfully.",
		"review_id": review.ID,
	})
}

func ListEventReviews(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var reviews []models.Review
	if err := gormDB.Preload("User").Where("event_id = ?", eventID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	var average float64
	if err := gormDB.Model(&models.Review{}).Where("event_id = ?", eventID).
		Select("COALESCE(AVG(rating), 0)").Scan(&average).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error calculating average rating.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": average,
		"total":          len(reviews),
	})
}

func ListUserReviews(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var reviews []models.Review
	if err := gormDB.Preload("Event").Where("user_id = ?", targetID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
	})
}

func DeleteReview(c *gin.Context) {
	reviewID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Where("id = ?", reviewID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Review not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving review.")
		return
	}

	role, _ := c.Get("role")
	if review.UserID != userID && role != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this review.")
		return
	}

	if err := gormDB.Delete(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete review.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully.",
	})
}
