package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/models"
)

type ParticipationRequest struct {
	Status models.ParticipationStatus `json:"status" binding:"required"`
}

func SetParticipation(c *gin.Context) {
	eventID := c.Param("id")

	var req ParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !req.Status.Valid() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid participation status.")
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
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot RSVP to your own event.")
		return
	}

	var participation models.Participation
	err := gormDB.Where("user_id = ? AND event_id = ?", userUUID, event.ID).First(&participation).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving participation.")
			return
		}

		participation = models.Participation{
			UserID:  userUUID,
			EventID: event.ID,
			Status:  req.Status,
		}
		if err := gormDB.Create(&participation).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save participation.")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Participation saved successfully.",
			"participation": participation,
		})
		return
	}

	participation.Status = req.Status
	if err := gormDB.Save(&participation).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save participation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Participation updated successfully.",
		"participation": participation,
	})
}

func DeleteParticipation(c *gin.Context) {
	eventID := c.Param("id")

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

	result := gormDB.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&models.Participation{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete participation.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Participation not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participation deleted successfully.",
	})
}

func ListEventParticipations(c *gin.Context) {
	eventID := c.Param("id")

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

	var participations []models.Participation
	if err := gormDB.Preload("User").Where("event_id = ?", event.ID).Order("joined_at ASC").Find(&participations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving participations.")
		return
	}

	counts := gin.H{
		string(models.StatusGoing):      0,
		string(models.StatusInterested): 0,
		string(models.StatusNotGoing):   0,
	}
	for _, participation := range participations {
		if current, ok := counts[string(participation.Status)].(int); ok {
			counts[string(participation.Status)] = current + 1
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"participations": participations,
		"counts":         counts,
	})
}

func ListMyParticipations(c *gin.Context) {
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

	var participations []models.Participation
	if err := gormDB.Preload("Event.Category").Where("user_id = ?", userID).Order("joined_at DESC").Find(&participations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving participations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participations": participations,
	})
}
