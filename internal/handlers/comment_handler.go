package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/models"
	"github.com/kvasnikov/eventhub/internal/notifier"
)

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

func CreateComment(c *gin.Context) {
	eventID := c.Param("id")

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

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

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	comment := models.Comment{
		Text:    req.Text,
		EventID: event.ID,
		UserID:  user.ID,
	}

	if err := gormDB.Create(&comment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create comment.")
		return
	}

	if err := notifier.NotifyNewComment(gormDB, &event, &user); err != nil {
		fmt.Printf("Error notifying organizer: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Comment added successfully.",
		"comment_id": comment.ID,
	})
}

func ListEventComments(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Comment{}).Where("event_id = ?", eventID)

	var totalCount int64
	query.Count(&totalCount)

	var comments []models.Comment
	offset := (pageNum - 1) * limitNum
	err = query.Preload("User").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving comments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    comments,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func ListUserComments(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var comments []models.Comment
	if err := gormDB.Preload("Event").Where("user_id = ?", targetID).Order("created_at DESC").Find(&comments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving comments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

func DeleteComment(c *gin.Context) {
	commentID := c.Param("id")

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

	var comment models.Comment
	if err := gormDB.Preload("Event").Where("id = ?", commentID).First(&comment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Comment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving comment.")
		return
	}

	role, _ := c.Get("role")
	if comment.UserID != userID && comment.Event.UserID != userID && role != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this comment.")
		return
	}

	if err := gormDB.Delete(&comment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete comment.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully.",
	})
}
