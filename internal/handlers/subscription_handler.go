package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/models"
	"github.com/kvasnikov/eventhub/internal/notifier"
)

func FollowUser(c *gin.Context) {
	targetIDStr := c.Param("id")
	targetID, err := uuid.Parse(targetIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
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

	if targetID == userUUID {
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot follow yourself.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var followee models.User
	if err := gormDB.Where("id = ?", targetID).First(&followee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	var existing models.Subscription
	if result := gormDB.Where("follower_id = ? AND followee_id = ?", userUUID, targetID).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "You are already following this user.")
		return
	}

	var follower models.User
	if err := gormDB.Where("id = ?", userUUID).First(&follower).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	subscription := models.Subscription{
		FollowerID: userUUID,
		FolloweeID: targetID,
	}

	if err := gormDB.Create(&subscription).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create subscription.")
		return
	}

	if err := notifier.NotifyNewFollower(gormDB, targetID, &follower); err != nil {
		fmt.Printf("Error notifying followee: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Subscription created successfully.",
	})
}

func UnfollowUser(c *gin.Context) {
	targetID := c.Param("id")

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

	result := gormDB.Where("follower_id = ? AND followee_id = ?", userID, targetID).Delete(&models.Subscription{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete subscription.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "You are not following this user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unfollowed successfully.",
	})
}

func ListFollowers(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var subscriptions []models.Subscription
	if err := gormDB.Preload("Follower").Where("followee_id = ?", targetID).Order("created_at DESC").Find(&subscriptions).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving followers.")
		return
	}

	followers := make([]*models.User, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		followers = append(followers, subscription.Follower)
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"total":     len(followers),
	})
}

func ListFollowing(c *gin.Context) {
	targetID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var subscriptions []models.Subscription
	if err := gormDB.Preload("Followee").Where("follower_id = ?", targetID).Order("created_at DESC").Find(&subscriptions).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving subscriptions.")
		return
	}

	following := make([]*models.User, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		following = append(following, subscription.Followee)
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"total":     len(following),
	})
}
