package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/middleware"
	"github.com/kvasnikov/eventhub/internal/models"
)

func GetEventStats(c *gin.Context) {
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

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to view its stats.")
		return
	}

	participationCounts := gin.H{
		string(models.StatusGoing):      int64(0),
		string(models.StatusInterested): int64(0),
		string(models.StatusNotGoing):   int64(0),
	}
	for status := range participationCounts {
		var count int64
		gormDB.Model(&models.Participation{}).Where("event_id = ? AND status = ?", event.ID, status).Count(&count)
		participationCounts[status] = count
	}

	var ticketsSold int64
	gormDB.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&ticketsSold)

	var revenue decimal.Decimal
	gormDB.Model(&models.Ticket{}).Where("event_id = ?", event.ID).
		Select("COALESCE(SUM(price), 0)").Scan(&revenue)

	var averageRating float64
	gormDB.Model(&models.Review{}).Where("event_id = ?", event.ID).
		Select("COALESCE(AVG(rating), 0)").Scan(&averageRating)

	var commentCount int64
	gormDB.Model(&models.Comment{}).Where("event_id = ?", event.ID).Count(&commentCount)

	var views int64
	if eventCache := middleware.GetCache(c); eventCache != nil {
		if cachedViews, err := eventCache.EventViews(c.Request.Context(), event.ID); err == nil {
			views = cachedViews
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":       event.ID,
		"title":          event.Title,
		"views":          views,
		"participations": participationCounts,
		"tickets_sold":   ticketsSold,
		"revenue":        revenue,
		"average_rating": averageRating,
		"comments":       commentCount,
	})
}

func GetOrganizerOverview(c *gin.Context) {
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

	var eventIDs []uuid.UUID
	if err := gormDB.Model(&models.Event{}).Where("user_id = ?", userID).Pluck("id", &eventIDs).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	var followerCount int64
	gormDB.Model(&models.Subscription{}).Where("followee_id = ?", userID).Count(&followerCount)

	if len(eventIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"events":         0,
			"tickets_sold":   0,
			"revenue":        decimal.Zero,
			"average_rating": 0,
			"followers":      followerCount,
		})
		return
	}

	var ticketsSold int64
	gormDB.Model(&models.Ticket{}).Where("event_id IN ?", eventIDs).Count(&ticketsSold)

	var revenue decimal.Decimal
	gormDB.Model(&models.Ticket{}).Where("event_id IN ?", eventIDs).
		Select("COALESCE(SUM(price), 0)").Scan(&revenue)

	var averageRating float64
	gormDB.Model(&models.Review{}).Where("event_id IN ?", eventIDs).
		Select("COALESCE(AVG(rating), 0)").Scan(&averageRating)

	c.JSON(http.StatusOK, gin.H{
		"events":         len(eventIDs),
		"tickets_sold":   ticketsSold,
		"revenue":        revenue,
		"average_rating": averageRating,
		"followers":      followerCount,
	})
}
