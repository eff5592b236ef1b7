package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/middleware"
	"github.com/kvasnikov/eventhub/internal/models"
)

func GetFeed(c *gin.Context) {
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

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	var followeeIDs []uuid.UUID
	if err := gormDB.Model(&models.Subscription{}).Where("follower_id = ?", userID).Pluck("followee_id", &followeeIDs).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving subscriptions.")
		return
	}

	if len(followeeIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"events": []models.Event{},
			"total":  0,
			"page":   pageNum,
			"limit":  limitNum,
		})
		return
	}

	query := gormDB.Model(&models.Event{}).Where("user_id IN ? AND event_date > ?", followeeIDs, time.Now())

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Category").Preload("User").Offset(offset).Limit(limitNum).Order("event_date ASC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving feed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  totalCount,
		"page":   pageNum,
		"limit":  limitNum,
	})
}

type scoredEvent struct {
	Event models.Event `json:"event"`
	Score float64      `json:"score"`
}

// GetRecommendations ranks upcoming events the user has no relation to
// yet. Going RSVPs weigh more than interest, events in categories the
// user has participated in before get a boost, and the Redis trending
// ranking contributes when available.
func GetRecommendations(c *gin.Context) {
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

	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	var participatedEventIDs []uuid.UUID
	if err := gormDB.Model(&models.Participation{}).Where("user_id = ?", userUUID).Pluck("event_id", &participatedEventIDs).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving participations.")
		return
	}

	candidates := gormDB.Preload("Category").Preload("User").
		Where("event_date > ? AND user_id <> ?", time.Now(), userUUID)
	if len(participatedEventIDs) > 0 {
		candidates = candidates.Where("id NOT IN ?", participatedEventIDs)
	}

	var events []models.Event
	if err := candidates.Limit(100).Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	if len(events) == 0 {
		c.JSON(http.StatusOK, gin.H{"recommendations": []scoredEvent{}})
		return
	}

	eventIDs := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
	}

	type statusCount struct {
		EventID uuid.UUID
		Status  models.ParticipationStatus
		Count   int64
	}
	var statusCounts []statusCount
	if err := gormDB.Model(&models.Participation{}).
		Select("event_id, status, COUNT(*) as count").
		Where("event_id IN ?", eventIDs).
		Group("event_id, status").
		Scan(&statusCounts).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error aggregating participations.")
		return
	}

	going := make(map[uuid.UUID]int64)
	interested := make(map[uuid.UUID]int64)
	for _, sc := range statusCounts {
		switch sc.Status {
		case models.StatusGoing:
			going[sc.EventID] = sc.Count
		case models.StatusInterested:
			interested[sc.EventID] = sc.Count
		}
	}

	var likedCategoryIDs []uuid.UUID
	if len(participatedEventIDs) > 0 {
		if err := gormDB.Model(&models.Event{}).
			Where("id IN ?", participatedEventIDs).
			Distinct().
			Pluck("category_id", &likedCategoryIDs).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving category history.")
			return
		}
	}
	likedCategories := make(map[uuid.UUID]bool, len(likedCategoryIDs))
	for _, categoryID := range likedCategoryIDs {
		likedCategories[categoryID] = true
	}

	trendingRank := make(map[uuid.UUID]int)
	if eventCache := middleware.GetCache(c); eventCache != nil {
		if topIDs, err := eventCache.TopEvents(c.Request.Context(), 20); err == nil {
			for rank, id := range topIDs {
				trendingRank[id] = rank
			}
		}
	}

	scored := make([]scoredEvent, 0, len(events))
	for _, event := range events {
		score := float64(3*going[event.ID] + interested[event.ID])
		if likedCategories[event.CategoryID] {
			score += 5
		}
		if rank, ok := trendingRank[event.ID]; ok {
			score += float64(len(trendingRank) - rank)
		}
		scored = append(scored, scoredEvent{Event: event, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limitNum {
		scored = scored[:limitNum]
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": scored,
	})
}
