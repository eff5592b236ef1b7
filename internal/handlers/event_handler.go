package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/middleware"
	"github.com/kvasnikov/eventhub/internal/models"
	"github.com/kvasnikov/eventhub/internal/notifier"
)

func CreateEvent(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	location := c.PostForm("location")

	eventDateStr := c.PostForm("event_date")
	eventDate, err := time.Parse(time.RFC3339, eventDateStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format.")
		return
	}

	categoryIDStr := c.PostForm("category_id")
	categoryID, err := uuid.Parse(categoryIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	if title == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	ticketPrice := decimal.Zero
	if priceStr := c.PostForm("ticket_price"); priceStr != "" {
		ticketPrice, err = decimal.NewFromString(priceStr)
		if err != nil || ticketPrice.IsNegative() {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket price.")
			return
		}
	}

	var capacity *int
	if capacityStr := c.PostForm("capacity"); capacityStr != "" {
		capacityNum, err := helpers.StringToInt(capacityStr)
		if err != nil || capacityNum < 1 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid capacity.")
			return
		}
		capacity = &capacityNum
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

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var category models.Category
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category not found.")
		return
	}

	event := models.Event{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		EventDate:   eventDate,
		Location:    location,
		TicketPrice: ticketPrice,
		Capacity:    capacity,
		CategoryID:  category.ID,
		UserID:      user.ID,
	}

	bannerFile, err := c.FormFile("banner")
	if err == nil {
		bannerPath, err := helpers.UploadFile(c, bannerFile, "event_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.BannerPath = bannerPath
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	if err := notifier.NotifyNewEvent(gormDB, &event); err != nil {
		fmt.Printf("Error notifying followers: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Category").Preload("User").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	if eventCache := middleware.GetCache(c); eventCache != nil {
		if err := eventCache.IncrementEventViews(c.Request.Context(), event.ID); err != nil {
			fmt.Printf("Error counting event view: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
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

	query := gormDB.Model(&models.Event{})

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if organizer := c.Query("organizer"); organizer != "" {
		query = query.Where("user_id = ?", organizer)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+location+"%")
	}
	orderBy := "created_at DESC"
	if from := c.Query("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid from date format.")
			return
		}
		query = query.Where("event_date >= ?", fromTime)
		orderBy = "event_date ASC"
	}
	if to := c.Query("to"); to != "" {
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid to date format.")
			return
		}
		query = query.Where("event_date <= ?", toTime)
		orderBy = "event_date ASC"
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Category").Preload("User").Offset(offset).Limit(limitNum).Order(orderBy).Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	location := c.PostForm("location")

	eventDateStr := c.PostForm("event_date")
	eventDate, err := time.Parse(time.RFC3339, eventDateStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format.")
		return
	}

	categoryIDStr := c.PostForm("category_id")
	categoryID, err := uuid.Parse(categoryIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	if title == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
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
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var category models.Category
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category not found.")
		return
	}

	event.Title = title
	event.Description = description
	event.EventDate = eventDate
	event.Location = location
	event.CategoryID = category.ID

	if priceStr := c.PostForm("ticket_price"); priceStr != "" {
		ticketPrice, err := decimal.NewFromString(priceStr)
		if err != nil || ticketPrice.IsNegative() {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket price.")
			return
		}
		event.TicketPrice = ticketPrice
	}

	if capacityStr := c.PostForm("capacity"); capacityStr != "" {
		capacityNum, err := helpers.StringToInt(capacityStr)
		if err != nil || capacityNum < 1 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid capacity.")
			return
		}
		event.Capacity = &capacityNum
	}

	bannerFile, err := c.FormFile("banner")
	if err == nil {
		bannerPath, err := helpers.UploadFile(c, bannerFile, "event_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if event.BannerPath != "" {
			if err := helpers.DeleteFile(event.BannerPath); err != nil {
				fmt.Printf("Error deleting old banner: %v\n", err)
			}
		}
		event.BannerPath = bannerPath
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
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

	query := gormDB.Where("id = ? AND user_id = ?", eventID, userID)
	if role, _ := c.Get("role"); role == "admin" {
		query = gormDB.Where("id = ?", eventID)
	}

	result := query.Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}
