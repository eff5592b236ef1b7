package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/models"
)

func generateTicketSignature(ticketID, eventID, userID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", ticketID.String(), eventID.String(), userID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func generateTicketQRData(ticket *models.Ticket) string {
	secretKey := os.Getenv("JWT_SECRET")
	signature := generateTicketSignature(ticket.ID, ticket.EventID, ticket.UserID, secretKey)
	return fmt.Sprintf("ticket:%s;event:%s;signature:%s",
		ticket.ID.String(),
		ticket.EventID.String(),
		signature,
	)
}

func extractTicketIDFromQRData(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "ticket:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "ticket:"))
}

func validateTicketQRSignature(ticket *models.Ticket, qrData string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "signature:") {
		return false
	}

	secretKey := os.Getenv("JWT_SECRET")
	signature := strings.TrimPrefix(parts[2], "signature:")
	expectedSignature := generateTicketSignature(ticket.ID, ticket.EventID, ticket.UserID, secretKey)
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

func ListMyTickets(c *gin.Context) {
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

	var tickets []models.Ticket
	if err := gormDB.Preload("Event.Category").Where("user_id = ?", userID).Order("purchased_at DESC").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
	})
}

func ListEventTickets(c *gin.Context) {
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
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to view its tickets.")
		return
	}

	var tickets []models.Ticket
	if err := gormDB.Preload("User").Where("event_id = ?", event.ID).Order("purchased_at DESC").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

func GenerateTicketQR(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	ticketIDStr := c.Param("id")
	ticketID, err := uuid.Parse(ticketIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.Preload("Event").First(&ticket, ticketID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	if ticket.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a QR code for this ticket.")
		return
	}

	if ticket.IsUsed {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used.")
		return
	}

	qrData := generateTicketQRData(&ticket)

	qrImage, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func ValidateTicket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	ticketID, err := extractTicketIDFromQRData(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	var ticket models.Ticket
	if err := gormDB.Preload("Event").Preload("User").First(&ticket, ticketID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	if !validateTicketQRSignature(&ticket, validationRequest.QRData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	if ticket.Event.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket.")
		return
	}

	if ticket.IsUsed {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used.")
		return
	}

	if err := gormDB.Model(&ticket).Update("is_used", true).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully.",
		"ticket": gin.H{
			"event_title": ticket.Event.Title,
			"holder":      ticket.User.Name,
		},
	})
}

func DeleteTicket(c *gin.Context) {
	ticketID := c.Param("id")

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

	var ticket models.Ticket
	if err := gormDB.Preload("Event").Where("id = ?", ticketID).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	if ticket.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to cancel this ticket.")
		return
	}

	if time.Now().After(ticket.Event.EventDate) {
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot cancel a ticket for a past event.")
		return
	}

	if err := gormDB.Delete(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket cancelled successfully.",
	})
}
