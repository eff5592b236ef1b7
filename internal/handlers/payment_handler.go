package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xendit/xendit-go/v6/invoice"

	"github.com/kvasnikov/eventhub/internal/helpers"
	"github.com/kvasnikov/eventhub/internal/middleware"
	"github.com/kvasnikov/eventhub/internal/models"
)

// PurchaseTicket issues a ticket directly for free events and returns a
// hosted invoice link for paid ones. The ticket itself is only created
// once the payment callback reports the invoice as paid.
func PurchaseTicket(c *gin.Context) {
	eventID := c.Param("id")

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
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot buy a ticket for your own event.")
		return
	}

	if time.Now().After(event.EventDate) {
		helpers.RespondWithError(c, http.StatusBadRequest, "This event has already taken place.")
		return
	}

	var existingTicket models.Ticket
	if result := gormDB.Where("user_id = ? AND event_id = ?", userUUID, event.ID).First(&existingTicket); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "You already have a ticket for this event.")
		return
	}

	if event.Capacity != nil {
		var sold int64
		gormDB.Model(&models.Ticket{}).Where("event_id = ?", event.ID).Count(&sold)
		if sold >= int64(*event.Capacity) {
			helpers.RespondWithError(c, http.StatusConflict, "This event is sold out.")
			return
		}
	}

	if event.TicketPrice.IsZero() {
		ticket := models.Ticket{
			Price:   event.TicketPrice,
			UserID:  userUUID,
			EventID: event.ID,
		}
		if err := gormDB.Create(&ticket).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket.")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Ticket issued successfully.",
			"ticket_id": ticket.ID,
		})
		return
	}

	var user models.User
	if err := gormDB.Where("id = ?", userUUID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	xenditClient := middleware.GetXenditClient(c)
	if xenditClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment provider not configured.")
		return
	}

	externalID := fmt.Sprintf("EVH-%d-%s", time.Now().Unix(), helpers.EncryptExternalID(event.ID, userUUID))

	payment := models.Payment{
		Amount:     event.TicketPrice,
		Status:     models.PaymentStatusPending,
		ExternalID: externalID,
		UserID:     userUUID,
		EventID:    event.ID,
	}
	if err := gormDB.Create(&payment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment.")
		return
	}

	amount, _ := event.TicketPrice.Float64()
	invoiceRequest := invoice.NewCreateInvoiceRequest(externalID, amount)
	invoiceRequest.SetDescription(fmt.Sprintf("Ticket for %s", event.Title))
	invoiceRequest.SetPayerEmail(user.Email)

	createdInvoice, _, errXendit := xenditClient.InvoiceApi.CreateInvoice(c.Request.Context()).
		CreateInvoiceRequest(*invoiceRequest).Execute()
	if errXendit != nil {
		gormDB.Model(&payment).Update("status", models.PaymentStatusFailed)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment link.")
		return
	}

	if err := gormDB.Model(&payment).Update("invoice_id", createdInvoice.GetId()).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save payment.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id":  payment.ID,
		"payment_url": createdInvoice.GetInvoiceUrl(),
	})
}

type PaymentCallbackRequest struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// PaymentCallback handles the invoice webhook. Repeated deliveries for
// a settled payment are acknowledged without side effects.
func PaymentCallback(c *gin.Context) {
	callbackToken := os.Getenv("XENDIT_CALLBACK_TOKEN")
	if callbackToken == "" || c.GetHeader("x-callback-token") != callbackToken {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid callback token.")
		return
	}

	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid callback payload.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Where("external_id = ?", req.ExternalID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	if payment.Status != models.PaymentStatusPending {
		c.JSON(http.StatusOK, gin.H{"message": "Payment already processed."})
		return
	}

	switch req.Status {
	case "PAID":
		eventID, payerID, err := helpers.ExtractExternalID(req.ExternalID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid external ID.")
			return
		}

		ticket := models.Ticket{
			Price:   payment.Amount,
			UserID:  payerID,
			EventID: eventID,
		}
		if err := gormDB.Create(&ticket).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket.")
			return
		}

		if err := gormDB.Model(&payment).Update("status", models.PaymentStatusPaid).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Payment confirmed, ticket issued.",
			"ticket_id": ticket.ID,
		})
	case "EXPIRED":
		if err := gormDB.Model(&payment).Update("status", models.PaymentStatusExpired).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment marked as expired."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Callback acknowledged."})
	}
}
