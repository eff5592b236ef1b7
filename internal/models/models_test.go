package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Role{},
		&User{},
		&Category{},
		&Event{},
		&Participation{},
		&Comment{},
		&Review{},
		&Ticket{},
		&Payment{},
		&Subscription{},
		&Notification{},
	))
	return db
}

func seedUserAndEvent(t *testing.T, db *gorm.DB) (User, Event) {
	t.Helper()

	user := User{Email: "user@example.com", Password: "x", Name: "User"}
	require.NoError(t, db.Create(&user).Error)

	organizer := User{Email: "org@example.com", Password: "x", Name: "Org"}
	require.NoError(t, db.Create(&organizer).Error)

	category := Category{Name: "Music"}
	require.NoError(t, db.Create(&category).Error)

	event := Event{
		Title:       "Jazz Night",
		EventDate:   time.Now().Add(24 * time.Hour),
		TicketPrice: decimal.Zero,
		CategoryID:  category.ID,
		UserID:      organizer.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	return user, event
}

func TestIDsAssignedOnCreate(t *testing.T) {
	db := setupTestDB(t)

	user := User{Email: "id@example.com", Password: "x", Name: "X"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	category := Category{Name: "Art"}
	require.NoError(t, db.Create(&category).Error)
	assert.NotEqual(t, uuid.Nil, category.ID)
}

func TestParticipationStatusValid(t *testing.T) {
	assert.True(t, StatusGoing.Valid())
	assert.True(t, StatusInterested.Valid())
	assert.True(t, StatusNotGoing.Valid())
	assert.False(t, ParticipationStatus("maybe").Valid())
	assert.False(t, ParticipationStatus("").Valid())
}

func TestParticipationUniquePerUserEvent(t *testing.T) {
	db := setupTestDB(t)
	user, event := seedUserAndEvent(t, db)

	first := Participation{UserID: user.ID, EventID: event.ID, Status: StatusGoing}
	require.NoError(t, db.Create(&first).Error)
	assert.False(t, first.JoinedAt.IsZero())

	duplicate := Participation{UserID: user.ID, EventID: event.ID, Status: StatusInterested}
	assert.Error(t, db.Create(&duplicate).Error)
}

func TestReviewUniquePerUserEvent(t *testing.T) {
	db := setupTestDB(t)
	user, event := seedUserAndEvent(t, db)

	require.NoError(t, db.Create(&Review{Rating: 5, UserID: user.ID, EventID: event.ID}).Error)
	assert.Error(t, db.Create(&Review{Rating: 1, UserID: user.ID, EventID: event.ID}).Error)
}

func TestTicketRepurchaseAfterCancel(t *testing.T) {
	db := setupTestDB(t)
	user, event := seedUserAndEvent(t, db)

	ticket := Ticket{Price: decimal.Zero, UserID: user.ID, EventID: event.ID}
	require.NoError(t, db.Create(&ticket).Error)
	assert.False(t, ticket.PurchasedAt.IsZero())

	assert.Error(t, db.Create(&Ticket{Price: decimal.Zero, UserID: user.ID, EventID: event.ID}).Error)

	// Cancellation removes the row outright, so buying again works.
	require.NoError(t, db.Delete(&ticket).Error)
	assert.NoError(t, db.Create(&Ticket{Price: decimal.Zero, UserID: user.ID, EventID: event.ID}).Error)
}

func TestSubscriptionUniquePair(t *testing.T) {
	db := setupTestDB(t)

	follower := User{Email: "follower@example.com", Password: "x", Name: "A"}
	require.NoError(t, db.Create(&follower).Error)
	followee := User{Email: "followee@example.com", Password: "x", Name: "B"}
	require.NoError(t, db.Create(&followee).Error)

	require.NoError(t, db.Create(&Subscription{FollowerID: follower.ID, FolloweeID: followee.ID}).Error)
	assert.Error(t, db.Create(&Subscription{FollowerID: follower.ID, FolloweeID: followee.ID}).Error)

	// The reverse direction is a different pair.
	assert.NoError(t, db.Create(&Subscription{FollowerID: followee.ID, FolloweeID: follower.ID}).Error)
}

func TestTicketPriceRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	user, event := seedUserAndEvent(t, db)

	price := decimal.RequireFromString("19.99")
	ticket := Ticket{Price: price, UserID: user.ID, EventID: event.ID}
	require.NoError(t, db.Create(&ticket).Error)

	var stored Ticket
	require.NoError(t, db.First(&stored, "id = ?", ticket.ID).Error)
	assert.True(t, price.Equal(stored.Price))
}
