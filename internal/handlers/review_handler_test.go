package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/eventhub/internal/models"
)

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	user := createUser(t, db, "fan@example.com", "user")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))
	path := "/v1/events/" + event.ID.String() + "/reviews"

	w := doRequest(r, http.MethodPost, path, authToken(t, user), map[string]any{
		"rating":  5,
		"comment": "Great show",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&review).Error)
	assert.Equal(t, 5, review.Rating)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", organizer.ID, models.NotificationNewReview).First(&notification).Error)

	// One review per user per event.
	w = doRequest(r, http.MethodPost, path, authToken(t, user), map[string]any{"rating": 3})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateReviewBeforeEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	user := createUser(t, db, "fan@example.com", "user")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(24*time.Hour))

	w := doRequest(r, http.MethodPost, "/v1/events/"+event.ID.String()+"/reviews", authToken(t, user), map[string]any{
		"rating": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You can only review an event after it has taken place.", decodeBody(t, w)["message"])
}

func TestCreateReviewOwnEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))

	w := doRequest(r, http.MethodPost, "/v1/events/"+event.ID.String()+"/reviews", authToken(t, organizer), map[string]any{
		"rating": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	user := createUser(t, db, "fan@example.com", "user")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))
	path := "/v1/events/" + event.ID.String() + "/reviews"

	for _, rating := range []int{0, 6, -1} {
		w := doRequest(r, http.MethodPost, path, authToken(t, user), map[string]any{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestListEventReviews(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))

	ratings := []int{5, 4, 3}
	for i, rating := range ratings {
		reviewer := createUser(t, db, string(rune('a'+i))+"@example.com", "user")
		require.NoError(t, db.Create(&models.Review{
			Rating:  rating,
			EventID: event.ID,
			UserID:  reviewer.ID,
		}).Error)
	}

	w := doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String()+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["total"])
	assert.InDelta(t, 4.0, body["average_rating"].(float64), 0.001)
	assert.Len(t, body["reviews"].([]any), 3)
}

func TestListEventReviewsEmpty(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))

	w := doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String()+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["total"])
	assert.Equal(t, float64(0), body["average_rating"])
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	author := createUser(t, db, "author@example.com", "user")
	stranger := createUser(t, db, "stranger@example.com", "user")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Jazz Night", time.Now().Add(-24*time.Hour))

	review := models.Review{Rating: 1, EventID: event.ID, UserID: author.ID}
	require.NoError(t, db.Create(&review).Error)
	path := "/v1/reviews/" + review.ID.String()

	w := doRequest(r, http.MethodDelete, path, authToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Event organizers cannot remove bad reviews, only admins can.
	w = doRequest(r, http.MethodDelete, path, authToken(t, organizer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodDelete, path, authToken(t, author), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Review{}).Where("id = ?", review.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Author can review again after removing their review.
	w = doRequest(r, http.MethodPost, "/v1/events/"+event.ID.String()+"/reviews", authToken(t, author), map[string]any{
		"rating": 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}
