package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/eventhub/internal/models"
)

func TestFollowUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	fan := createUser(t, db, "fan@example.com", "user")
	path := "/v1/users/" + organizer.ID.String() + "/follow"

	w := doRequest(r, http.MethodPost, path, authToken(t, fan), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var subscription models.Subscription
	require.NoError(t, db.Where("follower_id = ? AND followee_id = ?", fan.ID, organizer.ID).First(&subscription).Error)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", organizer.ID, models.NotificationNewFollower).First(&notification).Error)

	w = doRequest(r, http.MethodPost, path, authToken(t, fan), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFollowYourself(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "solo@example.com", "user")

	w := doRequest(r, http.MethodPost, "/v1/users/"+user.ID.String()+"/follow", authToken(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot follow yourself.", decodeBody(t, w)["message"])
}

func TestFollowUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "fan@example.com", "user")

	w := doRequest(r, http.MethodPost, "/v1/users/9f4a2b6e-0000-0000-0000-000000000000/follow", authToken(t, user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnfollowUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	fan := createUser(t, db, "fan@example.com", "user")
	path := "/v1/users/" + organizer.ID.String() + "/follow"

	w := doRequest(r, http.MethodDelete, path, authToken(t, fan), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, db.Create(&models.Subscription{
		FollowerID: fan.ID,
		FolloweeID: organizer.ID,
	}).Error)

	w = doRequest(r, http.MethodDelete, path, authToken(t, fan), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Subscription{}).Where("follower_id = ?", fan.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	first := createUser(t, db, "first@example.com", "user")
	second := createUser(t, db, "second@example.com", "user")

	for _, fan := range []models.User{first, second} {
		require.NoError(t, db.Create(&models.Subscription{
			FollowerID: fan.ID,
			FolloweeID: organizer.ID,
		}).Error)
	}

	w := doRequest(r, http.MethodGet, "/v1/users/"+organizer.ID.String()+"/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])
	assert.Len(t, body["followers"].([]any), 2)

	w = doRequest(r, http.MethodGet, "/v1/users/"+first.ID.String()+"/following", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])
	following := body["following"].([]any)
	require.Len(t, following, 1)
	assert.Equal(t, organizer.ID.String(), following[0].(map[string]any)["ID"])
}
