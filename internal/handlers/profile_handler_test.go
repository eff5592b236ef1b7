package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/eventhub/internal/models"
)

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "alice@example.com", "user")

	w := doRequest(r, http.MethodGet, "/v1/profile", authToken(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "alice@example.com", body["Email"])
	assert.NotContains(t, w.Body.String(), user.Password)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "alice@example.com", "user")

	w := doRequest(r, http.MethodPut, "/v1/profile", authToken(t, user), map[string]any{
		"name": "Alice Updated",
		"bio":  "Concert enthusiast",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Alice Updated", stored.Name)
	assert.Equal(t, "Concert enthusiast", stored.Bio)
}

func TestUpdateProfileRequiresName(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "alice@example.com", "user")

	w := doRequest(r, http.MethodPut, "/v1/profile", authToken(t, user), map[string]any{
		"bio": "no name here",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserPublic(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	follower := createUser(t, db, "fan@example.com", "user")

	require.NoError(t, db.Create(&models.Subscription{
		FollowerID: follower.ID,
		FolloweeID: organizer.ID,
	}).Error)

	w := doRequest(r, http.MethodGet, "/v1/users/"+organizer.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["followers"])

	userBody := body["user"].(map[string]any)
	assert.Equal(t, "org@example.com", userBody["Email"])
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := doRequest(r, http.MethodGet, "/v1/users/9f4a2b6e-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
