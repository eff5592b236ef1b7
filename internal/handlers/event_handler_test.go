package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasnikov/eventhub/internal/models"
)

func doMultipart(r *gin.Engine, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		mw.WriteField(key, value)
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	follower := createUser(t, db, "fan@example.com", "user")
	category := createCategory(t, db, "Music")

	require.NoError(t, db.Create(&models.Subscription{
		FollowerID: follower.ID,
		FolloweeID: organizer.ID,
	}).Error)

	w := doMultipart(r, http.MethodPost, "/v1/events", authToken(t, organizer), map[string]string{
		"title":        "Jazz Night",
		"description":  "An evening of live jazz",
		"location":     "Blue Note",
		"event_date":   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"category_id":  category.ID.String(),
		"ticket_price": "25.50",
		"capacity":     "120",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var event models.Event
	require.NoError(t, db.Where("title = ?", "Jazz Night").First(&event).Error)
	assert.Equal(t, organizer.ID, event.UserID)
	assert.True(t, event.TicketPrice.Equal(decimalFromString(t, "25.50")))
	require.NotNil(t, event.Capacity)
	assert.Equal(t, 120, *event.Capacity)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", follower.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNewEvent, notifications[0].Type)
}

func TestCreateEventRequiresOrganizerRole(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	user := createUser(t, db, "plain@example.com", "user")
	category := createCategory(t, db, "Music")

	w := doMultipart(r, http.MethodPost, "/v1/events", authToken(t, user), map[string]string{
		"title":       "Not Allowed",
		"event_date":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"category_id": category.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateEventInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")
	token := authToken(t, organizer)

	w := doMultipart(r, http.MethodPost, "/v1/events", token, map[string]string{
		"title":       "Bad Date",
		"event_date":  "next tuesday",
		"category_id": category.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(r, http.MethodPost, "/v1/events", token, map[string]string{
		"title":       "Bad Category",
		"event_date":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"category_id": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(r, http.MethodPost, "/v1/events", token, map[string]string{
		"title":        "Bad Price",
		"event_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"category_id":  category.ID.String(),
		"ticket_price": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Open Air", time.Now().Add(48*time.Hour))

	w := doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Open Air", body["Title"])

	w = doRequest(r, http.MethodGet, "/v1/events/9f4a2b6e-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEventsFilters(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	other := createUser(t, db, "other@example.com", "organizer")
	music := createCategory(t, db, "Music")
	tech := createCategory(t, db, "Tech")

	createEvent(t, db, organizer, music, "Jazz Night", time.Now().Add(24*time.Hour))
	createEvent(t, db, organizer, tech, "Go Meetup", time.Now().Add(48*time.Hour))
	createEvent(t, db, other, music, "Rock Festival", time.Now().Add(30*24*time.Hour))

	listTitles := func(query string) []string {
		w := doRequest(r, http.MethodGet, "/v1/events?"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		var titles []string
		for _, raw := range body["events"].([]any) {
			titles = append(titles, raw.(map[string]any)["Title"].(string))
		}
		return titles
	}

	assert.ElementsMatch(t, []string{"Jazz Night", "Go Meetup", "Rock Festival"}, listTitles(""))
	assert.ElementsMatch(t, []string{"Jazz Night"}, listTitles("q=jazz"))
	assert.ElementsMatch(t, []string{"Jazz Night", "Rock Festival"}, listTitles("category="+music.ID.String()))
	assert.ElementsMatch(t, []string{"Jazz Night", "Go Meetup"}, listTitles("organizer="+organizer.ID.String()))

	to := url.QueryEscape(time.Now().Add(72 * time.Hour).Format(time.RFC3339))
	assert.ElementsMatch(t, []string{"Jazz Night", "Go Meetup"}, listTitles("to="+to))

	from := url.QueryEscape(time.Now().Add(72 * time.Hour).Format(time.RFC3339))
	assert.ElementsMatch(t, []string{"Rock Festival"}, listTitles("from="+from))
}

func TestListEventsPagination(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")

	for i := 0; i < 5; i++ {
		createEvent(t, db, organizer, category, "Event", time.Now().Add(time.Duration(i+1)*time.Hour))
	}

	w := doRequest(r, http.MethodGet, "/v1/events?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Len(t, body["events"].([]any), 2)
}

func TestListEventsInvalidPagination(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	for _, query := range []string{"limit=0", "limit=-1", "page=0", "page=-3"} {
		w := doRequest(r, http.MethodGet, "/v1/events?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestListEventsOrdering(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	category := createCategory(t, db, "Music")

	soon := createEvent(t, db, organizer, category, "Soon Show", time.Now().Add(24*time.Hour))
	createEvent(t, db, organizer, category, "Later Show", time.Now().Add(72*time.Hour))
	require.NoError(t, db.Model(&soon).Update("created_at", time.Now().Add(-time.Hour)).Error)

	listTitles := func(query string) []string {
		w := doRequest(r, http.MethodGet, "/v1/events?"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		var titles []string
		for _, raw := range body["events"].([]any) {
			titles = append(titles, raw.(map[string]any)["Title"].(string))
		}
		return titles
	}

	// Newest listing first by default.
	assert.Equal(t, []string{"Later Show", "Soon Show"}, listTitles(""))

	// Date-window queries return soonest first.
	from := url.QueryEscape(time.Now().Format(time.RFC3339))
	assert.Equal(t, []string{"Soon Show", "Later Show"}, listTitles("from="+from))
}

func TestUpdateEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	intruder := createUser(t, db, "intruder@example.com", "organizer")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Old Title", time.Now().Add(24*time.Hour))

	fields := map[string]string{
		"title":       "New Title",
		"description": "updated",
		"location":    "Hamburg",
		"event_date":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"category_id": category.ID.String(),
	}

	w := doMultipart(r, http.MethodPut, "/v1/events/"+event.ID.String(), authToken(t, intruder), fields)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doMultipart(r, http.MethodPut, "/v1/events/"+event.ID.String(), authToken(t, organizer), fields)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Event
	require.NoError(t, db.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, "New Title", stored.Title)
	assert.Equal(t, "Hamburg", stored.Location)
}

func TestDeleteEvent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	intruder := createUser(t, db, "intruder@example.com", "user")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Doomed", time.Now().Add(24*time.Hour))

	w := doRequest(r, http.MethodDelete, "/v1/events/"+event.ID.String(), authToken(t, intruder), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodDelete, "/v1/events/"+event.ID.String(), authToken(t, organizer), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteEventAsAdmin(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	organizer := createUser(t, db, "org@example.com", "organizer")
	admin := createUser(t, db, "admin@example.com", "admin")
	category := createCategory(t, db, "Music")
	event := createEvent(t, db, organizer, category, "Doomed", time.Now().Add(24*time.Hour))

	w := doRequest(r, http.MethodDelete, "/v1/events/"+event.ID.String(), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
