package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
	return client, server
}

func TestClientListEntries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule/learner-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":              "e1",
				"learnerId":       "learner-1",
				"subjectName":     "Math",
				"scheduledDate":   "2024-01-08",
				"startTime":       "09:00",
				"durationMinutes": 30,
				"status":          "scheduled",
				"createdBy":       "parent",
			},
		})
	})

	entries, err := client.ListEntries(context.Background(), "learner-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, models.SyncConfirmed, entries[0].SyncState)
	assert.Equal(t, "2024-01-08_09:00", entries[0].SlotKey())
}

func TestClientCreateEntryConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "slot already booked"})
	})

	_, err := client.CreateEntry(context.Background(), CreateEntryRequest{
		LearnerID:       "learner-1",
		SubjectName:     "Math",
		ScheduledDate:   "2024-01-08",
		StartTime:       "09:00",
		DurationMinutes: 30,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict.Code))

	var conflict *models.EntryConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "slot already booked", conflict.Message)
}

func TestClientCreateEntryServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateEntry(context.Background(), CreateEntryRequest{LearnerID: "learner-1"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code))
}

func TestClientTransportFailureIsUpstreamUnavailable(t *testing.T) {
	client := NewClient(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, zap.NewNop())

	_, err := client.ListEntries(context.Background(), "learner-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code))
}

func TestClientUpdateEntryNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	subject := "Science"
	_, err := client.UpdateEntry(context.Background(), "missing", UpdateEntryRequest{SubjectName: &subject})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}

func TestClientDeleteEntry(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/schedule/e1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteEntry(context.Background(), "e1"))
}

func TestClientPreferencesRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"preferredStartTime":   "08:00",
				"preferredEndTime":     "12:00",
				"maxDailyStudyMinutes": 90,
				"breakDurationMinutes": 10,
				"studyDays":            []string{"monday", "wednesday"},
			})
		case http.MethodPost:
			var body wirePreferences
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(body)
		}
	})

	prefs, err := client.GetPreferences(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", prefs.PreferredStartTime)
	assert.Equal(t, []string{"monday", "wednesday"}, prefs.StudyDays)

	saved, err := client.SavePreferences(context.Background(), "learner-1", prefs)
	require.NoError(t, err)
	assert.Equal(t, prefs.PreferredEndTime, saved.PreferredEndTime)
}
