// Package remote speaks to the authoritative schedule store. It is the only
// code that sees the upstream wire format; failures are translated into the
// typed error taxonomy before they reach a service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

// CreateEntryRequest is the upstream body for creating an entry.
type CreateEntryRequest struct {
	LearnerID       string  `json:"learnerId"`
	SubjectName     string  `json:"subjectName"`
	MaterialRef     *string `json:"materialRef,omitempty"`
	ScheduledDate   string  `json:"scheduledDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           string  `json:"notes,omitempty"`
}

// UpdateEntryRequest carries partial entry fields for an upstream update.
type UpdateEntryRequest struct {
	SubjectName     *string `json:"subjectName,omitempty"`
	MaterialRef     *string `json:"materialRef,omitempty"`
	ScheduledDate   *string `json:"scheduledDate,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type wireEntry struct {
	ID              string  `json:"id"`
	LearnerID       string  `json:"learnerId"`
	SubjectName     string  `json:"subjectName"`
	MaterialRef     *string `json:"materialRef,omitempty"`
	ScheduledDate   string  `json:"scheduledDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"createdBy"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	UpdatedAt       string  `json:"updatedAt,omitempty"`
}

type wirePreferences struct {
	PreferredStartTime       string   `json:"preferredStartTime"`
	PreferredEndTime         string   `json:"preferredEndTime"`
	MaxDailyStudyMinutes     int      `json:"maxDailyStudyMinutes"`
	BreakDurationMinutes     int      `json:"breakDurationMinutes"`
	DifficultSubjectsMorning bool     `json:"difficultSubjectsMorning"`
	StudyDays                []string `json:"studyDays"`
}

type wireError struct {
	Message string `json:"message"`
}

// Client calls the upstream schedule store.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from config.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListEntries fetches all entries for a learner.
func (c *Client) ListEntries(ctx context.Context, learnerID string) ([]models.ScheduleEntry, error) {
	var wire []wireEntry
	if err := c.do(ctx, http.MethodGet, "/schedule/"+learnerID, nil, &wire); err != nil {
		return nil, err
	}
	entries := make([]models.ScheduleEntry, 0, len(wire))
	for _, item := range wire {
		entries = append(entries, item.toModel())
	}
	return entries, nil
}

// CreateEntry writes a new entry upstream. A 409 verdict surfaces as a
// conflict error carrying the server message; it must never be retried
// silently or replaced by a local record.
func (c *Client) CreateEntry(ctx context.Context, req CreateEntryRequest) (*models.ScheduleEntry, error) {
	var wire wireEntry
	if err := c.do(ctx, http.MethodPost, "/schedule", req, &wire); err != nil {
		return nil, err
	}
	entry := wire.toModel()
	return &entry, nil
}

// UpdateEntry applies a partial update upstream.
func (c *Client) UpdateEntry(ctx context.Context, id string, req UpdateEntryRequest) (*models.ScheduleEntry, error) {
	var wire wireEntry
	if err := c.do(ctx, http.MethodPut, "/schedule/"+id, req, &wire); err != nil {
		return nil, err
	}
	entry := wire.toModel()
	return &entry, nil
}

// DeleteEntry removes an entry upstream.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/schedule/"+id, nil, nil)
}

// GetPreferences loads a learner's stored preferences.
func (c *Client) GetPreferences(ctx context.Context, learnerID string) (*models.SchedulePreferences, error) {
	var wire wirePreferences
	if err := c.do(ctx, http.MethodGet, "/schedule/preferences/"+learnerID, nil, &wire); err != nil {
		return nil, err
	}
	return wire.toModel(learnerID), nil
}

// SavePreferences stores a learner's preferences.
func (c *Client) SavePreferences(ctx context.Context, learnerID string, prefs *models.SchedulePreferences) (*models.SchedulePreferences, error) {
	body := wirePreferences{
		PreferredStartTime:       prefs.PreferredStartTime,
		PreferredEndTime:         prefs.PreferredEndTime,
		MaxDailyStudyMinutes:     prefs.MaxDailyStudyMinutes,
		BreakDurationMinutes:     prefs.BreakDurationMinutes,
		DifficultSubjectsMorning: prefs.DifficultSubjectsMorning,
		StudyDays:                prefs.StudyDays,
	}
	var wire wirePreferences
	if err := c.do(ctx, http.MethodPost, "/schedule/preferences/"+learnerID, body, &wire); err != nil {
		return nil, err
	}
	return wire.toModel(learnerID), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream request")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "upstream request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "read upstream response")
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return c.conflictError(raw)
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found upstream")
	case resp.StatusCode >= http.StatusInternalServerError:
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("upstream returned %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("upstream rejected request: %s", messageFrom(raw)))
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "decode upstream response")
	}
	return nil
}

func (c *Client) conflictError(raw []byte) error {
	message := messageFrom(raw)
	if message == "" {
		message = "the proposed time overlaps an existing session"
	}
	domainErr := &models.EntryConflictError{Message: message}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}

func messageFrom(raw []byte) string {
	var wire wireError
	if err := json.Unmarshal(raw, &wire); err == nil && wire.Message != "" {
		return wire.Message
	}
	return ""
}

func (w wireEntry) toModel() models.ScheduleEntry {
	status := models.EntryStatus(w.Status)
	if status == "" {
		status = models.EntryStatusScheduled
	}
	createdBy := models.EntryOrigin(w.CreatedBy)
	if createdBy == "" {
		createdBy = models.EntryOriginParent
	}
	entry := models.ScheduleEntry{
		ID:              w.ID,
		LearnerID:       w.LearnerID,
		MaterialRef:     w.MaterialRef,
		SubjectName:     w.SubjectName,
		Date:            w.ScheduledDate,
		StartTime:       w.StartTime,
		DurationMinutes: w.DurationMinutes,
		Status:          status,
		CreatedBy:       createdBy,
		Notes:           w.Notes,
		SyncState:       models.SyncConfirmed,
	}
	if ts, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		entry.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, w.UpdatedAt); err == nil {
		entry.UpdatedAt = ts
	}
	return entry
}

func (w wirePreferences) toModel(learnerID string) *models.SchedulePreferences {
	return &models.SchedulePreferences{
		LearnerID:                learnerID,
		PreferredStartTime:       w.PreferredStartTime,
		PreferredEndTime:         w.PreferredEndTime,
		MaxDailyStudyMinutes:     w.MaxDailyStudyMinutes,
		BreakDurationMinutes:     w.BreakDurationMinutes,
		DifficultSubjectsMorning: w.DifficultSubjectsMorning,
		StudyDays:                w.StudyDays,
	}
}
