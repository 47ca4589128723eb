package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

type entryServiceMock struct {
	createResp *models.ScheduleEntry
	createErr  error
	batchResp  *dto.BatchCreateResult
	batchErr   error
	updateResp *models.ScheduleEntry
	updateErr  error
	statusResp *models.ScheduleEntry
	statusErr  error
	deleteErr  error
	lastCreate dto.CreateEntryRequest
	lastPatch  models.EntryPatch
	lastStatus models.EntryStatus
	lastID     string
}

func (m *entryServiceMock) CreateEntry(ctx context.Context, familyID string, req dto.CreateEntryRequest) (*models.ScheduleEntry, error) {
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *entryServiceMock) BatchCreate(ctx context.Context, familyID string, req dto.BatchCreateRequest) (*dto.BatchCreateResult, error) {
	return m.batchResp, m.batchErr
}

func (m *entryServiceMock) UpdateEntry(ctx context.Context, familyID, entryID string, patch models.EntryPatch) (*models.ScheduleEntry, error) {
	m.lastID = entryID
	m.lastPatch = patch
	return m.updateResp, m.updateErr
}

func (m *entryServiceMock) UpdateStatus(ctx context.Context, familyID, entryID string, status models.EntryStatus) (*models.ScheduleEntry, error) {
	m.lastID = entryID
	m.lastStatus = status
	return m.statusResp, m.statusErr
}

func (m *entryServiceMock) DeleteEntry(ctx context.Context, familyID, entryID string) error {
	m.lastID = entryID
	return m.deleteErr
}

func TestEntryHandlerCreate(t *testing.T) {
	mockSvc := &entryServiceMock{createResp: &models.ScheduleEntry{ID: "srv-1", SyncState: models.SyncConfirmed}}
	handler := NewEntryHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/entries", dto.CreateEntryRequest{
		LearnerID: "a", SubjectName: "Math", Date: "2024-01-08", StartTime: "09:00", DurationMinutes: 30,
	})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Math", mockSvc.lastCreate.SubjectName)
}

func TestEntryHandlerCreateConflictKeepsDetail(t *testing.T) {
	conflictErr := appErrors.Wrap(&models.EntryConflictError{
		Message:   "slot already booked",
		Conflicts: []models.ScheduleEntry{{ID: "srv-9"}},
	}, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "slot already booked")
	mockSvc := &entryServiceMock{createErr: conflictErr}
	handler := NewEntryHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/entries", dto.CreateEntryRequest{
		LearnerID: "a", SubjectName: "Math", Date: "2024-01-08", StartTime: "09:00", DurationMinutes: 30,
	})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slot already booked")
	assert.Contains(t, w.Body.String(), "srv-9")
}

func TestEntryHandlerBatchCreate(t *testing.T) {
	mockSvc := &entryServiceMock{batchResp: &dto.BatchCreateResult{
		Created:  []models.ScheduleEntry{{ID: "srv-1"}},
		Failures: []dto.BatchItemFailure{{Index: 1, Message: "invalid entry payload"}},
	}}
	handler := NewEntryHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/entries/batch", dto.BatchCreateRequest{
		Items: []dto.CreateEntryRequest{{LearnerID: "a", SubjectName: "Math", Date: "2024-01-08", StartTime: "09:00", DurationMinutes: 30}},
	})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.BatchCreate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"failures"`)
}

func TestEntryHandlerUpdateStatus(t *testing.T) {
	mockSvc := &entryServiceMock{statusResp: &models.ScheduleEntry{ID: "srv-1", Status: models.EntryStatusCompleted}}
	handler := NewEntryHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/entries/srv-1/status", dto.StatusRequest{Status: models.EntryStatusCompleted})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}, {Key: "id", Value: "srv-1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EntryStatusCompleted, mockSvc.lastStatus)
}

func TestEntryHandlerDelete(t *testing.T) {
	mockSvc := &entryServiceMock{}
	handler := NewEntryHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodDelete, "/planner/fam-1/entries/srv-1", nil)
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}, {Key: "id", Value: "srv-1"}}

	handler.Delete(c)
	// Status-only responses are not flushed by the bare test context.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "srv-1", mockSvc.lastID)
}

func TestEntryHandlerMissingEntryID(t *testing.T) {
	handler := NewEntryHandler(&entryServiceMock{})

	c, w := plannerTestContext(t, http.MethodDelete, "/planner/fam-1/entries/", nil)
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
