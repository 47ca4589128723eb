package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

type plannerServiceMock struct {
	snapshotResp  *dto.PlannerSnapshot
	snapshotErr   error
	rosterResp    *dto.PlannerSnapshot
	rosterErr     error
	checkResp     *models.ConflictReport
	checkErr      error
	intentErr     error
	lastFamilyID  string
	lastLearners  []models.Learner
	lastIntent    models.Intent
	lastCheck     dto.CheckRequest
	snapshotCalls int
}

func (m *plannerServiceMock) SetRoster(ctx context.Context, familyID string, learners []models.Learner) (*dto.PlannerSnapshot, error) {
	m.lastFamilyID = familyID
	m.lastLearners = learners
	return m.rosterResp, m.rosterErr
}

func (m *plannerServiceMock) Snapshot(ctx context.Context, familyID string) (*dto.PlannerSnapshot, error) {
	m.snapshotCalls++
	m.lastFamilyID = familyID
	return m.snapshotResp, m.snapshotErr
}

func (m *plannerServiceMock) SetIntent(ctx context.Context, familyID string, intent models.Intent) error {
	m.lastFamilyID = familyID
	m.lastIntent = intent
	return m.intentErr
}

func (m *plannerServiceMock) CheckProposal(ctx context.Context, familyID string, req dto.CheckRequest) (*models.ConflictReport, error) {
	m.lastFamilyID = familyID
	m.lastCheck = req
	return m.checkResp, m.checkErr
}

func plannerTestContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestPlannerHandlerSnapshot(t *testing.T) {
	mockSvc := &plannerServiceMock{snapshotResp: &dto.PlannerSnapshot{FamilyID: "fam-1"}}
	handler := NewPlannerHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodGet, "/planner/fam-1/snapshot", nil)
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.Snapshot(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fam-1", mockSvc.lastFamilyID)
	assert.Contains(t, w.Body.String(), `"family_id":"fam-1"`)
}

func TestPlannerHandlerSnapshotUnknownFamily(t *testing.T) {
	mockSvc := &plannerServiceMock{snapshotErr: appErrors.Clone(appErrors.ErrNotFound, "family roster not registered")}
	handler := NewPlannerHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodGet, "/planner/ghost/snapshot", nil)
	c.Params = gin.Params{{Key: "familyId", Value: "ghost"}}

	handler.Snapshot(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlannerHandlerSetRoster(t *testing.T) {
	mockSvc := &plannerServiceMock{rosterResp: &dto.PlannerSnapshot{FamilyID: "fam-1"}}
	handler := NewPlannerHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/learners", dto.RosterRequest{
		Learners: []models.Learner{{ID: "a", Name: "Ada"}},
	})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.SetRoster(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockSvc.lastLearners, 1)
	assert.Equal(t, "a", mockSvc.lastLearners[0].ID)
}

func TestPlannerHandlerSetRosterInvalidBody(t *testing.T) {
	handler := NewPlannerHandler(&plannerServiceMock{})

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/learners", gin.H{"learners": []gin.H{}})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.SetRoster(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlannerHandlerCheck(t *testing.T) {
	mockSvc := &plannerServiceMock{checkResp: &models.ConflictReport{HasConflicts: true, Severity: models.SeverityLow}}
	handler := NewPlannerHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/check", dto.CheckRequest{
		LearnerID: "a", Date: "2024-01-08", StartTime: "09:00", DurationMinutes: 30,
	})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.Check(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", mockSvc.lastCheck.LearnerID)
	assert.Contains(t, w.Body.String(), `"has_conflicts":true`)
}

func TestPlannerHandlerSetIntent(t *testing.T) {
	mockSvc := &plannerServiceMock{}
	handler := NewPlannerHandler(mockSvc)

	c, w := plannerTestContext(t, http.MethodPost, "/planner/fam-1/intent", dto.IntentRequest{Intent: models.IntentScheduling})
	c.Params = gin.Params{{Key: "familyId", Value: "fam-1"}}

	handler.SetIntent(c)
	// Status-only responses are not flushed by the bare test context.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.IntentScheduling, mockSvc.lastIntent)
}
