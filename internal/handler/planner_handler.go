package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
	"github.com/brightpath-edu/study-scheduler-api/pkg/response"
)

type plannerService interface {
	SetRoster(ctx context.Context, familyID string, learners []models.Learner) (*dto.PlannerSnapshot, error)
	Snapshot(ctx context.Context, familyID string) (*dto.PlannerSnapshot, error)
	SetIntent(ctx context.Context, familyID string, intent models.Intent) error
	CheckProposal(ctx context.Context, familyID string, req dto.CheckRequest) (*models.ConflictReport, error)
}

// PlannerHandler exposes the family planner surface: roster registration,
// the aggregate snapshot and conflict checks.
type PlannerHandler struct {
	service plannerService
}

// NewPlannerHandler constructs a planner handler.
func NewPlannerHandler(service plannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// SetRoster godoc
// @Summary Register the learners shown in the planner
// @Tags Planner
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param payload body dto.RosterRequest true "Roster payload"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/learners [post]
func (h *PlannerHandler) SetRoster(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	var req dto.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}
	snapshot, err := h.service.SetRoster(c.Request.Context(), familyID, req.Learners)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Snapshot godoc
// @Summary Get the aggregate planner snapshot for a family
// @Tags Planner
// @Produce json
// @Param familyId path string true "Family ID"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/snapshot [get]
func (h *PlannerHandler) Snapshot(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	snapshot, err := h.service.Snapshot(c.Request.Context(), familyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// SetIntent godoc
// @Summary Record the user's current planner activity
// @Tags Planner
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param payload body dto.IntentRequest true "Intent payload"
// @Success 204
// @Router /planner/{familyId}/intent [post]
func (h *PlannerHandler) SetIntent(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	var req dto.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid intent payload"))
		return
	}
	if err := h.service.SetIntent(c.Request.Context(), familyID, req.Intent); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Check godoc
// @Summary Check a proposed session for conflicts
// @Tags Planner
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param payload body dto.CheckRequest true "Proposal payload"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/check [post]
func (h *PlannerHandler) Check(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	var req dto.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proposal payload"))
		return
	}
	report, err := h.service.CheckProposal(c.Request.Context(), familyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

func requireFamilyID(c *gin.Context) string {
	familyID := strings.TrimSpace(c.Param("familyId"))
	if familyID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "familyId is required"))
		return ""
	}
	return familyID
}
