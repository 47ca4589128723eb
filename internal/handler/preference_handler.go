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

type preferenceService interface {
	Get(ctx context.Context, learnerID string) (*models.SchedulePreferences, error)
	Save(ctx context.Context, learnerID string, req dto.PreferencesRequest) (*models.SchedulePreferences, error)
}

// PreferenceHandler exposes learner study-window settings.
type PreferenceHandler struct {
	service preferenceService
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(service preferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Get godoc
// @Summary Get a learner's scheduling preferences
// @Tags Preferences
// @Produce json
// @Param learnerId path string true "Learner ID"
// @Success 200 {object} response.Envelope
// @Router /planner/preferences/{learnerId} [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	learnerID := requireLearnerID(c)
	if learnerID == "" {
		return
	}
	prefs, err := h.service.Get(c.Request.Context(), learnerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}

// Save godoc
// @Summary Replace a learner's scheduling preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param learnerId path string true "Learner ID"
// @Param payload body dto.PreferencesRequest true "Preferences payload"
// @Success 200 {object} response.Envelope
// @Router /planner/preferences/{learnerId} [put]
func (h *PreferenceHandler) Save(c *gin.Context) {
	learnerID := requireLearnerID(c)
	if learnerID == "" {
		return
	}
	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preferences payload"))
		return
	}
	prefs, err := h.service.Save(c.Request.Context(), learnerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}

func requireLearnerID(c *gin.Context) string {
	learnerID := strings.TrimSpace(c.Param("learnerId"))
	if learnerID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "learnerId is required"))
		return ""
	}
	return learnerID
}
