package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
	"github.com/brightpath-edu/study-scheduler-api/pkg/response"
)

type entryService interface {
	CreateEntry(ctx context.Context, familyID string, req dto.CreateEntryRequest) (*models.ScheduleEntry, error)
	BatchCreate(ctx context.Context, familyID string, req dto.BatchCreateRequest) (*dto.BatchCreateResult, error)
	UpdateEntry(ctx context.Context, familyID, entryID string, patch models.EntryPatch) (*models.ScheduleEntry, error)
	UpdateStatus(ctx context.Context, familyID, entryID string, status models.EntryStatus) (*models.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, familyID, entryID string) error
}

// EntryHandler exposes study-session CRUD under a family's planner.
type EntryHandler struct {
	service entryService
}

// NewEntryHandler constructs an entry handler.
func NewEntryHandler(service entryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// Create godoc
// @Summary Schedule a study session
// @Tags Entries
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param payload body dto.CreateEntryRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /planner/{familyId}/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	entry, err := h.service.CreateEntry(c.Request.Context(), familyID, req)
	if err != nil {
		respondEntryError(c, err)
		return
	}
	response.Created(c, entry)
}

// BatchCreate godoc
// @Summary Schedule several study sessions in one request
// @Tags Entries
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param payload body dto.BatchCreateRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/entries/batch [post]
func (h *EntryHandler) BatchCreate(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	var req dto.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	result, err := h.service.BatchCreate(c.Request.Context(), familyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Update godoc
// @Summary Reschedule or edit a study session
// @Tags Entries
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param id path string true "Entry ID"
// @Param payload body models.EntryPatch true "Patch payload"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	entryID := requireEntryID(c)
	if entryID == "" {
		return
	}
	var patch models.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid patch payload"))
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), familyID, entryID, patch)
	if err != nil {
		respondEntryError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// UpdateStatus godoc
// @Summary Mark a study session completed or skipped
// @Tags Entries
// @Accept json
// @Produce json
// @Param familyId path string true "Family ID"
// @Param id path string true "Entry ID"
// @Param payload body dto.StatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /planner/{familyId}/entries/{id}/status [post]
func (h *EntryHandler) UpdateStatus(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	entryID := requireEntryID(c)
	if entryID == "" {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	entry, err := h.service.UpdateStatus(c.Request.Context(), familyID, entryID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Remove a study session
// @Tags Entries
// @Produce json
// @Param familyId path string true "Family ID"
// @Param id path string true "Entry ID"
// @Success 204
// @Router /planner/{familyId}/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	entryID := requireEntryID(c)
	if entryID == "" {
		return
	}
	if err := h.service.DeleteEntry(c.Request.Context(), familyID, entryID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// respondEntryError keeps the conflict detail the store returned on the
// wire so the UI can show which sessions collide.
func respondEntryError(c *gin.Context, err error) {
	var conflictErr *models.EntryConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":      appErrors.ErrConflict.Code,
				"message":   conflictErr.Message,
				"conflicts": conflictErr.Conflicts,
			},
		})
		return
	}
	response.Error(c, err)
}

func requireEntryID(c *gin.Context) string {
	entryID := strings.TrimSpace(c.Param("id"))
	if entryID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "entry id is required"))
		return ""
	}
	return entryID
}
