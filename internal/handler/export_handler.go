package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/service"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
	"github.com/brightpath-edu/study-scheduler-api/pkg/response"
)

type exportService interface {
	RenderWeek(ctx context.Context, familyID, weekStart string, format service.ExportFormat) (*service.ExportFile, error)
	GenerateLink(ctx context.Context, familyID, weekStart string, format service.ExportFormat) (*dto.ExportLink, error)
	OpenDownload(token string) (*os.File, error)
}

// ExportHandler streams weekly schedule exports and serves stored files
// behind signed links.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Export a family's weekly schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param familyId path string true "Family ID"
// @Param weekStart query string true "Monday of the week, YYYY-MM-DD"
// @Param format query string false "csv or pdf" default(csv)
// @Param dispo query string false "inline stream or signed link" Enums(stream, link)
// @Success 200
// @Router /planner/{familyId}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	familyID := requireFamilyID(c)
	if familyID == "" {
		return
	}
	weekStart := strings.TrimSpace(c.Query("weekStart"))
	if weekStart == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "weekStart is required"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	if c.Query("dispo") == "link" {
		link, err := h.service.GenerateLink(c.Request.Context(), familyID, weekStart, format)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, link, nil)
		return
	}

	file, err := h.service.RenderWeek(c.Request.Context(), familyID, weekStart, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Download godoc
// @Summary Download a stored export by signed token
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.service.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	name := file.Name()
	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(name, ".csv"):
		contentType = "text/csv"
	case strings.HasSuffix(name, ".pdf"):
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name[strings.LastIndex(name, "/")+1:]+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
