package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
	"github.com/brightpath-edu/study-scheduler-api/pkg/export"
	"github.com/brightpath-edu/study-scheduler-api/pkg/storage"
)

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered weekly schedule ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type snapshotSource interface {
	Snapshot(ctx context.Context, familyID string) (*dto.PlannerSnapshot, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders a family's weekly schedule to CSV or PDF, either
// streamed directly or stored behind a signed download link.
type ExportService struct {
	planner snapshotSource
	storage exportStorage
	signer  *storage.SignedURLSigner
	csv     csvRenderer
	pdf     pdfRenderer
	cfg     config.ExportConfig
	prefix  string
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(planner snapshotSource, store exportStorage, signer *storage.SignedURLSigner, cfg config.ExportConfig, apiPrefix string, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		planner: planner,
		storage: store,
		signer:  signer,
		csv:     csv,
		pdf:     pdf,
		cfg:     cfg,
		prefix:  apiPrefix,
		logger:  logger,
	}
}

// Enabled reports whether export endpoints are active.
func (s *ExportService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// RenderWeek builds the weekly dataset for a family and renders it.
func (s *ExportService) RenderWeek(ctx context.Context, familyID, weekStart string, format ExportFormat) (*ExportFile, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}
	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekStart must be formatted as YYYY-MM-DD")
	}

	snapshot, err := s.planner.Snapshot(ctx, familyID)
	if err != nil {
		return nil, err
	}

	dataset := weekDataset(snapshot, start)
	title := fmt.Sprintf("Study schedule, week of %s", weekStart)

	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		data, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		data, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("schedule_%s_%s.%s", familyID, weekStart, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// GenerateLink renders the weekly schedule, stores the file and returns a
// signed download link.
func (s *ExportService) GenerateLink(ctx context.Context, familyID, weekStart string, format ExportFormat) (*dto.ExportLink, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stored exports are disabled")
	}
	file, err := s.RenderWeek(ctx, familyID, weekStart, format)
	if err != nil {
		return nil, err
	}
	relPath := fmt.Sprintf("%s/%s", familyID, file.Filename)
	if _, err := s.storage.Save(relPath, file.Data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store export")
	}
	token, expiresAt, err := s.signer.Generate(familyID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign export link")
	}
	return &dto.ExportLink{
		URL:       fmt.Sprintf("%s/exports/download?token=%s", s.prefix, token),
		Token:     token,
		Format:    string(format),
		ExpiresAt: expiresAt,
	}, nil
}

// OpenDownload validates a signed token and opens the stored file.
func (s *ExportService) OpenDownload(token string) (*os.File, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stored exports are disabled")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, nil
}

func weekDataset(snapshot *dto.PlannerSnapshot, weekStart time.Time) export.Dataset {
	weekEnd := weekStart.AddDate(0, 0, 7)
	names := make(map[string]string, len(snapshot.Learners))
	for _, learner := range snapshot.Learners {
		names[learner.ID] = learner.Name
	}

	rows := make([]map[string]string, 0, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		day, err := time.Parse(dateLayout, entry.Date)
		if err != nil || day.Before(weekStart) || !day.Before(weekEnd) {
			continue
		}
		name := names[entry.LearnerID]
		if name == "" {
			name = entry.LearnerID
		}
		rows = append(rows, map[string]string{
			"Learner":        name,
			"Subject":        entry.SubjectName,
			"Date":           entry.Date,
			"Start":          entry.StartTime,
			"Duration (min)": strconv.Itoa(entry.DurationMinutes),
			"Status":         string(entry.Status),
			"Sync":           string(entry.SyncState),
		})
	}

	return export.Dataset{
		Headers: []string{"Learner", "Subject", "Date", "Start", "Duration (min)", "Status", "Sync"},
		Rows:    rows,
	}
}
