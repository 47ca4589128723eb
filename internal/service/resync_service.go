package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/internal/remote"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
	"github.com/brightpath-edu/study-scheduler-api/pkg/jobs"
)

const (
	resyncOpCreate = "create"
	resyncOpUpdate = "update"
	resyncOpDelete = "delete"
)

type resyncPayload struct {
	Op       string
	FamilyID string
	EntryID  string
	Entry    models.ScheduleEntry
}

// ResyncJournal is the journal surface the resync worker needs.
type ResyncJournal interface {
	UnsyncedJournal
	List(ctx context.Context) ([]models.ScheduleEntry, error)
}

// ResyncService retries deferred upstream writes in the background. A
// confirmed write swaps the pending-local record for the store's copy; a
// slot conflict parks the record as conflicted for the parent to resolve.
type ResyncService struct {
	queue    *jobs.Queue
	upstream UpstreamScheduleStore
	journal  ResyncJournal
	planner  *PlannerService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewResyncService constructs the worker and wires it into the planner.
func NewResyncService(upstream UpstreamScheduleStore, journal ResyncJournal, planner *PlannerService, metrics *MetricsService, cfg config.ResyncConfig, logger *zap.Logger) *ResyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ResyncService{
		upstream: upstream,
		journal:  journal,
		planner:  planner,
		metrics:  metrics,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("resync", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	if planner != nil {
		planner.SetResyncQueue(s)
	}
	return s
}

// Start launches the worker pool and replays journaled entries that were
// pending when the process last stopped.
func (s *ResyncService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	s.recover(ctx)
}

// Stop drains the queue.
func (s *ResyncService) Stop() {
	s.queue.Stop()
}

// EnqueueEntry schedules a create or update for background retry.
func (s *ResyncService) EnqueueEntry(op, familyID string, entry models.ScheduleEntry) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      entry.ID,
		Type:    op,
		Payload: resyncPayload{Op: op, FamilyID: familyID, EntryID: entry.ID, Entry: entry},
	})
}

// EnqueueDelete schedules an upstream delete for background retry.
func (s *ResyncService) EnqueueDelete(familyID, entryID string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      entryID,
		Type:    resyncOpDelete,
		Payload: resyncPayload{Op: resyncOpDelete, FamilyID: familyID, EntryID: entryID},
	})
}

func (s *ResyncService) recover(ctx context.Context) {
	if s.journal == nil {
		return
	}
	pending, err := s.journal.List(ctx)
	if err != nil {
		s.logger.Warn("journal replay failed", zap.Error(err))
		return
	}
	for _, entry := range pending {
		if entry.SyncState != models.SyncPendingLocal {
			continue
		}
		if err := s.EnqueueEntry(resyncOpCreate, "", entry); err != nil {
			s.logger.Warn("journal replay enqueue failed", zap.String("entry_id", entry.ID), zap.Error(err))
		}
	}
	if len(pending) > 0 {
		s.logger.Info("journaled entries queued for resync", zap.Int("count", len(pending)))
	}
}

func (s *ResyncService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(resyncPayload)
	if !ok {
		s.logger.Error("resync job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	switch payload.Op {
	case resyncOpCreate:
		return s.pushCreate(ctx, payload)
	case resyncOpUpdate:
		return s.pushUpdate(ctx, payload)
	case resyncOpDelete:
		return s.pushDelete(ctx, payload)
	default:
		s.logger.Error("unknown resync op", zap.String("op", payload.Op))
		return nil
	}
}

func (s *ResyncService) pushCreate(ctx context.Context, payload resyncPayload) error {
	entry := payload.Entry
	created, err := s.upstream.CreateEntry(ctx, remote.CreateEntryRequest{
		LearnerID:       entry.LearnerID,
		SubjectName:     entry.SubjectName,
		MaterialRef:     entry.MaterialRef,
		ScheduledDate:   entry.Date,
		StartTime:       entry.StartTime,
		DurationMinutes: entry.DurationMinutes,
		Notes:           entry.Notes,
	})
	if err == nil {
		s.confirm(ctx, payload, *created)
		return nil
	}
	return s.failure(ctx, payload, err)
}

func (s *ResyncService) pushUpdate(ctx context.Context, payload resyncPayload) error {
	entry := payload.Entry
	status := string(entry.Status)
	updated, err := s.upstream.UpdateEntry(ctx, entry.ID, remote.UpdateEntryRequest{
		SubjectName:     &entry.SubjectName,
		MaterialRef:     entry.MaterialRef,
		ScheduledDate:   &entry.Date,
		StartTime:       &entry.StartTime,
		DurationMinutes: &entry.DurationMinutes,
		Status:          &status,
		Notes:           &entry.Notes,
	})
	if err == nil {
		s.confirm(ctx, payload, *updated)
		return nil
	}
	// The store never saw this entry; push the full record instead.
	if appErrors.Is(err, appErrors.ErrNotFound.Code) {
		return s.pushCreate(ctx, payload)
	}
	return s.failure(ctx, payload, err)
}

func (s *ResyncService) pushDelete(ctx context.Context, payload resyncPayload) error {
	err := s.upstream.DeleteEntry(ctx, payload.EntryID)
	if err == nil || appErrors.Is(err, appErrors.ErrNotFound.Code) {
		s.metrics.RecordResync("confirmed")
		return nil
	}
	if appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
		s.metrics.RecordResync("retry")
		return err
	}
	s.metrics.RecordResync("rejected")
	s.logger.Error("resync delete rejected", zap.String("entry_id", payload.EntryID), zap.Error(err))
	return nil
}

func (s *ResyncService) confirm(ctx context.Context, payload resyncPayload, confirmed models.ScheduleEntry) {
	if s.journal != nil {
		if err := s.journal.Delete(ctx, payload.EntryID); err != nil {
			s.logger.Warn("journal cleanup failed", zap.String("entry_id", payload.EntryID), zap.Error(err))
		}
	}
	if s.planner != nil {
		s.planner.ReconcileConfirmed(ctx, payload.FamilyID, payload.EntryID, confirmed)
	}
	s.metrics.RecordResync("confirmed")
	s.logger.Info("pending entry confirmed upstream", zap.String("entry_id", payload.EntryID), zap.String("upstream_id", confirmed.ID))
}

func (s *ResyncService) failure(ctx context.Context, payload resyncPayload, err error) error {
	if appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
		s.metrics.RecordResync("retry")
		return err
	}

	var conflictErr *models.EntryConflictError
	if errors.As(err, &conflictErr) || appErrors.Is(err, appErrors.ErrConflict.Code) {
		message := "slot conflict reported by the schedule store"
		if conflictErr != nil && conflictErr.Message != "" {
			message = conflictErr.Message
		}
		if s.planner != nil {
			s.planner.MarkConflicted(ctx, payload.FamilyID, payload.EntryID, message)
		}
		if s.journal != nil {
			conflicted := payload.Entry
			conflicted.SyncState = models.SyncConflicted
			if jerr := s.journal.Save(ctx, &conflicted); jerr != nil {
				s.logger.Warn("journal update failed", zap.String("entry_id", payload.EntryID), zap.Error(jerr))
			}
		}
		s.metrics.RecordResync("conflicted")
		return nil
	}

	s.metrics.RecordResync("rejected")
	s.logger.Error("resync write rejected", zap.String("entry_id", payload.EntryID), zap.Error(err))
	return nil
}
