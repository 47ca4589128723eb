package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/engine"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/internal/remote"
	"github.com/brightpath-edu/study-scheduler-api/internal/repository"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// UpstreamScheduleStore is the slice of the upstream API the planner uses.
type UpstreamScheduleStore interface {
	ListEntries(ctx context.Context, learnerID string) ([]models.ScheduleEntry, error)
	CreateEntry(ctx context.Context, req remote.CreateEntryRequest) (*models.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, id string, req remote.UpdateEntryRequest) (*models.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// UnsyncedJournal persists entries that have not been confirmed upstream,
// so pending local work survives a process restart.
type UnsyncedJournal interface {
	Save(ctx context.Context, entry *models.ScheduleEntry) error
	ListByLearner(ctx context.Context, learnerID string) ([]models.ScheduleEntry, error)
	Delete(ctx context.Context, id string) error
}

// GridProvider resolves the slot grid a learner's suggestions run on.
type GridProvider interface {
	GridFor(ctx context.Context, learnerID string) engine.SlotGrid
}

// ResyncEnqueuer accepts deferred upstream writes for background retry.
type ResyncEnqueuer interface {
	EnqueueEntry(op, familyID string, entry models.ScheduleEntry) error
	EnqueueDelete(familyID, entryID string) error
}

// familyState is the in-memory planner state for one household. All access
// goes through the service mutex; upstream calls happen outside the lock.
type familyState struct {
	roster          []models.Learner
	entries         map[string]models.ScheduleEntry
	seq             uint64
	applied         map[string]uint64
	indexCache      *engine.IndexCache
	intent          models.Intent
	coordination    models.FamilyCoordination
	context         models.AdaptiveContext
	recommendations []models.Recommendation
}

// PlannerService fronts the upstream schedule store with optimistic local
// state: writes go upstream first, reconciliation decides what the planner
// keeps, and every change recomputes the derived family view.
type PlannerService struct {
	upstream UpstreamScheduleStore
	journal  UnsyncedJournal
	cache    *CacheService
	grids    GridProvider
	resync   ResyncEnqueuer
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *MetricsService
	cfg      config.EngineConfig
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	families map[string]*familyState
}

// NewPlannerService constructs the planner facade.
func NewPlannerService(upstream UpstreamScheduleStore, journal UnsyncedJournal, cache *CacheService, grids GridProvider, validate *validator.Validate, metrics *MetricsService, cfg config.EngineConfig, snapshotTTL time.Duration, logger *zap.Logger) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		upstream: upstream,
		journal:  journal,
		cache:    cache,
		grids:    grids,
		validate: validate,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		ttl:      snapshotTTL,
		now:      time.Now,
		families: make(map[string]*familyState),
	}
}

// SetResyncQueue wires the background retry queue. Wiring happens after
// construction because the queue handler calls back into the planner.
func (s *PlannerService) SetResyncQueue(q ResyncEnqueuer) {
	s.resync = q
}

func (s *PlannerService) family(familyID string) *familyState {
	state, ok := s.families[familyID]
	if !ok {
		state = &familyState{
			entries:    make(map[string]models.ScheduleEntry),
			applied:    make(map[string]uint64),
			indexCache: engine.NewIndexCache(s.cfg.IndexCacheSize),
		}
		s.families[familyID] = state
	}
	return state
}

func (s *PlannerService) lookup(familyID string) (*familyState, error) {
	state, ok := s.families[familyID]
	if !ok || len(state.roster) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "family roster not registered")
	}
	return state, nil
}

// SetRoster registers the learners visible in the planner and loads their
// entries from the upstream store, merged with any journaled pending work.
func (s *PlannerService) SetRoster(ctx context.Context, familyID string, learners []models.Learner) (*dto.PlannerSnapshot, error) {
	if len(learners) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one learner is required")
	}
	seen := make(map[string]bool, len(learners))
	for _, l := range learners {
		if l.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "learner id is required")
		}
		if seen[l.ID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate learner id: "+l.ID)
		}
		seen[l.ID] = true
	}

	loaded := make(map[string]models.ScheduleEntry)
	for _, learner := range learners {
		entries, err := s.upstream.ListEntries(ctx, learner.ID)
		if err != nil {
			s.logger.Warn("upstream list failed, planner continues with journaled entries",
				zap.String("learner_id", learner.ID), zap.Error(err))
		}
		for _, entry := range entries {
			loaded[entry.ID] = entry
		}
		if s.journal != nil {
			pending, jerr := s.journal.ListByLearner(ctx, learner.ID)
			if jerr != nil {
				s.logger.Warn("journal read failed", zap.String("learner_id", learner.ID), zap.Error(jerr))
				continue
			}
			for _, entry := range pending {
				if _, exists := loaded[entry.ID]; !exists {
					loaded[entry.ID] = entry
				}
			}
		}
	}

	s.mu.Lock()
	state := s.family(familyID)
	state.roster = append([]models.Learner(nil), learners...)
	state.entries = loaded
	state.applied = make(map[string]uint64)
	s.recomputeLocked(state)
	snapshot := s.snapshotLocked(familyID, state)
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return snapshot, nil
}

// Snapshot returns the aggregate planner state, served from cache when warm.
func (s *PlannerService) Snapshot(ctx context.Context, familyID string) (*dto.PlannerSnapshot, error) {
	key := repository.SnapshotKey(familyID)
	if s.cache.Enabled() {
		var cached dto.PlannerSnapshot
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := s.snapshotLocked(familyID, state)
	s.mu.Unlock()

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, snapshot, s.ttl)
	}
	return snapshot, nil
}

// SetIntent records the latest user activity signal and refreshes the
// adaptive context.
func (s *PlannerService) SetIntent(ctx context.Context, familyID string, intent models.Intent) error {
	switch intent {
	case models.IntentBrowsing, models.IntentScheduling, models.IntentOrganizing:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown intent: "+string(intent))
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	state.intent = intent
	s.recomputeLocked(state)
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return nil
}

// CheckProposal runs conflict detection for a proposed session and, when it
// collides, generates resolution suggestions. It never mutates state.
func (s *PlannerService) CheckProposal(ctx context.Context, familyID string, req dto.CheckRequest) (*models.ConflictReport, error) {
	if err := validateTiming(req.Date, req.StartTime); err != nil {
		return nil, err
	}
	if req.DurationMinutes < 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be at least 5 minutes")
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	entries := learnerEntries(state, req.LearnerID)
	s.mu.Unlock()

	report := engine.DetectConflicts(req.Date, req.StartTime, req.DurationMinutes, entries)
	s.metrics.RecordConflictCheck(report.HasConflicts)
	if report.HasConflicts {
		grid := s.gridFor(ctx, req.LearnerID)
		suggester := engine.NewSuggester(grid, s.cfg.SuggestionWindowMins, s.cfg.MaxSuggestions)
		report.Suggestions = suggester.Suggest(req.Date, req.StartTime, req.DurationMinutes, entries)
		s.metrics.RecordSuggestions(len(report.Suggestions))
	}
	return &report, nil
}

// CreateEntry validates a new session, writes it upstream and reconciles
// the result into local state. A slot conflict rejected upstream leaves no
// local record; a transient upstream failure degrades to a journaled
// pending-local record so the parent's work is not lost.
func (s *PlannerService) CreateEntry(ctx context.Context, familyID string, req dto.CreateEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}
	if err := validateTiming(req.Date, req.StartTime); err != nil {
		return nil, err
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err == nil && !rosterHas(state, req.LearnerID) {
		err = appErrors.Clone(appErrors.ErrValidation, "learner is not on the family roster")
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entry, err := s.pushCreate(ctx, familyID, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	state = s.families[familyID]
	state.entries[entry.ID] = *entry
	s.recomputeLocked(state)
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return entry, nil
}

// BatchCreate applies several sessions as one unit of work: every item is
// pushed upstream, item failures are collected instead of aborting the
// batch, and the derived family view is recomputed exactly once.
func (s *PlannerService) BatchCreate(ctx context.Context, familyID string, req dto.BatchCreateRequest) (*dto.BatchCreateResult, error) {
	if len(req.Items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch requires at least one item")
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := &dto.BatchCreateResult{
		Created:  make([]models.ScheduleEntry, 0, len(req.Items)),
		Failures: make([]dto.BatchItemFailure, 0),
	}

	for i, item := range req.Items {
		if verr := s.validate.Struct(item); verr != nil {
			result.Failures = append(result.Failures, dto.BatchItemFailure{Index: i, Message: "invalid entry payload"})
			continue
		}
		if verr := validateTiming(item.Date, item.StartTime); verr != nil {
			result.Failures = append(result.Failures, dto.BatchItemFailure{Index: i, Message: verr.Error()})
			continue
		}
		s.mu.Lock()
		onRoster := rosterHas(state, item.LearnerID)
		s.mu.Unlock()
		if !onRoster {
			result.Failures = append(result.Failures, dto.BatchItemFailure{Index: i, Message: "learner is not on the family roster"})
			continue
		}

		entry, cerr := s.pushCreate(ctx, familyID, item)
		if cerr != nil {
			failure := dto.BatchItemFailure{Index: i, Message: cerr.Error()}
			var conflictErr *models.EntryConflictError
			if errors.As(cerr, &conflictErr) {
				failure.Message = conflictErr.Message
				failure.Conflicts = conflictErr.Conflicts
			}
			result.Failures = append(result.Failures, failure)
			continue
		}

		s.mu.Lock()
		state.entries[entry.ID] = *entry
		s.mu.Unlock()
		result.Created = append(result.Created, *entry)
	}

	s.mu.Lock()
	s.recomputeLocked(state)
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return result, nil
}

// pushCreate sends one create upstream and decides what the planner keeps.
func (s *PlannerService) pushCreate(ctx context.Context, familyID string, req dto.CreateEntryRequest) (*models.ScheduleEntry, error) {
	created, err := s.upstream.CreateEntry(ctx, remote.CreateEntryRequest{
		LearnerID:       req.LearnerID,
		SubjectName:     req.SubjectName,
		MaterialRef:     req.MaterialRef,
		ScheduledDate:   req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err == nil {
		return created, nil
	}
	if !appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
		return nil, err
	}

	// Store rejected nothing; it is unreachable. Keep the session locally
	// and let the resync worker push it later.
	now := s.now()
	origin := models.EntryOrigin(req.CreatedBy)
	if origin == "" {
		origin = models.EntryOriginParent
	}
	local := models.ScheduleEntry{
		ID:              uuid.NewString(),
		LearnerID:       req.LearnerID,
		MaterialRef:     req.MaterialRef,
		SubjectName:     req.SubjectName,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          models.EntryStatusScheduled,
		CreatedBy:       origin,
		Notes:           req.Notes,
		SyncState:       models.SyncPendingLocal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.journalSave(ctx, &local)
	s.enqueueResync("create", familyID, local)
	s.logger.Warn("upstream unavailable, entry kept locally pending sync",
		zap.String("entry_id", local.ID), zap.String("learner_id", local.LearnerID))
	return &local, nil
}

// UpdateEntry applies a partial edit. Concurrent edits to the same entry
// resolve last-applied-wins: a slower upstream response never overwrites a
// newer local application.
func (s *PlannerService) UpdateEntry(ctx context.Context, familyID, entryID string, patch models.EntryPatch) (*models.ScheduleEntry, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	current, ok := state.entries[entryID]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
	}
	if current.Status.Terminal() {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "finished sessions cannot be rescheduled")
	}
	state.seq++
	seq := state.seq
	pendingLocal := current.SyncState == models.SyncPendingLocal
	s.mu.Unlock()

	updated, err := s.reconcileUpdate(ctx, familyID, current, patch, pendingLocal)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if seq > state.applied[entryID] {
		state.applied[entryID] = seq
		state.entries[entryID] = *updated
		s.recomputeLocked(state)
	} else {
		stored := state.entries[entryID]
		updated = &stored
	}
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return updated, nil
}

func (s *PlannerService) reconcileUpdate(ctx context.Context, familyID string, current models.ScheduleEntry, patch models.EntryPatch, pendingLocal bool) (*models.ScheduleEntry, error) {
	applied := applyPatch(current, patch, s.now())

	// Entries the store has never seen are edited locally; the pending
	// create in the journal carries the newest field values when it lands.
	if pendingLocal {
		s.journalSave(ctx, &applied)
		return &applied, nil
	}

	updated, err := s.upstream.UpdateEntry(ctx, current.ID, remote.UpdateEntryRequest{
		SubjectName:     patch.SubjectName,
		MaterialRef:     patch.MaterialRef,
		ScheduledDate:   patch.Date,
		StartTime:       patch.StartTime,
		DurationMinutes: patch.DurationMinutes,
		Notes:           patch.Notes,
	})
	if err == nil {
		return updated, nil
	}
	if !appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
		return nil, err
	}

	applied.SyncState = models.SyncPendingLocal
	s.journalSave(ctx, &applied)
	s.enqueueResync("update", familyID, applied)
	s.logger.Warn("upstream unavailable, edit kept locally pending sync", zap.String("entry_id", applied.ID))
	return &applied, nil
}

// UpdateStatus transitions a session through its lifecycle. Completed and
// skipped are terminal.
func (s *PlannerService) UpdateStatus(ctx context.Context, familyID, entryID string, status models.EntryStatus) (*models.ScheduleEntry, error) {
	switch status {
	case models.EntryStatusScheduled, models.EntryStatusCompleted, models.EntryStatusSkipped:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status: "+string(status))
	}

	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	current, ok := state.entries[entryID]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
	}
	if current.Status.Terminal() && status != current.Status {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "session is already finished")
	}
	state.seq++
	seq := state.seq
	pendingLocal := current.SyncState == models.SyncPendingLocal
	s.mu.Unlock()

	var updated *models.ScheduleEntry
	if pendingLocal {
		next := current
		next.Status = status
		next.UpdatedAt = s.now()
		s.journalSave(ctx, &next)
		updated = &next
	} else {
		raw := string(status)
		updated, err = s.upstream.UpdateEntry(ctx, entryID, remote.UpdateEntryRequest{Status: &raw})
		if err != nil {
			if !appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
				return nil, err
			}
			next := current
			next.Status = status
			next.SyncState = models.SyncPendingLocal
			next.UpdatedAt = s.now()
			s.journalSave(ctx, &next)
			s.enqueueResync("update", familyID, next)
			updated = &next
		}
	}

	s.mu.Lock()
	if seq > state.applied[entryID] {
		state.applied[entryID] = seq
		state.entries[entryID] = *updated
		s.recomputeLocked(state)
	} else {
		stored := state.entries[entryID]
		updated = &stored
	}
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return updated, nil
}

// DeleteEntry removes a session locally and upstream. A transient upstream
// failure still removes the local copy; the delete is retried in the
// background.
func (s *PlannerService) DeleteEntry(ctx context.Context, familyID, entryID string) error {
	s.mu.Lock()
	state, err := s.lookup(familyID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	current, ok := state.entries[entryID]
	if !ok {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
	}
	pendingLocal := current.SyncState == models.SyncPendingLocal
	s.mu.Unlock()

	if pendingLocal {
		if s.journal != nil {
			if jerr := s.journal.Delete(ctx, entryID); jerr != nil {
				s.logger.Warn("journal delete failed", zap.String("entry_id", entryID), zap.Error(jerr))
			}
		}
	} else if err := s.upstream.DeleteEntry(ctx, entryID); err != nil {
		switch {
		case appErrors.Is(err, appErrors.ErrNotFound.Code):
			// Already gone upstream; dropping the local copy converges.
		case appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code):
			s.enqueueResyncDelete(familyID, entryID)
			s.logger.Warn("upstream unavailable, delete retried in background", zap.String("entry_id", entryID))
		default:
			return err
		}
	}

	s.mu.Lock()
	delete(state.entries, entryID)
	delete(state.applied, entryID)
	s.recomputeLocked(state)
	s.mu.Unlock()

	s.invalidateSnapshot(ctx, familyID)
	return nil
}

// ReconcileConfirmed swaps a pending-local record for the store-confirmed
// one after a background resync lands.
func (s *PlannerService) ReconcileConfirmed(ctx context.Context, familyID, localID string, confirmed models.ScheduleEntry) {
	s.mu.Lock()
	familyID, state := s.stateFor(familyID, localID)
	if state != nil {
		if _, exists := state.entries[localID]; exists {
			delete(state.entries, localID)
			delete(state.applied, localID)
			state.entries[confirmed.ID] = confirmed
			s.recomputeLocked(state)
		}
	}
	s.mu.Unlock()

	if familyID != "" {
		s.invalidateSnapshot(ctx, familyID)
	}
}

// stateFor resolves the family holding an entry. Journal-replayed jobs do
// not know their family, so an empty id falls back to a scan.
func (s *PlannerService) stateFor(familyID, entryID string) (string, *familyState) {
	if familyID != "" {
		return familyID, s.families[familyID]
	}
	for id, state := range s.families {
		if _, ok := state.entries[entryID]; ok {
			return id, state
		}
	}
	return "", nil
}

// MarkConflicted flags a pending-local record the store rejected with a
// slot conflict. The record stays visible so the parent can resolve it.
func (s *PlannerService) MarkConflicted(ctx context.Context, familyID, entryID, message string) {
	s.mu.Lock()
	familyID, state := s.stateFor(familyID, entryID)
	if state != nil {
		if entry, exists := state.entries[entryID]; exists {
			entry.SyncState = models.SyncConflicted
			if message != "" {
				entry.Notes = message
			}
			entry.UpdatedAt = s.now()
			state.entries[entryID] = entry
			s.recomputeLocked(state)
		}
	}
	s.mu.Unlock()

	if familyID != "" {
		s.invalidateSnapshot(ctx, familyID)
	}
}

// recomputeLocked rebuilds the derived family view. Order matters: the
// slot index first, family coordination on top of it, adaptive context
// last so it sees fresh coordination output.
func (s *PlannerService) recomputeLocked(state *familyState) {
	entries := sortedEntries(state)
	index := state.indexCache.Get(entries)
	state.coordination = engine.CoordinateIndexed(state.roster, entries, index)
	state.context, state.recommendations = engine.BuildAdaptiveContext(engine.ContextInput{
		Now:           s.now(),
		VisibleEvents: len(entries),
		Intent:        state.intent,
		Family:        state.coordination,
	})
}

func (s *PlannerService) snapshotLocked(familyID string, state *familyState) *dto.PlannerSnapshot {
	entries := sortedEntries(state)
	pending := 0
	for _, entry := range entries {
		if entry.SyncState == models.SyncPendingLocal {
			pending++
		}
	}
	return &dto.PlannerSnapshot{
		FamilyID:         familyID,
		Learners:         append([]models.Learner(nil), state.roster...),
		Entries:          entries,
		CoordinationMode: state.coordination.Mode,
		FamilyConflicts:  state.coordination.Conflicts,
		LoadBalance:      state.coordination.LoadBalance,
		Context:          state.context,
		Recommendations:  state.recommendations,
		PendingSync:      pending,
		GeneratedAt:      s.now(),
	}
}

func (s *PlannerService) gridFor(ctx context.Context, learnerID string) engine.SlotGrid {
	if s.grids != nil {
		return s.grids.GridFor(ctx, learnerID)
	}
	return engine.NewSlotGrid(nil, s.cfg.SlotMinutes)
}

func (s *PlannerService) journalSave(ctx context.Context, entry *models.ScheduleEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Save(ctx, entry); err != nil {
		s.logger.Warn("journal save failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}
}

func (s *PlannerService) enqueueResync(op, familyID string, entry models.ScheduleEntry) {
	if s.resync == nil {
		return
	}
	if err := s.resync.EnqueueEntry(op, familyID, entry); err != nil {
		s.logger.Warn("resync enqueue failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}
}

func (s *PlannerService) enqueueResyncDelete(familyID, entryID string) {
	if s.resync == nil {
		return
	}
	if err := s.resync.EnqueueDelete(familyID, entryID); err != nil {
		s.logger.Warn("resync enqueue failed", zap.String("entry_id", entryID), zap.Error(err))
	}
}

func (s *PlannerService) invalidateSnapshot(ctx context.Context, familyID string) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, repository.SnapshotPattern(familyID))
	}
}

func sortedEntries(state *familyState) []models.ScheduleEntry {
	entries := make([]models.ScheduleEntry, 0, len(state.entries))
	for _, entry := range state.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

func learnerEntries(state *familyState, learnerID string) []models.ScheduleEntry {
	entries := make([]models.ScheduleEntry, 0)
	for _, entry := range state.entries {
		if entry.LearnerID == learnerID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func rosterHas(state *familyState, learnerID string) bool {
	for _, learner := range state.roster {
		if learner.ID == learnerID {
			return true
		}
	}
	return false
}

func applyPatch(entry models.ScheduleEntry, patch models.EntryPatch, now time.Time) models.ScheduleEntry {
	if patch.SubjectName != nil {
		entry.SubjectName = *patch.SubjectName
	}
	if patch.MaterialRef != nil {
		entry.MaterialRef = patch.MaterialRef
	}
	if patch.Date != nil {
		entry.Date = *patch.Date
	}
	if patch.StartTime != nil {
		entry.StartTime = *patch.StartTime
	}
	if patch.DurationMinutes != nil {
		entry.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	entry.UpdatedAt = now
	return entry
}

func validateTiming(date, startTime string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, startTime); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start time must be formatted as HH:MM")
	}
	return nil
}

func validatePatch(patch models.EntryPatch) error {
	if patch.Date != nil {
		if _, err := time.Parse(dateLayout, *patch.Date); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
		}
	}
	if patch.StartTime != nil {
		if _, err := time.Parse(timeLayout, *patch.StartTime); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "start time must be formatted as HH:MM")
		}
	}
	if patch.DurationMinutes != nil && *patch.DurationMinutes < 5 {
		return appErrors.Clone(appErrors.ErrValidation, "duration must be at least 5 minutes")
	}
	return nil
}
