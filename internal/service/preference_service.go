package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/engine"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

var validStudyDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// UpstreamPreferenceStore is the slice of the upstream API that manages
// learner preferences.
type UpstreamPreferenceStore interface {
	GetPreferences(ctx context.Context, learnerID string) (*models.SchedulePreferences, error)
	SavePreferences(ctx context.Context, learnerID string, prefs *models.SchedulePreferences) (*models.SchedulePreferences, error)
}

// PreferenceStore persists the last known good copy of preferences locally.
type PreferenceStore interface {
	GetByLearner(ctx context.Context, learnerID string) (*models.SchedulePreferences, error)
	Upsert(ctx context.Context, prefs *models.SchedulePreferences) error
}

// PreferenceService manages learner study-window settings. The upstream
// store is authoritative; a local copy backs reads when it is unreachable.
type PreferenceService struct {
	upstream UpstreamPreferenceStore
	local    PreferenceStore
	validate *validator.Validate
	logger   *zap.Logger
	cfg      config.EngineConfig
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(upstream UpstreamPreferenceStore, local PreferenceStore, validate *validator.Validate, cfg config.EngineConfig, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{upstream: upstream, local: local, validate: validate, logger: logger, cfg: cfg}
}

// Get returns the learner's preferences, falling back to the local copy and
// finally the defaults when the upstream store cannot answer.
func (s *PreferenceService) Get(ctx context.Context, learnerID string) (*models.SchedulePreferences, error) {
	if learnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "learner id is required")
	}

	prefs, err := s.upstream.GetPreferences(ctx, learnerID)
	if err == nil {
		s.storeLocal(ctx, prefs)
		return prefs, nil
	}
	if appErrors.Is(err, appErrors.ErrNotFound.Code) {
		return s.defaults(learnerID), nil
	}
	if !appErrors.Is(err, appErrors.ErrUpstreamUnavailable.Code) {
		return nil, err
	}

	s.logger.Warn("upstream unavailable, serving local preferences", zap.String("learner_id", learnerID))
	if s.local != nil {
		local, lerr := s.local.GetByLearner(ctx, learnerID)
		if lerr == nil {
			return local, nil
		}
		if !errors.Is(lerr, sql.ErrNoRows) {
			s.logger.Warn("local preference read failed", zap.String("learner_id", learnerID), zap.Error(lerr))
		}
	}
	return s.defaults(learnerID), nil
}

// defaults builds the fallback preference set. A default study window
// configured for the deployment overrides the built-in 09:00-15:00 one.
func (s *PreferenceService) defaults(learnerID string) *models.SchedulePreferences {
	prefs := models.DefaultPreferences(learnerID)
	if s.cfg.DefaultStartTime != "" && s.cfg.DefaultEndTime != "" {
		if _, serr := parseWindowTime(s.cfg.DefaultStartTime); serr == nil {
			if _, eerr := parseWindowTime(s.cfg.DefaultEndTime); eerr == nil {
				prefs.PreferredStartTime = s.cfg.DefaultStartTime
				prefs.PreferredEndTime = s.cfg.DefaultEndTime
			}
		}
	}
	return prefs
}

// Save validates and replaces a learner's preferences upstream, keeping the
// local copy in step.
func (s *PreferenceService) Save(ctx context.Context, learnerID string, req dto.PreferencesRequest) (*models.SchedulePreferences, error) {
	if learnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "learner id is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}

	start, err := parseWindowTime(req.PreferredStartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseWindowTime(req.PreferredEndTime)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preferred start time must be before end time")
	}

	days := make([]string, 0, len(req.StudyDays))
	for _, day := range req.StudyDays {
		normalized := strings.ToLower(strings.TrimSpace(day))
		if !validStudyDays[normalized] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown study day: "+day)
		}
		days = append(days, normalized)
	}

	prefs := &models.SchedulePreferences{
		LearnerID:                learnerID,
		PreferredStartTime:       req.PreferredStartTime,
		PreferredEndTime:         req.PreferredEndTime,
		MaxDailyStudyMinutes:     req.MaxDailyStudyMinutes,
		BreakDurationMinutes:     req.BreakDurationMinutes,
		DifficultSubjectsMorning: req.DifficultSubjectsMorning,
		StudyDays:                days,
		UpdatedAt:                time.Now(),
	}

	saved, err := s.upstream.SavePreferences(ctx, learnerID, prefs)
	if err != nil {
		return nil, err
	}
	s.storeLocal(ctx, saved)
	return saved, nil
}

// GridFor resolves the slot grid suggestions run on, shaped by the
// learner's study window.
func (s *PreferenceService) GridFor(ctx context.Context, learnerID string) engine.SlotGrid {
	prefs, err := s.Get(ctx, learnerID)
	if err != nil {
		prefs = s.defaults(learnerID)
	}
	return engine.NewSlotGrid(prefs, s.cfg.SlotMinutes)
}

func (s *PreferenceService) storeLocal(ctx context.Context, prefs *models.SchedulePreferences) {
	if s.local == nil || prefs == nil {
		return
	}
	if err := s.local.Upsert(ctx, prefs); err != nil {
		s.logger.Warn("local preference write failed", zap.String("learner_id", prefs.LearnerID), zap.Error(err))
	}
}

func parseWindowTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "times must be formatted as HH:MM")
	}
	return parsed, nil
}
