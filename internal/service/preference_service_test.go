package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/dto"
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	appErrors "github.com/brightpath-edu/study-scheduler-api/pkg/errors"
)

type upstreamPrefsStub struct {
	prefs   map[string]models.SchedulePreferences
	getErr  error
	saveErr error
}

func (s *upstreamPrefsStub) GetPreferences(ctx context.Context, learnerID string) (*models.SchedulePreferences, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	prefs, ok := s.prefs[learnerID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no preferences stored")
	}
	return &prefs, nil
}

func (s *upstreamPrefsStub) SavePreferences(ctx context.Context, learnerID string, prefs *models.SchedulePreferences) (*models.SchedulePreferences, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if s.prefs == nil {
		s.prefs = make(map[string]models.SchedulePreferences)
	}
	s.prefs[learnerID] = *prefs
	return prefs, nil
}

type localPrefsStub struct {
	prefs map[string]models.SchedulePreferences
}

func (s *localPrefsStub) GetByLearner(ctx context.Context, learnerID string) (*models.SchedulePreferences, error) {
	prefs, ok := s.prefs[learnerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &prefs, nil
}

func (s *localPrefsStub) Upsert(ctx context.Context, prefs *models.SchedulePreferences) error {
	if s.prefs == nil {
		s.prefs = make(map[string]models.SchedulePreferences)
	}
	s.prefs[prefs.LearnerID] = *prefs
	return nil
}

func prefsRequest() dto.PreferencesRequest {
	return dto.PreferencesRequest{
		PreferredStartTime:   "08:00",
		PreferredEndTime:     "14:00",
		MaxDailyStudyMinutes: 120,
		BreakDurationMinutes: 15,
		StudyDays:            []string{"Monday", "wednesday"},
	}
}

func TestPreferenceServiceSaveNormalisesAndMirrorsLocally(t *testing.T) {
	upstream := &upstreamPrefsStub{}
	local := &localPrefsStub{}
	svc := NewPreferenceService(upstream, local, nil, testEngineConfig(), nil)

	saved, err := svc.Save(context.Background(), "a", prefsRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"monday", "wednesday"}, saved.StudyDays)
	assert.Contains(t, local.prefs, "a")
}

func TestPreferenceServiceSaveRejectsInvertedWindow(t *testing.T) {
	svc := NewPreferenceService(&upstreamPrefsStub{}, nil, nil, testEngineConfig(), nil)

	req := prefsRequest()
	req.PreferredStartTime = "15:00"
	req.PreferredEndTime = "09:00"
	_, err := svc.Save(context.Background(), "a", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestPreferenceServiceSaveRejectsShortLimits(t *testing.T) {
	svc := NewPreferenceService(&upstreamPrefsStub{}, nil, nil, testEngineConfig(), nil)

	req := prefsRequest()
	req.MaxDailyStudyMinutes = 20
	_, err := svc.Save(context.Background(), "a", req)
	require.Error(t, err)

	req = prefsRequest()
	req.BreakDurationMinutes = 2
	_, err = svc.Save(context.Background(), "a", req)
	require.Error(t, err)

	req = prefsRequest()
	req.StudyDays = []string{"funday"}
	_, err = svc.Save(context.Background(), "a", req)
	require.Error(t, err)
}

func TestPreferenceServiceGetFallsBackToLocalCopy(t *testing.T) {
	upstream := &upstreamPrefsStub{getErr: transientStubErr()}
	local := &localPrefsStub{prefs: map[string]models.SchedulePreferences{
		"a": {LearnerID: "a", PreferredStartTime: "10:00", PreferredEndTime: "16:00", MaxDailyStudyMinutes: 90, BreakDurationMinutes: 10, StudyDays: []string{"monday"}},
	}}
	svc := NewPreferenceService(upstream, local, nil, testEngineConfig(), nil)

	prefs, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "10:00", prefs.PreferredStartTime)
}

func TestPreferenceServiceGetDefaultsWhenNothingStored(t *testing.T) {
	upstream := &upstreamPrefsStub{getErr: transientStubErr()}
	svc := NewPreferenceService(upstream, &localPrefsStub{}, nil, testEngineConfig(), nil)

	prefs, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferredStartTime, prefs.PreferredStartTime)
	assert.Equal(t, models.DefaultPreferredEndTime, prefs.PreferredEndTime)
}

func TestPreferenceServiceConfiguredDefaultWindow(t *testing.T) {
	upstream := &upstreamPrefsStub{}
	cfg := testEngineConfig()
	cfg.DefaultStartTime = "08:00"
	cfg.DefaultEndTime = "13:00"
	svc := NewPreferenceService(upstream, &localPrefsStub{}, nil, cfg, nil)

	prefs, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "08:00", prefs.PreferredStartTime)
	assert.Equal(t, "13:00", prefs.PreferredEndTime)

	grid := svc.GridFor(context.Background(), "a")
	slots := grid.Slots()
	require.NotEmpty(t, slots)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "13:00", slots[len(slots)-1])
}

func TestPreferenceServiceGridForUsesStudyWindow(t *testing.T) {
	upstream := &upstreamPrefsStub{prefs: map[string]models.SchedulePreferences{
		"a": {LearnerID: "a", PreferredStartTime: "10:00", PreferredEndTime: "12:00", MaxDailyStudyMinutes: 90, BreakDurationMinutes: 10, StudyDays: []string{"monday"}},
	}}
	svc := NewPreferenceService(upstream, &localPrefsStub{}, nil, testEngineConfig(), nil)

	grid := svc.GridFor(context.Background(), "a")
	slots := grid.Slots()
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0])
	assert.Equal(t, "12:00", slots[len(slots)-1])
}
