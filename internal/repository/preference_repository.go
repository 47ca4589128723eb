package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// PreferenceRepository keeps the last-known-good copy of a learner's
// schedule preferences, used when the upstream store is unreachable.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates the preference repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

type preferenceRow struct {
	LearnerID                string         `db:"learner_id"`
	PreferredStartTime       string         `db:"preferred_start_time"`
	PreferredEndTime         string         `db:"preferred_end_time"`
	MaxDailyStudyMinutes     int            `db:"max_daily_study_minutes"`
	BreakDurationMinutes     int            `db:"break_duration_minutes"`
	DifficultSubjectsMorning bool           `db:"difficult_subjects_morning"`
	StudyDays                types.JSONText `db:"study_days"`
	UpdatedAt                time.Time      `db:"updated_at"`
}

// GetByLearner loads the local preference copy. sql.ErrNoRows passes
// through when nothing is stored.
func (r *PreferenceRepository) GetByLearner(ctx context.Context, learnerID string) (*models.SchedulePreferences, error) {
	const query = `SELECT learner_id, preferred_start_time, preferred_end_time, max_daily_study_minutes, break_duration_minutes, difficult_subjects_morning, study_days, updated_at FROM schedule_preferences WHERE learner_id = $1`
	var row preferenceRow
	if err := r.db.GetContext(ctx, &row, query, learnerID); err != nil {
		return nil, err
	}
	return row.toModel()
}

// Upsert stores the preference copy for a learner.
func (r *PreferenceRepository) Upsert(ctx context.Context, prefs *models.SchedulePreferences) error {
	days, err := json.Marshal(prefs.StudyDays)
	if err != nil {
		return fmt.Errorf("marshal study days: %w", err)
	}
	row := preferenceRow{
		LearnerID:                prefs.LearnerID,
		PreferredStartTime:       prefs.PreferredStartTime,
		PreferredEndTime:         prefs.PreferredEndTime,
		MaxDailyStudyMinutes:     prefs.MaxDailyStudyMinutes,
		BreakDurationMinutes:     prefs.BreakDurationMinutes,
		DifficultSubjectsMorning: prefs.DifficultSubjectsMorning,
		StudyDays:                types.JSONText(days),
		UpdatedAt:                time.Now().UTC(),
	}

	const query = `INSERT INTO schedule_preferences (learner_id, preferred_start_time, preferred_end_time, max_daily_study_minutes, break_duration_minutes, difficult_subjects_morning, study_days, updated_at)
		VALUES (:learner_id, :preferred_start_time, :preferred_end_time, :max_daily_study_minutes, :break_duration_minutes, :difficult_subjects_morning, :study_days, :updated_at)
		ON CONFLICT (learner_id) DO UPDATE SET
			preferred_start_time = EXCLUDED.preferred_start_time,
			preferred_end_time = EXCLUDED.preferred_end_time,
			max_daily_study_minutes = EXCLUDED.max_daily_study_minutes,
			break_duration_minutes = EXCLUDED.break_duration_minutes,
			difficult_subjects_morning = EXCLUDED.difficult_subjects_morning,
			study_days = EXCLUDED.study_days,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert schedule preferences: %w", err)
	}
	return nil
}

func (row preferenceRow) toModel() (*models.SchedulePreferences, error) {
	var days []string
	if len(row.StudyDays) > 0 {
		if err := json.Unmarshal(row.StudyDays, &days); err != nil {
			return nil, fmt.Errorf("unmarshal study days: %w", err)
		}
	}
	return &models.SchedulePreferences{
		LearnerID:                row.LearnerID,
		PreferredStartTime:       row.PreferredStartTime,
		PreferredEndTime:         row.PreferredEndTime,
		MaxDailyStudyMinutes:     row.MaxDailyStudyMinutes,
		BreakDurationMinutes:     row.BreakDurationMinutes,
		DifficultSubjectsMorning: row.DifficultSubjectsMorning,
		StudyDays:                days,
		UpdatedAt:                row.UpdatedAt,
	}, nil
}
