package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

func TestPreferenceRepositoryUpsertAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectExec("INSERT INTO schedule_preferences").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.SchedulePreferences{
		LearnerID:            "learner-1",
		PreferredStartTime:   "08:00",
		PreferredEndTime:     "12:00",
		MaxDailyStudyMinutes: 90,
		BreakDurationMinutes: 10,
		StudyDays:            []string{"monday", "wednesday"},
	})
	require.NoError(t, err)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"learner_id", "preferred_start_time", "preferred_end_time",
		"max_daily_study_minutes", "break_duration_minutes",
		"difficult_subjects_morning", "study_days", "updated_at",
	}).AddRow("learner-1", "08:00", "12:00", 90, 10, false, `["monday","wednesday"]`, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_preferences WHERE learner_id = $1")).
		WithArgs("learner-1").
		WillReturnRows(rows)

	prefs, err := repo.GetByLearner(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", prefs.PreferredStartTime)
	assert.Equal(t, []string{"monday", "wednesday"}, prefs.StudyDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_preferences WHERE learner_id = $1")).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLearner(context.Background(), "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
