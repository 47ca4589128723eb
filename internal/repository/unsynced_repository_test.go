package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUnsyncedEntryRepositorySaveAndList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUnsyncedEntryRepository(db)

	mock.ExpectExec("INSERT INTO unsynced_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ScheduleEntry{
		ID:              "local-1",
		LearnerID:       "learner-1",
		SubjectName:     "Math",
		Date:            "2024-01-08",
		StartTime:       "09:00",
		DurationMinutes: 30,
		Status:          models.EntryStatusScheduled,
		CreatedBy:       models.EntryOriginParent,
		SyncState:       models.SyncPendingLocal,
	}
	require.NoError(t, repo.Save(context.Background(), entry))
	assert.False(t, entry.UpdatedAt.IsZero())

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "learner_id", "material_ref", "subject_name", "scheduled_date",
		"start_time", "duration_minutes", "status", "created_by", "notes",
		"sync_state", "created_at", "updated_at",
	}).AddRow("local-1", "learner-1", nil, "Math", "2024-01-08", "09:00", 30, "scheduled", "parent", "", "pending_local", now, now)
	mock.ExpectQuery("SELECT (.+) FROM unsynced_entries ORDER BY created_at ASC").
		WillReturnRows(rows)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SyncPendingLocal, entries[0].SyncState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsyncedEntryRepositoryListByLearner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUnsyncedEntryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "learner_id", "material_ref", "subject_name", "scheduled_date",
		"start_time", "duration_minutes", "status", "created_by", "notes",
		"sync_state", "created_at", "updated_at",
	}).AddRow("local-2", "learner-2", nil, "Science", "2024-01-09", "10:00", 45, "scheduled", "parent", "", "pending_local", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM unsynced_entries WHERE learner_id = $1")).
		WithArgs("learner-2").
		WillReturnRows(rows)

	entries, err := repo.ListByLearner(context.Background(), "learner-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "local-2", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsyncedEntryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUnsyncedEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM unsynced_entries WHERE id = $1")).
		WithArgs("local-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "local-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
