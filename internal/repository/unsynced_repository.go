package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// UnsyncedEntryRepository journals locally-synthesized entries that could
// not be written upstream, so degraded writes survive a restart and remain
// visible until the resync worker confirms them.
type UnsyncedEntryRepository struct {
	db *sqlx.DB
}

// NewUnsyncedEntryRepository creates the journal repository.
func NewUnsyncedEntryRepository(db *sqlx.DB) *UnsyncedEntryRepository {
	return &UnsyncedEntryRepository{db: db}
}

const unsyncedColumns = `id, learner_id, material_ref, subject_name, scheduled_date, start_time, duration_minutes, status, created_by, notes, sync_state, created_at, updated_at`

// Save upserts a journal record for a pending-local entry.
func (r *UnsyncedEntryRepository) Save(ctx context.Context, entry *models.ScheduleEntry) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO unsynced_entries (` + unsyncedColumns + `)
		VALUES (:id, :learner_id, :material_ref, :subject_name, :scheduled_date, :start_time, :duration_minutes, :status, :created_by, :notes, :sync_state, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			material_ref = EXCLUDED.material_ref,
			subject_name = EXCLUDED.subject_name,
			scheduled_date = EXCLUDED.scheduled_date,
			start_time = EXCLUDED.start_time,
			duration_minutes = EXCLUDED.duration_minutes,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			sync_state = EXCLUDED.sync_state,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("save unsynced entry: %w", err)
	}
	return nil
}

// List returns all journaled entries ordered by creation time.
func (r *UnsyncedEntryRepository) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	const query = `SELECT ` + unsyncedColumns + ` FROM unsynced_entries ORDER BY created_at ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list unsynced entries: %w", err)
	}
	return entries, nil
}

// ListByLearner returns journaled entries for one learner.
func (r *UnsyncedEntryRepository) ListByLearner(ctx context.Context, learnerID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT ` + unsyncedColumns + ` FROM unsynced_entries WHERE learner_id = $1 ORDER BY created_at ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, learnerID); err != nil {
		return nil, fmt.Errorf("list unsynced entries by learner: %w", err)
	}
	return entries, nil
}

// Delete removes a journal record once the entry is confirmed upstream.
func (r *UnsyncedEntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unsynced_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete unsynced entry: %w", err)
	}
	return nil
}
