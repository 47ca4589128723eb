package models

import "time"

// EntryStatus tracks the lifecycle of a study session.
type EntryStatus string

const (
	EntryStatusScheduled EntryStatus = "scheduled"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusSkipped   EntryStatus = "skipped"
)

// Terminal reports whether the status accepts no further transitions.
func (s EntryStatus) Terminal() bool {
	return s == EntryStatusCompleted || s == EntryStatusSkipped
}

// EntryOrigin records who created an entry. Provenance only; it never
// changes engine behaviour.
type EntryOrigin string

const (
	EntryOriginParent       EntryOrigin = "parent"
	EntryOriginAISuggestion EntryOrigin = "ai_suggestion"
)

// SyncState tracks reconciliation of a local record against the upstream
// schedule store.
type SyncState string

const (
	SyncPendingLocal SyncState = "pending_local"
	SyncConfirmed    SyncState = "confirmed"
	SyncConflicted   SyncState = "conflicted"
)

// ScheduleEntry is one planned or completed study session for a learner.
// Date is "2006-01-02", StartTime is "15:04" at minute resolution.
type ScheduleEntry struct {
	ID              string      `db:"id" json:"id"`
	LearnerID       string      `db:"learner_id" json:"learner_id"`
	MaterialRef     *string     `db:"material_ref" json:"material_ref,omitempty"`
	SubjectName     string      `db:"subject_name" json:"subject_name"`
	Date            string      `db:"scheduled_date" json:"scheduled_date"`
	StartTime       string      `db:"start_time" json:"start_time"`
	DurationMinutes int         `db:"duration_minutes" json:"duration_minutes"`
	Status          EntryStatus `db:"status" json:"status"`
	CreatedBy       EntryOrigin `db:"created_by" json:"created_by"`
	Notes           string      `db:"notes" json:"notes,omitempty"`
	SyncState       SyncState   `db:"sync_state" json:"sync_state"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// SlotKey addresses the (day, time) slot the entry starts in.
func (e ScheduleEntry) SlotKey() string {
	return e.Date + "_" + e.StartTime
}

// EntryPatch carries the partial fields of an entry update. Nil fields are
// left untouched.
type EntryPatch struct {
	SubjectName     *string `json:"subject_name,omitempty"`
	MaterialRef     *string `json:"material_ref,omitempty"`
	Date            *string `json:"scheduled_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Learner identifies one child on the household roster.
type Learner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
