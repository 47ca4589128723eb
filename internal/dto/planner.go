package dto

import (
	"time"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// PlannerSnapshot is the aggregate state the calendar UI renders from.
type PlannerSnapshot struct {
	FamilyID         string                    `json:"family_id"`
	Learners         []models.Learner          `json:"learners"`
	Entries          []models.ScheduleEntry    `json:"entries"`
	CoordinationMode models.CoordinationMode   `json:"coordination_mode"`
	FamilyConflicts  []models.FamilyConflict   `json:"family_conflicts"`
	LoadBalance      models.LoadBalance        `json:"load_balance"`
	Context          models.AdaptiveContext    `json:"context"`
	Recommendations  []models.Recommendation   `json:"recommendations"`
	PendingSync      int                       `json:"pending_sync"`
	GeneratedAt      time.Time                 `json:"generated_at"`
}

// RosterRequest registers the learners visible in the planner.
type RosterRequest struct {
	Learners []models.Learner `json:"learners" binding:"required,min=1,dive"`
}

// CheckRequest describes a proposed session to test for conflicts.
type CheckRequest struct {
	LearnerID       string `json:"learner_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

// CreateEntryRequest describes a new study session.
type CreateEntryRequest struct {
	LearnerID       string  `json:"learner_id" validate:"required"`
	SubjectName     string  `json:"subject_name" validate:"required"`
	Date            string  `json:"scheduled_date" validate:"required"`
	StartTime       string  `json:"start_time" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=5"`
	MaterialRef     *string `json:"material_ref,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	CreatedBy       string  `json:"created_by" validate:"omitempty,oneof=parent ai_suggestion"`
}

// BatchCreateRequest carries several sessions applied as one unit of work.
type BatchCreateRequest struct {
	Items []CreateEntryRequest `json:"items" binding:"required,min=1"`
}

// BatchItemFailure reports a rejected item within a batch. Conflicts carries
// the sessions the store reported as colliding with the item.
type BatchItemFailure struct {
	Index     int                    `json:"index"`
	Message   string                 `json:"message"`
	Conflicts []models.ScheduleEntry `json:"conflicts,omitempty"`
}

// BatchCreateResult summarises a batch apply.
type BatchCreateResult struct {
	Created  []models.ScheduleEntry `json:"created"`
	Failures []BatchItemFailure     `json:"failures"`
}

// StatusRequest transitions a session through its lifecycle.
type StatusRequest struct {
	Status models.EntryStatus `json:"status" binding:"required"`
}

// IntentRequest records the latest user activity signal.
type IntentRequest struct {
	Intent models.Intent `json:"intent" binding:"required"`
}

// PreferencesRequest replaces a learner's scheduling preferences.
type PreferencesRequest struct {
	PreferredStartTime   string   `json:"preferred_start_time" validate:"required"`
	PreferredEndTime     string   `json:"preferred_end_time" validate:"required"`
	MaxDailyStudyMinutes int      `json:"max_daily_study_minutes" validate:"required,min=30"`
	BreakDurationMinutes int      `json:"break_duration_minutes" validate:"required,min=5"`
	DifficultSubjectsMorning bool `json:"difficult_subjects_morning"`
	StudyDays            []string `json:"study_days" validate:"required,min=1"`
}

// ExportLink points at a stored export file with a signed download token.
type ExportLink struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	Format    string    `json:"format"`
	ExpiresAt time.Time `json:"expires_at"`
}
