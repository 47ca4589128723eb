package models

import "time"

// Default study window used when a learner has no stored preferences or the
// stored window is degenerate.
const (
	DefaultPreferredStartTime = "09:00"
	DefaultPreferredEndTime   = "15:00"
)

// SchedulePreferences holds a learner's study-window settings. They shape
// the time grid and validate settings forms; they do not constrain entry
// creation.
type SchedulePreferences struct {
	LearnerID                string    `db:"learner_id" json:"learner_id"`
	PreferredStartTime       string    `db:"preferred_start_time" json:"preferred_start_time"`
	PreferredEndTime         string    `db:"preferred_end_time" json:"preferred_end_time"`
	MaxDailyStudyMinutes     int       `db:"max_daily_study_minutes" json:"max_daily_study_minutes"`
	BreakDurationMinutes     int       `db:"break_duration_minutes" json:"break_duration_minutes"`
	DifficultSubjectsMorning bool      `db:"difficult_subjects_morning" json:"difficult_subjects_morning"`
	StudyDays                []string  `json:"study_days"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultPreferences returns the fallback window for a learner.
func DefaultPreferences(learnerID string) *SchedulePreferences {
	return &SchedulePreferences{
		LearnerID:            learnerID,
		PreferredStartTime:   DefaultPreferredStartTime,
		PreferredEndTime:     DefaultPreferredEndTime,
		MaxDailyStudyMinutes: 120,
		BreakDurationMinutes: 15,
		StudyDays:            []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
	}
}
