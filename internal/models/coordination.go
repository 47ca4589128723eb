package models

// CoordinationMode classifies how tightly a household's schedule must be
// sequenced.
type CoordinationMode string

const (
	CoordinationSingle     CoordinationMode = "single"
	CoordinationParallel   CoordinationMode = "parallel"
	CoordinationStaggered  CoordinationMode = "staggered"
	CoordinationSequential CoordinationMode = "sequential"
)

// LearnerLoad summarises one learner's share of the week.
type LearnerLoad struct {
	LearnerID            string  `json:"learner_id"`
	EventCount           int     `json:"event_count"`
	AverageSessionLength float64 `json:"average_session_length"`
}

// LoadBalance reports how evenly sessions are distributed across learners.
// Balanced means every learner's event count is within 2 of the mean.
type LoadBalance struct {
	Learners        []LearnerLoad `json:"learners"`
	AverageLoad     float64       `json:"average_load"`
	Balanced        bool          `json:"balanced"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// FamilyCoordination is the Multi-Learner Coordinator's full report.
type FamilyCoordination struct {
	IsMultiChild bool             `json:"is_multi_child"`
	Mode         CoordinationMode `json:"coordination_mode"`
	Conflicts    []FamilyConflict `json:"conflicts"`
	LoadBalance  LoadBalance      `json:"load_balance"`
}
