package models

// Severity grades a conflict report by how crowded the slot is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityForCount derives severity from the number of overlapping entries.
func SeverityForCount(count int) Severity {
	switch {
	case count > 2:
		return SeverityHigh
	case count > 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ConflictReport is the outcome of checking a proposed (day, time, duration)
// against one learner's entries. Absence of conflict is a normal report, not
// an error.
type ConflictReport struct {
	HasConflicts bool            `json:"has_conflicts"`
	Conflicts    []ScheduleEntry `json:"conflicts"`
	Severity     Severity        `json:"severity"`
	Suggestions  []Suggestion    `json:"suggestions,omitempty"`
}

// SuggestionKind tags the variant of a resolution suggestion.
type SuggestionKind string

const (
	SuggestionAlternativeTime SuggestionKind = "alternative_time"
	SuggestionAlternativeDay  SuggestionKind = "alternative_day"
	SuggestionShorterDuration SuggestionKind = "shorter_duration"
)

// Suggestion proposes a conflict-avoiding variant of the original proposal.
// DurationMinutes is set only for the shorter_duration kind.
type Suggestion struct {
	Kind            SuggestionKind `json:"kind"`
	Date            string         `json:"scheduled_date"`
	StartTime       string         `json:"start_time"`
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	Reason          string         `json:"reason"`
}

// FamilyConflict reports a slot occupied by two or more entries across the
// selected learners.
type FamilyConflict struct {
	SlotKey        string          `json:"slot_key"`
	Entries        []ScheduleEntry `json:"entries"`
	Severity       Severity        `json:"severity"`
	SuggestionText string          `json:"suggestion_text"`
}

// EntryConflictError is returned when the upstream store rejects a write
// with a conflict verdict. It is surfaced verbatim, never silently retried.
type EntryConflictError struct {
	Message   string          `json:"message"`
	Conflicts []ScheduleEntry `json:"conflicts,omitempty"`
}

// Error implements the error interface.
func (e *EntryConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
