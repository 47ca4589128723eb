package engine

import (
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// DetectConflicts checks a proposed (date, start, duration) against a
// learner's entries and reports the overlaps. The proposal occupies the
// half-open interval [start, start+duration); an existing entry conflicts
// iff the intervals intersect, so touching boundaries do not conflict.
// The function is pure: identical inputs produce structurally equal reports.
func DetectConflicts(date, startTime string, durationMinutes int, entries []models.ScheduleEntry) models.ConflictReport {
	report := models.ConflictReport{Severity: models.SeverityLow}

	start, ok := parseClock(startTime)
	if !ok || durationMinutes <= 0 {
		return report
	}
	end := start + durationMinutes

	for _, entry := range entries {
		if entry.Date != date {
			continue
		}
		entryStart, ok := parseClock(entry.StartTime)
		if !ok {
			continue
		}
		entryEnd := entryStart + entry.DurationMinutes
		if start < entryEnd && end > entryStart {
			report.Conflicts = append(report.Conflicts, entry)
		}
	}

	report.HasConflicts = len(report.Conflicts) > 0
	report.Severity = models.SeverityForCount(len(report.Conflicts))
	return report
}
