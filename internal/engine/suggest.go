package engine

import (
	"fmt"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// Suggester proposes conflict-avoiding variants of a rejected proposal.
// Candidates are re-validated with DetectConflicts before being offered, so
// a suggestion never introduces a new conflict. The one exception is the
// shorter-duration fallback, which is offered whenever it strictly reduces
// the conflict count even if some overlap remains: a least-bad option for
// slots with no conflict-free alternative.
type Suggester struct {
	grid       SlotGrid
	windowMins int
	maxResults int
}

// NewSuggester builds a suggester over the given grid. windowMins bounds the
// same-day scan around the original slot (default 120), maxResults caps the
// combined result list (default 3).
func NewSuggester(grid SlotGrid, windowMins, maxResults int) Suggester {
	if windowMins <= 0 {
		windowMins = 120
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return Suggester{grid: grid, windowMins: windowMins, maxResults: maxResults}
}

// Suggest generates up to maxResults suggestions for a conflicted proposal,
// in priority order: alternative times the same day, alternative days the
// same week, then a shortened duration. entries is the learner's full entry
// set. Call only after DetectConflicts reported a conflict.
func (s Suggester) Suggest(date, startTime string, durationMinutes int, entries []models.ScheduleEntry) []models.Suggestion {
	suggestions := make([]models.Suggestion, 0, s.maxResults)
	original, ok := parseClock(startTime)
	if !ok {
		return suggestions
	}

	iter := s.grid.Iter()
	for len(suggestions) < s.maxResults {
		slot, more := iter.Next()
		if !more {
			break
		}
		candidate, _ := parseClock(slot)
		offset := candidate - original
		if offset == 0 || offset < -s.windowMins || offset > s.windowMins {
			continue
		}
		if DetectConflicts(date, slot, durationMinutes, entries).HasConflicts {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			Kind:      models.SuggestionAlternativeTime,
			Date:      date,
			StartTime: slot,
			Reason:    offsetReason(offset),
		})
	}

	for _, day := range weekDates(date) {
		if len(suggestions) >= s.maxResults {
			break
		}
		if day == date {
			continue
		}
		if DetectConflicts(day, startTime, durationMinutes, entries).HasConflicts {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			Kind:      models.SuggestionAlternativeDay,
			Date:      day,
			StartTime: startTime,
			Reason:    fmt.Sprintf("%s is free at %s", weekdayName(day), startTime),
		})
	}

	if len(suggestions) < s.maxResults && durationMinutes > 15 {
		shorter := durationMinutes - 15
		before := len(DetectConflicts(date, startTime, durationMinutes, entries).Conflicts)
		after := len(DetectConflicts(date, startTime, shorter, entries).Conflicts)
		if after < before {
			suggestions = append(suggestions, models.Suggestion{
				Kind:            models.SuggestionShorterDuration,
				Date:            date,
				StartTime:       startTime,
				DurationMinutes: shorter,
				Reason:          fmt.Sprintf("a %d-minute session fits better in this slot", shorter),
			})
		}
	}

	return suggestions
}

func offsetReason(offset int) string {
	if offset < 0 {
		return fmt.Sprintf("available %d minutes earlier", -offset)
	}
	return fmt.Sprintf("available %d minutes later", offset)
}
