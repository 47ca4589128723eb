package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

func defaultSuggester() Suggester {
	return NewSuggester(NewSlotGrid(nil, 30), 120, 3)
}

func TestSuggestAlternativeTimeAvoidsOccupiedSlots(t *testing.T) {
	entries := []models.ScheduleEntry{entry("e1", "a", "2024-01-08", "09:00", 30)}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:15", 30, entries)
	require.NotEmpty(t, suggestions)

	var sawAlternativeTime bool
	for _, s := range suggestions {
		if s.Kind != models.SuggestionAlternativeTime {
			continue
		}
		sawAlternativeTime = true
		_, ok := parseClock(s.StartTime)
		require.True(t, ok)
		report := DetectConflicts(s.Date, s.StartTime, 30, entries)
		assert.False(t, report.HasConflicts, "slot %s still overlaps", s.StartTime)
	}
	assert.True(t, sawAlternativeTime)
}

func TestSuggestionsNeverConflict(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("e1", "a", "2024-01-08", "09:00", 30),
		entry("e2", "a", "2024-01-08", "10:00", 60),
	}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:15", 30, entries)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		if s.Kind == models.SuggestionShorterDuration {
			continue
		}
		report := DetectConflicts(s.Date, s.StartTime, 30, entries)
		assert.False(t, report.HasConflicts, "suggestion %+v reintroduces a conflict", s)
	}
}

func TestSuggestCapsResults(t *testing.T) {
	entries := []models.ScheduleEntry{entry("e1", "a", "2024-01-08", "09:00", 30)}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:00", 30, entries)
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestSuggestAlternativeDaysWithinWeek(t *testing.T) {
	// Occupy every grid slot on Monday so same-day scanning yields nothing.
	var entries []models.ScheduleEntry
	for i, slot := range NewSlotGrid(nil, 30).Slots() {
		entries = append(entries, entry(string(rune('a'+i)), "a", "2024-01-08", slot, 30))
	}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:00", 30, entries)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.Equal(t, models.SuggestionAlternativeDay, s.Kind)
		assert.NotEqual(t, "2024-01-08", s.Date)
		assert.Equal(t, "09:00", s.StartTime)
	}
}

func TestSuggestShorterDurationReducesConflictCount(t *testing.T) {
	// Two back-to-back blockers: a 45-minute proposal at 09:00 hits both,
	// the 30-minute variant only the first. The fallback is offered even
	// though one overlap remains.
	entries := []models.ScheduleEntry{
		entry("e1", "a", "2024-01-08", "09:00", 30),
		entry("e2", "a", "2024-01-08", "09:30", 30),
	}
	full := make([]models.ScheduleEntry, 0, len(entries))
	full = append(full, entries...)
	// Block the rest of the week at 09:00 and nearby slots so the shorter
	// duration is reachable within the cap.
	for _, day := range weekDates("2024-01-08") {
		if day == "2024-01-08" {
			continue
		}
		full = append(full, entry("blk-"+day, "a", day, "09:00", 30))
	}
	for _, slot := range []string{"07:00", "07:30", "08:00", "08:30", "10:00", "10:30", "11:00"} {
		full = append(full, entry("blk2-"+slot, "a", "2024-01-08", slot, 30))
	}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:00", 45, full)
	var shorter *models.Suggestion
	for i := range suggestions {
		if suggestions[i].Kind == models.SuggestionShorterDuration {
			shorter = &suggestions[i]
		}
	}
	require.NotNil(t, shorter)
	assert.Equal(t, 30, shorter.DurationMinutes)

	before := len(DetectConflicts("2024-01-08", "09:00", 45, full).Conflicts)
	after := len(DetectConflicts("2024-01-08", "09:00", 30, full).Conflicts)
	assert.Less(t, after, before)
}

func TestSuggestSkipsShortProposals(t *testing.T) {
	var full []models.ScheduleEntry
	for _, day := range weekDates("2024-01-08") {
		for _, slot := range NewSlotGrid(nil, 30).Slots() {
			full = append(full, entry("b-"+day+slot, "a", day, slot, 30))
		}
	}

	suggestions := defaultSuggester().Suggest("2024-01-08", "09:00", 15, full)
	for _, s := range suggestions {
		assert.NotEqual(t, models.SuggestionShorterDuration, s.Kind)
	}
}
