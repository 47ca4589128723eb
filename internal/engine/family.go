package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// Coordinate aggregates the merged entry set of the selected learners into
// a family-wide report: slot collisions, per-learner load statistics and
// the coordination mode the household should plan around.
func Coordinate(selected []models.Learner, entries []models.ScheduleEntry) models.FamilyCoordination {
	return CoordinateIndexed(selected, entries, nil)
}

// CoordinateIndexed is Coordinate with a caller-supplied slot index, so a
// memoized index can be reused across recomputes. A nil index is built on
// the spot.
func CoordinateIndexed(selected []models.Learner, entries []models.ScheduleEntry, index SlotIndex) models.FamilyCoordination {
	if len(selected) <= 1 {
		return models.FamilyCoordination{
			IsMultiChild: false,
			Mode:         models.CoordinationSingle,
			Conflicts:    []models.FamilyConflict{},
			LoadBalance:  models.LoadBalance{Balanced: true},
		}
	}

	if index == nil {
		index = BuildSlotIndex(entries)
	}
	conflicts := familyConflicts(index)
	balance := loadBalance(selected, entries)

	mode := models.CoordinationParallel
	switch {
	case len(conflicts) > 3:
		mode = models.CoordinationSequential
	case len(conflicts) > 0:
		mode = models.CoordinationStaggered
	}

	return models.FamilyCoordination{
		IsMultiChild: true,
		Mode:         mode,
		Conflicts:    conflicts,
		LoadBalance:  balance,
	}
}

func familyConflicts(index SlotIndex) []models.FamilyConflict {
	conflicts := make([]models.FamilyConflict, 0)
	for key, slotEntries := range index {
		if len(slotEntries) < 2 {
			continue
		}
		severity := models.SeverityMedium
		suggestion := "two sessions share this slot; manageable with preparation"
		if len(slotEntries) >= 3 {
			severity = models.SeverityHigh
			suggestion = "several sessions collide here; stagger them by 15-30 minutes"
		}
		conflicts = append(conflicts, models.FamilyConflict{
			SlotKey:        key,
			Entries:        slotEntries,
			Severity:       severity,
			SuggestionText: suggestion,
		})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].SlotKey < conflicts[j].SlotKey
	})
	return conflicts
}

func loadBalance(selected []models.Learner, entries []models.ScheduleEntry) models.LoadBalance {
	counts := make(map[string]int, len(selected))
	minutes := make(map[string]int, len(selected))
	names := make(map[string]string, len(selected))
	for _, learner := range selected {
		counts[learner.ID] = 0
		names[learner.ID] = learner.Name
	}
	for _, entry := range entries {
		if _, ok := counts[entry.LearnerID]; !ok {
			continue
		}
		counts[entry.LearnerID]++
		minutes[entry.LearnerID] += entry.DurationMinutes
	}

	loads := make([]models.LearnerLoad, 0, len(selected))
	total := 0
	for _, learner := range selected {
		count := counts[learner.ID]
		total += count
		avg := 0.0
		if count > 0 {
			avg = float64(minutes[learner.ID]) / float64(count)
		}
		loads = append(loads, models.LearnerLoad{
			LearnerID:            learner.ID,
			EventCount:           count,
			AverageSessionLength: avg,
		})
	}

	mean := float64(total) / float64(len(selected))
	balanced := true
	var overloaded []string
	for _, load := range loads {
		diff := float64(load.EventCount) - mean
		if diff > 2 || diff < -2 {
			balanced = false
		}
		if diff > 2 {
			name := names[load.LearnerID]
			if name == "" {
				name = load.LearnerID
			}
			overloaded = append(overloaded, name)
		}
	}

	var recommendations []string
	if !balanced && len(overloaded) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%s carries more sessions than the rest of the family; move some to a lighter learner or day",
			strings.Join(overloaded, " and "),
		))
	}

	return models.LoadBalance{
		Learners:        loads,
		AverageLoad:     mean,
		Balanced:        balanced,
		Recommendations: recommendations,
	}
}
