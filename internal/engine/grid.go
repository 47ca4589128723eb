package engine

import (
	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// SlotGrid produces the addressable time slots of a study day. The grid is
// derived from a learner's preferred window at a fixed resolution; it is
// recomputed from preferences, never cached across preference changes.
type SlotGrid struct {
	startMin int
	endMin   int
	stepMin  int
}

// NewSlotGrid builds a grid from preferences. A nil preference set or a
// degenerate window (end at or before start) falls back to the default
// 09:00-15:00 window. Slot resolution defaults to 30 minutes.
func NewSlotGrid(prefs *models.SchedulePreferences, slotMinutes int) SlotGrid {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}

	start, end := 0, 0
	ok := false
	if prefs != nil {
		var startOK, endOK bool
		start, startOK = parseClock(prefs.PreferredStartTime)
		end, endOK = parseClock(prefs.PreferredEndTime)
		ok = startOK && endOK && end > start
	}
	if !ok {
		start, _ = parseClock(models.DefaultPreferredStartTime)
		end, _ = parseClock(models.DefaultPreferredEndTime)
	}

	return SlotGrid{startMin: start, endMin: end, stepMin: slotMinutes}
}

// Slots returns the ordered slot labels, inclusive of the boundary hour.
func (g SlotGrid) Slots() []string {
	labels := make([]string, 0, (g.endMin-g.startMin)/g.stepMin+2)
	iter := g.Iter()
	for {
		label, ok := iter.Next()
		if !ok {
			break
		}
		labels = append(labels, label)
	}
	return labels
}

// Contains reports whether the label is one of the grid's slots.
func (g SlotGrid) Contains(label string) bool {
	minutes, ok := parseClock(label)
	if !ok {
		return false
	}
	if minutes < g.startMin || minutes > g.endMin {
		return false
	}
	return (minutes-g.startMin)%g.stepMin == 0
}

// Iter returns a restartable iterator over the grid's slots.
func (g SlotGrid) Iter() *SlotIter {
	return &SlotIter{grid: g, cursor: g.startMin}
}

// SlotIter walks the grid lazily. It is finite and restartable.
type SlotIter struct {
	grid   SlotGrid
	cursor int
}

// Next yields the next slot label, or false when the grid is exhausted.
func (it *SlotIter) Next() (string, bool) {
	if it.cursor > it.grid.endMin {
		return "", false
	}
	label := formatClock(it.cursor)
	it.cursor += it.grid.stepMin
	return label, true
}

// Reset rewinds the iterator to the first slot.
func (it *SlotIter) Reset() {
	it.cursor = it.grid.startMin
}
