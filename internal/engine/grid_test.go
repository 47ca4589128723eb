package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

func TestSlotGridDefaultWindow(t *testing.T) {
	grid := NewSlotGrid(nil, 30)
	slots := grid.Slots()

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "15:00", slots[len(slots)-1])
	assert.Len(t, slots, 13)
}

func TestSlotGridFromPreferences(t *testing.T) {
	prefs := &models.SchedulePreferences{
		PreferredStartTime: "08:00",
		PreferredEndTime:   "10:00",
	}
	slots := NewSlotGrid(prefs, 30).Slots()
	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30", "10:00"}, slots)
}

func TestSlotGridDegenerateWindowFallsBack(t *testing.T) {
	prefs := &models.SchedulePreferences{
		PreferredStartTime: "16:00",
		PreferredEndTime:   "09:00",
	}
	slots := NewSlotGrid(prefs, 30).Slots()
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "15:00", slots[len(slots)-1])
}

func TestSlotGridMalformedTimesFallBack(t *testing.T) {
	prefs := &models.SchedulePreferences{
		PreferredStartTime: "morning",
		PreferredEndTime:   "late",
	}
	slots := NewSlotGrid(prefs, 30).Slots()
	assert.Equal(t, "09:00", slots[0])
}

func TestSlotIterRestartable(t *testing.T) {
	iter := NewSlotGrid(nil, 30).Iter()

	first, ok := iter.Next()
	require.True(t, ok)
	assert.Equal(t, "09:00", first)

	for {
		if _, more := iter.Next(); !more {
			break
		}
	}

	iter.Reset()
	again, ok := iter.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestSlotGridContains(t *testing.T) {
	grid := NewSlotGrid(nil, 30)
	assert.True(t, grid.Contains("09:30"))
	assert.False(t, grid.Contains("09:15"))
	assert.False(t, grid.Contains("16:00"))
	assert.False(t, grid.Contains("bogus"))
}
