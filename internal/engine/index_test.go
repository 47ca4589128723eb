package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

func TestBuildSlotIndex(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("e1", "a", "2024-01-08", "09:00", 30),
		entry("e2", "b", "2024-01-08", "09:00", 30),
		entry("e3", "a", "2024-01-08", "10:00", 30),
	}

	index := BuildSlotIndex(entries)
	assert.Len(t, index.At("2024-01-08", "09:00"), 2)
	assert.Len(t, index.At("2024-01-08", "10:00"), 1)
	assert.Empty(t, index.At("2024-01-09", "09:00"))
}

func TestIndexCacheMemoizes(t *testing.T) {
	cache := NewIndexCache(50)
	entries := []models.ScheduleEntry{entry("e1", "a", "2024-01-08", "09:00", 30)}

	first := cache.Get(entries)
	second := cache.Get(entries)
	require.Equal(t, 1, cache.Len())
	assert.Len(t, first.At("2024-01-08", "09:00"), 1)
	assert.Equal(t, first, second)
}

func TestIndexCacheDistinguishesChangedSets(t *testing.T) {
	cache := NewIndexCache(50)
	base := []models.ScheduleEntry{entry("e1", "a", "2024-01-08", "09:00", 30)}
	grown := append(append([]models.ScheduleEntry{}, base...), entry("e2", "a", "2024-01-08", "10:00", 30))

	assert.Len(t, cache.Get(base).At("2024-01-08", "10:00"), 0)
	assert.Len(t, cache.Get(grown).At("2024-01-08", "10:00"), 1)
	assert.Equal(t, 2, cache.Len())
}

func TestIndexCacheBounded(t *testing.T) {
	cache := NewIndexCache(10)
	for i := 0; i < 40; i++ {
		cache.Get([]models.ScheduleEntry{
			entry(fmt.Sprintf("e%d", i), "a", "2024-01-08", "09:00", 30),
		})
	}
	assert.LessOrEqual(t, cache.Len(), 10)
}
