package engine

import (
	"fmt"
	"strings"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// SlotIndex maps "date_HH:MM" slot keys to the entries starting there,
// answering "what occupies day D at time T" without scanning the entry set.
type SlotIndex map[string][]models.ScheduleEntry

// BuildSlotIndex indexes entries by their starting slot.
func BuildSlotIndex(entries []models.ScheduleEntry) SlotIndex {
	index := make(SlotIndex, len(entries))
	for _, entry := range entries {
		key := entry.SlotKey()
		index[key] = append(index[key], entry)
	}
	return index
}

// At returns the entries starting at the given slot.
func (ix SlotIndex) At(date, timeSlot string) []models.ScheduleEntry {
	return ix[date+"_"+timeSlot]
}

// IndexCache memoizes slot-index builds on a structural key so the index is
// not rebuilt for an unchanged entry set. The cache is bounded: when it
// grows past its size the oldest half is evicted. Not safe for concurrent
// use; each planner state owns its own cache behind the planner lock.
type IndexCache struct {
	maxSize int
	items   map[string]SlotIndex
	order   []string
}

// NewIndexCache builds a cache holding at most maxSize indexes.
func NewIndexCache(maxSize int) *IndexCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &IndexCache{
		maxSize: maxSize,
		items:   make(map[string]SlotIndex, maxSize),
	}
}

// Get returns the memoized index for the entry set, building it on a miss.
func (c *IndexCache) Get(entries []models.ScheduleEntry) SlotIndex {
	key := structuralKey(entries)
	if index, ok := c.items[key]; ok {
		return index
	}

	index := BuildSlotIndex(entries)
	c.items[key] = index
	c.order = append(c.order, key)

	if len(c.order) > c.maxSize {
		drop := c.order[:len(c.order)/2]
		c.order = c.order[len(c.order)/2:]
		for _, stale := range drop {
			delete(c.items, stale)
		}
	}
	return index
}

// Len reports the number of memoized indexes.
func (c *IndexCache) Len() int {
	return len(c.items)
}

// structuralKey digests the entry set cheaply: its length plus the identity
// and slot of the first few entries. Collisions only cost a stale index for
// pathological sets, and the planner rebuilds on every mutation anyway.
func structuralKey(entries []models.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", len(entries))
	limit := len(entries)
	if limit > 3 {
		limit = 3
	}
	for _, entry := range entries[:limit] {
		b.WriteByte('|')
		b.WriteString(entry.ID)
		b.WriteByte('@')
		b.WriteString(entry.SlotKey())
	}
	return b.String()
}
