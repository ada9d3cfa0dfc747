package activity

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries kept per owner.
const DefaultCapacity = 50

// Kinds of activity entries.
const (
	KindCreated = "task_created"
	KindUpdated = "task_updated"
	KindDeleted = "task_deleted"
)

// Entry is one line of an owner's activity feed.
type Entry struct {
	Kind       string    `json:"kind"`
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed keeps the newest entries per owner in memory.
type Feed struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string][]Entry
}

// NewFeed creates a Feed holding at most capacity entries per owner.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		capacity: capacity,
		entries:  make(map[string][]Entry),
	}
}

// Record appends e to the owner's feed, dropping the oldest entry when full.
func (f *Feed) Record(ownerID string, e Entry) {
	if ownerID == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[ownerID], e)
	if len(list) > f.capacity {
		list = append([]Entry(nil), list[len(list)-f.capacity:]...)
	}
	f.entries[ownerID] = list
}

// Recent returns up to limit entries for ownerID, newest first. A limit of
// zero or less returns everything kept.
func (f *Feed) Recent(ownerID string, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[ownerID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	result := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, list[i])
	}
	return result
}

// Owners returns the number of owners with at least one entry.
func (f *Feed) Owners() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
