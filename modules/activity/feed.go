package activity

import (
	"sync"
	"time"
)

// Entry types recorded in the feed.
const (
	TypeTaskCreated       = "task_created"
	TypeTaskUpdated       = "task_updated"
	TypeTaskStatusChanged = "task_status_changed"
	TypeTaskDeleted       = "task_deleted"
)

// Entry is one recorded task change. UserID is the owner of the task.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent entries in a fixed-size ring. Once full, each
// append overwrites the oldest entry.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{entries: make([]Entry, capacity)}
}

// Append records e.
func (f *Feed) Append(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Len returns the number of stored entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.full {
		return len(f.entries)
	}
	return f.next
}

// Capacity returns the maximum number of stored entries.
func (f *Feed) Capacity() int {
	return len(f.entries)
}

// Recent returns up to limit entries, newest first. A non-empty owner keeps
// only entries for that owner's tasks.
func (f *Feed) Recent(owner string, limit int) []Entry {
	if limit < 1 {
		return []Entry{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.entries)
	}

	result := make([]Entry, 0, min(limit, size))
	for i := 1; i <= size && len(result) < limit; i++ {
		e := f.entries[(f.next-i+len(f.entries))%len(f.entries)]
		if owner != "" && e.UserID != owner {
			continue
		}
		result = append(result, e)
	}
	return result
}
