package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

// DefaultActivityCapacity is how many feed entries are retained.
const DefaultActivityCapacity = 10

// ActivityRepository is a newest-first list capped at capacity entries.
type ActivityRepository struct {
	mu       sync.RWMutex
	entries  []model.ActivityEntry
	capacity int
}

func NewActivityRepository(capacity int) *ActivityRepository {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityRepository{
		entries:  make([]model.ActivityEntry, 0, capacity+1),
		capacity: capacity,
	}
}

func (r *ActivityRepository) Record(ctx context.Context, entry model.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, model.ActivityEntry{})
	copy(r.entries[1:], r.entries)
	r.entries[0] = cloneEntry(entry)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, n int) ([]model.ActivityEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]model.ActivityEntry, n)
	for i := 0; i < n; i++ {
		out[i] = cloneEntry(r.entries[i])
	}
	return out, nil
}

func cloneEntry(e model.ActivityEntry) model.ActivityEntry {
	if e.Timestamp != nil {
		t := *e.Timestamp
		e.Timestamp = &t
	}
	return e
}
