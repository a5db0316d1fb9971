package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

type RoomRepository struct {
	mu    sync.RWMutex
	rooms []*model.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{}
}

func (r *RoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Room, len(r.rooms))
	for i, room := range r.rooms {
		out[i] = cloneRoom(room)
	}
	return out, nil
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneRoom(r.rooms[i]), nil
	}
	return nil, apperrors.NotFound("room")
}

// Replace swaps in a new record carrying every mutable field from update.
// Nothing from the previous status, assignee or slot survives.
func (r *RoomRepository) Replace(ctx context.Context, id string, update model.RoomUpdate, at time.Time) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.NotFound("room")
	}
	prev := r.rooms[i]
	next := &model.Room{
		ID:         prev.ID,
		Name:       prev.Name,
		Status:     update.Status,
		AssignedTo: copyString(update.AssignedTo),
		TimeSlot:   copySlot(update.TimeSlot),
		UpdatedAt:  &at,
	}
	r.rooms[i] = next
	return cloneRoom(next), nil
}

func (r *RoomRepository) ReplaceAll(ctx context.Context, rooms []*model.Room) error {
	seen := make(map[string]struct{}, len(rooms))
	next := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.ID == "" {
			return apperrors.Validation("room id is required", nil)
		}
		if _, dup := seen[room.ID]; dup {
			return apperrors.DuplicateID("room", room.ID)
		}
		seen[room.ID] = struct{}{}
		next = append(next, cloneRoom(room))
	}

	r.mu.Lock()
	r.rooms = next
	r.mu.Unlock()
	return nil
}

func (r *RoomRepository) indexOf(id string) int {
	for i, room := range r.rooms {
		if room.ID == id {
			return i
		}
	}
	return -1
}

func cloneRoom(room *model.Room) *model.Room {
	c := *room
	c.AssignedTo = copyString(room.AssignedTo)
	c.TimeSlot = copySlot(room.TimeSlot)
	if room.UpdatedAt != nil {
		t := *room.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copySlot(s *model.TimeSlot) *model.TimeSlot {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
