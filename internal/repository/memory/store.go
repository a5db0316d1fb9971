// Package memory holds the process-local data store. Every collection has
// its own lock so a read always observes a complete prior write.
package memory

import (
	"github.com/jwalitptl/endoscopy-scheduler/pkg/security"
)

// Store owns every collection. Build one per process (or per test) and hand
// it to the services; nothing here is package-global.
type Store struct {
	Users      *UserRepository
	Rooms      *RoomRepository
	Schedules  *ScheduleRepository
	Requests   *RequestRepository
	Activities *ActivityRepository
}

func NewStore(hasher security.PasswordHasher) *Store {
	return &Store{
		Users:      NewUserRepository(hasher),
		Rooms:      NewRoomRepository(),
		Schedules:  NewScheduleRepository(),
		Requests:   NewRequestRepository(),
		Activities: NewActivityRepository(DefaultActivityCapacity),
	}
}
