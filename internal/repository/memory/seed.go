package memory

import (
	"context"
	"fmt"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

// SeedUser is a demo account with its plaintext password, hashed on load.
type SeedUser struct {
	model.User
	Password string
}

var DemoUsers = []SeedUser{
	{User: model.User{ID: "001", Name: "Dr. Kim", Role: model.RoleDoctor, Department: "Endoscopy"}, Password: "user123"},
	{User: model.User{ID: "002", Name: "Nurse Lee", Role: model.RoleNurse, Department: "Endoscopy"}, Password: "user123"},
	{User: model.User{ID: "003", Name: "Tech Park", Role: model.RoleTechnician, Department: "Endoscopy"}, Password: "user123"},
	{User: model.User{ID: "admin", Name: "Administrator", Role: model.RoleAdmin, Department: "Administration"}, Password: "admin123"},
}

func demoRooms() []*model.Room {
	kim, lee := "Dr. Kim", "Nurse Lee"
	morning, afternoon := model.SlotMorning, model.SlotAfternoon
	return []*model.Room{
		{ID: "room1", Name: "Room 1", Status: model.RoomAvailable},
		{ID: "room2", Name: "Room 2", Status: model.RoomOccupied, AssignedTo: &kim, TimeSlot: &morning},
		{ID: "room3", Name: "Room 3", Status: model.RoomAvailable},
		{ID: "room4", Name: "Room 4", Status: model.RoomOccupied, AssignedTo: &lee, TimeSlot: &afternoon},
	}
}

// demoActivities are listed oldest first so Record leaves the newest on top.
var demoActivities = []model.ActivityEntry{
	{Type: model.ActivitySchedule, Message: "The schedule was changed.", Time: "2 hours ago", Icon: "fa-calendar-alt"},
	{Type: model.ActivityAssignment, Message: "Room assignments were updated.", Time: "1 hour ago", Icon: "fa-door-open"},
	{Type: model.ActivityRequest, Message: "Nurse Lee requested a vacation.", Time: "30 minutes ago", Icon: "fa-calendar-times"},
	{Type: model.ActivityLogin, Message: "Dr. Kim logged in.", Time: "10 minutes ago", Icon: "fa-sign-in-alt"},
}

// Seed loads the demo users, rooms and activity feed into an empty store.
func (s *Store) Seed(ctx context.Context) error {
	for _, su := range DemoUsers {
		hash, err := s.Users.hasher.Hash(su.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.ID, err)
		}
		u := su.User
		u.PasswordHash = hash
		if err := s.Users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", su.ID, err)
		}
	}

	if err := s.Rooms.ReplaceAll(ctx, demoRooms()); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	for _, a := range demoActivities {
		if err := s.Activities.Record(ctx, a); err != nil {
			return fmt.Errorf("seed activities: %w", err)
		}
	}
	return nil
}
