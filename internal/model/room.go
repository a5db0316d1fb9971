package model

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
)

func (s RoomStatus) Valid() bool {
	return s == RoomAvailable || s == RoomOccupied || s == RoomMaintenance
}

func (t TimeSlot) Valid() bool {
	return t == SlotMorning || t == SlotAfternoon
}

// Room is a procedure room. AssignedTo holds a user's display name.
type Room struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     RoomStatus `json:"status"`
	AssignedTo *string    `json:"assignedTo"`
	TimeSlot   *TimeSlot  `json:"timeSlot"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// RoomUpdate replaces every mutable field of a room.
type RoomUpdate struct {
	Status     RoomStatus `json:"status" binding:"required,room_status"`
	AssignedTo *string    `json:"assignedTo" binding:"omitempty,max=64"`
	TimeSlot   *TimeSlot  `json:"timeSlot" binding:"omitempty,time_slot"`
}

// ConfigureRoomsRequest replaces the whole room collection.
type ConfigureRoomsRequest struct {
	Count int `json:"count" binding:"required,min=1,max=20"`
}
