package model

import "time"

type RequestType string

const (
	RequestVacation       RequestType = "vacation"
	RequestScheduleChange RequestType = "schedule_change"
	RequestRoom           RequestType = "room_request"
)

// RequestStatus only ever holds pending today; approved and rejected are
// reserved for a review flow.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a staff-submitted ask. Type-specific fields are empty for the
// other types.
type Request struct {
	ID       string        `json:"id"`
	UserID   string        `json:"userId"`
	UserName string        `json:"userName"`
	Type     RequestType   `json:"type"`
	Status   RequestStatus `json:"status"`
	Reason   string        `json:"reason"`

	// vacation
	Date         string `json:"date,omitempty"`
	VacationType string `json:"vacationType,omitempty"`

	// schedule_change
	ExchangeWith     string `json:"exchangeWith,omitempty"`
	ExchangeWithName string `json:"exchangeWithName,omitempty"`
	MyDate           string `json:"myDate,omitempty"`
	TheirDate        string `json:"theirDate,omitempty"`

	// room_request
	PreferredRoom string    `json:"preferredRoom,omitempty"`
	PreferredTime *TimeSlot `json:"preferredTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type VacationRequest struct {
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	VacationType string `json:"vacationType" binding:"required,max=32"`
	Reason       string `json:"reason" binding:"max=500"`
}

type ScheduleChangeRequest struct {
	ExchangeWith string `json:"exchangeWith" binding:"required,max=32"`
	MyDate       string `json:"myDate" binding:"required,datetime=2006-01-02"`
	TheirDate    string `json:"theirDate" binding:"required,datetime=2006-01-02"`
	Reason       string `json:"reason" binding:"max=500"`
}

type RoomPreferenceRequest struct {
	PreferredRoom string    `json:"preferredRoom" binding:"required,max=32"`
	PreferredTime *TimeSlot `json:"preferredTime" binding:"omitempty,time_slot"`
	Reason        string    `json:"reason" binding:"max=500"`
}
